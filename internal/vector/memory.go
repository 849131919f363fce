// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vector

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryIndex is an in-memory Index used in mock mode and tests. Similarity
// is token overlap between the query and each document, which is enough to
// make topK ordering observable without an embedding service.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Search scores every document by token overlap with the query and returns
// the topK best, best-first. Documents with no overlap are omitted.
func (m *MemoryIndex) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}

	queryTokens := tokenize(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Match
	for _, d := range m.docs {
		score := overlap(queryTokens, tokenize(d.Title+" "+d.Content))
		if score == 0 {
			continue
		}
		matches = append(matches, Match{Title: d.Title, Content: d.Content, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Upsert stores a document, replacing any existing document with the same ID.
func (m *MemoryIndex) Upsert(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.docs {
		if d.ID == doc.ID {
			m.docs[i] = doc
			return nil
		}
	}
	m.docs = append(m.docs, doc)
	return nil
}

// Close is a no-op for the in-memory index.
func (m *MemoryIndex) Close() error { return nil }

// tokenize lowercases and splits text into a set of words.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(text)) {
		tokens[strings.Trim(f, ".,;:!?\"'()")] = true
	}
	delete(tokens, "")
	return tokens
}

// overlap returns the fraction of query tokens present in the document.
func overlap(query, doc map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for tok := range query {
		if doc[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}
