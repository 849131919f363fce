// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a slice-backed Store for mock mode and tests. Text search
// is case-insensitive substring matching over both prompts.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Write appends one entry. An entry with no ID gets a fresh one.
func (m *MemoryStore) Write(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// SetArticleCount records the run outcome on an existing entry.
func (m *MemoryStore) SetArticleCount(ctx context.Context, id string, count int, status EntryStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].ArticleCount = count
			m.entries[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("prompt log entry %s not found", id)
}

// Search filters entries, newest first.
func (m *MemoryStore) Search(ctx context.Context, q Query) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	needle := strings.ToLower(q.Text)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if q.Provider != "" && e.Provider != q.Provider {
			continue
		}
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.OriginalPrompt), needle) &&
			!strings.Contains(strings.ToLower(e.EnhancedPrompt), needle) {
			continue
		}
		out = append(out, e)
		if len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
