// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vector provides similarity lookup over organization context
// documents. The pipeline's enrichment stage queries an Index for the
// documents most relevant to the configured organization profile.
package vector

import "context"

// Match is one similarity hit: a context document with its score.
type Match struct {
	Title   string  `json:"title" yaml:"title"`
	Content string  `json:"content" yaml:"content"`
	Score   float64 `json:"score" yaml:"score"`
}

// Document is a context document stored in an index.
type Document struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Index looks up context documents by similarity. Implementations must
// return matches best-first. Absence of matches is not an error.
type Index interface {
	Search(ctx context.Context, query string, topK int) ([]Match, error)
	Upsert(ctx context.Context, doc Document) error
	Close() error
}
