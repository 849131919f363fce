// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logstore persists the prompt audit trail: one entry per
// enrichment, recording the original and enhanced prompts, the generation
// provider, and the eventual article count. Writes from the pipeline are
// best-effort; the pipeline never fails because a log write did.
package logstore

import (
	"context"
	"time"
)

// EntryStatus marks the lifecycle of a logged pipeline run.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryCompleted EntryStatus = "completed"
	EntryError     EntryStatus = "error"
)

// Entry is one prompt log record.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	OriginalPrompt string `json:"original_prompt" yaml:"original_prompt"`
	EnhancedPrompt string `json:"enhanced_prompt" yaml:"enhanced_prompt"`

	// Provider tags which generation backend the run used.
	Provider string `json:"provider" yaml:"provider"`

	// ArticleCount is 0 at write time and updated when the run compiles.
	ArticleCount int `json:"article_count" yaml:"article_count"`

	Status EntryStatus `json:"status" yaml:"status"`
}

// Query holds search parameters for the prompt log.
type Query struct {
	// Text is a full-text search string over both prompts.
	Text string

	// Provider filters by generation backend tag.
	Provider string

	// Status filters by entry status.
	Status EntryStatus

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q Query) IsEmpty() bool {
	return q.Text == "" && q.Provider == "" && q.Status == ""
}

// Store reads and writes prompt log entries.
type Store interface {
	Write(ctx context.Context, e Entry) error
	SetArticleCount(ctx context.Context, id string, count int, status EntryStatus) error
	Search(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}
