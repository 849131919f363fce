// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArticleStatus tracks the publication state of a compiled article.
type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
	ArticleArchived  ArticleStatus = "archived"
)

// Article is the terminal artifact of a pipeline run: the compiled,
// section-structured output of all completed research tasks. It owns copies
// of the result data it aggregates; no shared mutable state survives
// compilation.
type Article struct {
	ID string `json:"id" yaml:"id"`

	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`

	// Content is the per-task section headings and merged result content,
	// joined by blank lines.
	Content string `json:"content" yaml:"content"`

	// Sources are flattened across all completed results of all tasks, in
	// task-priority order. Duplicates are preserved.
	Sources []Source `json:"sources" yaml:"sources"`

	// Images are flattened in the same order and capped at three.
	Images []Image `json:"images" yaml:"images"`

	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// Category is the configured industry, or "General" when unset.
	Category string `json:"category" yaml:"category"`

	// RelevanceScore is a placeholder; no scoring model exists in this core.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	Status ArticleStatus `json:"status" yaml:"status"`
}
