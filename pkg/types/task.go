// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Priority orders research tasks. Derived from section order: the first two
// sections are high, the next two medium, the remainder low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Ordinal returns the sort rank of a priority: high(0) < medium(1) < low(2).
// Unknown values sort last.
func (p Priority) Ordinal() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Depth controls how thoroughly a task is researched. High-priority tasks
// are deep, all others standard.
type Depth string

const (
	DepthDeep     Depth = "deep"
	DepthStandard Depth = "standard"
	DepthBrief    Depth = "brief"
)

// TaskStatus tracks the lifecycle of a ResearchTask.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskError      TaskStatus = "error"
)

// ResultStatus marks a per-query research result as completed or errored.
type ResultStatus string

const (
	ResultCompleted ResultStatus = "completed"
	ResultError     ResultStatus = "error"
)

// Source is a cited reference attached to a research result.
type Source struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Image is an illustration attached to a research result.
type Image struct {
	URL string `json:"url" yaml:"url"`
	Alt string `json:"alt" yaml:"alt"`
}

// ResearchResult is the outcome of one search query within a task. Exactly
// one result exists per query issued; a failed query yields a terminal
// error result rather than a gap in the sequence.
type ResearchResult struct {
	ID string `json:"id" yaml:"id"`

	// Query is the originating search query, kept for traceability.
	Query string `json:"query" yaml:"query"`

	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	Content string   `json:"content" yaml:"content"`
	Sources []Source `json:"sources" yaml:"sources"`
	Images  []Image  `json:"images" yaml:"images"`

	Status ResultStatus `json:"status" yaml:"status"`

	// Error records the failure message when Status is error.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ResearchTask is the unit of research work derived from one outline
// section. Created by the decomposer, executed by the executor, consumed
// read-only by the compiler.
type ResearchTask struct {
	ID string `json:"id" yaml:"id"`

	// SectionID is a non-owning back-reference to the source ResearchSection.
	SectionID string `json:"section_id" yaml:"section_id"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	Priority Priority `json:"priority" yaml:"priority"`
	Depth    Depth    `json:"depth" yaml:"depth"`

	Status TaskStatus `json:"status" yaml:"status"`

	// AssignedTo names the worker that picked up the task. Empty until
	// execution starts.
	AssignedTo string `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`

	// SearchQueries are generated deterministically from the section and
	// settings, and executed in order.
	SearchQueries []string `json:"search_queries" yaml:"search_queries"`

	// Results holds one ResearchResult per query, in query order.
	Results []ResearchResult `json:"results" yaml:"results"`

	// Error records the task-level failure message when Status is error.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
