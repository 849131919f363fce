// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the newsroom-engine
// pipeline: research settings, plans, tasks, results, and the compiled
// article.
package types

import "time"

// PlanStatus tracks the lifecycle of a ResearchPlan.
type PlanStatus string

const (
	PlanCreated    PlanStatus = "created"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
	PlanError      PlanStatus = "error"
)

// ResearchSection is one named entry in a plan's table of contents. Section
// ids are stable identifiers referenced by downstream tasks.
type ResearchSection struct {
	// ID is unique within a plan.
	ID string `json:"id" yaml:"id"`

	// Title is the section heading (e.g. "Industry Overview").
	Title string `json:"title" yaml:"title"`

	// Description is a short summary of what the section covers.
	Description string `json:"description" yaml:"description"`
}

// TableOfContents is the titled outline of a research plan.
type TableOfContents struct {
	Title    string            `json:"title" yaml:"title"`
	Sections []ResearchSection `json:"sections" yaml:"sections"`
}

// ResearchPlan is the planner's output: a titled outline derived from an
// enriched prompt. Created once per pipeline run and immutable thereafter.
type ResearchPlan struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// OriginalPrompt is the enriched prompt the plan was derived from.
	OriginalPrompt string `json:"original_prompt" yaml:"original_prompt"`

	TableOfContents TableOfContents `json:"table_of_contents" yaml:"table_of_contents"`

	Status PlanStatus `json:"status" yaml:"status"`
}
