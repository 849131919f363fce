// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package execute runs the search queries of a research task against the
// text-generation capability, producing one result per query. A failing
// query degrades that result only; the remaining queries still run.
package execute

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/newsroom-engine/internal/genai"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// placeholderContent fills a completed result whose backend response had no
// content.
const placeholderContent = "No content was returned for this query."

// Executor runs task queries against one generation backend.
type Executor struct {
	backend genai.Backend
	cfg     types.GenerationConfig
}

// New creates an Executor.
func New(backend genai.Backend, cfg types.GenerationConfig) *Executor {
	return &Executor{backend: backend, cfg: cfg}
}

// Execute issues the task's search queries in order and returns the full
// result sequence, one result per query regardless of individual failures.
// Task-level status is the orchestrator's concern: a returned error means
// the task as a whole failed (misconfiguration or cancellation), while
// per-query failures are recorded as error results and do not abort the
// remaining queries.
func (e *Executor) Execute(ctx context.Context, task types.ResearchTask) ([]types.ResearchResult, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("executing task %q: no generation backend", task.Title)
	}

	results := make([]types.ResearchResult, 0, len(task.SearchQueries))
	for _, query := range task.SearchQueries {
		// Cancellation between queries is task-fatal, not a per-query error.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("executing task %q: %w", task.Title, err)
		}

		resp, err := e.backend.Generate(ctx, query, e.cfg)
		if err != nil {
			results = append(results, types.ResearchResult{
				ID:        uuid.NewString(),
				Query:     query,
				Timestamp: time.Now(),
				Sources:   []types.Source{},
				Images:    []types.Image{},
				Status:    types.ResultError,
				Error:     err.Error(),
			})
			continue
		}

		results = append(results, buildResult(query, resp))
	}
	return results, nil
}

// buildResult converts a backend response into a completed result, applying
// defaults for fields the backend omitted.
func buildResult(query string, resp genai.Response) types.ResearchResult {
	content := resp.Content
	if content == "" {
		content = placeholderContent
	}
	sources := resp.Sources
	if sources == nil {
		sources = []types.Source{}
	}
	images := resp.Images
	if images == nil {
		images = []types.Image{}
	}

	return types.ResearchResult{
		ID:        uuid.NewString(),
		Query:     query,
		Timestamp: time.Now(),
		Content:   content,
		Sources:   sources,
		Images:    images,
		Status:    types.ResultCompleted,
	}
}
