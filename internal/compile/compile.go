// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile merges completed research tasks into the final article:
// tasks ordered by priority, their successful results merged into
// section-structured content, sources flattened, and images capped.
package compile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// MaxImages caps the article's image list.
const MaxImages = 3

// placeholderRelevance stands in for a scoring model this core does not have.
const placeholderRelevance = 0.85

// Compile builds the article from the full task list, mixed statuses
// included. Only completed results contribute content, sources, and images;
// error results and error tasks are passed over. An empty task list yields
// a degenerate but valid article. Compile never fails.
func Compile(tasks []types.ResearchTask, settings types.ResearchSettings) types.Article {
	sorted := make([]types.ResearchTask, len(tasks))
	copy(sorted, tasks)
	// Stable: equal-priority tasks keep their original relative order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Ordinal() < sorted[j].Priority.Ordinal()
	})

	industry := settings.IndustryOrDefault()
	highTitles := collectHighTitles(sorted)

	var (
		sections []string
		sources  []types.Source
		images   []types.Image
	)
	for _, task := range sorted {
		var contents []string
		for _, r := range task.Results {
			if r.Status != types.ResultCompleted {
				continue
			}
			if r.Content != "" {
				contents = append(contents, r.Content)
			}
			sources = append(sources, r.Sources...)
			images = append(images, r.Images...)
		}

		section := "## " + task.Title
		if len(contents) > 0 {
			section += "\n\n" + strings.Join(contents, "\n\n")
		}
		sections = append(sections, section)
	}

	if sources == nil {
		sources = []types.Source{}
	}
	if images == nil {
		images = []types.Image{}
	}
	if len(images) > MaxImages {
		images = images[:MaxImages]
	}

	return types.Article{
		ID:             uuid.NewString(),
		Title:          deriveTitle(industry, highTitles),
		Summary:        deriveSummary(industry, highTitles),
		Content:        strings.Join(sections, "\n\n"),
		Sources:        sources,
		Images:         images,
		PublishedAt:    time.Now(),
		Category:       industry,
		RelevanceScore: placeholderRelevance,
		Status:         types.ArticlePublished,
	}
}

// collectHighTitles returns the titles of high-priority tasks in sorted
// order.
func collectHighTitles(sorted []types.ResearchTask) []string {
	var titles []string
	for _, t := range sorted {
		if t.Priority == types.PriorityHigh {
			titles = append(titles, t.Title)
		}
	}
	return titles
}

// deriveTitle names the article after the first high-priority task when one
// exists.
func deriveTitle(industry string, highTitles []string) string {
	if len(highTitles) > 0 {
		return fmt.Sprintf("%s Update: %s", industry, highTitles[0])
	}
	return fmt.Sprintf("%s News Update", industry)
}

// deriveSummary references the industry and every high-priority topic.
func deriveSummary(industry string, highTitles []string) string {
	if len(highTitles) == 0 {
		return fmt.Sprintf("The latest %s research findings.", industry)
	}

	lowered := make([]string, len(highTitles))
	for i, t := range highTitles {
		lowered[i] = strings.ToLower(t)
	}
	return fmt.Sprintf("The latest %s research findings, covering %s.", industry, strings.Join(lowered, " and "))
}
