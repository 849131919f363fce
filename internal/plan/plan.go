// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan derives a research plan from the configured settings: a
// titled outline whose sections the decomposer later turns into tasks.
package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/newsroom-engine/internal/enrich"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// DefaultBasePrompt is used when settings carry no base prompt.
const DefaultBasePrompt = "Research current news and developments relevant to the organization."

// outlineSections is the fixed table of contents every plan carries, in
// order. The first two sections become high-priority tasks downstream.
var outlineSections = []struct {
	title       string
	description string
}{
	{"Industry Overview", "Current state and recent developments in the industry."},
	{"Competitor Analysis", "Recent moves, announcements, and positioning of key competitors."},
	{"Market Opportunities", "Emerging markets, segments, and unmet demand."},
	{"Regulatory Changes", "New and upcoming regulation affecting the industry."},
	{"Technology Innovations", "Technology shifts and innovations shaping the space."},
}

// Planner produces ResearchPlans. The enricher supplies the enhanced prompt
// recorded on the plan.
type Planner struct {
	enricher *enrich.Enricher
}

// New creates a Planner.
func New(enricher *enrich.Enricher) *Planner {
	return &Planner{enricher: enricher}
}

// Plan builds the research plan for one pipeline run. It enriches the base
// prompt (or the default when settings omit one) and lays out the fixed
// outline. It also returns the prompt log entry ID from enrichment, empty
// when no entry was written. Errors propagate to the caller; the
// orchestrator treats them as run-fatal.
func (p *Planner) Plan(ctx context.Context, settings types.ResearchSettings) (*types.ResearchPlan, string, error) {
	if p.enricher == nil {
		return nil, "", fmt.Errorf("planner has no enricher")
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	basePrompt := settings.BasePrompt
	if basePrompt == "" {
		basePrompt = DefaultBasePrompt
	}

	enhanced, logID := p.enricher.Enhance(ctx, basePrompt, settings)

	sections := make([]types.ResearchSection, len(outlineSections))
	for i, s := range outlineSections {
		sections[i] = types.ResearchSection{
			ID:          uuid.NewString(),
			Title:       s.title,
			Description: s.description,
		}
	}

	return &types.ResearchPlan{
		ID:             uuid.NewString(),
		Timestamp:      time.Now(),
		OriginalPrompt: enhanced,
		TableOfContents: types.TableOfContents{
			Title:    fmt.Sprintf("%s Research Plan", settings.IndustryOrDefault()),
			Sections: sections,
		},
		Status: types.PlanCreated,
	}, logID, nil
}
