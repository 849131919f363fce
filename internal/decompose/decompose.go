// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decompose expands a research plan into executable tasks: one task
// per outline section, with a priority tier, a research depth, and a
// deterministic set of search queries.
package decompose

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// Decompose maps each section of the plan, in table-of-contents order, to
// exactly one pending task. It is pure with respect to plan and settings:
// two calls produce structurally identical task lists (ids aside). A nil
// plan is the only error.
func Decompose(ctx context.Context, p *types.ResearchPlan, settings types.ResearchSettings) ([]types.ResearchTask, error) {
	if p == nil {
		return nil, fmt.Errorf("decompose: nil plan")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sections := p.TableOfContents.Sections
	tasks := make([]types.ResearchTask, 0, len(sections))
	for i, sec := range sections {
		priority := priorityForIndex(i)
		tasks = append(tasks, types.ResearchTask{
			ID:            uuid.NewString(),
			SectionID:     sec.ID,
			Title:         sec.Title,
			Description:   sec.Description,
			Priority:      priority,
			Depth:         depthFor(priority),
			Status:        types.TaskPending,
			SearchQueries: buildQueries(sec, settings),
			Results:       []types.ResearchResult{},
		})
	}
	return tasks, nil
}

// priorityForIndex maps zero-based section order to a priority tier: the
// first two sections are high, the next two medium, the rest low. The
// thresholds hold for any section count, not just the default outline.
func priorityForIndex(i int) types.Priority {
	switch {
	case i < 2:
		return types.PriorityHigh
	case i < 4:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

// depthFor assigns research depth: high priority is researched deep, all
// other tiers standard.
func depthFor(p types.Priority) types.Depth {
	if p == types.PriorityHigh {
		return types.DepthDeep
	}
	return types.DepthStandard
}

// buildQueries generates the ordered search queries for one section. Known
// outline sections get role-specific templates; anything else falls back to
// two generic queries.
func buildQueries(sec types.ResearchSection, settings types.ResearchSettings) []string {
	industry := settings.IndustryOrDefault()
	company := settings.CompanyName
	if strings.TrimSpace(company) == "" {
		company = "our company"
	}

	switch normalizeTitle(sec.Title) {
	case "industry overview":
		return []string{
			fmt.Sprintf("latest %s industry news", industry),
			fmt.Sprintf("%s market trends and analysis", industry),
			fmt.Sprintf("major developments in %s", industry),
		}
	case "competitor analysis":
		queries := []string{
			fmt.Sprintf("%s competitive landscape", industry),
			fmt.Sprintf("competitors of %s recent announcements", company),
		}
		if len(settings.Competitors) > 0 {
			queries = append(queries, fmt.Sprintf("recent news about %s", strings.Join(settings.Competitors, ", ")))
		}
		return queries
	case "market opportunities":
		queries := []string{
			fmt.Sprintf("emerging market opportunities in %s", industry),
			fmt.Sprintf("%s industry growth segments", industry),
		}
		if len(settings.KeyProducts) > 0 {
			queries = append(queries, fmt.Sprintf("demand for %s", strings.Join(settings.KeyProducts, ", ")))
		}
		return queries
	case "regulatory changes":
		return []string{
			fmt.Sprintf("new regulations affecting %s", industry),
			fmt.Sprintf("%s compliance and policy changes", industry),
		}
	case "technology innovations":
		return []string{
			fmt.Sprintf("technology innovations in %s", industry),
			fmt.Sprintf("emerging technology trends %s", industry),
		}
	default:
		return []string{
			fmt.Sprintf("%s in %s", sec.Title, industry),
			fmt.Sprintf("%s related to %s", sec.Title, company),
		}
	}
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
