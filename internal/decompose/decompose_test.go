// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decompose

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/newsroom-engine/pkg/types"
)

func planWithSections(n int) *types.ResearchPlan {
	sections := make([]types.ResearchSection, n)
	for i := range sections {
		sections[i] = types.ResearchSection{
			ID:          fmt.Sprintf("sec-%d", i),
			Title:       fmt.Sprintf("Section %d", i),
			Description: "d",
		}
	}
	return &types.ResearchPlan{
		ID:              "plan-1",
		TableOfContents: types.TableOfContents{Title: "Plan", Sections: sections},
		Status:          types.PlanCreated,
	}
}

func TestDecomposeOneTaskPerSection(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 7} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			tasks, err := Decompose(context.Background(), planWithSections(n), types.ResearchSettings{})
			if err != nil {
				t.Fatal(err)
			}
			if len(tasks) != n {
				t.Fatalf("tasks = %d, want %d", len(tasks), n)
			}
			for i, task := range tasks {
				if task.SectionID != fmt.Sprintf("sec-%d", i) {
					t.Errorf("task[%d].SectionID = %q", i, task.SectionID)
				}
			}
		})
	}
}

func TestDecomposePriorityByIndex(t *testing.T) {
	tasks, err := Decompose(context.Background(), planWithSections(7), types.ResearchSettings{})
	if err != nil {
		t.Fatal(err)
	}

	want := []types.Priority{
		types.PriorityHigh, types.PriorityHigh,
		types.PriorityMedium, types.PriorityMedium,
		types.PriorityLow, types.PriorityLow, types.PriorityLow,
	}
	for i, task := range tasks {
		if task.Priority != want[i] {
			t.Errorf("task[%d].Priority = %q, want %q", i, task.Priority, want[i])
		}
	}
}

func TestDecomposeDepthFollowsPriority(t *testing.T) {
	tasks, err := Decompose(context.Background(), planWithSections(5), types.ResearchSettings{})
	if err != nil {
		t.Fatal(err)
	}
	for i, task := range tasks {
		wantDepth := types.DepthStandard
		if task.Priority == types.PriorityHigh {
			wantDepth = types.DepthDeep
		}
		if task.Depth != wantDepth {
			t.Errorf("task[%d].Depth = %q, want %q", i, task.Depth, wantDepth)
		}
	}
}

func TestDecomposeInitialTaskState(t *testing.T) {
	tasks, err := Decompose(context.Background(), planWithSections(3), types.ResearchSettings{})
	if err != nil {
		t.Fatal(err)
	}
	for i, task := range tasks {
		if task.Status != types.TaskPending {
			t.Errorf("task[%d].Status = %q, want pending", i, task.Status)
		}
		if task.AssignedTo != "" {
			t.Errorf("task[%d].AssignedTo = %q, want empty", i, task.AssignedTo)
		}
		if task.Results == nil || len(task.Results) != 0 {
			t.Errorf("task[%d].Results should be empty, got %v", i, task.Results)
		}
		if len(task.SearchQueries) == 0 {
			t.Errorf("task[%d] has no search queries", i)
		}
	}
}

func TestDecomposeKnownSectionQueries(t *testing.T) {
	settings := types.ResearchSettings{
		CompanyName: "Acme",
		Industry:    "Robotics",
		Competitors: []string{"Initech", "Globex"},
		KeyProducts: []string{"AcmeBot"},
	}

	plan := &types.ResearchPlan{TableOfContents: types.TableOfContents{Sections: []types.ResearchSection{
		{ID: "s1", Title: "Industry Overview"},
		{ID: "s2", Title: "Competitor Analysis"},
		{ID: "s3", Title: "Market Opportunities"},
		{ID: "s4", Title: "Regulatory Changes"},
		{ID: "s5", Title: "Technology Innovations"},
	}}}

	tasks, err := Decompose(context.Background(), plan, settings)
	if err != nil {
		t.Fatal(err)
	}

	for i, task := range tasks {
		if len(task.SearchQueries) < 2 || len(task.SearchQueries) > 3 {
			t.Errorf("task[%d] query count = %d, want 2-3", i, len(task.SearchQueries))
		}
		for _, q := range task.SearchQueries {
			if !strings.Contains(q, "Robotics") && !strings.Contains(q, "Acme") &&
				!strings.Contains(q, "Initech") && !strings.Contains(q, "AcmeBot") {
				t.Errorf("task[%d] query %q not parameterized by settings", i, q)
			}
		}
	}

	// Competitor names appear in the competitor analysis queries.
	joined := strings.Join(tasks[1].SearchQueries, " | ")
	if !strings.Contains(joined, "Initech, Globex") {
		t.Errorf("competitor queries missing competitor list: %s", joined)
	}
}

func TestDecomposeGenericFallbackQueries(t *testing.T) {
	settings := types.ResearchSettings{CompanyName: "Acme", Industry: "Robotics"}
	plan := &types.ResearchPlan{TableOfContents: types.TableOfContents{Sections: []types.ResearchSection{
		{ID: "s1", Title: "Supply Chain Risks"},
	}}}

	tasks, err := Decompose(context.Background(), plan, settings)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Supply Chain Risks in Robotics",
		"Supply Chain Risks related to Acme",
	}
	if !reflect.DeepEqual(tasks[0].SearchQueries, want) {
		t.Errorf("queries = %v, want %v", tasks[0].SearchQueries, want)
	}
}

func TestDecomposeIdempotent(t *testing.T) {
	plan := planWithSections(5)
	settings := types.ResearchSettings{CompanyName: "Acme", Industry: "Robotics"}

	a, err := Decompose(context.Background(), plan, settings)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Decompose(context.Background(), plan, settings)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != len(b) {
		t.Fatalf("task counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Title != b[i].Title || a[i].Priority != b[i].Priority ||
			a[i].Depth != b[i].Depth || !reflect.DeepEqual(a[i].SearchQueries, b[i].SearchQueries) {
			t.Errorf("task[%d] differs between runs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestDecomposeNilPlan(t *testing.T) {
	if _, err := Decompose(context.Background(), nil, types.ResearchSettings{}); err == nil {
		t.Error("expected error for nil plan")
	}
}
