// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/newsroom-engine/internal/enrich"
	"github.com/pdiddy/newsroom-engine/internal/execute"
	"github.com/pdiddy/newsroom-engine/internal/genai"
	"github.com/pdiddy/newsroom-engine/internal/logstore"
	"github.com/pdiddy/newsroom-engine/internal/plan"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// fakeExecutor fails tasks whose title is listed in failTitles and succeeds
// otherwise.
type fakeExecutor struct {
	mu         sync.Mutex
	failTitles map[string]bool
	executed   []string
}

func (f *fakeExecutor) Execute(_ context.Context, task types.ResearchTask) ([]types.ResearchResult, error) {
	f.mu.Lock()
	f.executed = append(f.executed, task.Title)
	f.mu.Unlock()

	if f.failTitles[task.Title] {
		return nil, fmt.Errorf("executor blew up on %q", task.Title)
	}
	return []types.ResearchResult{{
		ID:      "r-" + task.ID,
		Query:   "q",
		Content: "findings for " + task.Title,
		Status:  types.ResultCompleted,
		Sources: []types.Source{},
		Images:  []types.Image{},
	}}, nil
}

// testPlanner shares the orchestrator's log store with the enricher, the
// same wiring the CLI uses, so runs record prompt log entries.
func testPlanner(store logstore.Store) *plan.Planner {
	return plan.New(enrich.New(nil, store, "mock", 0, nil))
}

func testSettings() types.ResearchSettings {
	return types.ResearchSettings{
		CompanyName:         "Acme",
		Industry:            "Robotics",
		EnablePromptLogging: true,
	}
}

func TestRunProducesArticle(t *testing.T) {
	store := logstore.NewMemoryStore()
	o := New(testPlanner(store), &fakeExecutor{}, store, nil, 1, nil)

	out, err := o.Run(context.Background(), testSettings())
	if err != nil {
		t.Fatal(err)
	}

	if out.Article.ID == "" {
		t.Error("article has no id")
	}
	if out.Article.Status != types.ArticlePublished {
		t.Errorf("article status = %q", out.Article.Status)
	}
	if len(out.Tasks) != 5 {
		t.Fatalf("tasks = %d, want 5", len(out.Tasks))
	}
	for i, task := range out.Tasks {
		if task.Status != types.TaskCompleted {
			t.Errorf("task[%d].Status = %q, want completed", i, task.Status)
		}
		if task.AssignedTo == "" {
			t.Errorf("task[%d] not assigned to a worker", i)
		}
	}

	// The prompt log entry is updated with the run outcome.
	entries, err := store.Search(context.Background(), logstore.Query{Provider: "mock"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	if entries[0].ArticleCount != 1 || entries[0].Status != logstore.EntryCompleted {
		t.Errorf("log entry not updated: count=%d status=%q", entries[0].ArticleCount, entries[0].Status)
	}
}

func TestRunContinuesPastTaskFatalError(t *testing.T) {
	// Competitor Analysis is task #2 of the fixed outline.
	ex := &fakeExecutor{failTitles: map[string]bool{"Competitor Analysis": true}}
	o := New(testPlanner(nil), ex, nil, nil, 1, nil)

	out, err := o.Run(context.Background(), testSettings())
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Tasks) != 5 {
		t.Fatalf("tasks = %d, want 5 (failed task not dropped)", len(out.Tasks))
	}

	var failed, completed int
	for _, task := range out.Tasks {
		switch task.Status {
		case types.TaskError:
			failed++
			if task.Title != "Competitor Analysis" {
				t.Errorf("wrong task failed: %q", task.Title)
			}
			if task.Error == "" {
				t.Error("failed task has no error message")
			}
		case types.TaskCompleted:
			completed++
		default:
			t.Errorf("task %q in non-terminal status %q", task.Title, task.Status)
		}
	}
	if failed != 1 || completed != 4 {
		t.Errorf("failed=%d completed=%d, want 1/4", failed, completed)
	}
	if len(ex.executed) != 5 {
		t.Errorf("executed = %d tasks, want 5 (no early abort)", len(ex.executed))
	}

	// The failed task contributes a heading but no content.
	if !strings.Contains(out.Article.Content, "## Competitor Analysis") {
		t.Error("failed task missing from article sections")
	}
	if strings.Contains(out.Article.Content, "findings for Competitor Analysis") {
		t.Error("failed task content leaked into article")
	}
}

func TestRunWorkerPoolReachesAllTasks(t *testing.T) {
	ex := &fakeExecutor{failTitles: map[string]bool{"Regulatory Changes": true}}
	o := New(testPlanner(nil), ex, nil, nil, 3, nil)

	out, err := o.Run(context.Background(), testSettings())
	if err != nil {
		t.Fatal(err)
	}

	if len(ex.executed) != 5 {
		t.Fatalf("executed = %d, want 5", len(ex.executed))
	}
	terminal := 0
	for _, task := range out.Tasks {
		if task.Status == types.TaskCompleted || task.Status == types.TaskError {
			terminal++
		}
	}
	if terminal != 5 {
		t.Errorf("terminal tasks = %d, want 5 (join barrier before compile)", terminal)
	}
}

func TestRunPlannerFailureIsRunFatal(t *testing.T) {
	ex := &fakeExecutor{}
	o := New(plan.New(nil), ex, nil, nil, 1, nil)

	if _, err := o.Run(context.Background(), testSettings()); err == nil {
		t.Fatal("expected planning error")
	}
	if len(ex.executed) != 0 {
		t.Errorf("executor ran %d tasks after planning failure", len(ex.executed))
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(testPlanner(nil), &fakeExecutor{}, nil, nil, 1, nil)
	if _, err := o.Run(ctx, testSettings()); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestRunObserverSeesStages(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[Stage]bool)
	observer := func(stage Stage, _ string) {
		mu.Lock()
		seen[stage] = true
		mu.Unlock()
	}

	o := New(testPlanner(nil), &fakeExecutor{}, nil, observer, 1, nil)
	if _, err := o.Run(context.Background(), testSettings()); err != nil {
		t.Fatal(err)
	}

	for _, stage := range []Stage{StagePlanning, StageDecomposing, StageExecuting, StageCompiling, StageCompleted} {
		if !seen[stage] {
			t.Errorf("observer never saw stage %q", stage)
		}
	}
	if seen[StageError] {
		t.Error("observer saw error stage on a successful run")
	}
}

func TestRunWithRealExecutorAndMockBackend(t *testing.T) {
	ex := execute.New(genai.MockBackend{}, types.GenerationConfig{})
	o := New(testPlanner(nil), ex, nil, nil, 2, nil)

	out, err := o.Run(context.Background(), testSettings())
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Article.Sources) == 0 {
		t.Error("article has no sources")
	}
	if len(out.Article.Images) != 3 {
		t.Errorf("images = %d, want 3 (capped)", len(out.Article.Images))
	}
	if out.Article.Category != "Robotics" {
		t.Errorf("category = %q", out.Article.Category)
	}
}

func TestSaveArtifacts(t *testing.T) {
	ex := &fakeExecutor{}
	o := New(testPlanner(nil), ex, nil, nil, 1, nil)

	out, err := o.Run(context.Background(), testSettings())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir() + "/articles"
	path, err := SaveArtifacts(dir, out)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, marker := range []string{"article:", "plan:", "tasks:", out.Article.ID} {
		if !strings.Contains(string(data), marker) {
			t.Errorf("artifact missing %q", marker)
		}
	}
}
