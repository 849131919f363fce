// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package execute

import (
	"context"
	"fmt"
	"testing"

	"github.com/pdiddy/newsroom-engine/internal/genai"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// scriptedBackend answers queries from a script: queries in failOn return
// an error, everything else succeeds.
type scriptedBackend struct {
	failOn map[string]bool
	calls  []string
}

func (s *scriptedBackend) Name() string { return "scripted" }

func (s *scriptedBackend) Generate(_ context.Context, query string, _ types.GenerationConfig) (genai.Response, error) {
	s.calls = append(s.calls, query)
	if s.failOn[query] {
		return genai.Response{}, fmt.Errorf("backend unavailable for %q", query)
	}
	return genai.Response{
		Content: "findings for " + query,
		Sources: []types.Source{{Title: "src " + query, URL: "https://example.com"}},
		Images:  []types.Image{{URL: "https://example.com/i.jpg", Alt: query}},
	}, nil
}

func taskWithQueries(queries ...string) types.ResearchTask {
	return types.ResearchTask{
		ID:            "t1",
		Title:         "Industry Overview",
		SearchQueries: queries,
		Status:        types.TaskPending,
	}
}

func TestExecuteOneResultPerQuery(t *testing.T) {
	backend := &scriptedBackend{}
	ex := New(backend, types.GenerationConfig{})

	results, err := ex.Execute(context.Background(), taskWithQueries("q1", "q2", "q3"))
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, r := range results {
		wantQuery := fmt.Sprintf("q%d", i+1)
		if r.Query != wantQuery {
			t.Errorf("result[%d].Query = %q, want %q", i, r.Query, wantQuery)
		}
		if r.Status != types.ResultCompleted {
			t.Errorf("result[%d].Status = %q, want completed", i, r.Status)
		}
		if r.ID == "" || r.Timestamp.IsZero() {
			t.Errorf("result[%d] missing id or timestamp", i)
		}
	}
}

func TestExecuteFailingQueryDoesNotAbort(t *testing.T) {
	backend := &scriptedBackend{failOn: map[string]bool{"q2": true}}
	ex := New(backend, types.GenerationConfig{})

	results, err := ex.Execute(context.Background(), taskWithQueries("q1", "q2", "q3"))
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[1].Status != types.ResultError {
		t.Errorf("result[1].Status = %q, want error", results[1].Status)
	}
	if results[1].Error == "" {
		t.Error("result[1] has no error message")
	}
	if len(results[1].Sources) != 0 || len(results[1].Images) != 0 {
		t.Error("error result should have empty sources and images")
	}
	for _, i := range []int{0, 2} {
		if results[i].Status != types.ResultCompleted {
			t.Errorf("result[%d].Status = %q, want completed", i, results[i].Status)
		}
	}
	if len(backend.calls) != 3 {
		t.Errorf("backend calls = %d, want 3 (no early abort)", len(backend.calls))
	}
}

func TestExecuteAllQueriesFail(t *testing.T) {
	backend := &scriptedBackend{failOn: map[string]bool{"q1": true, "q2": true}}
	ex := New(backend, types.GenerationConfig{})

	results, err := ex.Execute(context.Background(), taskWithQueries("q1", "q2"))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, r := range results {
		if r.Status != types.ResultError {
			t.Errorf("result[%d].Status = %q, want error", i, r.Status)
		}
	}
}

func TestExecuteDefaultsForSparseResponse(t *testing.T) {
	ex := New(sparseBackend{}, types.GenerationConfig{})

	results, err := ex.Execute(context.Background(), taskWithQueries("q1"))
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.Content != placeholderContent {
		t.Errorf("content = %q, want placeholder", r.Content)
	}
	if r.Sources == nil || r.Images == nil {
		t.Error("sources and images should default to empty, not nil")
	}
}

type sparseBackend struct{}

func (sparseBackend) Name() string { return "sparse" }
func (sparseBackend) Generate(context.Context, string, types.GenerationConfig) (genai.Response, error) {
	return genai.Response{}, nil
}

func TestExecuteEmptyQueryList(t *testing.T) {
	ex := New(&scriptedBackend{}, types.GenerationConfig{})

	results, err := ex.Execute(context.Background(), taskWithQueries())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestExecuteNilBackendIsTaskFatal(t *testing.T) {
	ex := New(nil, types.GenerationConfig{})

	if _, err := ex.Execute(context.Background(), taskWithQueries("q1")); err == nil {
		t.Error("expected error for nil backend")
	}
}

func TestExecuteCancelledContextIsTaskFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := New(&scriptedBackend{}, types.GenerationConfig{})
	if _, err := ex.Execute(ctx, taskWithQueries("q1")); err == nil {
		t.Error("expected error for cancelled context")
	}
}
