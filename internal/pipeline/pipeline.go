// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the research stages: planning, decomposition,
// task execution, and compilation. Planning and decomposition failures are
// run-fatal; a task failing as a whole marks that task errored and the run
// continues. Task execution optionally fans out to a bounded worker pool,
// with each worker exclusively owning its task.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/newsroom-engine/internal/compile"
	"github.com/pdiddy/newsroom-engine/internal/decompose"
	"github.com/pdiddy/newsroom-engine/internal/logstore"
	"github.com/pdiddy/newsroom-engine/internal/plan"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// Stage identifies where a run currently is. Stages advance linearly; error
// is absorbing.
type Stage string

const (
	StageIdle        Stage = "idle"
	StagePlanning    Stage = "planning"
	StageDecomposing Stage = "decomposing"
	StageExecuting   Stage = "executing"
	StageCompiling   Stage = "compiling"
	StageCompleted   Stage = "completed"
	StageError       Stage = "error"
)

// Observer receives stage progress notifications. Advisory only: observers
// never affect control flow and a nil observer is valid.
type Observer func(stage Stage, message string)

// RunOutput is everything one pipeline run produced.
type RunOutput struct {
	Plan    *types.ResearchPlan
	Tasks   []types.ResearchTask
	Article types.Article

	// LogEntryID is the prompt log entry recorded during enrichment, empty
	// when logging was off or failed.
	LogEntryID string
}

// TaskExecutor runs one task's queries to completion. *execute.Executor is
// the production implementation; tests substitute fakes.
type TaskExecutor interface {
	Execute(ctx context.Context, task types.ResearchTask) ([]types.ResearchResult, error)
}

// Orchestrator drives one pipeline run end to end.
type Orchestrator struct {
	planner  *plan.Planner
	executor TaskExecutor
	store    logstore.Store
	observer Observer
	workers  int
	logger   *zap.Logger
}

// New creates an Orchestrator. store may be nil (no run outcome recording)
// and observer may be nil. workers <= 1 executes tasks sequentially.
func New(planner *plan.Planner, executor TaskExecutor, store logstore.Store, observer Observer, workers int, logger *zap.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		planner:  planner,
		executor: executor,
		store:    store,
		observer: observer,
		workers:  workers,
		logger:   logger,
	}
}

// Run executes the full pipeline for settings. The returned error names the
// stage that failed; on success the output carries the compiled article and
// the final task list, mixed statuses included.
func (o *Orchestrator) Run(ctx context.Context, settings types.ResearchSettings) (*RunOutput, error) {
	o.notify(StagePlanning, "creating research plan")
	researchPlan, logID, err := o.planner.Plan(ctx, settings)
	if err != nil {
		return nil, o.fail(logID, fmt.Errorf("planning: %w", err))
	}
	o.notify(StagePlanning, fmt.Sprintf("plan created with %d sections", len(researchPlan.TableOfContents.Sections)))

	if err := ctx.Err(); err != nil {
		return nil, o.fail(logID, fmt.Errorf("planning: %w", err))
	}

	o.notify(StageDecomposing, "breaking plan into research tasks")
	tasks, err := decompose.Decompose(ctx, researchPlan, settings)
	if err != nil {
		return nil, o.fail(logID, fmt.Errorf("decomposing: %w", err))
	}
	o.notify(StageDecomposing, fmt.Sprintf("%d tasks created", len(tasks)))

	o.notify(StageExecuting, fmt.Sprintf("executing %d tasks with %d workers", len(tasks), o.workers))
	if err := o.executeTasks(ctx, tasks); err != nil {
		return nil, o.fail(logID, fmt.Errorf("executing: %w", err))
	}

	if err := ctx.Err(); err != nil {
		return nil, o.fail(logID, fmt.Errorf("executing: %w", err))
	}

	o.notify(StageCompiling, "compiling article from task results")
	article := compile.Compile(tasks, settings)

	o.recordOutcome(ctx, logID, logstore.EntryCompleted)
	o.notify(StageCompleted, fmt.Sprintf("article %q compiled", article.Title))

	return &RunOutput{
		Plan:       researchPlan,
		Tasks:      tasks,
		Article:    article,
		LogEntryID: logID,
	}, nil
}

// executeTasks runs every task to a terminal status. A task-fatal error
// marks that task errored and execution continues; only cancellation aborts
// the stage. Each worker owns the task at its index exclusively, so no
// locking is needed around task mutation.
func (o *Orchestrator) executeTasks(ctx context.Context, tasks []types.ResearchTask) error {
	if len(tasks) == 0 {
		return nil
	}

	if o.workers <= 1 {
		for i := range tasks {
			// Cancellation between tasks ends the stage.
			if err := ctx.Err(); err != nil {
				return err
			}
			o.runTask(ctx, &tasks[i], "worker-1")
		}
		return nil
	}

	jobs := make(chan int, len(tasks))
	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 1; w <= o.workers; w++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				o.runTask(ctx, &tasks[i], name)
			}
		}(fmt.Sprintf("worker-%d", w))
	}
	wg.Wait()

	return ctx.Err()
}

// runTask executes one task to a terminal status.
func (o *Orchestrator) runTask(ctx context.Context, task *types.ResearchTask, worker string) {
	task.Status = types.TaskInProgress
	task.AssignedTo = worker
	o.notify(StageExecuting, fmt.Sprintf("task %q started (%s, %s)", task.Title, task.Priority, worker))

	results, err := o.executor.Execute(ctx, *task)
	if err != nil {
		// Task-fatal: mark and move on, sibling tasks still run.
		task.Status = types.TaskError
		task.Error = err.Error()
		o.logger.Warn("task execution failed",
			zap.String("task", task.Title),
			zap.Error(err))
		o.notify(StageExecuting, fmt.Sprintf("task %q failed: %v", task.Title, err))
		return
	}

	task.Results = results
	task.Status = types.TaskCompleted
	o.notify(StageExecuting, fmt.Sprintf("task %q completed with %d results", task.Title, len(results)))
}

// fail records the run outcome and forwards err unchanged.
func (o *Orchestrator) fail(logID string, err error) error {
	o.recordOutcome(context.Background(), logID, logstore.EntryError)
	o.notify(StageError, err.Error())
	return err
}

// recordOutcome updates the prompt log entry for this run, best-effort.
func (o *Orchestrator) recordOutcome(ctx context.Context, logID string, status logstore.EntryStatus) {
	if o.store == nil || logID == "" {
		return
	}
	count := 0
	if status == logstore.EntryCompleted {
		count = 1
	}
	if err := o.store.SetArticleCount(ctx, logID, count, status); err != nil {
		o.logger.Warn("recording run outcome failed", zap.Error(err))
	}
}

func (o *Orchestrator) notify(stage Stage, message string) {
	if o.observer != nil {
		o.observer(stage, message)
	}
}
