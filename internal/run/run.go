// File: internal/run/run.go
// Brief: Staged plan execution with bounded in-stage concurrency.

package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/monoctl/internal/plan"
	"github.com/example/monoctl/internal/project"
	"github.com/example/monoctl/internal/ui"
)

const (
	FailFast     = "fail-fast"
	FailContinue = "continue"
)

type Options struct {
	Concurrency int
	FailMode    string
	DryRun      bool
	ForceHost   bool
	NoColor     bool

	// Executor overrides the production executor; tests inject fakes here.
	Executor TaskExecutor
	Logger   *zap.Logger
}

// Run executes a plan: stages strictly in sequence, tasks within a stage
// concurrently up to Concurrency. A later stage never starts while an earlier
// one has tasks in flight. In fail-fast mode the first error cancels the
// stage; in continue mode the stage finishes and the run stops afterwards.
func Run(ctx context.Context, proj *project.Project, pl *plan.Plan, opts Options, out, errOut io.Writer) error {
	if pl == nil {
		return fmt.Errorf("plan is required")
	}
	failMode := strings.TrimSpace(opts.FailMode)
	if failMode == "" {
		failMode = FailFast
	}
	if failMode != FailFast && failMode != FailContinue {
		return fmt.Errorf("unknown fail mode %q (expected %s or %s)", opts.FailMode, FailFast, FailContinue)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	exec := opts.Executor
	if exec == nil {
		exec = NewExecutor(proj, opts.ForceHost, out, errOut)
	}
	console := ui.NewRunConsole(out, ui.RunConsoleOptions{NoColor: opts.NoColor})

	start := time.Now()
	total := 0
	failures := 0
	var firstErr error
	var mu sync.Mutex

	for i, stage := range pl.Stages {
		console.StageStart(i, len(pl.Stages), len(stage))
		if opts.DryRun {
			for _, task := range stage {
				console.TaskSkipped(task.Key(), task.Executable)
				total++
			}
			continue
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, task := range stage {
			task := task
			total++
			g.Go(func() error {
				taskStart := time.Now()
				console.TaskStart(task.Key(), task.Executable)
				logger.Debug("task started", zap.String("task", task.Key()))
				err := exec.RunTask(gctx, task)
				if errors.Is(err, context.Canceled) {
					return err
				}
				console.TaskDone(task.Key(), time.Since(taskStart), err)
				if err == nil {
					logger.Debug("task succeeded", zap.String("task", task.Key()))
					return nil
				}
				logger.Debug("task failed", zap.String("task", task.Key()), zap.Error(err))
				mu.Lock()
				failures++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				fmt.Fprintf(errOut, "Error: %v\n", err)
				if failMode == FailFast {
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			console.Summary(total, failures, time.Since(start))
			return fmt.Errorf("stage %d: %w", i, err)
		}
		if failures > 0 {
			// Continue mode: the stage ran to completion, later stages must not.
			console.Summary(total, failures, time.Since(start))
			return fmt.Errorf("stage %d: %d task(s) failed: %w", i, failures, firstErr)
		}
	}
	console.Summary(total, failures, time.Since(start))
	return nil
}
