package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
)

// RunGenerator executes an analysis pass and persists it under a run date.
type RunGenerator interface {
	Generate(ctx context.Context, date time.Time, opts analysis.Options) (*analysis.Run, error)
}

// AfterRunHook is called after each successful analysis run.
type AfterRunHook interface {
	Export(ctx context.Context, run *analysis.Run) error
}

// AnalysisWorker periodically runs the full analysis pipeline.
type AnalysisWorker struct {
	generator RunGenerator
	interval  time.Duration
	hook      AfterRunHook // optional
}

// NewAnalysisWorker creates a new AnalysisWorker with an optional post-run hook.
func NewAnalysisWorker(generator RunGenerator, interval time.Duration, hook AfterRunHook) *AnalysisWorker {
	return &AnalysisWorker{
		generator: generator,
		interval:  interval,
		hook:      hook,
	}
}

// runHook calls the post-run hook if one is configured.
func (w *AnalysisWorker) runHook(ctx context.Context, run *analysis.Run) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, run); err != nil {
		slog.Error("AnalysisWorker: export hook failed", "error", err)
	} else {
		slog.Info("AnalysisWorker: export hook completed")
	}
}

// utcDate returns the current date normalized to midnight UTC.
func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Run starts the analysis worker loop. It blocks until the context is cancelled.
func (w *AnalysisWorker) Run(ctx context.Context) {
	slog.Info("AnalysisWorker: starting")

	// Run immediately on startup
	if run, err := w.generator.Generate(ctx, utcDate(), analysis.Options{}); err != nil {
		slog.Error("AnalysisWorker: initial run failed", "error", err)
	} else {
		slog.Info("AnalysisWorker: initial run completed",
			"rows", len(run.Rows), "failures", len(run.Failures))
		w.runHook(ctx, run)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("AnalysisWorker: shutting down")
			return
		case <-ticker.C:
			if run, err := w.generator.Generate(ctx, utcDate(), analysis.Options{}); err != nil {
				slog.Error("AnalysisWorker: run failed", "error", err)
			} else {
				slog.Info("AnalysisWorker: run completed",
					"rows", len(run.Rows), "failures", len(run.Failures))
				w.runHook(ctx, run)
			}
		}
	}
}
