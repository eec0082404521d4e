package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// UniverseRefresher re-scrapes the index constituent list.
type UniverseRefresher interface {
	Refresh(ctx context.Context) ([]domain.Constituent, error)
}

// UniverseWorker periodically refreshes the index universe. The constituent
// list changes rarely, so the interval is typically days, not minutes.
type UniverseWorker struct {
	refresher UniverseRefresher
	interval  time.Duration
}

// NewUniverseWorker creates a new UniverseWorker.
func NewUniverseWorker(refresher UniverseRefresher, interval time.Duration) *UniverseWorker {
	return &UniverseWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Run starts the universe worker loop. It blocks until the context is cancelled.
func (w *UniverseWorker) Run(ctx context.Context) {
	slog.Info("UniverseWorker: starting")

	// Refresh immediately on startup
	if constituents, err := w.refresher.Refresh(ctx); err != nil {
		slog.Error("UniverseWorker: initial refresh failed", "error", err)
	} else {
		slog.Info("UniverseWorker: initial refresh completed", "count", len(constituents))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("UniverseWorker: shutting down")
			return
		case <-ticker.C:
			if constituents, err := w.refresher.Refresh(ctx); err != nil {
				slog.Error("UniverseWorker: refresh failed", "error", err)
			} else {
				slog.Info("UniverseWorker: refresh completed", "count", len(constituents))
			}
		}
	}
}
