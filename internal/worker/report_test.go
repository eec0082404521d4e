package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
)

type mockRunGenerator struct {
	callCount atomic.Int32
}

func (m *mockRunGenerator) Generate(_ context.Context, _ time.Time, _ analysis.Options) (*analysis.Run, error) {
	m.callCount.Add(1)
	return &analysis.Run{GeneratedAt: time.Now().UTC()}, nil
}

type mockHook struct {
	callCount atomic.Int32
}

func (m *mockHook) Export(_ context.Context, _ *analysis.Run) error {
	m.callCount.Add(1)
	return nil
}

func TestAnalysisWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockRunGenerator{}
	w := NewAnalysisWorker(mock, 50*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 1 {
		t.Errorf("call count = %d, want >= 1", got)
	}
}

func TestAnalysisWorkerCallsHook(t *testing.T) {
	mock := &mockRunGenerator{}
	hook := &mockHook{}
	w := NewAnalysisWorker(mock, time.Hour, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := hook.callCount.Load(); got != 1 {
		t.Errorf("hook call count = %d, want 1 (initial run only)", got)
	}
}
