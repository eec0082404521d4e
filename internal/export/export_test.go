package export

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
)

type fakeWriter struct {
	err   error
	calls int
}

func (w *fakeWriter) Write(_ context.Context, _ *analysis.Run) error {
	w.calls++
	return w.err
}

func TestExportFansOut(t *testing.T) {
	a, b := &fakeWriter{}, &fakeWriter{}
	svc := NewService(slog.New(slog.DiscardHandler), a, b)

	if err := svc.Export(context.Background(), &analysis.Run{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", a.calls, b.calls)
	}
}

func TestExportContinuesPastFailure(t *testing.T) {
	failing := &fakeWriter{err: errors.New("sheets unavailable")}
	ok := &fakeWriter{}
	svc := NewService(slog.New(slog.DiscardHandler), failing, ok)

	err := svc.Export(context.Background(), &analysis.Run{})
	if err == nil {
		t.Fatal("expected the first writer's error")
	}
	if ok.calls != 1 {
		t.Errorf("second writer calls = %d, want 1", ok.calls)
	}
}

func TestExportNoWriters(t *testing.T) {
	svc := NewService(slog.New(slog.DiscardHandler))
	if err := svc.Export(context.Background(), &analysis.Run{}); err != nil {
		t.Fatalf("Export with no writers failed: %v", err)
	}
}
