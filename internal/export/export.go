package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
)

// Writer renders an analysis run to some destination (workbook, spreadsheet).
type Writer interface {
	Write(ctx context.Context, run *analysis.Run) error
}

// Service fans one analysis run out to every configured writer.
type Service struct {
	writers []Writer
	logger  *slog.Logger
}

// NewService creates an export service over the given writers.
func NewService(logger *slog.Logger, writers ...Writer) *Service {
	return &Service{writers: writers, logger: logger}
}

// Export writes the run to each destination. A failing writer does not stop
// the others; the first error is returned after all writers have run.
// Implements worker.AfterRunHook.
func (s *Service) Export(ctx context.Context, run *analysis.Run) error {
	var firstErr error
	for _, w := range s.writers {
		if err := w.Write(ctx, run); err != nil {
			s.logger.Error("export writer failed", "writer", fmt.Sprintf("%T", w), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.logger.Info("export complete", "writer", fmt.Sprintf("%T", w), "rows", len(run.Rows))
	}
	return firstErr
}
