package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
)

// Runner executes an analysis pass, implemented by analysis.Service.
type Runner interface {
	Run(ctx context.Context, opts analysis.Options) (*analysis.Run, error)
}

// Service manages run generation and retrieval.
type Service struct {
	runner Runner
	repo   Repository
}

// NewService creates a new run snapshot service.
func NewService(runner Runner, repo Repository) *Service {
	return &Service{runner: runner, repo: repo}
}

// Generate executes a full analysis pass and stores it under the given date.
func (s *Service) Generate(ctx context.Context, date time.Time, opts analysis.Options) (*analysis.Run, error) {
	run, err := s.runner.Run(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("running analysis: %w", err)
	}

	data, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("marshaling run: %w", err)
	}

	if err := s.repo.Save(ctx, date, data); err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}

	return run, nil
}

// GetLatest retrieves the most recent stored run.
func (s *Service) GetLatest(ctx context.Context) (*Snapshot, error) {
	return s.repo.GetLatest(ctx)
}

// GetByDate retrieves the run stored for a specific date.
func (s *Service) GetByDate(ctx context.Context, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, date)
}

// List retrieves recent runs.
func (s *Service) List(ctx context.Context, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, limit)
}

// Decode unpacks the stored run payload.
func Decode(snap *Snapshot) (*analysis.Run, error) {
	var run analysis.Run
	if err := json.Unmarshal(snap.Data, &run); err != nil {
		return nil, fmt.Errorf("decoding run snapshot: %w", err)
	}
	return &run, nil
}
