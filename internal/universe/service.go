package universe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// Fetcher retrieves the live constituent list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Constituent, error)
}

// Service resolves the ticker universe, preferring a fresh cache, then the
// live scrape, then a stale cache, then the hardcoded fallback. Every level
// of degradation is logged but none fails the caller: an analysis run with a
// partial universe beats no run.
type Service struct {
	fetcher Fetcher
	repo    Repository
	stale   time.Duration
	logger  *slog.Logger
}

// NewService creates a universe service.
func NewService(fetcher Fetcher, repo Repository, stale time.Duration, logger *slog.Logger) *Service {
	return &Service{fetcher: fetcher, repo: repo, stale: stale, logger: logger}
}

// Constituents returns the current universe.
func (s *Service) Constituents(ctx context.Context) ([]domain.Constituent, error) {
	if cached, ok := s.fresh(ctx); ok {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh scrapes the live list and caches it, degrading to the stale cache
// or the fallback list when the scrape fails.
func (s *Service) Refresh(ctx context.Context) ([]domain.Constituent, error) {
	constituents, err := s.fetcher.Fetch(ctx)
	if err == nil {
		s.logger.Info("universe refreshed from live source", "count", len(constituents))
		if saveErr := s.repo.Replace(ctx, constituents); saveErr != nil {
			s.logger.Error("failed to cache universe", "error", saveErr)
		}
		return constituents, nil
	}
	s.logger.Warn("universe scrape failed, trying stale cache", "error", err)

	cached, cacheErr := s.repo.List(ctx)
	if cacheErr == nil {
		s.logger.Info("using stale cached universe", "count", len(cached))
		return cached, nil
	}
	if !errors.Is(cacheErr, ErrEmpty) {
		s.logger.Error("universe cache read failed", "error", cacheErr)
	}

	s.logger.Warn("using hardcoded fallback universe", "count", len(fallbackConstituents))
	if saveErr := s.repo.Replace(ctx, fallbackConstituents); saveErr != nil {
		s.logger.Error("failed to cache fallback universe", "error", saveErr)
	}
	return fallbackConstituents, nil
}

func (s *Service) fresh(ctx context.Context) ([]domain.Constituent, bool) {
	refreshed, err := s.repo.LastRefreshed(ctx)
	if err != nil {
		if !errors.Is(err, ErrEmpty) {
			s.logger.Error("universe cache check failed", "error", err)
		}
		return nil, false
	}
	if time.Since(refreshed) > s.stale {
		return nil, false
	}
	cached, err := s.repo.List(ctx)
	if err != nil {
		return nil, false
	}
	return cached, true
}
