package yahoo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// Fetcher is the live-data side of the service, implemented by Client.
type Fetcher interface {
	Fundamentals(ctx context.Context, ticker string) (domain.FundamentalsRecord, error)
	PriceHistory(ctx context.Context, ticker string) ([]domain.PriceBar, error)
}

// Service fetches fundamentals with a write-through cache and a per-request
// delay so a full-universe run stays under the provider's rate limit.
type Service struct {
	fetcher      Fetcher
	repo         Repository
	stale        time.Duration
	requestDelay time.Duration
	logger       *slog.Logger
}

// NewService creates a fundamentals service.
func NewService(fetcher Fetcher, repo Repository, stale, requestDelay time.Duration, logger *slog.Logger) *Service {
	return &Service{
		fetcher:      fetcher,
		repo:         repo,
		stale:        stale,
		requestDelay: requestDelay,
		logger:       logger,
	}
}

// Fundamentals returns one ticker's fundamentals, from cache when fresh
// enough. forceRefresh bypasses the cache check but still writes through.
func (s *Service) Fundamentals(ctx context.Context, ticker string, forceRefresh bool) (domain.FundamentalsRecord, error) {
	if !forceRefresh {
		cached, err := s.repo.Get(ctx, ticker)
		if err == nil && time.Since(cached.FetchedAt) <= s.stale {
			return *cached, nil
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Error("fundamentals cache read failed", "ticker", ticker, "error", err)
		}
	}

	rec, err := s.fetcher.Fundamentals(ctx, ticker)
	if err != nil {
		// A stale record beats no record when the provider is down.
		if cached, cacheErr := s.repo.Get(ctx, ticker); cacheErr == nil {
			s.logger.Warn("live fetch failed, using stale fundamentals", "ticker", ticker, "error", err)
			return *cached, nil
		}
		return domain.FundamentalsRecord{}, fmt.Errorf("fundamentals for %s: %w", ticker, err)
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Error("failed to cache fundamentals", "ticker", ticker, "error", err)
	}

	if s.requestDelay > 0 {
		select {
		case <-ctx.Done():
			return domain.FundamentalsRecord{}, ctx.Err()
		case <-time.After(s.requestDelay):
		}
	}
	return rec, nil
}

// PriceHistory proxies the chart fetch; price bars are not cached because a
// daily run always wants the latest close.
func (s *Service) PriceHistory(ctx context.Context, ticker string) ([]domain.PriceBar, error) {
	return s.fetcher.PriceHistory(ctx, ticker)
}
