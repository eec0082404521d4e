package analysis

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/Milokay/sp500-pipeline/internal/domain"
	"github.com/Milokay/sp500-pipeline/internal/relative"
	"github.com/Milokay/sp500-pipeline/internal/signal"
	"github.com/Milokay/sp500-pipeline/internal/technicals"
	"github.com/Milokay/sp500-pipeline/internal/valuation"
)

// Row is the full analysis output for one ticker.
type Row struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
	Sector      string `json:"sector"`
	SubIndustry string `json:"subIndustry"`

	Fundamentals domain.FundamentalsRecord `json:"fundamentals"`
	Valuation    valuation.Result          `json:"valuation"`
	Relative     relative.Result           `json:"relative"`
	Technicals   technicals.Indicators     `json:"technicals"`
	Signal       signal.Signal             `json:"signal"`
}

// Failure records a ticker that could not be analyzed.
type Failure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// Run is the result of one full analysis pass.
type Run struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Rows        []Row     `json:"rows"`
	Failures    []Failure `json:"failures,omitempty"`
}

// UniverseSource resolves the ticker universe.
type UniverseSource interface {
	Constituents(ctx context.Context) ([]domain.Constituent, error)
}

// DataSource supplies per-ticker market data.
type DataSource interface {
	Fundamentals(ctx context.Context, ticker string, forceRefresh bool) (domain.FundamentalsRecord, error)
	PriceHistory(ctx context.Context, ticker string) ([]domain.PriceBar, error)
}

// Options narrow or refresh a run.
type Options struct {
	// Tickers restricts the run to the given symbols; empty means the full
	// universe.
	Tickers []string
	// ForceRefresh bypasses the fundamentals cache.
	ForceRefresh bool
}

// Service orchestrates a full analysis pass: universe resolution, parallel
// data fetch, valuation with sector peer context, then technicals and
// signals per ticker.
type Service struct {
	universe    UniverseSource
	data        DataSource
	engine      *valuation.Engine
	concurrency int
	logger      *slog.Logger
}

// NewService creates an analysis service. concurrency bounds the parallel
// fetch fan-out.
func NewService(universe UniverseSource, data DataSource, engine *valuation.Engine, concurrency int, logger *slog.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		universe:    universe,
		data:        data,
		engine:      engine,
		concurrency: concurrency,
		logger:      logger,
	}
}

type fetched struct {
	constituent domain.Constituent
	rec         domain.FundamentalsRecord
	bars        []domain.PriceBar
	err         error
}

// Run executes one analysis pass. Individual ticker failures are collected,
// not fatal; only an empty universe aborts the run.
func (s *Service) Run(ctx context.Context, opts Options) (*Run, error) {
	constituents, err := s.resolveUniverse(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("analysis run started", "tickers", len(constituents), "refresh", opts.ForceRefresh)

	results := s.fetchAll(ctx, constituents, opts.ForceRefresh)

	run := &Run{GeneratedAt: time.Now().UTC()}
	byTicker := make(map[string]domain.FundamentalsRecord)
	for ticker, f := range results {
		if f.err == nil {
			byTicker[ticker] = f.rec
		}
	}
	medians := relative.SectorEVEBITDAMedians(byTicker)
	s.logger.Info("sector peer medians computed", "sectors", len(medians))

	for _, c := range constituents {
		f := results[c.Ticker]
		if f.err != nil {
			run.Failures = append(run.Failures, Failure{Ticker: c.Ticker, Reason: f.err.Error()})
			continue
		}
		run.Rows = append(run.Rows, s.analyze(c, f, byTicker, medians))
	}

	sort.Slice(run.Rows, func(i, j int) bool { return run.Rows[i].Ticker < run.Rows[j].Ticker })
	s.logger.Info("analysis run finished", "analyzed", len(run.Rows), "failed", len(run.Failures))
	return run, nil
}

func (s *Service) resolveUniverse(ctx context.Context, opts Options) ([]domain.Constituent, error) {
	constituents, err := s.universe.Constituents(ctx)
	if err != nil {
		return nil, err
	}
	if len(opts.Tickers) == 0 {
		return constituents, nil
	}

	known := lo.KeyBy(constituents, func(c domain.Constituent) string { return c.Ticker })
	selected := make([]domain.Constituent, 0, len(opts.Tickers))
	for _, t := range opts.Tickers {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker == "" {
			continue
		}
		if c, ok := known[ticker]; ok {
			selected = append(selected, c)
		} else {
			// Off-universe ticker: sector metadata comes from fundamentals.
			selected = append(selected, domain.Constituent{Ticker: ticker})
		}
	}
	return selected, nil
}

// fetchAll fans the data fetch out over a bounded worker pool.
func (s *Service) fetchAll(ctx context.Context, constituents []domain.Constituent, forceRefresh bool) map[string]*fetched {
	results := make(map[string]*fetched, len(constituents))
	for _, c := range constituents {
		results[c.Ticker] = &fetched{constituent: c}
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)
	for _, c := range constituents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			f := results[c.Ticker]
			f.rec, f.err = s.data.Fundamentals(ctx, c.Ticker, forceRefresh)
			if f.err != nil {
				s.logger.Warn("fundamentals fetch failed", "ticker", c.Ticker, "error", f.err)
				return
			}
			bars, err := s.data.PriceHistory(ctx, c.Ticker)
			if err != nil {
				// Technicals degrade gracefully without price history.
				s.logger.Warn("price history fetch failed", "ticker", c.Ticker, "error", err)
				return
			}
			f.bars = bars
		}()
	}
	wg.Wait()
	return results
}

func (s *Service) analyze(c domain.Constituent, f *fetched, all map[string]domain.FundamentalsRecord, medians map[string]float64) Row {
	rec := f.rec
	if rec.Sector == "" {
		rec.Sector = c.Sector
	}

	peer := valuation.PeerContext{}
	if m, ok := medians[rec.Sector]; ok {
		peer.MedianEVToEBITDA = &m
	}

	val := s.engine.Valuate(rec, peer)
	rel := relative.Valuate(c.Ticker, rec, all)
	tech := technicals.Compute(f.bars, s.engine.Config().RiskFreeRate)
	sig := signal.Generate(val, rel, tech)

	return Row{
		Ticker:       c.Ticker,
		CompanyName:  c.CompanyName,
		Sector:       rec.Sector,
		SubIndustry:  c.SubIndustry,
		Fundamentals: rec,
		Valuation:    val,
		Relative:     rel,
		Technicals:   tech,
		Signal:       sig,
	}
}
