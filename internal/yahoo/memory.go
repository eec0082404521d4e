package yahoo

import (
	"context"
	"sync"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// MemRepository is an in-memory Repository for one-shot runs without a
// database. It deduplicates fetches within a single process lifetime only.
type MemRepository struct {
	mu      sync.Mutex
	records map[string]domain.FundamentalsRecord
}

// NewMemRepository creates an empty in-memory fundamentals repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{records: make(map[string]domain.FundamentalsRecord)}
}

func (r *MemRepository) Save(_ context.Context, rec domain.FundamentalsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Ticker] = rec
	return nil
}

func (r *MemRepository) Get(_ context.Context, ticker string) (*domain.FundamentalsRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[ticker]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}
