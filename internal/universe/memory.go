package universe

import (
	"context"
	"sync"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// MemRepository is an in-memory Repository for one-shot runs without a
// database.
type MemRepository struct {
	mu           sync.Mutex
	constituents []domain.Constituent
	refreshedAt  time.Time
}

// NewMemRepository creates an empty in-memory universe repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{}
}

func (r *MemRepository) Replace(_ context.Context, constituents []domain.Constituent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constituents = append([]domain.Constituent(nil), constituents...)
	r.refreshedAt = time.Now().UTC()
	return nil
}

func (r *MemRepository) List(_ context.Context) ([]domain.Constituent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.constituents) == 0 {
		return nil, ErrEmpty
	}
	return append([]domain.Constituent(nil), r.constituents...), nil
}

func (r *MemRepository) LastRefreshed(_ context.Context) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refreshedAt.IsZero() {
		return time.Time{}, ErrEmpty
	}
	return r.refreshedAt, nil
}
