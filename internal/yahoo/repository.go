package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// ErrNotFound indicates there is no cached record for the ticker.
var ErrNotFound = errors.New("fundamentals not found")

// Repository defines persistent storage for fetched fundamentals.
type Repository interface {
	Save(ctx context.Context, rec domain.FundamentalsRecord) error
	Get(ctx context.Context, ticker string) (*domain.FundamentalsRecord, error)
}

// PgRepository implements Repository with PostgreSQL. Records are stored as
// JSONB blobs keyed by ticker; the fetched_at column is denormalized for
// staleness checks without unpacking the blob.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL fundamentals repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, rec domain.FundamentalsRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling fundamentals for %s: %w", rec.Ticker, err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO fundamentals_cache (ticker, data, fetched_at)
		 VALUES ($1, $2::jsonb, $3)
		 ON CONFLICT (ticker)
		 DO UPDATE SET data = $2::jsonb, fetched_at = $3`,
		rec.Ticker, data, rec.FetchedAt)
	if err != nil {
		return fmt.Errorf("saving fundamentals for %s: %w", rec.Ticker, err)
	}
	return nil
}

func (r *PgRepository) Get(ctx context.Context, ticker string) (*domain.FundamentalsRecord, error) {
	var data []byte
	var fetchedAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT data, fetched_at FROM fundamentals_cache WHERE ticker = $1`,
		ticker).Scan(&data, &fetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting fundamentals for %s: %w", ticker, err)
	}

	var rec domain.FundamentalsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling fundamentals for %s: %w", ticker, err)
	}
	rec.FetchedAt = fetchedAt
	return &rec, nil
}
