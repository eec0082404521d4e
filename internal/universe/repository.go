package universe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// ErrEmpty indicates the universe cache holds no constituents.
var ErrEmpty = errors.New("universe cache empty")

// Repository defines persistent storage for the constituent universe.
type Repository interface {
	Replace(ctx context.Context, constituents []domain.Constituent) error
	List(ctx context.Context) ([]domain.Constituent, error)
	LastRefreshed(ctx context.Context) (time.Time, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL universe repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Replace swaps the cached universe for a new set in one transaction.
func (r *PgRepository) Replace(ctx context.Context, constituents []domain.Constituent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting universe replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM universe_constituents`); err != nil {
		return fmt.Errorf("clearing universe: %w", err)
	}

	now := time.Now().UTC()
	for _, c := range constituents {
		_, err := tx.Exec(ctx,
			`INSERT INTO universe_constituents (ticker, company_name, sector, sub_industry, refreshed_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (ticker) DO NOTHING`,
			c.Ticker, c.CompanyName, c.Sector, c.SubIndustry, now)
		if err != nil {
			return fmt.Errorf("inserting constituent %s: %w", c.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing universe replace: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Constituent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ticker, company_name, sector, sub_industry
		 FROM universe_constituents
		 ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("listing universe: %w", err)
	}
	defer rows.Close()

	var constituents []domain.Constituent
	for rows.Next() {
		var c domain.Constituent
		if err := rows.Scan(&c.Ticker, &c.CompanyName, &c.Sector, &c.SubIndustry); err != nil {
			return nil, fmt.Errorf("scanning constituent: %w", err)
		}
		constituents = append(constituents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating constituents: %w", err)
	}
	if len(constituents) == 0 {
		return nil, ErrEmpty
	}
	return constituents, nil
}

func (r *PgRepository) LastRefreshed(ctx context.Context) (time.Time, error) {
	var ts *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT max(refreshed_at) FROM universe_constituents`).Scan(&ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrEmpty
		}
		return time.Time{}, fmt.Errorf("reading universe refresh time: %w", err)
	}
	// max() over an empty table yields NULL.
	if ts == nil {
		return time.Time{}, ErrEmpty
	}
	return *ts, nil
}
