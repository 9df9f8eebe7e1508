package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// sequenceRepository implements SequenceRepository with a per-day counter row.
type sequenceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSequenceRepository creates a new PostgreSQL-backed order number allocator.
func NewSequenceRepository(pool *pgxpool.Pool, logger zerolog.Logger) SequenceRepository {
	return &sequenceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "sequence").Logger(),
	}
}

// The upsert locks the day's counter row until tx ends, so writers on the
// same day queue behind each other. A fresh row is seeded from the orders
// already recorded for the day.
const nextOrderNumberQuery = `
	INSERT INTO order_sequences AS s (business_date, last_number)
	SELECT $1::date, COALESCE(MAX(o.order_number), 0) + 1
	FROM orders o
	WHERE o.business_date = $1::date
	ON CONFLICT (business_date) DO UPDATE
	SET last_number = GREATEST(s.last_number, EXCLUDED.last_number - 1) + 1
	RETURNING last_number
`

// Next reserves the next order number for day inside tx.
func (r *sequenceRepository) Next(ctx context.Context, tx pgx.Tx, day time.Time) (int, error) {
	var next int
	if err := tx.QueryRow(ctx, nextOrderNumberQuery, day).Scan(&next); err != nil {
		r.logger.Error().
			Err(err).
			Str("business_date", day.Format(time.DateOnly)).
			Msg("failed to allocate order number")
		return 0, fmt.Errorf("failed to allocate order number: %w", err)
	}

	r.logger.Debug().
		Str("business_date", day.Format(time.DateOnly)).
		Int("order_number", next).
		Msg("order number allocated")

	return next, nil
}

// Peek returns the number the next order of day would get.
func (r *sequenceRepository) Peek(ctx context.Context, day time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(order_number), 0) + 1
		FROM orders
		WHERE business_date = $1::date
	`

	var next int
	if err := r.pool.QueryRow(ctx, query, day).Scan(&next); err != nil {
		r.logger.Error().
			Err(err).
			Str("business_date", day.Format(time.DateOnly)).
			Msg("failed to read next order number")
		return 0, fmt.Errorf("failed to read next order number: %w", err)
	}

	return next, nil
}
