package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the ledger DDL. It is idempotent.
//
// business_date is the local calendar day of created_at and scopes the
// order number: (business_date, order_number) is unique, and
// order_sequences keeps one counter row per day.
const Schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id             UUID PRIMARY KEY,
		order_number   INTEGER NOT NULL CHECK (order_number > 0),
		business_date  DATE NOT NULL,
		total          NUMERIC(12,2) NOT NULL CHECK (total >= 0),
		payment_method TEXT NOT NULL CHECK (payment_method IN ('cash', 'promptpay', 'card')),
		cashier_id     TEXT NOT NULL,
		cashier_name   TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		CONSTRAINT orders_business_date_order_number_key UNIQUE (business_date, order_number)
	);

	CREATE INDEX IF NOT EXISTS idx_orders_business_date_created_at
		ON orders (business_date, created_at DESC);

	CREATE TABLE IF NOT EXISTS order_items (
		id        UUID PRIMARY KEY,
		order_id  UUID NOT NULL REFERENCES orders(id),
		line_no   INTEGER NOT NULL,
		item_id   INTEGER NOT NULL,
		item_name TEXT NOT NULL,
		qty       INTEGER NOT NULL CHECK (qty > 0),
		price     NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		UNIQUE (order_id, line_no)
	);

	CREATE TABLE IF NOT EXISTS order_sequences (
		business_date DATE PRIMARY KEY,
		last_number   INTEGER NOT NULL
	);
`

// Migrate applies Schema to the database behind pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply ledger schema")
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("ledger schema applied")
	return nil
}
