package repository

import (
	"context"
	"fmt"
	"time"

	"till-ledger/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reportRepository implements ReportRepository using PostgreSQL.
type reportRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "report").Logger(),
	}
}

// DailyTotals returns order count and revenue per payment method for day.
// Missing methods come back as zero.
func (r *reportRepository) DailyTotals(ctx context.Context, day time.Time) (*model.DailySummary, error) {
	query := `
		SELECT
			COUNT(*)::bigint,
			COALESCE(SUM(total), 0),
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'cash'), 0),
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'promptpay'), 0),
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'card'), 0)
		FROM orders
		WHERE business_date = $1::date
	`

	summary := model.DailySummary{Date: day.Format(time.DateOnly)}
	err := r.pool.QueryRow(ctx, query, day).Scan(
		&summary.OrderCount,
		&summary.TotalRevenue,
		&summary.CashTotal,
		&summary.PromptPayTotal,
		&summary.CardTotal,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("business_date", summary.Date).
			Msg("failed to aggregate daily totals")
		return nil, fmt.Errorf("failed to aggregate daily totals: %w", err)
	}

	return &summary, nil
}
