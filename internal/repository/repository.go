package repository

import (
	"context"
	"time"

	"till-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Business days are passed as time.Time values whose year, month and day
// are the local calendar date; the clock part is ignored.

// SequenceRepository allocates per-day order numbers.
type SequenceRepository interface {
	// Next reserves the next order number for day inside tx.
	// The reservation is released if tx rolls back.
	Next(ctx context.Context, tx pgx.Tx, day time.Time) (int, error)

	// Peek returns max(order_number) + 1 for day, or 1 when the day has no orders.
	// It reserves nothing.
	Peek(ctx context.Context, day time.Time) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order lines, in slice order, within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	// A missing order yields nil values and a nil error.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByDay returns summaries of the orders of day, most recent first.
	ListByDay(ctx context.Context, day time.Time) ([]model.OrderSummary, error)
}

// ReportRepository defines aggregate queries over the ledger.
type ReportRepository interface {
	// DailyTotals returns order count and revenue per payment method for day.
	DailyTotals(ctx context.Context, day time.Time) (*model.DailySummary, error)
}
