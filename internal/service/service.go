package service

import (
	"context"

	"till-ledger/internal/model"

	"github.com/google/uuid"
)

// OrderService defines operations for recording and reading sales.
type OrderService interface {
	// CreateOrder records a sale and its lines atomically and assigns the
	// day's next order number.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.CreateOrderResult, error)

	// ListOrders returns the orders of date (YYYY-MM-DD, empty for today), most recent first.
	ListOrders(ctx context.Context, date string) ([]model.OrderSummary, error)

	// GetOrderDetail returns an order with its lines, or nil if it does not exist.
	GetOrderDetail(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)

	// NextOrderNumber previews the number the next order of date would receive.
	NextOrderNumber(ctx context.Context, date string) (*model.NextNumber, error)
}

// ReportService defines revenue reporting operations.
type ReportService interface {
	// DailySummary returns order count and revenue per payment method for
	// date (YYYY-MM-DD, empty for today).
	DailySummary(ctx context.Context, date string) (*model.DailySummary, error)
}
