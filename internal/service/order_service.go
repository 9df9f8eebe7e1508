package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"till-ledger/internal/model"
	"till-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Money columns are NUMERIC(12,2).
const moneyScale = 2

var moneyLimit = decimal.New(1, 10)

// storableAmount reports whether d fits a NUMERIC(12,2) column without rounding.
func storableAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(moneyScale)) && d.Abs().LessThan(moneyLimit)
}

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	sequenceRepo repository.SequenceRepository
	calendar     *Calendar
	retries      int
	logger       zerolog.Logger
}

// NewOrderService creates a new order service. retries bounds how many
// times a write is repeated after a duplicate order number.
func NewOrderService(
	orderRepo repository.OrderRepository,
	sequenceRepo repository.SequenceRepository,
	calendar *Calendar,
	retries int,
	logger zerolog.Logger,
) OrderService {
	if retries < 0 {
		retries = 0
	}
	return &orderService{
		orderRepo:    orderRepo,
		sequenceRepo: sequenceRepo,
		calendar:     calendar,
		retries:      retries,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder records a sale and its lines atomically.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.CreateOrderResult, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		result, err := s.writeOrder(ctx, req)
		if err == nil {
			return result, nil
		}

		if !repository.IsOrderNumberConflict(err) {
			return nil, err
		}

		lastErr = err
		s.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Msg("order number already taken, retrying")
	}

	s.logger.Error().
		Err(lastErr).
		Int("retries", s.retries).
		Msg("order number allocation kept conflicting")
	return nil, model.ErrSequenceConflict
}

// writeOrder runs one attempt: allocate, insert header, insert lines, commit.
// The transaction runs detached from caller cancellation so it always ends
// in a commit or a rollback.
func (s *orderService) writeOrder(ctx context.Context, req *model.OrderRequest) (result *model.CreateOrderResult, err error) {
	ctx = context.WithoutCancel(ctx)

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, model.NewWriteError(model.StageBegin, err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// The sale belongs to the day it was rung up on, even if the counter
	// lock is only granted after midnight.
	day := s.calendar.DayOf(s.calendar.Now())

	number, err := s.sequenceRepo.Next(ctx, tx, day)
	if err != nil {
		return nil, model.NewWriteError(model.StageAllocate, err)
	}

	// Stamped once the number is held so created_at follows number order.
	now := s.calendar.Now()

	order := &model.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		BusinessDate:  day,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		CashierID:     req.CashierID,
		CashierName:   req.CashierName,
		CreatedAt:     now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("order_number", number).
			Msg("failed to create order")
		return nil, model.NewWriteError(model.StageHeader, err)
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = model.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			LineNo:   i + 1,
			ItemID:   item.ItemID,
			ItemName: item.ItemName,
			Qty:      item.Qty,
			Price:    item.Price,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, model.NewWriteError(model.StageLines, err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, model.NewWriteError(model.StageCommit, err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("order_number", number).
		Str("business_date", day.Format(time.DateOnly)).
		Str("payment_method", string(order.PaymentMethod)).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	return &model.CreateOrderResult{
		Success:     true,
		OrderID:     &order.ID,
		OrderNumber: &order.OrderNumber,
	}, nil
}

// ListOrders returns the orders of date, most recent first.
func (s *orderService) ListOrders(ctx context.Context, date string) ([]model.OrderSummary, error) {
	day, err := s.calendar.Resolve(date)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByDay(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).Str("business_date", day.Format(time.DateOnly)).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// GetOrderDetail returns an order with its lines, or nil if it does not exist.
func (s *orderService) GetOrderDetail(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return model.NewOrderDetail(order, items), nil
}

// NextOrderNumber previews the next order number of date.
func (s *orderService) NextOrderNumber(ctx context.Context, date string) (*model.NextNumber, error) {
	day, err := s.calendar.Resolve(date)
	if err != nil {
		return nil, err
	}

	next, err := s.sequenceRepo.Peek(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).Str("business_date", day.Format(time.DateOnly)).Msg("failed to peek order number")
		return nil, fmt.Errorf("failed to read next order number: %w", err)
	}

	return &model.NextNumber{
		Date:        day.Format(time.DateOnly),
		OrderNumber: next,
	}, nil
}

// validateOrderRequest validates the order request.
// An empty cart is accepted; the caller owns the total.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "order request is required")
	}

	if !req.PaymentMethod.Valid() {
		s.logger.Warn().Str("payment_method", string(req.PaymentMethod)).Msg("invalid payment method")
		return model.ErrInvalidPaymentMethod
	}

	if strings.TrimSpace(req.CashierID) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "cashier id is required")
	}

	if strings.TrimSpace(req.CashierName) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "cashier name is required")
	}

	if req.Total.IsNegative() {
		return model.ErrInvalidTotal
	}

	if !storableAmount(req.Total) {
		return model.ErrTotalScale
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.ItemName) == "" {
			return model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("item %d: item name is required", i))
		}

		if item.Qty <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Int("item_id", item.ItemID).
				Int("qty", item.Qty).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}

		if item.Price.IsNegative() {
			return model.ErrInvalidPrice
		}

		if !storableAmount(item.Price) {
			return model.ErrPriceScale
		}
	}

	return nil
}
