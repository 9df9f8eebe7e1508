package repository

import (
	"context"
	"testing"
	"time"

	"till-ledger/internal/database"
	"till-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container and applies the ledger schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// writeOrder commits an order with its lines, allocating the number through
// the sequence repository the same way the service does.
func writeOrder(
	ctx context.Context,
	orderRepo OrderRepository,
	seqRepo SequenceRepository,
	order *model.Order,
	items []model.OrderItem,
) (err error) {
	tx, err := orderRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if order.OrderNumber, err = seqRepo.Next(ctx, tx, order.BusinessDate); err != nil {
		return err
	}
	if err = orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return err
	}

	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
		items[i].LineNo = i + 1
	}
	if err = orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func newOrder(businessDate, createdAt time.Time, method model.PaymentMethod, total string) *model.Order {
	return &model.Order{
		ID:            uuid.New(),
		BusinessDate:  businessDate,
		Total:         decimal.RequireFromString(total),
		PaymentMethod: method,
		CashierID:     "u1",
		CashierName:   "Amy",
		CreatedAt:     createdAt,
	}
}

// insertOrder is writeOrder for the test goroutine.
func insertOrder(
	t *testing.T,
	orderRepo OrderRepository,
	seqRepo SequenceRepository,
	businessDate time.Time,
	createdAt time.Time,
	method model.PaymentMethod,
	total string,
	items ...model.OrderItem,
) *model.Order {
	t.Helper()

	order := newOrder(businessDate, createdAt, method, total)
	require.NoError(t, writeOrder(context.Background(), orderRepo, seqRepo, order, items))
	return order
}

func line(itemID int, name string, qty int, price string) model.OrderItem {
	return model.OrderItem{ItemID: itemID, ItemName: name, Qty: qty, Price: decimal.RequireFromString(price)}
}
