package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the header row of one completed sale.
// Cashier fields are copied from the auth collaborator at sale time.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OrderNumber   int             `json:"order_number" db:"order_number"`
	BusinessDate  time.Time       `json:"-" db:"business_date"`
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method" db:"payment_method"`
	CashierID     string          `json:"cashier_id" db:"cashier_id"`
	CashierName   string          `json:"cashier_name" db:"cashier_name"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// OrderItem is a line of an order. ItemID, ItemName and Price are a
// snapshot of the menu item when the sale was made.
type OrderItem struct {
	ID       uuid.UUID       `json:"-" db:"id"`
	OrderID  uuid.UUID       `json:"-" db:"order_id"`
	LineNo   int             `json:"-" db:"line_no"`
	ItemID   int             `json:"item_id" db:"item_id"`
	ItemName string          `json:"item_name" db:"item_name"`
	Qty      int             `json:"qty" db:"qty"`
	Price    decimal.Decimal `json:"price" db:"price"`
}

// Subtotal returns qty * price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod PaymentMethod      `json:"payment_method"`
	CashierID     string             `json:"cashier_id"`
	CashierName   string             `json:"cashier_name"`
}

// OrderItemRequest represents a single cart line in an order request.
type OrderItemRequest struct {
	ItemID   int             `json:"item_id"`
	ItemName string          `json:"item_name"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
}

// CreateOrderResult is returned by create_order for both outcomes.
type CreateOrderResult struct {
	Success     bool       `json:"success"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	OrderNumber *int       `json:"order_number,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// OrderSummary is one row of the daily order listing.
type OrderSummary struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   int             `json:"order_number"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CashierName   string          `json:"cashier_name"`
	CreatedAt     time.Time       `json:"created_at"`
	ItemCount     int64           `json:"item_count"`
}

// OrderDetail is an order header with its lines.
type OrderDetail struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   int               `json:"order_number"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	CashierID     string            `json:"cashier_id"`
	CashierName   string            `json:"cashier_name"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemDetail `json:"items"`
}

// OrderItemDetail is a stored line plus its computed subtotal.
type OrderItemDetail struct {
	ItemID   int             `json:"item_id"`
	ItemName string          `json:"item_name"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// NewOrderDetail assembles a detail view from a header and its lines.
func NewOrderDetail(order *Order, items []OrderItem) *OrderDetail {
	details := make([]OrderItemDetail, len(items))
	for i, item := range items {
		details[i] = OrderItemDetail{
			ItemID:   item.ItemID,
			ItemName: item.ItemName,
			Qty:      item.Qty,
			Price:    item.Price,
			Subtotal: item.Subtotal(),
		}
	}

	return &OrderDetail{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		CashierID:     order.CashierID,
		CashierName:   order.CashierName,
		CreatedAt:     order.CreatedAt,
		Items:         details,
	}
}
