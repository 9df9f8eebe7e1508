package model

import "github.com/shopspring/decimal"

// DailySummary holds revenue totals for one business day.
// CashTotal, PromptPayTotal and CardTotal partition TotalRevenue.
type DailySummary struct {
	Date           string          `json:"date"`
	OrderCount     int64           `json:"order_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	CashTotal      decimal.Decimal `json:"cash_total"`
	PromptPayTotal decimal.Decimal `json:"promptpay_total"`
	CardTotal      decimal.Decimal `json:"card_total"`
}

// NextNumber is the order number the next sale of the day would receive.
type NextNumber struct {
	Date        string `json:"date"`
	OrderNumber int    `json:"order_number"`
}

// SummarizeOrders totals an order listing into a DailySummary for date.
func SummarizeOrders(date string, orders []OrderSummary) *DailySummary {
	summary := &DailySummary{
		Date:           date,
		OrderCount:     int64(len(orders)),
		TotalRevenue:   decimal.Zero,
		CashTotal:      decimal.Zero,
		PromptPayTotal: decimal.Zero,
		CardTotal:      decimal.Zero,
	}

	for _, o := range orders {
		summary.TotalRevenue = summary.TotalRevenue.Add(o.Total)
		switch o.PaymentMethod {
		case PaymentCash:
			summary.CashTotal = summary.CashTotal.Add(o.Total)
		case PaymentPromptPay:
			summary.PromptPayTotal = summary.PromptPayTotal.Add(o.Total)
		case PaymentCard:
			summary.CardTotal = summary.CardTotal.Add(o.Total)
		}
	}
	return summary
}
