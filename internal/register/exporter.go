// Package register produces the end-of-day register: a gzipped JSON lines
// document holding the day's summary followed by every order of the day.
package register

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"till-ledger/internal/model"
	"till-ledger/internal/service"

	"github.com/rs/zerolog"
)

// Record kinds in a register file.
const (
	KindSummary = "summary"
	KindOrder   = "order"
)

// Record is one line of a register file. Exactly one of Summary or Order is set.
type Record struct {
	Kind    string              `json:"kind"`
	Summary *model.DailySummary `json:"summary,omitempty"`
	Order   *model.OrderSummary `json:"order,omitempty"`
}

// ExportResult describes a written register.
type ExportResult struct {
	Date       string `json:"date"`
	OrderCount int    `json:"order_count"`
	Location   string `json:"location"`
	Bytes      int    `json:"bytes"`
}

// Exporter builds registers from the ledger read side and hands them to a Sink.
type Exporter struct {
	orders   service.OrderService
	calendar *service.Calendar
	sink     Sink
	logger   zerolog.Logger
}

// NewExporter creates a register exporter.
func NewExporter(orders service.OrderService, calendar *service.Calendar, sink Sink, logger zerolog.Logger) *Exporter {
	return &Exporter{
		orders:   orders,
		calendar: calendar,
		sink:     sink,
		logger:  logger.With().Str("component", "register-exporter").Logger(),
	}
}

// FileName returns the register name for a YYYY-MM-DD date.
func FileName(date string) string {
	return date + ".jsonl.gz"
}

// Export writes the register for date (YYYY-MM-DD, empty for today).
// The summary line is computed from the same listing as the order lines,
// so the two always agree. Orders are written in order number order.
func (e *Exporter) Export(ctx context.Context, date string) (*ExportResult, error) {
	day, err := e.calendar.Resolve(date)
	if err != nil {
		return nil, err
	}
	date = day.Format(time.DateOnly)

	orders, err := e.orders.ListOrders(ctx, date)
	if err != nil {
		return nil, err
	}
	summary := model.SummarizeOrders(date, orders)

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderNumber < orders[j].OrderNumber
	})

	body, err := Encode(summary, orders)
	if err != nil {
		e.logger.Error().Err(err).Str("business_date", summary.Date).Msg("failed to encode register")
		return nil, err
	}

	location, err := e.sink.Put(ctx, FileName(summary.Date), body)
	if err != nil {
		return nil, fmt.Errorf("failed to store register: %w", err)
	}

	e.logger.Info().
		Str("business_date", summary.Date).
		Int("order_count", len(orders)).
		Str("location", location).
		Msg("register exported")

	return &ExportResult{
		Date:       summary.Date,
		OrderCount: len(orders),
		Location:   location,
		Bytes:      len(body),
	}, nil
}

// Encode renders a register as gzipped JSON lines.
func Encode(summary *model.DailySummary, orders []model.OrderSummary) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	enc := json.NewEncoder(zw)

	if err := enc.Encode(Record{Kind: KindSummary, Summary: summary}); err != nil {
		return nil, fmt.Errorf("failed to encode register summary: %w", err)
	}
	for i := range orders {
		if err := enc.Encode(Record{Kind: KindOrder, Order: &orders[i]}); err != nil {
			return nil, fmt.Errorf("failed to encode register order %d: %w", orders[i].OrderNumber, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress register: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads back a register produced by Encode.
func Decode(body []byte) ([]Record, error) {
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	var records []Record
	dec := json.NewDecoder(zr)
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode register record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
