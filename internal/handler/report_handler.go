package handler

import (
	"context"
	"net/http"

	"till-ledger/internal/register"
	"till-ledger/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// Daily handles GET /api/reports/daily?date=YYYY-MM-DD requests.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DailySummary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "failed to build daily summary", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// RegisterExporter writes the end-of-day register for a date.
type RegisterExporter interface {
	Export(ctx context.Context, date string) (*register.ExportResult, error)
}

// RegisterHandler handles register export requests.
type RegisterHandler struct {
	exporter RegisterExporter
	logger   zerolog.Logger
}

// NewRegisterHandler creates a new register handler.
func NewRegisterHandler(exporter RegisterExporter, logger zerolog.Logger) *RegisterHandler {
	return &RegisterHandler{
		exporter: exporter,
		logger:   logger.With().Str("handler", "register").Logger(),
	}
}

// Export handles POST /api/registers/export?date=YYYY-MM-DD requests.
func (h *RegisterHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.exporter.Export(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "failed to export register", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
