package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"till-ledger/internal/model"
	"till-ledger/internal/register"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_Daily(t *testing.T) {
	logger := zerolog.Nop()

	summary := &model.DailySummary{
		Date:           "2026-10-17",
		OrderCount:     2,
		TotalRevenue:   decimal.RequireFromString("210.00"),
		CashTotal:      decimal.RequireFromString("120.00"),
		PromptPayTotal: decimal.Zero,
		CardTotal:      decimal.RequireFromString("90.00"),
	}

	tests := []struct {
		name           string
		query          string
		date           string
		mockReturn     *model.DailySummary
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success",
			query:          "?date=2026-10-17",
			date:           "2026-10-17",
			mockReturn:     summary,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid date",
			query:          "?date=17-10-2026",
			date:           "17-10-2026",
			mockError:      model.ErrInvalidDate,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			query:          "",
			date:           "",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockReportService)
			handler := NewReportHandler(mockService, logger)

			mockService.On("DailySummary", mock.Anything, tt.date).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/reports/daily"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.Daily(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var got model.DailySummary
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, int64(2), got.OrderCount)
				assert.True(t, got.CashTotal.Equal(decimal.NewFromInt(120)))
				assert.True(t, got.PromptPayTotal.IsZero())
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_Export(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		exporter := new(MockRegisterExporter)
		handler := NewRegisterHandler(exporter, logger)
		exporter.On("Export", mock.Anything, "2026-10-17").Return(&register.ExportResult{
			Date:       "2026-10-17",
			OrderCount: 2,
			Location:   "s3://till-bucket/registers/2026-10-17.jsonl.gz",
			Bytes:      180,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/registers/export?date=2026-10-17", nil)
		w := httptest.NewRecorder()

		handler.Export(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got register.ExportResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "s3://till-bucket/registers/2026-10-17.jsonl.gz", got.Location)
		exporter.AssertExpectations(t)
	})

	t.Run("Sink failure", func(t *testing.T) {
		exporter := new(MockRegisterExporter)
		handler := NewRegisterHandler(exporter, logger)
		exporter.On("Export", mock.Anything, "").Return(nil, errors.New("failed to store register: disk full"))

		req := httptest.NewRequest(http.MethodPost, "/api/registers/export", nil)
		w := httptest.NewRecorder()

		handler.Export(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, "failed to export register", errResp.Message)
	})
}
