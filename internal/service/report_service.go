package service

import (
	"context"
	"fmt"
	"time"

	"till-ledger/internal/model"
	"till-ledger/internal/repository"

	"github.com/rs/zerolog"
)

// reportService implements ReportService.
type reportService struct {
	reportRepo repository.ReportRepository
	calendar   *Calendar
	logger     zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, calendar *Calendar, logger zerolog.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		calendar:   calendar,
		logger:     logger.With().Str("service", "report").Logger(),
	}
}

// DailySummary returns order count and revenue per payment method for date.
func (s *reportService) DailySummary(ctx context.Context, date string) (*model.DailySummary, error) {
	day, err := s.calendar.Resolve(date)
	if err != nil {
		return nil, err
	}

	summary, err := s.reportRepo.DailyTotals(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).Str("business_date", day.Format(time.DateOnly)).Msg("failed to build daily summary")
		return nil, fmt.Errorf("failed to build daily summary: %w", err)
	}

	summary.Date = day.Format(time.DateOnly)
	return summary, nil
}
