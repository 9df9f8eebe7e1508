package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"till-ledger/internal/config"
	"till-ledger/internal/database"
	"till-ledger/internal/handler"
	"till-ledger/internal/register"
	"till-ledger/internal/repository"
	"till-ledger/internal/router"
	"till-ledger/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg, "api")
	logger.Info().Msg("starting till ledger API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	loc, err := cfg.Ledger.Location()
	if err != nil {
		return fmt.Errorf("failed to load ledger timezone: %w", err)
	}
	calendar := service.NewCalendar(loc)
	logger.Info().
		Str("business_date", calendar.Today().Format(time.DateOnly)).
		Msg("ledger calendar ready")

	// Repositories
	orderRepo := repository.NewOrderRepository(pool, logger)
	sequenceRepo := repository.NewSequenceRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Services
	orderService := service.NewOrderService(orderRepo, sequenceRepo, calendar, cfg.Ledger.SequenceRetries, logger)
	reportService := service.NewReportService(reportRepo, calendar, logger)

	// Register export goes to S3 when enabled, with the local directory as fallback.
	fileSink := register.NewFileSink(cfg.Register.Dir, logger)
	var s3Sink register.Sink
	if cfg.S3.Enabled {
		s3Sink, err = register.NewS3Sink(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 sink, registers will be written to the local file system only")
			s3Sink = nil
		}
	} else {
		logger.Info().Str("dir", cfg.Register.Dir).Msg("using local file system for registers (S3 disabled)")
	}
	sink := register.NewFallbackSink(s3Sink, fileSink, cfg.S3.Enabled, logger)
	exporter := register.NewExporter(orderService, calendar, sink, logger)

	// HTTP
	orderHandler := handler.NewOrderHandler(orderService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	registerHandler := handler.NewRegisterHandler(exporter, logger)

	mux := router.New(orderHandler, reportHandler, registerHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// In-flight order writes run detached from request cancellation;
		// Shutdown waits for their handlers to return.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
