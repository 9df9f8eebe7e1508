// Command migrate applies the ledger schema and reports the order number
// the next sale of today would receive.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"till-ledger/internal/config"
	"till-ledger/internal/database"
	"till-ledger/internal/repository"
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
	logger := config.NewLogger(cfg, "migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query current database: %w", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	loc, err := cfg.Ledger.Location()
	if err != nil {
		return err
	}
	calendar := service.NewCalendar(loc)
	today := calendar.Today()

	next, err := repository.NewSequenceRepository(pool, logger).Peek(ctx, today)
	if err != nil {
		return err
	}

	fmt.Printf("Schema applied to database %s; next order number for %s is %d\n",
		dbName, today.Format(time.DateOnly), next)
	return nil
}
