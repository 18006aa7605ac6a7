// restore-seed returns the demo purchase orders to their seeded state.
// Run it after a demo session has finalized shipments against the live database.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"fmt"
	"os"

	"stockin-agent/internal/config"
	"stockin-agent/internal/db"
	"stockin-agent/internal/logging"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "restore-seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM stock_in_receipt_lines`)
	if err != nil {
		return fmt.Errorf("failed to clear receipt lines: %w", err)
	}
	logger.Info("receipt lines cleared", zap.Int64("rows", tag.RowsAffected()))

	tag, err = tx.Exec(ctx, `DELETE FROM stock_in_receipts`)
	if err != nil {
		return fmt.Errorf("failed to clear receipts: %w", err)
	}
	logger.Info("receipts cleared", zap.Int64("rows", tag.RowsAffected()))

	tag, err = tx.Exec(ctx, `UPDATE purchase_orders SET status = 'Pending' WHERE status <> 'Cancelled'`)
	if err != nil {
		return fmt.Errorf("failed to reset purchase order status: %w", err)
	}
	logger.Info("purchase orders reset", zap.Int64("rows", tag.RowsAffected()))

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	logger.Info("seed restored")
	return nil
}
