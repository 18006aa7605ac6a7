package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockin-agent/internal/adapters/cli"
	"stockin-agent/internal/adapters/repl"
	"stockin-agent/internal/ai"
	"stockin-agent/internal/app"
	"stockin-agent/internal/config"
	"stockin-agent/internal/core"
	"stockin-agent/internal/db"
	"stockin-agent/internal/logging"
	"stockin-agent/internal/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// The REPL owns stdout.
	logger, err := logging.New(cfg.LogMode, "stderr")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store core.PurchaseOrderService
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}
		defer pool.Close()
		store = core.NewPurchaseOrderService(pool)
	} else {
		store = core.NewMemoryPurchaseOrderService(core.DemoPurchaseOrders(), core.DemoProducts())
	}

	opts := app.Options{
		ScanInterval: cfg.ScanInterval,
		JitterMin:    cfg.ScanJitterMin,
		JitterMax:    cfg.ScanJitterMax,
		Logger:       logger,
	}
	if cfg.OpenAIAPIKey != "" {
		opts.Summarizer = ai.NewAgent(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	svc := app.NewAppService(store, notify.NewBus(logger, notify.DefaultHistory), opts)
	defer svc.Shutdown()

	if len(os.Args) > 1 {
		return cli.Run(ctx, svc, os.Args[1:], os.Stdout)
	}
	return repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
}
