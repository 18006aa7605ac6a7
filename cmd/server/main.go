package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "stockin-agent/internal/adapters/web"
	"stockin-agent/internal/ai"
	"stockin-agent/internal/app"
	"stockin-agent/internal/config"
	"stockin-agent/internal/core"
	"stockin-agent/internal/db"
	"stockin-agent/internal/logging"
	"stockin-agent/internal/metrics"
	"stockin-agent/internal/notify"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store core.PurchaseOrderService
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()
		store = core.NewPurchaseOrderService(pool)
	} else {
		logger.Warn("DATABASE_URL is not set, serving in-memory demo data")
		store = core.NewMemoryPurchaseOrderService(core.DemoPurchaseOrders(), core.DemoProducts())
	}

	opts := app.Options{
		ScanInterval: cfg.ScanInterval,
		JitterMin:    cfg.ScanJitterMin,
		JitterMax:    cfg.ScanJitterMax,
		Metrics:      metrics.NewRegistry(),
		Logger:       logger,
	}
	if cfg.OpenAIAPIKey != "" {
		opts.Summarizer = ai.NewAgent(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		logger.Warn("OPENAI_API_KEY is not set, receipts will not be summarized")
	}

	bus := notify.NewBus(logger, notify.DefaultHistory)
	svc := app.NewAppService(store, bus, opts)
	defer svc.Shutdown()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           webAdapter.NewHandler(svc, cfg.AllowedOrigins, opts.Metrics.Handler(), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
