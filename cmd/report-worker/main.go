package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cashbook/internal/amqp"
	"cashbook/internal/config"
	"cashbook/internal/sheets"
	gsheet "cashbook/internal/sheets/google"
	mem "cashbook/internal/sheets/memory"
	"cashbook/internal/storage"
	"cashbook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting report-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewEntryRepository(cfg.SQLiteDBPath, cfg.UserID)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Without a spreadsheet the worker still runs, keeping reports in memory
	// so the consume loop drains the queue.
	var writer sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = mem.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewReportWorker(repo, writer, cfg.UserID, cfg.ReportDebounce, cfg.ReportInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.Consume(gctx, w.HandleChangeMessage)
	})

	g.Go(func() error {
		return w.Run(gctx)
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("report-worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("report-worker stopped gracefully")
}
