package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cashbook/internal/amqp"
	"cashbook/internal/cashbook"
	"cashbook/internal/config"
	"cashbook/internal/core"
	"cashbook/internal/report"
	"cashbook/internal/storage"
	"cashbook/internal/suggest"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting cashbookd")

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

	opts := []cashbook.Option{}

	// Change-event publishing is optional; without it the report worker
	// falls back to its periodic refresh.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		opts = append(opts, cashbook.WithPublisher(amqpClient))
		logger.Info("AMQP change events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	if cfg.GeminiAPIKey != "" {
		opts = append(opts, cashbook.WithSuggester(suggest.NewClient(cfg.GeminiAPIKey)))
		logger.Info("Gemini suggestions enabled")
	} else {
		logger.Info("Gemini suggestions disabled - no GEMINI_API_KEY provided")
	}

	session := cashbook.NewSession(repo, cfg.UserID, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return session.Run(gctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case sig := <-sigChan:
				if sig == syscall.SIGHUP {
					// Print the current report on demand.
					r := report.Build(session.Entries(), session.Filter(), time.Now())
					if err := r.Render(os.Stdout); err != nil {
						logger.Error("Report rendering failed", "error", err)
					}
					continue
				}
				logger.Info("Shutdown signal received", "signal", sig.String())
				cancel()
				return nil
			}
		}
	})

	g.Go(func() error {
		// Periodic one-line summary so the log doubles as a balance trail.
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				logSummary(gctx, session.Totals())
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("cashbookd stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("cashbookd stopped gracefully")
}

func logSummary(ctx context.Context, s core.Summary) {
	slog.InfoContext(ctx, "ledger summary",
		"total_in", s.TotalIn,
		"total_out", s.TotalOut,
		"balance", s.Balance,
		"total_due", s.TotalDue,
		"total_pages", s.TotalPages)
}
