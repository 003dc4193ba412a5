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

	"caixa/internal/amqp"
	"caixa/internal/config"
	"caixa/internal/sheets"
	gsheet "caixa/internal/sheets/google"
	mem "caixa/internal/sheets/memory"
	"caixa/internal/storage"
	"caixa/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting caixa-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Without a spreadsheet the worker drains the queue into an in-memory
	// mirror, useful for local development against a real broker.
	var mirror sheets.EntryMirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		mirror = mem.New()
		logger.Info("Google Sheets disabled - mirroring to memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(repo, mirror)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		handler := func(msg *amqp.EntryChangeMessage) error {
			return mirrorWorker.HandleEntryChange(ctx, msg)
		}
		if err := amqpClient.ConsumeEntryChanges(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the in-flight delivery a moment to ack before the connection drops.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
