package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"caixa/internal/amqp"
	"caixa/internal/config"
	"caixa/internal/services"
	"caixa/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting caixa-recurring")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Copies created here go through the ledger service so they get audit
	// rows and mirror messages like any manual write.
	var publisher services.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized - copies will reach the mirror")
		}
	} else {
		logger.Info("AMQP disabled - copies stay in SQLite only")
	}

	ledger := services.NewLedgerService(repo, publisher)
	processor := services.NewRecurringProcessor(repo, ledger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Recurring bill processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	logger.Info("Running initial recurring bill processing...")
	if count, err := processor.ProcessDue(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "bills_created", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := processor.ProcessDue(ctx, now)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
				} else {
					logger.Info("Periodic processing complete",
						"bills_created", count,
						"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
				}
			}
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

	logger.Info("Shutting down caixa-recurring...")
}
