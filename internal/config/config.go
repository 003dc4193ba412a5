package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables the spreadsheet mirror)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror
	GoogleSpreadsheetID string

	// Workers
	RecurringInterval time.Duration

	// HTTP behavior
	RateLimitPerMinute int
	DashboardCacheTTL  time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/caixa.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "caixa"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mirror_entries"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		RecurringInterval: getEnvDuration("RECURRING_INTERVAL", 1*time.Hour),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		DashboardCacheTTL:  getEnvDuration("DASHBOARD_CACHE_TTL", 1*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RecurringInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at least 1 minute", c.RecurringInterval))
	} else if c.RecurringInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at most 24 hours", c.RecurringInterval))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	if c.DashboardCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache TTL %v: must not be negative", c.DashboardCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
