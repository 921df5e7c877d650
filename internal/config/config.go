package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	DeckPath         string
	AssetDir         string
	StatusRecord     string
	LogLevel         string
	AuditWorkerCount int
	AuditQueueSize   int
	SessionTTL       time.Duration
	SessionSweep     time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:econgraph.db"),
		DeckPath:         os.Getenv("DECK_PATH"),
		AssetDir:         os.Getenv("ASSET_DIR"),
		StatusRecord:     envOr("STATUS_RECORD", "graphCardStatuses"),
		LogLevel:         strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		AuditWorkerCount: envIntOr("AUDIT_WORKER_COUNT", 1),
		AuditQueueSize:   envIntOr("AUDIT_QUEUE_SIZE", 16),
		SessionTTL:       time.Duration(envIntOr("SESSION_TTL_MINUTES", 120)) * time.Minute,
		SessionSweep:     time.Duration(envIntOr("SESSION_SWEEP_MINUTES", 10)) * time.Minute,
	}
}

var validLogLevels = map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if c.DeckPath != "" {
		switch strings.ToLower(filepath.Ext(c.DeckPath)) {
		case ".json", ".xlsx":
		default:
			errs = append(errs, fmt.Errorf("DECK_PATH must be a .json or .xlsx file, got %q", c.DeckPath))
		}
	}
	if c.AssetDir != "" {
		if info, err := os.Stat(c.AssetDir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("ASSET_DIR %q is not a directory", c.AssetDir))
		}
	}
	if strings.TrimSpace(c.StatusRecord) == "" {
		errs = append(errs, errors.New("STATUS_RECORD cannot be empty"))
	}
	if !validLogLevels[strings.ToUpper(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.AuditWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("AUDIT_WORKER_COUNT must be at least 1, got %d", c.AuditWorkerCount))
	}
	if c.AuditQueueSize < 1 {
		errs = append(errs, fmt.Errorf("AUDIT_QUEUE_SIZE must be at least 1, got %d", c.AuditQueueSize))
	}
	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Errorf("SESSION_TTL_MINUTES must be at least 1, got %v", c.SessionTTL))
	}
	if c.SessionSweep < time.Minute {
		errs = append(errs, fmt.Errorf("SESSION_SWEEP_MINUTES must be at least 1, got %v", c.SessionSweep))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
