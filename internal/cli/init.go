// Package cli provides common initialization utilities for cmd/daftar.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"daftar/internal/config"
	"daftar/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the SQLite store at the given path and runs migrations.
// Returns the store or exits the process on failure.
func InitStore(logger *slog.Logger, dbPath string) *storage.SQLiteStore {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}

