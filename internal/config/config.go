package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string        // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir        string        // logs directory
	DatabaseURL   string        // sqlite connection string, e.g., file:deadman.db?_busy_timeout=5000
	SweepInterval time.Duration // how often the overdue sweeper scans; 0 disables it
}

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	// Logs
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	// Database (empty means use in-memory store)
	db := os.Getenv("DATABASE_URL")

	// Sweeper tuning
	sweepInterval := time.Minute
	if v := os.Getenv("SWEEP_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			sweepInterval = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		Addr:          addr,
		LogDir:        logDir,
		DatabaseURL:   db,
		SweepInterval: sweepInterval,
	}
}
