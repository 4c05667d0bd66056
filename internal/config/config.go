// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir            string  // Base directory for the engine databases (always absolute)
	Port               int     // HTTP listen port
	LogLevel           string  // debug, info, warn, error
	DevMode            bool    // Pretty console logging, verbose errors
	StressWorkers      int     // Worker goroutines for per-exposure evaluation (0 = GOMAXPROCS)
	StressPDEpsilon    float64 // Clamp distance from the (0,1) PD bounds for stressed PDs
	ReferencePortfolio string  // Optional path to the portfolio JSON used by the daily capital run
	DailyRunSchedule   string  // Cron expression for the scheduled capital run
}

// Load reads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("PRUDENTIA_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		Port:               getEnvAsInt("PORT", 8080),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		StressWorkers:      getEnvAsInt("STRESS_WORKERS", 0),
		StressPDEpsilon:    getEnvAsFloat("STRESS_PD_EPSILON", 1e-6),
		ReferencePortfolio: getEnv("REFERENCE_PORTFOLIO", ""),
		DailyRunSchedule:   getEnv("DAILY_RUN_SCHEDULE", "0 6 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	// The epsilon is a regulatory-facing policy value; an epsilon at or
	// above 1% would visibly distort stressed PDs, so it is rejected.
	if c.StressPDEpsilon <= 0 || c.StressPDEpsilon >= 0.01 {
		return fmt.Errorf("invalid stress PD epsilon: %g (must be in (0, 0.01))", c.StressPDEpsilon)
	}
	if c.StressWorkers < 0 {
		return fmt.Errorf("invalid stress worker count: %d", c.StressWorkers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
