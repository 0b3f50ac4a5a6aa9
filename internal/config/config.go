package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	SweepWorkerCount      int
	SweepQueueSize        int
	ResetSweepTime        string // HH:MM, local time of the daily count reset
	ConfigCacheTTLSeconds int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:wordflash.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		SweepWorkerCount:      envIntOr("SWEEP_WORKER_COUNT", 1),
		SweepQueueSize:        envIntOr("SWEEP_QUEUE_SIZE", 16),
		ResetSweepTime:        envOr("RESET_SWEEP_TIME", "00:05"),
		ConfigCacheTTLSeconds: envIntOr("CONFIG_CACHE_TTL_SECONDS", 300),
	}
}

// Validate checks the loaded configuration, aggregating every problem into
// a single error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.SweepWorkerCount < 1 {
		problems = append(problems, "SWEEP_WORKER_COUNT must be at least 1")
	}
	if c.SweepQueueSize < 1 {
		problems = append(problems, "SWEEP_QUEUE_SIZE must be at least 1")
	}
	if !validClockTime(c.ResetSweepTime) {
		problems = append(problems, fmt.Sprintf("RESET_SWEEP_TIME must be HH:MM, got %q", c.ResetSweepTime))
	}
	if c.ConfigCacheTTLSeconds < 0 {
		problems = append(problems, "CONFIG_CACHE_TTL_SECONDS cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validClockTime(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
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
