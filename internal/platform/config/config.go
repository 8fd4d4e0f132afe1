// Package config centralizes environment-driven wiring so composition code
// stays lean. The engine itself takes explicit dependencies; only the
// process boundary reads the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// RedisConfig tunes the optional Redis-backed journey ledger.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Config is the process-level configuration.
type Config struct {
	// PostgresDSN enables the durable journey ledger when set.
	PostgresDSN string
	Redis       RedisConfig
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// DatasetDir overrides the embedded jurisdiction dataset when set.
	DatasetDir string
}

// FromEnv builds a Config from DRIVEPORT_* environment variables.
func FromEnv() Config {
	return Config{
		PostgresDSN: os.Getenv("DRIVEPORT_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("DRIVEPORT_REDIS_URL"),
			PoolSize:     envInt("DRIVEPORT_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("DRIVEPORT_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("DRIVEPORT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("DRIVEPORT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("DRIVEPORT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		LogLevel:   envString("DRIVEPORT_LOG_LEVEL", "info"),
		DatasetDir: os.Getenv("DRIVEPORT_DATASET_DIR"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
