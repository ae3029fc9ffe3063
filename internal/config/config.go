package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config keeps runtime settings for the board service.
type Config struct {
	HTTPAddr       string
	StoreBackend   string
	DatabaseURL    string
	RedisURL       string
	StorageKey     string
	Location       *time.Location
	TelegramToken  string
	ReportInterval time.Duration
	DigestTime     string
	LogLevel       logrus.Level
	LogFile        string
}

// BotEnabled reports whether the Telegram surface should be started.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// Load reads configuration from a .env file (when present) and environment
// variables, with sane defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		HTTPAddr:       get("HTTP_ADDR"),
		StoreBackend:   strings.ToLower(get("STORE_BACKEND")),
		DatabaseURL:    get("DATABASE_URL"),
		RedisURL:       get("REDIS_URL"),
		StorageKey:     get("STORAGE_KEY"),
		TelegramToken:  get("TELEGRAM_TOKEN"),
		ReportInterval: parseInterval(get("REPORT_INTERVAL_HOURS")),
		DigestTime:     get("DIGEST_TIME"),
		LogFile:        get("LOG_FILE"),
		LogLevel:       logrus.InfoLevel,
		Location:       time.Local,
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendSQLite
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "kanban.db"
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = "projects"
	}

	switch cfg.StoreBackend {
	case BackendSQLite:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return cfg, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if tz := get("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if lvl := get("LOG_LEVEL"); lvl != "" {
		parsed, err := logrus.ParseLevel(lvl)
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = parsed
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
