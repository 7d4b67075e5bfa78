package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	StoreDriver    string // postgres|sqlite|redis|memory
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string
	HTTPAddr       string
	LogLevel       string
	Env            string // dev|prod
	SentryDSN      string
	Release        string
	BotToken       string // empty disables the bot
	Location       *time.Location
	JWTSecret      string
	SessionTTL     time.Duration
	CatalogPath    string
	DigestInterval time.Duration
}

// Load reads the environment. Call godotenv.Load before it to honour .env.
func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	ttl, err := durationEnv("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	digest, err := durationEnv("DIGEST_INTERVAL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StoreDriver:    strings.ToLower(getenv("STORE_DRIVER", "postgres")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getenv("SQLITE_PATH", "./data/qc.db"),
		RedisURL:       os.Getenv("REDIS_URL"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "dev"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		Release:        os.Getenv("RELEASE"),
		BotToken:       os.Getenv("BOT_TOKEN"),
		Location:       loc,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     ttl,
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		DigestInterval: digest,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for STORE_DRIVER=postgres")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for STORE_DRIVER=redis")
		}
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// RequireJWTSecret is called by commands that serve the API.
func (c *Config) RequireJWTSecret() string {
	return mustValue("JWT_SECRET", c.JWTSecret)
}

func mustValue(k, v string) string {
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", k)
	}
	return d, nil
}
