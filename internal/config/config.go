package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StageThresholds are the ascending point floors for each member stage.
// Bronze is implicit at 0.
type StageThresholds struct {
	Silver   int
	Gold     int
	Platinum int
}

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string

	// Entries and invite acceptances are refused inside this window before
	// the event date.
	EntryCutoff time.Duration
	// Cancellations inside this window take the larger late-cancel penalty.
	LateCancelWindow time.Duration
	// Reviews open only after this much time has passed since the event start.
	ReviewOpenDelay time.Duration

	StageThresholds StageThresholds

	RateLimitEntry time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "12345"),
	}

	var err error
	if cfg.EntryCutoff, err = parseDuration("ENTRY_CUTOFF", "48h"); err != nil {
		return nil, err
	}
	if cfg.LateCancelWindow, err = parseDuration("LATE_CANCEL_WINDOW", "24h"); err != nil {
		return nil, err
	}
	if cfg.ReviewOpenDelay, err = parseDuration("REVIEW_OPEN_DELAY", "2h"); err != nil {
		return nil, err
	}
	if cfg.RateLimitEntry, err = parseDuration("RATE_LIMIT_ENTRY", "5s"); err != nil {
		return nil, err
	}

	if cfg.StageThresholds.Silver, err = parseInt("STAGE_THRESHOLD_SILVER", 100); err != nil {
		return nil, err
	}
	if cfg.StageThresholds.Gold, err = parseInt("STAGE_THRESHOLD_GOLD", 300); err != nil {
		return nil, err
	}
	if cfg.StageThresholds.Platinum, err = parseInt("STAGE_THRESHOLD_PLATINUM", 1000); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
