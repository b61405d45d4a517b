package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds every runtime setting of the habitus CLI.
type Config struct {
	DBPath           string
	LogDir           string
	Debug            bool
	Location         *time.Location
	CarryForwardDays int
	DigestCron       string
}

// Load reads settings from the environment, after merging an optional .env
// file in the working directory. Unset values fall back to defaults under
// ~/.habitus.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".habitus")

	cfg := &Config{
		DBPath:           getString("HABITUS_DB", filepath.Join(base, "habitus.db")),
		LogDir:           getString("HABITUS_LOG_DIR", filepath.Join(base, "logs")),
		Debug:            getBool("HABITUS_DEBUG", false),
		CarryForwardDays: getInt("HABITUS_CARRY_FORWARD_DAYS", 30),
		DigestCron:       getString("HABITUS_DIGEST_CRON", "0 8 * * *"),
	}

	tz := getString("HABITUS_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid HABITUS_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	if cfg.CarryForwardDays < 1 {
		return nil, fmt.Errorf("HABITUS_CARRY_FORWARD_DAYS must be at least 1, got %d", cfg.CarryForwardDays)
	}
	if _, err := cron.ParseStandard(cfg.DigestCron); err != nil {
		return nil, fmt.Errorf("invalid HABITUS_DIGEST_CRON %q: %w", cfg.DigestCron, err)
	}
	return cfg, nil
}

// Now returns the current time in the configured zone.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

// Today returns the current calendar day in the configured zone.
func (c *Config) Today() time.Time {
	return domain.Day(c.Now())
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
