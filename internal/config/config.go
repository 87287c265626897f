package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for configuration values.
const (
	DefaultRegion        = "uk"
	DefaultMarket        = "h2h"
	DefaultCurrency      = "GBP"
	DefaultTotalStake    = 1000
	DefaultCutoff        = 0.01
	DefaultPort          = "8080"
	DefaultAlertCooldown = 5 * time.Minute
)

// Config holds all application configuration. The scanning core never
// reads the environment; everything is resolved here once at startup
// and passed down by value.
type Config struct {
	APIKey         string
	Region         string
	Market         string
	Currency       string
	TotalStake     int           // whole currency units split across outcomes
	Cutoff         float64       // arbitrage margin threshold in (0,1)
	IncludeStarted bool          // scan matches that have already kicked off
	ScanInterval   time.Duration // 0 = single scan and exit
	DBPath         string        // empty disables the opportunity journal
	Port           string
	AlertCooldown  time.Duration
}

// Load reads configuration from environment variables (and .env file if present).
func Load() Config {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Config{
		APIKey:         os.Getenv("ODDS_API_KEY"),
		Region:         DefaultRegion,
		Market:         DefaultMarket,
		Currency:       DefaultCurrency,
		TotalStake:     DefaultTotalStake,
		Cutoff:         DefaultCutoff,
		IncludeStarted: true,
		DBPath:         os.Getenv("DB_PATH"),
		Port:           DefaultPort,
		AlertCooldown:  DefaultAlertCooldown,
	}

	if v := os.Getenv("REGION"); v != "" {
		cfg.Region = v
	}

	if v := os.Getenv("MARKET"); v != "" {
		cfg.Market = v
	}

	if v := os.Getenv("CURRENCY"); v != "" {
		cfg.Currency = v
	}

	if v := os.Getenv("TOTAL_STAKE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TotalStake = n
		}
	}

	if v := os.Getenv("ARB_CUTOFF"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Cutoff = f
		}
	}

	if os.Getenv("INCLUDE_STARTED") == "false" {
		cfg.IncludeStarted = false
	}

	if v := os.Getenv("SCAN_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.ScanInterval = time.Duration(ms) * time.Millisecond
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := os.Getenv("ALERT_COOLDOWN_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.AlertCooldown = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.Cutoff <= 0 || cfg.Cutoff >= 1 {
		return fmt.Errorf("ARB_CUTOFF must be between 0 and 1 exclusive, got %f", cfg.Cutoff)
	}
	if cfg.TotalStake <= 0 {
		return fmt.Errorf("TOTAL_STAKE must be positive, got %d", cfg.TotalStake)
	}
	if cfg.Region == "" {
		return fmt.Errorf("REGION must not be empty")
	}
	if cfg.Market == "" {
		return fmt.Errorf("MARKET must not be empty")
	}
	if cfg.ScanInterval < 0 {
		return fmt.Errorf("SCAN_INTERVAL_MS must be non-negative, got %v", cfg.ScanInterval)
	}
	if cfg.ScanInterval > 0 && cfg.ScanInterval < 100*time.Millisecond {
		return fmt.Errorf("SCAN_INTERVAL_MS must be at least 100ms, got %v", cfg.ScanInterval)
	}
	if cfg.AlertCooldown < 0 {
		return fmt.Errorf("ALERT_COOLDOWN_MS must be non-negative, got %v", cfg.AlertCooldown)
	}
	return nil
}
