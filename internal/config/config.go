package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the engine and its sinks.
type Config struct {
	// Bankroll
	InitialBankroll decimal.Decimal
	Profile         string  // conservative | balanced | aggressive
	MaxRiskPct      float64 // optional override of the profile ceiling
	MinBankroll     decimal.Decimal

	// History log
	JournalPath string // append-only JSONL journal
	StoreDSN    string // optional sqlite path or postgres:// DSN

	// Ratings collaborator
	RatingsURL string

	// Telegram (optional)
	TelegramToken  string
	TelegramChatID int64

	Debug bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		InitialBankroll: getEnvDecimal("BANKROLL", decimal.NewFromInt(1000)),
		Profile:         getEnv("RISK_PROFILE", "balanced"),
		MaxRiskPct:      getEnvFloat("MAX_RISK_PCT", 0),
		MinBankroll:     getEnvDecimal("MIN_BANKROLL", decimal.NewFromInt(0)),

		JournalPath: getEnv("JOURNAL_PATH", "data/wagers.jsonl"),
		StoreDSN:    os.Getenv("STORE_DSN"),
		RatingsURL:  os.Getenv("RATINGS_URL"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Debug:         getEnvBool("DEBUG", false),
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if !cfg.InitialBankroll.IsPositive() {
		return nil, fmt.Errorf("BANKROLL must be positive, got %s", cfg.InitialBankroll)
	}
	if cfg.MinBankroll.IsNegative() {
		return nil, fmt.Errorf("MIN_BANKROLL must be ≥ 0, got %s", cfg.MinBankroll)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return fallback
}
