package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.InitialBankroll.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "balanced", cfg.Profile)
	assert.Zero(t, cfg.MaxRiskPct)
	assert.True(t, cfg.MinBankroll.IsZero())
	assert.Equal(t, "data/wagers.jsonl", cfg.JournalPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BANKROLL", "2500.50")
	t.Setenv("RISK_PROFILE", "aggressive")
	t.Setenv("MAX_RISK_PCT", "0.25")
	t.Setenv("MIN_BANKROLL", "100")
	t.Setenv("JOURNAL_PATH", "/tmp/bets.jsonl")
	t.Setenv("STORE_DSN", "postgres://localhost/stakebot")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.InitialBankroll.Equal(decimal.NewFromFloat(2500.50)))
	assert.Equal(t, "aggressive", cfg.Profile)
	assert.InDelta(t, 0.25, cfg.MaxRiskPct, 1e-9)
	assert.True(t, cfg.MinBankroll.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "/tmp/bets.jsonl", cfg.JournalPath)
	assert.Equal(t, "postgres://localhost/stakebot", cfg.StoreDSN)
	assert.Equal(t, "tok", cfg.TelegramToken)
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
	assert.True(t, cfg.Debug)
}

func TestLoadInvalidBankroll(t *testing.T) {
	t.Setenv("BANKROLL", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidChatID(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}
