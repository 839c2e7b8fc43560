package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════════════════════════
// SHARED TYPES - Avoid import cycles
// ═══════════════════════════════════════════════════════════════════════════════

// Risk level labels assigned to every wager.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
	RiskInsane = "INSANE"
)

// Wager is the immutable record of one betting decision. It is constructed
// once inside the engine's critical section and never mutated afterwards;
// corrections produce a new record.
type Wager struct {
	ID            string          `json:"id"`
	Strategy      string          `json:"strategy"`
	Amount        decimal.Decimal `json:"amount"`
	Rationale     string          `json:"rationale"`
	Risk          string          `json:"risk"`
	PctBank       float64         `json:"pct_bank"`
	EV            decimal.Decimal `json:"ev"`
	KellyF        float64         `json:"kelly_f"`
	Odds          string          `json:"odds,omitempty"` // decimal odds snapshot, empty when not odds-based
	BalanceBefore decimal.Decimal `json:"balance_before"`
	Rejected      bool            `json:"rejected"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Placed reports whether the wager actually commits money.
func (w *Wager) Placed() bool {
	return !w.Rejected && w.Amount.IsPositive()
}

// Summary aggregates a betting session over the history log.
type Summary struct {
	Bets         int             `json:"bets"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	InitialBank  decimal.Decimal `json:"initial_bank"`
	FinalBank    decimal.Decimal `json:"final_bank"`
	PeakBank     decimal.Decimal `json:"peak_bank"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalEV      decimal.Decimal `json:"total_ev"`
	DrawdownPct  float64         `json:"drawdown_pct"`
	ROI          float64         `json:"roi"`
}
