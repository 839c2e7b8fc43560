package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════════════════════════
// CONSERVATIVE STRATEGIES - Flat, Percentage, Fixed Unit
// ═══════════════════════════════════════════════════════════════════════════════

func proposeFlat(_ Snapshot, p Params) (Proposal, error) {
	if !p.FixedAmount.IsPositive() {
		return Proposal{}, &ValidationError{Field: "fixed_amount", Reason: "must be positive"}
	}
	return Proposal{
		RawStake:  p.FixedAmount.Round(2),
		Rationale: fmt.Sprintf("Flat $%s", p.FixedAmount.StringFixed(2)),
	}, nil
}

func proposePercentage(snap Snapshot, p Params) (Proposal, error) {
	if p.BetPct <= 0 || p.BetPct > 1 {
		return Proposal{}, &ValidationError{Field: "bet_pct", Reason: "must be in (0, 1]"}
	}
	return Proposal{
		RawStake:  fracOfBank(snap.Balance, p.BetPct),
		Rationale: fmt.Sprintf("Percentage %.1f%% of bankroll", p.BetPct*100),
	}, nil
}

func proposeFixedUnit(_ Snapshot, p Params) (Proposal, error) {
	if !p.UnitSize.IsPositive() {
		return Proposal{}, &ValidationError{Field: "unit_size", Reason: "must be positive"}
	}
	units := p.NumUnits
	if units == 0 {
		units = 1
	}
	if units < 0 {
		return Proposal{}, &ValidationError{Field: "num_units", Reason: "must be positive"}
	}
	return Proposal{
		RawStake:  p.UnitSize.Mul(decimal.NewFromInt(int64(units))).Round(2),
		Rationale: fmt.Sprintf("Fixed unit: %d × $%s", units, p.UnitSize.StringFixed(2)),
	}, nil
}
