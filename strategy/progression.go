package strategy

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════════════════════════
// PROGRESSIONS - Fibonacci, Martingale, D'Alembert
// ═══════════════════════════════════════════════════════════════════════════════
//
// Stake is a function of the loss streak and a base unit. The engine owns the
// progression counters (FibIndex, DAlembertStep, Streak) and advances them on
// settled outcomes; strategies only read the snapshot.
//
// ═══════════════════════════════════════════════════════════════════════════════

// FibStreakCap forces a progression reset once the index runs this deep.
const FibStreakCap = 12

// fibValue returns the stake multiplier at progression step n
// (1, 2, 3, 5, 8, ...).
func fibValue(n int) int64 {
	a, b := int64(1), int64(1)
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return b
}

func proposeFibonacci(snap Snapshot, p Params) (Proposal, error) {
	unit := p.Unit
	if unit == 0 {
		unit = 0.01
	}
	if unit < 0 || unit > 1 {
		return Proposal{}, &ValidationError{Field: "unit", Reason: "must be in (0, 1]"}
	}

	// Optional edge gate: skip when the caller's probability is below the
	// market's implied probability.
	if p.P != 0 && p.Odds != nil {
		if p.P <= 0 || p.P >= 1 {
			return Proposal{}, &ValidationError{Field: "p", Reason: "must be in (0, 1)"}
		}
		implied, err := p.Odds.Probability()
		if err != nil {
			return Proposal{}, err
		}
		if p.P < implied {
			return Proposal{
				Rationale: fmt.Sprintf("no edge — skip (p %.1f%% < implied %.1f%%)", p.P*100, implied*100),
			}, nil
		}
	}

	step := fibValue(snap.FibIndex)
	raw := snap.Balance.Mul(decimal.NewFromFloat(unit)).Mul(decimal.NewFromInt(step)).Round(2)
	return Proposal{
		RawStake:  raw,
		Rationale: fmt.Sprintf("Fib ×%d (step %d)", step, snap.FibIndex),
	}, nil
}

func proposeMartingale(snap Snapshot, p Params) (Proposal, error) {
	if !p.BaseBet.IsPositive() {
		return Proposal{}, &ValidationError{Field: "base_bet", Reason: "must be positive"}
	}
	mult := p.Multiplier
	if mult == 0 {
		mult = 2.0
	}
	if mult < 1 {
		return Proposal{}, &ValidationError{Field: "multiplier", Reason: "must be ≥ 1"}
	}

	losses := 0
	if snap.Streak < 0 {
		losses = -snap.Streak
	}
	raw := p.BaseBet.Mul(decimal.NewFromFloat(math.Pow(mult, float64(losses)))).Round(2)
	return Proposal{
		RawStake:  raw,
		Rationale: fmt.Sprintf("Martingale ×%.1f after %d losses", mult, losses),
	}, nil
}

func proposeDAlembert(snap Snapshot, p Params) (Proposal, error) {
	if !p.BaseBet.IsPositive() {
		return Proposal{}, &ValidationError{Field: "base_bet", Reason: "must be positive"}
	}

	// One step is a tenth of the base stake; the floor is the base itself.
	unit := p.BaseBet.Mul(decimal.NewFromFloat(0.1))
	raw := p.BaseBet.Add(unit.Mul(decimal.NewFromInt(int64(snap.DAlembertStep)))).Round(2)
	if raw.LessThan(p.BaseBet) {
		raw = p.BaseBet
	}
	return Proposal{
		RawStake:  raw,
		Rationale: fmt.Sprintf("D'Alembert step %d", snap.DAlembertStep),
	}, nil
}
