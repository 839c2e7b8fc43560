package strategy

import (
	"fmt"

	"github.com/web3guy0/stakebot/odds"
)

// ═══════════════════════════════════════════════════════════════════════════════
// KELLY FAMILY - Pure Kelly, EV-Kelly, ELO-Kelly
// ═══════════════════════════════════════════════════════════════════════════════
//
// f* = (p·(d-1) - (1-p)) / (d-1)
//
// where d is decimal odds and p the win probability. A non-positive edge
// always proposes a zero stake.
//
// ═══════════════════════════════════════════════════════════════════════════════

// kellyCore computes the Kelly fraction and the per-unit expected value.
// TrueP, when set, sharpens the EV check without changing the sizing input.
func kellyCore(p float64, quoted odds.Odds, trueP float64) (kellyF, ev, dec float64, err error) {
	dec, err = quoted.DecimalValue()
	if err != nil {
		return 0, 0, 0, err
	}
	b := dec - 1
	evP := p
	if trueP > 0 {
		evP = trueP
	}
	ev = evP*b - (1 - evP)
	kellyF = (p*b - (1 - p)) / b
	return kellyF, ev, dec, nil
}

func validateKellyParams(p Params) error {
	if p.Odds == nil {
		return &ValidationError{Field: "odds", Reason: "required"}
	}
	if p.P <= 0 || p.P >= 1 {
		return &ValidationError{Field: "p", Reason: "must be in (0, 1)"}
	}
	if p.TrueP != 0 && (p.TrueP <= 0 || p.TrueP >= 1) {
		return &ValidationError{Field: "true_p", Reason: "must be in (0, 1)"}
	}
	return nil
}

func proposePureKelly(snap Snapshot, p Params) (Proposal, error) {
	if err := validateKellyParams(p); err != nil {
		return Proposal{}, err
	}
	kellyF, ev, dec, err := kellyCore(p.P, *p.Odds, p.TrueP)
	if err != nil {
		return Proposal{}, err
	}
	oddsStr := fmt.Sprintf("%.2f", dec)
	if kellyF <= 0 || ev <= 0 {
		return Proposal{EV: ev, Rationale: "negative edge", Odds: oddsStr}, nil
	}

	pct := clamp01(kellyF)
	return Proposal{
		RawStake:  fracOfBank(snap.Balance, pct),
		EV:        ev,
		KellyF:    kellyF,
		Rationale: fmt.Sprintf("Pure Kelly %.1f%%", pct*100),
		Odds:      oddsStr,
	}, nil
}

func proposeEVKelly(snap Snapshot, p Params) (Proposal, error) {
	if err := validateKellyParams(p); err != nil {
		return Proposal{}, err
	}
	agg := p.Agg
	if agg == 0 {
		agg = 2.0
	}
	if agg < 0 {
		return Proposal{}, &ValidationError{Field: "agg", Reason: "must be positive"}
	}
	kellyF, ev, dec, err := kellyCore(p.P, *p.Odds, p.TrueP)
	if err != nil {
		return Proposal{}, err
	}
	oddsStr := fmt.Sprintf("%.2f", dec)
	if kellyF <= 0 || ev <= 0 {
		return Proposal{EV: ev, Rationale: "negative edge", Odds: oddsStr}, nil
	}

	// Aggression scales the Kelly fraction, clamped to [0, 1]. The risk
	// policy ceiling still applies downstream.
	pct := clamp01(kellyF * agg)
	return Proposal{
		RawStake:  fracOfBank(snap.Balance, pct),
		EV:        ev,
		KellyF:    kellyF,
		Rationale: fmt.Sprintf("EV-Kelly ×%.1f → %.1f%%", agg, pct*100),
		Odds:      oddsStr,
	}, nil
}

func proposeEloKelly(snap Snapshot, p Params) (Proposal, error) {
	if p.EloDiff == nil {
		return Proposal{}, &ValidationError{Field: "elo_diff", Reason: "required"}
	}
	p.P = odds.EloProbability(*p.EloDiff)
	prop, err := proposeEVKelly(snap, p)
	if err != nil {
		return Proposal{}, err
	}
	prop.Rationale = fmt.Sprintf("ELO %+.0f → p=%.3f | %s", *p.EloDiff, p.P, prop.Rationale)
	return prop, nil
}
