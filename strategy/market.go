package strategy

import (
	"fmt"
	"math"

	"github.com/web3guy0/stakebot/odds"
)

// ═══════════════════════════════════════════════════════════════════════════════
// MARKET-AWARE STRATEGIES - Vig-Adjusted, Margin-Based, Parlay
// ═══════════════════════════════════════════════════════════════════════════════
//
// These de-vig a quoted two-way (or three-way) market before sizing: the
// fairer the book, the larger the stake.
//
// ═══════════════════════════════════════════════════════════════════════════════

func marketDecimals(p Params) ([]float64, string, error) {
	if p.FavOdds == nil {
		return nil, "", &ValidationError{Field: "fav_odds", Reason: "required"}
	}
	if p.DogOdds == nil {
		return nil, "", &ValidationError{Field: "dog_odds", Reason: "required"}
	}
	fav, err := p.FavOdds.DecimalValue()
	if err != nil {
		return nil, "", err
	}
	dog, err := p.DogOdds.DecimalValue()
	if err != nil {
		return nil, "", err
	}
	decs := []float64{fav, dog}
	label := "2-way"
	if p.DrawOdds != nil {
		draw, err := p.DrawOdds.DecimalValue()
		if err != nil {
			return nil, "", err
		}
		decs = append(decs, draw)
		label = "3-way"
	}
	return decs, label, nil
}

func basePctOrDefault(p Params) (float64, error) {
	pct := p.BasePct
	if pct == 0 {
		pct = 0.02
	}
	if pct < 0 || pct > 1 {
		return 0, &ValidationError{Field: "base_pct", Reason: "must be in (0, 1]"}
	}
	return pct, nil
}

func proposeVigAdjusted(snap Snapshot, p Params) (Proposal, error) {
	decs, label, err := marketDecimals(p)
	if err != nil {
		return Proposal{}, err
	}
	basePct, err := basePctOrDefault(p)
	if err != nil {
		return Proposal{}, err
	}

	margin := odds.Margin(decs...)

	// De-vigged fair probability of the favorite: implied share of the
	// overround book.
	fairP := (1 / decs[0]) / (1 + margin)
	ev := fairP*(decs[0]-1) - (1 - fairP)

	adjPct := basePct * (1 - math.Max(margin, 0))
	return Proposal{
		RawStake:  fracOfBank(snap.Balance, adjPct),
		EV:        ev,
		Rationale: fmt.Sprintf("Vig-adj %.1f%% margin, fair p=%.3f (%s)", margin*100, fairP, label),
		Odds:      fmt.Sprintf("%.2f", decs[0]),
	}, nil
}

func proposeMarginBased(snap Snapshot, p Params) (Proposal, error) {
	decs, label, err := marketDecimals(p)
	if err != nil {
		return Proposal{}, err
	}
	basePct, err := basePctOrDefault(p)
	if err != nil {
		return Proposal{}, err
	}

	// Stake inverse to the bookmaker's margin: fairer book, bigger bet.
	margin := odds.Margin(decs...)
	adjPct := basePct / math.Max(margin+0.01, 0.01)
	if adjPct > 1 {
		adjPct = 1
	}
	return Proposal{
		RawStake:  fracOfBank(snap.Balance, adjPct),
		Rationale: fmt.Sprintf("Low margin %.1f%% adj (%s)", margin*100, label),
		Odds:      fmt.Sprintf("%.2f", decs[0]),
	}, nil
}

func proposeParlay(snap Snapshot, p Params) (Proposal, error) {
	if len(p.Legs) < 2 {
		return Proposal{}, &ValidationError{Field: "legs", Reason: "parlay needs at least 2 legs"}
	}
	basePct, err := basePctOrDefault(p)
	if err != nil {
		return Proposal{}, err
	}

	combined, err := odds.ParlayOdds(p.Legs)
	if err != nil {
		return Proposal{}, err
	}
	return Proposal{
		RawStake:  fracOfBank(snap.Balance, basePct),
		Rationale: fmt.Sprintf("Parlay %d legs @ %.2f dec", len(p.Legs), combined),
		Odds:      fmt.Sprintf("%.2f", combined),
	}, nil
}
