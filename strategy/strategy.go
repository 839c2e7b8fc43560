package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/web3guy0/stakebot/odds"
)

// ═══════════════════════════════════════════════════════════════════════════════
// STRATEGY CATALOG - Closed set of staking algorithms behind one contract
// ═══════════════════════════════════════════════════════════════════════════════
//
// Every strategy is a pure function:
//   Propose(Snapshot, Params) → Proposal
//
// The engine snapshots bankroll state, dispatches here, then applies the risk
// clamp and state transitions itself. Strategies never mutate anything.
//
// ═══════════════════════════════════════════════════════════════════════════════

// Kind identifies one staking strategy. The catalog is closed: kinds are
// enumerated here and mapped to implementations in a table built at startup,
// not registered at runtime.
type Kind int

const (
	EVKelly Kind = iota
	PureKelly
	EloKelly
	Fibonacci
	Martingale
	DAlembert
	Labouchere
	ReverseLabouchere
	Flat
	Percentage
	FixedUnit
	VigAdjusted
	MarginBased
	Parlay
)

var kindNames = map[Kind]string{
	EVKelly:           "ev_kelly",
	PureKelly:         "pure_kelly",
	EloKelly:          "elo_kelly",
	Fibonacci:         "fibonacci",
	Martingale:        "martingale",
	DAlembert:         "dalembert",
	Labouchere:        "labouchere",
	ReverseLabouchere: "reverse_labouchere",
	Flat:              "flat",
	Percentage:        "percentage",
	FixedUnit:         "fixed_unit",
	VigAdjusted:       "vig",
	MarginBased:       "margin",
	Parlay:            "parlay",
}

// Aliases kept for callers used to the short ids.
var kindAliases = map[string]Kind{
	"ev":  EVKelly,
	"fib": Fibonacci,
}

func (k Kind) String() string { return kindNames[k] }

// Sequenced reports whether the kind owns a Labouchere-style target sequence.
func (k Kind) Sequenced() bool {
	return k == Labouchere || k == ReverseLabouchere
}

// Parse resolves a strategy identifier to its Kind.
func Parse(id string) (Kind, error) {
	for k, name := range kindNames {
		if name == id {
			return k, nil
		}
	}
	if k, ok := kindAliases[id]; ok {
		return k, nil
	}
	return 0, &UnknownStrategyError{ID: id}
}

// UnknownStrategyError reports an unrecognized strategy identifier.
type UnknownStrategyError struct {
	ID string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q", e.ID)
}

// ValidationError reports a missing or out-of-range strategy parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// Snapshot is an immutable view of bankroll state taken by the engine before
// dispatch. Strategies read it, never write it.
type Snapshot struct {
	Balance       decimal.Decimal
	Streak        int // >0 consecutive wins, <0 consecutive losses
	FibIndex      int
	DAlembertStep int
	Sequence      []decimal.Decimal // remaining Labouchere sequence, nil when inactive
	DrawdownPct   float64
}

// Params carries the strategy-specific inputs of one bet call. Each strategy
// validates the fields it requires and ignores the rest.
type Params struct {
	P     float64    // caller-estimated win probability
	TrueP float64    // optional sharper probability for the EV check
	Odds  *odds.Odds // quoted odds for the bet

	Agg     float64  // EV-Kelly aggression multiplier (default 2.0)
	EloDiff *float64 // ELO rating differential (ELO-Kelly)

	Unit       float64         // Fibonacci base unit as fraction of bankroll (default 0.01)
	BaseBet    decimal.Decimal // Martingale / D'Alembert base stake
	Multiplier float64         // Martingale multiplier (default 2.0)

	Target decimal.Decimal // Labouchere profit target (seeds the sequence)

	FixedAmount decimal.Decimal // Flat
	BetPct      float64         // Percentage
	UnitSize    decimal.Decimal // Fixed Unit
	NumUnits    int             // Fixed Unit (default 1)

	FavOdds  *odds.Odds // market-aware strategies
	DogOdds  *odds.Odds
	DrawOdds *odds.Odds // optional third outcome
	BasePct  float64    // market-aware base stake fraction (default 0.02)

	Legs []odds.Odds // Parlay
}

// Proposal is a strategy's raw stake suggestion before the risk clamp.
type Proposal struct {
	RawStake  decimal.Decimal
	EV        float64 // expected value per unit staked
	KellyF    float64 // Kelly fraction used (0 if not Kelly-based)
	Rationale string
	Odds      string // decimal odds snapshot, empty when not odds-based

	Completed bool              // sequence strategy reached its target
	Seed      []decimal.Decimal // sequence to install when none is active
}

type proposeFunc func(Snapshot, Params) (Proposal, error)

// catalog maps every Kind to its implementation. Built once at startup so
// dispatch stays exhaustive and auditable.
var catalog = map[Kind]proposeFunc{
	EVKelly:           proposeEVKelly,
	PureKelly:         proposePureKelly,
	EloKelly:          proposeEloKelly,
	Fibonacci:         proposeFibonacci,
	Martingale:        proposeMartingale,
	DAlembert:         proposeDAlembert,
	Labouchere:        proposeLabouchere,
	ReverseLabouchere: proposeReverseLabouchere,
	Flat:              proposeFlat,
	Percentage:        proposePercentage,
	FixedUnit:         proposeFixedUnit,
	VigAdjusted:       proposeVigAdjusted,
	MarginBased:       proposeMarginBased,
	Parlay:            proposeParlay,
}

// Propose dispatches to the named strategy. Pure: no state is touched.
func Propose(k Kind, snap Snapshot, p Params) (Proposal, error) {
	fn, ok := catalog[k]
	if !ok {
		return Proposal{}, &UnknownStrategyError{ID: fmt.Sprintf("kind(%d)", k)}
	}
	return fn(snap, p)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func fracOfBank(balance decimal.Decimal, pct float64) decimal.Decimal {
	return balance.Mul(decimal.NewFromFloat(pct)).Round(2)
}
