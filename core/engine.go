package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/web3guy0/stakebot/risk"
	"github.com/web3guy0/stakebot/strategy"
	"github.com/web3guy0/stakebot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// BANKROLL ENGINE - Central orchestrator
// ═══════════════════════════════════════════════════════════════════════════════
//
// Flow:
//   Bet(strategy, params) → Odds normalization → Strategy proposal
//     → Risk clamp → atomic bankroll mutation → immutable Wager
//     → async history append → record returned to caller
//
// One mutex per engine serializes every state mutation: Bet's
// snapshot-to-commit sequence and UpdateBank run as single critical
// sections, so concurrent callers can never lose an update.
//
// ═══════════════════════════════════════════════════════════════════════════════

// Config configures one engine instance.
type Config struct {
	InitialBankroll decimal.Decimal
	Profile         risk.Profile
	MaxRiskPct      float64         // optional override of the profile ceiling
	MinBankroll     decimal.Decimal // floor; bets that would breach it are rejected
	QueueSize       int             // history queue capacity (default 1024)
}

// lineage tracks the one unsettled wager whose outcome the next UpdateBank
// call applies to the owning strategy family's state. The engine holds at
// most one: a second Bet before settlement replaces it, and the first
// wager's progression/sequence transition is never applied.
type lineage struct {
	kind  strategy.Kind
	stake decimal.Decimal
}

type Engine struct {
	mu sync.Mutex

	// Bankroll state — exclusively owned, mutated only under mu.
	balance decimal.Decimal
	peak    decimal.Decimal
	initial decimal.Decimal
	minBank decimal.Decimal

	streak        int
	fibIndex      int
	dalembertStep int
	sequence      []decimal.Decimal // nil when no sequence strategy is active
	seqKind       strategy.Kind
	pending       *lineage

	// Session aggregates, maintained incrementally for O(1) Summary.
	betsPlaced   int
	wins, losses int
	totalWagered decimal.Decimal
	totalEV      decimal.Decimal

	policy  *risk.Policy
	history *historyLog
}

// New builds an engine. Sinks receive every wager asynchronously, in
// insertion order.
func New(cfg Config, sinks ...Sink) (*Engine, error) {
	if !cfg.InitialBankroll.IsPositive() {
		return nil, &strategy.ValidationError{Field: "initial_bankroll", Reason: "must be positive"}
	}
	if cfg.MinBankroll.IsNegative() {
		return nil, &strategy.ValidationError{Field: "min_bankroll", Reason: "must be ≥ 0"}
	}
	if cfg.Profile.Name == "" {
		cfg.Profile = risk.Balanced()
	}

	e := &Engine{
		balance:      cfg.InitialBankroll,
		peak:         cfg.InitialBankroll,
		initial:      cfg.InitialBankroll,
		minBank:      cfg.MinBankroll,
		totalWagered: decimal.Zero,
		totalEV:      decimal.Zero,
		policy:       risk.NewPolicy(cfg.Profile, cfg.MaxRiskPct),
		history:      newHistoryLog(cfg.QueueSize, sinks),
	}

	log.Info().
		Str("bankroll", cfg.InitialBankroll.StringFixed(2)).
		Str("profile", cfg.Profile.Name).
		Float64("max_risk", e.policy.MaxRisk()).
		Msg("🧠 Bankroll engine ready")
	return e, nil
}

// drawdownPct is derived on read: decline from the historical peak.
// Caller holds mu.
func (e *Engine) drawdownPct() float64 {
	if !e.peak.IsPositive() {
		return 0
	}
	dd, _ := e.peak.Sub(e.balance).Div(e.peak).Float64()
	if dd < 0 {
		return 0
	}
	return dd
}

// Bet runs one betting decision under the named strategy. A zero-stake
// Wager tagged rejected is a valid outcome (no edge, policy clamp, floor);
// errors mean the call itself was invalid and no state changed.
func (e *Engine) Bet(strategyID string, params strategy.Params) (types.Wager, error) {
	kind, err := strategy.Parse(strategyID)
	if err != nil {
		return types.Wager{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Floor guard: refuse to bet a bankroll already at or below the floor.
	if e.balance.LessThanOrEqual(e.minBank) {
		return e.record(kind, rejected(fmt.Sprintf(
			"bankroll $%s at floor $%s", e.balance.StringFixed(2), e.minBank.StringFixed(2)))), nil
	}

	snap := strategy.Snapshot{
		Balance:       e.balance,
		Streak:        e.streak,
		FibIndex:      e.fibIndex,
		DAlembertStep: e.dalembertStep,
		DrawdownPct:   e.drawdownPct(),
	}
	// A sequence lineage belongs to exactly one strategy kind.
	if e.sequence != nil && e.seqKind == kind {
		snap.Sequence = e.sequence
	}

	prop, err := strategy.Propose(kind, snap, params)
	if err != nil {
		return types.Wager{}, err // validation failure: no state was touched
	}

	if prop.Completed {
		e.sequence = nil
		return e.record(kind, rejected(prop.Rationale)), nil
	}

	// Unconditional risk clamp, then the floor: a stake may never push the
	// balance below the minimum, nor exceed the balance itself.
	stake := e.policy.Clamp(prop.RawStake, e.balance, snap.DrawdownPct)
	if headroom := e.balance.Sub(e.minBank); stake.GreaterThan(headroom) {
		stake = headroom
	}
	if stake.GreaterThan(e.balance) {
		stake = e.balance
	}

	if !stake.IsPositive() {
		why := prop.Rationale
		if prop.RawStake.IsPositive() {
			why = "stake clamped to zero by risk policy"
		}
		w := rejected(why)
		w.EV = stakeEV(decimal.Zero, prop.EV)
		w.KellyF = prop.KellyF
		w.Odds = prop.Odds
		return e.record(kind, w), nil
	}

	pctBank, _ := stake.Div(e.balance).Float64()
	evAmount := stakeEV(stake, prop.EV)

	w := types.Wager{
		Strategy:      kind.String(),
		Amount:        stake,
		Rationale:     prop.Rationale,
		Risk:          e.policy.Classify(pctBank, snap.DrawdownPct),
		PctBank:       pctBank,
		EV:            evAmount,
		KellyF:        prop.KellyF,
		Odds:          prop.Odds,
		BalanceBefore: e.balance,
	}

	// Commit: escrow the stake, install any new sequence, remember the
	// lineage for settlement. All under the same lock as the snapshot.
	e.balance = e.balance.Sub(stake)
	if prop.Seed != nil {
		e.sequence = prop.Seed
		e.seqKind = kind
	}
	if e.pending != nil {
		log.Warn().
			Str("strategy", e.pending.kind.String()).
			Msg("Unsettled wager replaced — its outcome will not be applied")
	}
	e.pending = &lineage{kind: kind, stake: stake}
	e.betsPlaced++
	e.totalWagered = e.totalWagered.Add(stake)
	e.totalEV = e.totalEV.Add(evAmount)

	return e.record(kind, w), nil
}

// record stamps identity fields, logs and enqueues the wager.
// Caller holds mu.
func (e *Engine) record(kind strategy.Kind, w types.Wager) types.Wager {
	w.ID = uuid.NewString()
	if w.Strategy == "" {
		w.Strategy = kind.String()
	}
	if w.Risk == "" {
		w.Risk = types.RiskLow
	}
	if w.BalanceBefore.IsZero() {
		w.BalanceBefore = e.balance
	}
	w.Timestamp = time.Now().UTC()

	log.Info().
		Str("strategy", w.Strategy).
		Str("stake", w.Amount.StringFixed(2)).
		Str("risk", w.Risk).
		Bool("rejected", w.Rejected).
		Msg(w.Rationale)

	e.history.append(w)
	return w
}

func rejected(why string) types.Wager {
	return types.Wager{
		Amount:    decimal.Zero,
		Rationale: why,
		Risk:      types.RiskLow,
		Rejected:  true,
		EV:        decimal.Zero,
	}
}

func stakeEV(stake decimal.Decimal, evPerUnit float64) decimal.Decimal {
	return stake.Mul(decimal.NewFromFloat(evPerUnit)).Round(4)
}

// UpdateBank applies a settled outcome: the realized balance, the streak
// transition and the invoked strategy family's sequence state.
func (e *Engine) UpdateBank(newBalance decimal.Decimal, won bool) error {
	if newBalance.IsNegative() {
		return &strategy.ValidationError{Field: "new_balance", Reason: "must be ≥ 0"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.balance = newBalance
	if e.balance.GreaterThan(e.peak) {
		e.peak = e.balance
	}

	// Streak: same-sign outcomes extend, a sign change resets to ±1.
	switch {
	case won && e.streak > 0:
		e.streak++
	case won:
		e.streak = 1
	case e.streak < 0:
		e.streak--
	default:
		e.streak = -1
	}
	if won {
		e.wins++
	} else {
		e.losses++
	}

	e.settle(won)

	log.Info().
		Str("bankroll", e.balance.StringFixed(2)).
		Int("streak", e.streak).
		Msg("Bankroll updated")
	return nil
}

// settle advances the state owned by the last invoked strategy family.
// Only that family's state is touched. Caller holds mu.
func (e *Engine) settle(won bool) {
	if e.pending == nil {
		return
	}
	p := e.pending
	e.pending = nil

	switch p.kind {
	case strategy.Fibonacci:
		if won {
			e.fibIndex -= 2
			if e.fibIndex < 0 {
				e.fibIndex = 0
			}
		} else {
			e.fibIndex++
			if e.fibIndex > strategy.FibStreakCap {
				log.Warn().Int("cap", strategy.FibStreakCap).Msg("Fib streak cap hit — forcing reset")
				e.fibIndex = 0
			}
		}
	case strategy.DAlembert:
		if won {
			e.dalembertStep--
			if e.dalembertStep < 0 {
				e.dalembertStep = 0
			}
		} else {
			e.dalembertStep++
		}
	case strategy.Labouchere:
		if e.sequence == nil || e.seqKind != p.kind {
			return
		}
		if won {
			// Staked first+last come off the sequence.
			if len(e.sequence) <= 2 {
				e.sequence = []decimal.Decimal{}
			} else {
				e.sequence = e.sequence[1 : len(e.sequence)-1]
			}
		} else {
			e.sequence = append([]decimal.Decimal{p.stake}, e.sequence...)
		}
	case strategy.ReverseLabouchere:
		if e.sequence == nil || e.seqKind != p.kind {
			return
		}
		if won {
			if len(e.sequence) <= 1 {
				e.sequence = []decimal.Decimal{}
			} else {
				e.sequence = e.sequence[1:]
			}
		} else {
			e.sequence = append(e.sequence, p.stake)
		}
	}
}

// Balance returns the current bankroll.
func (e *Engine) Balance() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// History returns a copy of every recorded wager in insertion order.
func (e *Engine) History() []types.Wager {
	return e.history.all()
}

// Summary aggregates the session. Read-only; safe to call concurrently.
func (e *Engine) Summary() types.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	roi := 0.0
	if e.initial.IsPositive() {
		roi, _ = e.balance.Sub(e.initial).Div(e.initial).Float64()
	}
	return types.Summary{
		Bets:         e.betsPlaced,
		Wins:         e.wins,
		Losses:       e.losses,
		InitialBank:  e.initial,
		FinalBank:    e.balance,
		PeakBank:     e.peak,
		TotalWagered: e.totalWagered,
		TotalEV:      e.totalEV,
		DrawdownPct:  e.drawdownPct(),
		ROI:          roi,
	}
}

// Close drains the history queue so every accepted record reaches the sinks.
func (e *Engine) Close() {
	e.history.close()
}
