package risk

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/web3guy0/stakebot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// RISK POLICY - Stake classification and the unconditional clamp
// ═══════════════════════════════════════════════════════════════════════════════
//
// A Profile orders three stake-fraction thresholds (low < med < high) and a
// maximum-risk ceiling. The Policy classifies every stake against them and
// hard-caps it; no strategy can bypass the clamp. Above the drawdown trigger
// the ceiling shrinks proportionally with the drawdown.
//
// Each engine instance owns its own Policy — there is no process-wide
// mutable preset table.
//
// ═══════════════════════════════════════════════════════════════════════════════

// DrawdownTrigger is the drawdown fraction beyond which the ceiling is
// scaled down for capital protection.
const DrawdownTrigger = 0.20

// Thresholds are risk classification bands as fractions of bankroll.
type Thresholds struct {
	Low  float64
	Med  float64
	High float64
}

// Profile is an immutable named risk configuration.
type Profile struct {
	Name       string
	Thresholds Thresholds
	MaxRisk    float64 // ceiling as fraction of bankroll
}

// Built-in profiles.
func Conservative() Profile {
	return Profile{Name: "conservative", Thresholds: Thresholds{0.10, 0.15, 0.20}, MaxRisk: 0.15}
}

func Balanced() Profile {
	return Profile{Name: "balanced", Thresholds: Thresholds{0.05, 0.15, 0.30}, MaxRisk: 0.35}
}

func Aggressive() Profile {
	return Profile{Name: "aggressive", Thresholds: Thresholds{0.10, 0.25, 0.50}, MaxRisk: 0.50}
}

// ProfileByName resolves one of the built-in profiles.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(name) {
	case "conservative":
		return Conservative(), nil
	case "balanced":
		return Balanced(), nil
	case "aggressive":
		return Aggressive(), nil
	}
	return Profile{}, fmt.Errorf("unknown risk profile %q", name)
}

// Policy applies one profile to stake decisions.
type Policy struct {
	profile Profile
	maxRisk float64
}

// NewPolicy builds a policy from a profile. A positive maxRiskOverride
// replaces the profile's ceiling.
func NewPolicy(profile Profile, maxRiskOverride float64) *Policy {
	maxRisk := profile.MaxRisk
	if maxRiskOverride > 0 {
		maxRisk = maxRiskOverride
	}
	if maxRisk > 1 {
		maxRisk = 1
	}
	return &Policy{profile: profile, maxRisk: maxRisk}
}

// Profile returns the policy's immutable profile.
func (p *Policy) Profile() Profile { return p.profile }

// MaxRisk returns the effective ceiling as a fraction of bankroll.
func (p *Policy) MaxRisk() float64 { return p.maxRisk }

// Classify maps a stake fraction to a risk level. Drawdown penalizes the
// classification: the same fraction reads riskier in a losing stretch.
func (p *Policy) Classify(stakeFraction, drawdownPct float64) string {
	adj := stakeFraction * (1 + drawdownPct*2)
	t := p.profile.Thresholds
	switch {
	case adj > p.maxRisk:
		return types.RiskInsane
	case adj <= t.Low:
		return types.RiskLow
	case adj <= t.Med:
		return types.RiskMedium
	case adj <= t.High:
		return types.RiskHigh
	}
	return types.RiskInsane
}

// Ceiling returns the maximum stake fraction given the current drawdown.
// Past the trigger the ceiling shrinks proportionally with the drawdown.
func (p *Policy) Ceiling(drawdownPct float64) float64 {
	ceiling := p.maxRisk
	if drawdownPct > DrawdownTrigger {
		ceiling *= 1 - drawdownPct
	}
	return ceiling
}

// Clamp hard-caps a proposed stake against the ceiling. Unconditional: the
// result is what the engine accepts, regardless of the strategy's raw math.
func (p *Policy) Clamp(stake, balance decimal.Decimal, drawdownPct float64) decimal.Decimal {
	ceiling := p.Ceiling(drawdownPct)
	cap := balance.Mul(decimal.NewFromFloat(ceiling)).Round(2)
	if drawdownPct > DrawdownTrigger && stake.GreaterThan(cap) {
		log.Warn().
			Float64("drawdown_pct", drawdownPct).
			Str("cap", cap.StringFixed(2)).
			Msg("🛡️ Drawdown protection — stake capped")
	}
	if stake.GreaterThan(cap) {
		return cap
	}
	return stake
}
