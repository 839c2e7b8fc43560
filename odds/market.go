package odds

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════════════════════════
// MARKET MATH - Vig, margin, arbitrage, parlay
// ═══════════════════════════════════════════════════════════════════════════════

// BreakEven returns the win probability required to break even on a wager
// paying out the given total (stake + profit).
func BreakEven(stake, payout float64) float64 {
	return stake / payout
}

// Vig computes the bookmaker's overround for a two-way market from the
// stakes and total payouts quoted on each side. The result is the excess of
// the summed implied probabilities over 1.0 (e.g. 0.0227 = 2.27% vig).
func Vig(stakeA, payoutA, stakeB, payoutB float64) float64 {
	return BreakEven(stakeA, payoutA) + BreakEven(stakeB, payoutB) - 1
}

// Margin computes the bookmaker's margin from the decimal odds of every
// outcome in a market (two or three way).
func Margin(decimalOdds ...float64) float64 {
	sum := 0.0
	for _, d := range decimalOdds {
		sum += 1 / d
	}
	return sum - 1
}

// CommissionMargin computes the effective margin of an exchange market after
// the commission (in percent) is deducted from winnings on each side.
func CommissionMargin(commissionPct float64, decimalOdds ...float64) float64 {
	adj := make([]float64, len(decimalOdds))
	for i, d := range decimalOdds {
		adj[i] = 1 + (1-commissionPct/100)*(d-1)
	}
	return Margin(adj...)
}

// ArbStakes is the result of an arbitrage allocation across one market's
// outcomes. Profit is negative when no arbitrage exists; the caller decides
// whether to reject.
type ArbStakes struct {
	Stakes  []decimal.Decimal
	Profit  decimal.Decimal
	SumProb float64
}

// ArbitrageStakes allocates a total stake across outcomes proportionally to
// their implied probabilities. A guaranteed profit exists iff the implied
// probabilities sum below 1.
func ArbitrageStakes(decimalOdds []float64, totalStake decimal.Decimal) (ArbStakes, error) {
	if len(decimalOdds) < 2 {
		return ArbStakes{}, fmt.Errorf("need at least 2 outcomes, got %d: %w", len(decimalOdds), ErrInvalidOdds)
	}
	sum := 0.0
	for _, d := range decimalOdds {
		if d <= 1 {
			return ArbStakes{}, fmt.Errorf("decimal odds %.4f ≤ 1: %w", d, ErrInvalidOdds)
		}
		sum += 1 / d
	}

	out := ArbStakes{SumProb: sum, Stakes: make([]decimal.Decimal, len(decimalOdds))}
	for i, d := range decimalOdds {
		share := decimal.NewFromFloat(1 / d / sum)
		out.Stakes[i] = totalStake.Mul(share).Round(2)
	}
	// Return on any outcome is total/sum; profit < 0 signals no arbitrage.
	out.Profit = totalStake.Div(decimal.NewFromFloat(sum)).Sub(totalStake).Round(2)
	return out, nil
}

// ParlayOdds multiplies the legs of a parlay into combined decimal odds.
// Legs may be quoted in any format; each must carry an implied probability
// strictly inside (0, 1).
func ParlayOdds(legs []Odds) (float64, error) {
	if len(legs) == 0 {
		return 0, fmt.Errorf("empty parlay: %w", ErrInvalidOdds)
	}
	combined := 1.0
	for i, leg := range legs {
		d, err := leg.DecimalValue()
		if err != nil {
			return 0, fmt.Errorf("parlay leg %d: %w", i+1, err)
		}
		combined *= d
	}
	return combined, nil
}

// Payout returns the total return (stake included) of a winning wager at the
// given decimal odds.
func Payout(stake decimal.Decimal, decimalOdds float64) decimal.Decimal {
	return stake.Mul(decimal.NewFromFloat(decimalOdds)).Round(2)
}

// EloProbability maps an ELO rating differential (rating A minus rating B,
// adjusted for home advantage etc.) to a win probability for side A.
func EloProbability(eloDiff float64) float64 {
	return 1 / (math.Pow(10, -eloDiff/400) + 1)
}
