package strategy

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3guy0/stakebot/odds"
)

func snap(balance int64) Snapshot {
	return Snapshot{Balance: decimal.NewFromInt(balance)}
}

func oddsPtr(o odds.Odds) *odds.Odds { return &o }

func TestParse(t *testing.T) {
	k, err := Parse("flat")
	require.NoError(t, err)
	assert.Equal(t, Flat, k)

	k, err = Parse("reverse_labouchere")
	require.NoError(t, err)
	assert.Equal(t, ReverseLabouchere, k)

	// Short aliases
	k, err = Parse("ev")
	require.NoError(t, err)
	assert.Equal(t, EVKelly, k)

	k, err = Parse("fib")
	require.NoError(t, err)
	assert.Equal(t, Fibonacci, k)

	_, err = Parse("roulette")
	var unknown *UnknownStrategyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "roulette", unknown.ID)
}

func TestParseCoversCatalog(t *testing.T) {
	for k := range catalog {
		parsed, err := Parse(k.String())
		require.NoError(t, err, "kind %s", k)
		assert.Equal(t, k, parsed)
	}
}

func TestPureKelly(t *testing.T) {
	// p=0.6, +150 → decimal 2.5: f* = (0.6·1.5 - 0.4)/1.5 = 1/3
	prop, err := Propose(PureKelly, snap(1000), Params{P: 0.6, Odds: oddsPtr(odds.NewAmerican(150))})
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, prop.KellyF, 1e-9)
	assert.InDelta(t, 0.5, prop.EV, 1e-9)
	assert.InDelta(t, 333.33, mustFloat(prop.RawStake), 0.01)
	assert.Equal(t, "2.50", prop.Odds)
}

func TestKellyNegativeEdge(t *testing.T) {
	// p·(d-1) ≤ (1-p) → stake is exactly 0
	prop, err := Propose(PureKelly, snap(1000), Params{P: 0.4, Odds: oddsPtr(odds.NewDecimal(1.5))})
	require.NoError(t, err)
	assert.True(t, prop.RawStake.IsZero())
	assert.Equal(t, "negative edge", prop.Rationale)

	// Break-even edge also proposes zero.
	prop, err = Propose(PureKelly, snap(1000), Params{P: 0.5, Odds: oddsPtr(odds.NewDecimal(2.0))})
	require.NoError(t, err)
	assert.True(t, prop.RawStake.IsZero())
}

func TestEVKellyAggression(t *testing.T) {
	params := Params{P: 0.6, Odds: oddsPtr(odds.NewAmerican(150)), Agg: 2.0}
	prop, err := Propose(EVKelly, snap(1000), params)
	require.NoError(t, err)
	assert.InDelta(t, 666.67, mustFloat(prop.RawStake), 0.01)
	assert.InDelta(t, 1.0/3.0, prop.KellyF, 1e-9)

	// Aggression clamps at the full bankroll, never beyond.
	params.Agg = 9
	prop, err = Propose(EVKelly, snap(1000), params)
	require.NoError(t, err)
	assert.InDelta(t, 1000, mustFloat(prop.RawStake), 0.01)
}

func TestKellyValidation(t *testing.T) {
	var verr *ValidationError

	_, err := Propose(EVKelly, snap(1000), Params{P: 0.6})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "odds", verr.Field)

	_, err = Propose(PureKelly, snap(1000), Params{P: 1.2, Odds: oddsPtr(odds.NewDecimal(2))})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "p", verr.Field)
}

func TestEloKelly(t *testing.T) {
	diff := 0.0
	prop, err := Propose(EloKelly, snap(1000), Params{EloDiff: &diff, Odds: oddsPtr(odds.NewDecimal(2.5)), Agg: 1})
	require.NoError(t, err)
	// Even ratings → p=0.5; f* = (0.5·1.5 - 0.5)/1.5 = 1/6
	assert.InDelta(t, 1.0/6.0, prop.KellyF, 1e-9)

	_, err = Propose(EloKelly, snap(1000), Params{Odds: oddsPtr(odds.NewDecimal(2.5))})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "elo_diff", verr.Field)
}

func TestFibonacci(t *testing.T) {
	s := snap(1000)
	prop, err := Propose(Fibonacci, s, Params{})
	require.NoError(t, err)
	assert.InDelta(t, 10, mustFloat(prop.RawStake), 0.01) // 1% × fib value 1

	s.FibIndex = 3
	prop, err = Propose(Fibonacci, s, Params{})
	require.NoError(t, err)
	assert.InDelta(t, 50, mustFloat(prop.RawStake), 0.01) // 1% × fib value 5
}

func TestFibonacciEdgeGate(t *testing.T) {
	// p below the market's implied probability skips the bet.
	prop, err := Propose(Fibonacci, snap(1000), Params{P: 0.3, Odds: oddsPtr(odds.NewAmerican(150))})
	require.NoError(t, err)
	assert.True(t, prop.RawStake.IsZero())
	assert.Contains(t, prop.Rationale, "no edge")
}

func TestMartingale(t *testing.T) {
	s := snap(1000)
	base := Params{BaseBet: decimal.NewFromInt(10)}

	prop, err := Propose(Martingale, s, base)
	require.NoError(t, err)
	assert.InDelta(t, 10, mustFloat(prop.RawStake), 0.01)

	s.Streak = -3
	prop, err = Propose(Martingale, s, base)
	require.NoError(t, err)
	assert.InDelta(t, 80, mustFloat(prop.RawStake), 0.01)

	// A win streak resets the progression to the base stake.
	s.Streak = 2
	prop, err = Propose(Martingale, s, base)
	require.NoError(t, err)
	assert.InDelta(t, 10, mustFloat(prop.RawStake), 0.01)
}

func TestDAlembert(t *testing.T) {
	s := snap(1000)
	base := Params{BaseBet: decimal.NewFromInt(10)}

	prop, err := Propose(DAlembert, s, base)
	require.NoError(t, err)
	assert.InDelta(t, 10, mustFloat(prop.RawStake), 0.01)

	s.DAlembertStep = 3
	prop, err = Propose(DAlembert, s, base)
	require.NoError(t, err)
	assert.InDelta(t, 13, mustFloat(prop.RawStake), 0.01)
}

func TestLabouchereSeed(t *testing.T) {
	prop, err := Propose(Labouchere, snap(1000), Params{Target: decimal.NewFromInt(100)})
	require.NoError(t, err)

	require.Len(t, prop.Seed, 5)
	total := decimal.Zero
	for _, v := range prop.Seed {
		total = total.Add(v)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(100)), "sequence sums to the target")
	assert.InDelta(t, 20, mustFloat(prop.RawStake), 0.01) // first 10 + last 10
}

func TestLabouchereActiveSequence(t *testing.T) {
	s := snap(1000)
	s.Sequence = []decimal.Decimal{decimal.NewFromInt(20), decimal.NewFromInt(40), decimal.NewFromInt(20)}

	prop, err := Propose(Labouchere, s, Params{})
	require.NoError(t, err)
	assert.InDelta(t, 40, mustFloat(prop.RawStake), 0.01)

	// Single remaining element is staked alone.
	s.Sequence = []decimal.Decimal{decimal.NewFromInt(40)}
	prop, err = Propose(Labouchere, s, Params{})
	require.NoError(t, err)
	assert.InDelta(t, 40, mustFloat(prop.RawStake), 0.01)
}

func TestLabouchereCompletion(t *testing.T) {
	s := snap(1000)
	s.Sequence = []decimal.Decimal{}
	prop, err := Propose(Labouchere, s, Params{})
	require.NoError(t, err)
	assert.True(t, prop.Completed)
	assert.True(t, prop.RawStake.IsZero())
}

func TestLabouchereMissingTarget(t *testing.T) {
	var verr *ValidationError
	_, err := Propose(Labouchere, snap(1000), Params{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "target", verr.Field)
}

func TestReverseLabouchere(t *testing.T) {
	prop, err := Propose(ReverseLabouchere, snap(1000), Params{Target: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.InDelta(t, 10, mustFloat(prop.RawStake), 0.01) // head element only
}

func TestConservativeStrategies(t *testing.T) {
	prop, err := Propose(Flat, snap(1000), Params{FixedAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.InDelta(t, 100, mustFloat(prop.RawStake), 0.01)

	prop, err = Propose(Percentage, snap(1000), Params{BetPct: 0.03})
	require.NoError(t, err)
	assert.InDelta(t, 30, mustFloat(prop.RawStake), 0.01)

	prop, err = Propose(FixedUnit, snap(1000), Params{UnitSize: decimal.NewFromInt(15), NumUnits: 3})
	require.NoError(t, err)
	assert.InDelta(t, 45, mustFloat(prop.RawStake), 0.01)
}

func TestConservativeValidation(t *testing.T) {
	var verr *ValidationError

	_, err := Propose(Flat, snap(1000), Params{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fixed_amount", verr.Field)

	_, err = Propose(Percentage, snap(1000), Params{BetPct: 1.5})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bet_pct", verr.Field)

	_, err = Propose(FixedUnit, snap(1000), Params{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit_size", verr.Field)
}

func TestVigAdjusted(t *testing.T) {
	prop, err := Propose(VigAdjusted, snap(1000), Params{
		FavOdds: oddsPtr(odds.NewAmerican(-110)),
		DogOdds: oddsPtr(odds.NewAmerican(-110)),
	})
	require.NoError(t, err)

	// ~4.8% margin shrinks the 2% base stake below $20.
	stake := mustFloat(prop.RawStake)
	assert.Less(t, stake, 20.0)
	assert.Greater(t, stake, 18.0)
}

func TestMarginBasedPrefersFairBooks(t *testing.T) {
	fair, err := Propose(MarginBased, snap(1000), Params{
		FavOdds: oddsPtr(odds.NewDecimal(1.99)),
		DogOdds: oddsPtr(odds.NewDecimal(1.99)),
	})
	require.NoError(t, err)

	juiced, err := Propose(MarginBased, snap(1000), Params{
		FavOdds: oddsPtr(odds.NewDecimal(1.80)),
		DogOdds: oddsPtr(odds.NewDecimal(1.80)),
	})
	require.NoError(t, err)

	assert.True(t, fair.RawStake.GreaterThan(juiced.RawStake))
}

func TestParlayStrategy(t *testing.T) {
	prop, err := Propose(Parlay, snap(1000), Params{
		Legs: []odds.Odds{odds.NewDecimal(1.8), odds.NewDecimal(2.1)},
	})
	require.NoError(t, err)
	assert.InDelta(t, 20, mustFloat(prop.RawStake), 0.01) // 2% base
	assert.Equal(t, "3.78", prop.Odds)

	var verr *ValidationError
	_, err = Propose(Parlay, snap(1000), Params{Legs: []odds.Odds{odds.NewDecimal(1.8)}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "legs", verr.Field)
}

func TestProposeIsPure(t *testing.T) {
	s := snap(1000)
	s.Sequence = []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(20)}
	before := len(s.Sequence)

	_, err := Propose(Labouchere, s, Params{})
	require.NoError(t, err)
	assert.Len(t, s.Sequence, before, "propose must not mutate the snapshot")
}

func TestUnknownKind(t *testing.T) {
	_, err := Propose(Kind(99), snap(1000), Params{})
	var unknown *UnknownStrategyError
	assert.True(t, errors.As(err, &unknown))
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
