package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanProbability(t *testing.T) {
	tests := []struct {
		american int
		want     float64
	}{
		{150, 0.4},
		{-200, 0.6667},
		{100, 0.5},
		{-110, 0.5238},
		{300, 0.25},
	}
	for _, tt := range tests {
		p, err := NewAmerican(tt.american).Probability()
		require.NoError(t, err)
		assert.InDelta(t, tt.want, p, 0.0001, "american %d", tt.american)
	}
}

func TestDecimalProbability(t *testing.T) {
	p, err := NewDecimal(2.5).Probability()
	require.NoError(t, err)
	assert.InDelta(t, 0.4, p, 1e-9)
}

func TestFractionalProbability(t *testing.T) {
	o := NewFractional(5, 4)
	d, err := o.DecimalValue()
	require.NoError(t, err)
	assert.InDelta(t, 2.25, d, 1e-9)

	p, err := o.Probability()
	require.NoError(t, err)
	assert.InDelta(t, 1/2.25, p, 1e-9)
}

func TestInvalidOdds(t *testing.T) {
	cases := []Odds{
		NewAmerican(0),
		NewDecimal(1.0),
		NewDecimal(0.5),
		NewFractional(0, 4),
		NewFractional(5, 0),
		NewFractional(-5, 4),
	}
	for _, o := range cases {
		_, err := o.Probability()
		assert.ErrorIs(t, err, ErrInvalidOdds, "odds %s", o)
	}
}

func TestProbabilityBounds(t *testing.T) {
	for _, o := range []Odds{
		NewAmerican(-10000), NewAmerican(-100), NewAmerican(100), NewAmerican(10000),
		NewDecimal(1.01), NewDecimal(1000), NewFractional(1, 100), NewFractional(100, 1),
	} {
		p, err := o.Probability()
		require.NoError(t, err)
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	}
}

func TestFromProbabilityInvalid(t *testing.T) {
	for _, p := range []float64{0, 1, -0.5, 1.5} {
		_, err := FromProbability(p, American)
		assert.ErrorIs(t, err, ErrInvalidProbability)
	}
}

func TestFromProbabilityDecimal(t *testing.T) {
	o, err := FromProbability(0.5, Decimal)
	require.NoError(t, err)
	d, err := o.DecimalValue()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 1e-9)
}

func TestFromProbabilityFractional(t *testing.T) {
	o, err := FromProbability(0.25, Fractional)
	require.NoError(t, err)
	assert.Equal(t, "3/1", o.String())
}

// Round-trip: probability of American odds converted back to American stays
// within ±1 integer tick.
func TestAmericanRoundTrip(t *testing.T) {
	for _, a := range []int{-500, -150, -110, -101, 110, 150, 250, 500} {
		p, err := NewAmerican(a).Probability()
		require.NoError(t, err)

		back, err := FromProbability(p, American)
		require.NoError(t, err)
		assert.InDelta(t, float64(a), float64(back.american), 1, "american %d", a)
	}
}

func TestFromProbabilityEvenMoney(t *testing.T) {
	// p = 0.5 is quoted -100 by convention; +100 is the same price.
	o, err := FromProbability(0.5, American)
	require.NoError(t, err)
	assert.Equal(t, "-100", o.String())

	p, err := o.Probability()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	p, err = NewAmerican(100).Probability()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)
}

func TestOddsString(t *testing.T) {
	assert.Equal(t, "+150", NewAmerican(150).String())
	assert.Equal(t, "-200", NewAmerican(-200).String())
	assert.Equal(t, "2.50", NewDecimal(2.5).String())
	assert.Equal(t, "5/4", NewFractional(5, 4).String())
}
