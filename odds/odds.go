package odds

import (
	"errors"
	"fmt"
	"math"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ODDS MODEL - Pure conversions between odds formats and implied probability
// ═══════════════════════════════════════════════════════════════════════════════
//
// Supported formats:
//   American:   ±integer (-150 = stake 150 to win 100, +150 = win 150 per 100)
//   Decimal:    payout multiple per unit staked (stake × odds = total return)
//   Fractional: n/m profit per stake (5/4 = win 5 for every 4 staked)
//
// Everything here is stateless and referentially transparent.
//
// ═══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidOdds is returned for odds outside their documented domain
	// (American 0, decimal ≤ 1, non-positive fractional terms).
	ErrInvalidOdds = errors.New("invalid odds")

	// ErrInvalidProbability is returned for probabilities outside (0, 1).
	ErrInvalidProbability = errors.New("probability must be in (0, 1)")
)

// Format identifies an odds quoting convention.
type Format int

const (
	American Format = iota
	Decimal
	Fractional
)

func (f Format) String() string {
	switch f {
	case American:
		return "american"
	case Decimal:
		return "decimal"
	case Fractional:
		return "fractional"
	}
	return "unknown"
}

// Odds is a quoted price in one of the supported formats.
type Odds struct {
	format   Format
	american int
	decimal  float64
	num, den int64
}

// NewAmerican quotes American odds.
func NewAmerican(o int) Odds {
	return Odds{format: American, american: o}
}

// NewDecimal quotes decimal odds.
func NewDecimal(d float64) Odds {
	return Odds{format: Decimal, decimal: d}
}

// NewFractional quotes fractional odds n/m.
func NewFractional(num, den int64) Odds {
	return Odds{format: Fractional, num: num, den: den}
}

// Format returns the quoting convention of the odds.
func (o Odds) Format() Format { return o.format }

// DecimalValue normalizes the odds to decimal format.
func (o Odds) DecimalValue() (float64, error) {
	switch o.format {
	case Decimal:
		if o.decimal <= 1 {
			return 0, fmt.Errorf("decimal odds %.4f ≤ 1: %w", o.decimal, ErrInvalidOdds)
		}
		return o.decimal, nil
	case American:
		if o.american == 0 {
			return 0, fmt.Errorf("american odds 0: %w", ErrInvalidOdds)
		}
		if o.american > 0 {
			return 1 + float64(o.american)/100, nil
		}
		return 1 + 100/math.Abs(float64(o.american)), nil
	case Fractional:
		if o.num <= 0 || o.den <= 0 {
			return 0, fmt.Errorf("fractional odds %d/%d: %w", o.num, o.den, ErrInvalidOdds)
		}
		return 1 + float64(o.num)/float64(o.den), nil
	}
	return 0, fmt.Errorf("unknown odds format %d: %w", o.format, ErrInvalidOdds)
}

// Probability returns the implied win probability of the odds, always in (0, 1).
func (o Odds) Probability() (float64, error) {
	d, err := o.DecimalValue()
	if err != nil {
		return 0, err
	}
	return 1 / d, nil
}

func (o Odds) String() string {
	switch o.format {
	case American:
		if o.american > 0 {
			return fmt.Sprintf("+%d", o.american)
		}
		return fmt.Sprintf("%d", o.american)
	case Decimal:
		return fmt.Sprintf("%.2f", o.decimal)
	case Fractional:
		return fmt.Sprintf("%d/%d", o.num, o.den)
	}
	return "?"
}

// FromProbability converts a win probability back to odds in the given
// format. Even money (p = 0.5) is quoted as -100 by convention; +100 is the
// same price.
func FromProbability(p float64, f Format) (Odds, error) {
	if p <= 0 || p >= 1 {
		return Odds{}, fmt.Errorf("%.4f: %w", p, ErrInvalidProbability)
	}
	switch f {
	case American:
		if p >= 0.5 {
			return NewAmerican(-int(math.Round(p / (1 - p) * 100))), nil
		}
		return NewAmerican(int(math.Round((1 - p) / p * 100))), nil
	case Decimal:
		return NewDecimal(1 / p), nil
	case Fractional:
		num, den := approxFraction(1/p-1, 1000)
		return NewFractional(num, den), nil
	}
	return Odds{}, fmt.Errorf("unknown odds format %d: %w", f, ErrInvalidOdds)
}

// approxFraction finds the best rational approximation of x with a bounded
// denominator, via the continued fraction expansion.
func approxFraction(x float64, maxDen int64) (int64, int64) {
	a := math.Floor(x)
	p0, q0 := int64(1), int64(0)
	p1, q1 := int64(a), int64(1)
	frac := x - a
	for frac > 1e-9 {
		x = 1 / frac
		a = math.Floor(x)
		if q1*int64(a)+q0 > maxDen {
			break
		}
		p0, p1 = p1, int64(a)*p1+p0
		q0, q1 = q1, int64(a)*q1+q0
		frac = x - a
	}
	if p1 <= 0 {
		p1 = 1
	}
	return p1, q1
}
