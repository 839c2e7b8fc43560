package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════════════════════════
// SEQUENCE SYSTEMS - Labouchere, Reverse Labouchere
// ═══════════════════════════════════════════════════════════════════════════════
//
// A target sequence summing to the desired profit is seeded on first use.
// Standard stakes first+last of the remaining sequence; Reverse stakes the
// first element. The engine applies outcome transitions (win removes the
// staked elements, a loss re-queues the stake) and clears the lineage when
// the sequence empties — that is strategy completion.
//
// ═══════════════════════════════════════════════════════════════════════════════

// seedRatios slice the profit target into the opening sequence. They sum to
// 1.0 so the cleared sequence pays out exactly the target.
var seedRatios = []float64{0.1, 0.2, 0.4, 0.2, 0.1}

// SeedSequence builds the opening Labouchere sequence for a profit target.
func SeedSequence(target decimal.Decimal) []decimal.Decimal {
	seq := make([]decimal.Decimal, len(seedRatios))
	for i, r := range seedRatios {
		seq[i] = target.Mul(decimal.NewFromFloat(r)).Round(2)
	}
	return seq
}

func sequenceFor(snap Snapshot, p Params) ([]decimal.Decimal, *Proposal, error) {
	if snap.Sequence != nil {
		if len(snap.Sequence) == 0 {
			return nil, &Proposal{Completed: true, Rationale: "sequence complete — target reached"}, nil
		}
		return snap.Sequence, nil, nil
	}
	if !p.Target.IsPositive() {
		return nil, nil, &ValidationError{Field: "target", Reason: "required to start a sequence"}
	}
	return nil, nil, nil // caller seeds from Target
}

func proposeLabouchere(snap Snapshot, p Params) (Proposal, error) {
	seq, done, err := sequenceFor(snap, p)
	if err != nil {
		return Proposal{}, err
	}
	if done != nil {
		return *done, nil
	}

	prop := Proposal{}
	if seq == nil {
		prop.Seed = SeedSequence(p.Target)
		seq = prop.Seed
	}

	stake := seq[0]
	if len(seq) > 1 {
		stake = stake.Add(seq[len(seq)-1])
	}
	prop.RawStake = stake
	prop.Rationale = fmt.Sprintf("Labouchere first+last (%d left)", len(seq))
	return prop, nil
}

func proposeReverseLabouchere(snap Snapshot, p Params) (Proposal, error) {
	seq, done, err := sequenceFor(snap, p)
	if err != nil {
		return Proposal{}, err
	}
	if done != nil {
		return *done, nil
	}

	prop := Proposal{}
	if seq == nil {
		prop.Seed = SeedSequence(p.Target)
		seq = prop.Seed
	}

	prop.RawStake = seq[0]
	prop.Rationale = fmt.Sprintf("Reverse Labouchere head (%d left)", len(seq))
	return prop, nil
}
