package metrics

import (
	"math"

	"tradeflow/internal/models"
)

// Input carries the raw fields of a planned trade needed to derive its
// metrics. Balance is the account balance at the time of planning.
type Input struct {
	Entry       float64
	Stop        float64
	Target      float64
	Direction   models.Direction
	RiskPercent float64
	Balance     float64
	AssetClass  models.AssetClass
	Symbol      string
}

// Derived holds the quantities computed from an Input. It is recomputed
// fresh on every input change; nothing is patched incrementally.
type Derived struct {
	// RR is |target-entry| / |entry-stop| rounded to 2 decimals, or 0 when
	// entry equals stop or any price is non-finite. An RR of 0 means
	// "undefined", not an error; the journal still accepts the trade.
	RR float64

	// NativeDistance is the signed, direction-aware entry-to-stop distance:
	// positive for a correctly placed stop, negative for an inverted one.
	// The sign is reported, never corrected.
	NativeDistance float64

	// NormalizedUnits is NativeDistance expressed in pips/points.
	NormalizedUnits float64

	// RiskAmount is the absolute currency amount at risk.
	RiskAmount float64

	// LotSize is the recommended position size for the risk budget, or 0
	// when it cannot be derived.
	LotSize float64
}

// Compute derives all trade metrics from the raw inputs.
func Compute(in Input) Derived {
	d := Derived{
		RiskAmount: in.Balance * in.RiskPercent / 100,
	}

	if finite(in.Entry, in.Stop, in.Target) && in.Entry != in.Stop {
		d.RR = round2(math.Abs(in.Target-in.Entry) / math.Abs(in.Entry-in.Stop))
	}

	if finite(in.Entry, in.Stop) {
		if in.Direction == models.DirectionSell {
			d.NativeDistance = in.Stop - in.Entry
		} else {
			d.NativeDistance = in.Entry - in.Stop
		}
		d.NormalizedUnits = DistanceToUnits(d.NativeDistance, in.AssetClass, in.Symbol)
	}

	d.LotSize = RecommendedSize(d.RiskAmount, in.Entry, in.Stop, in.AssetClass, in.Symbol)

	return d
}

// ConfluenceScore returns the cardinality of the selected confluence tag
// set. Duplicates are collapsed; the score of a subset of the vocabulary is
// always the subset's size.
func ConfluenceScore(tags []string) int {
	return len(NormalizeConfluences(tags))
}

// NormalizeConfluences deduplicates a tag list while preserving first-seen
// order, giving the list set semantics.
func NormalizeConfluences(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
