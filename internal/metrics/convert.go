// Package metrics implements the trade-metrics computation engine: pure
// numeric transformations from raw trade inputs to derived trading
// quantities, plus the account aggregation fold. Every function is total
// over its numeric domain; degenerate input yields a fallback value (usually
// 0), never an error. Concurrent use is safe, nothing here holds state.
package metrics

import (
	"math"
	"strings"

	"tradeflow/internal/models"
)

// Per-class contract value used by sizing: currency per pip/point per
// standard lot. Forex majors ≈ $10/pip, generic index CFD $1/point, gold
// $10 per 0.10 move.
const (
	pipValueForex   = 10.0
	pipValueGold    = 10.0
	pipValueIndices = 1.0
	pipValueDefault = 10.0
)

// DistanceToUnits converts a raw price distance into the display unit for
// the asset class: pips for forex (2-decimal quote convention for JPY
// crosses), tenths for gold, and the raw distance for indices and crypto.
// The conversion is linear and sign-preserving; a negative distance flows
// through so the caller can flag an inverted stop.
func DistanceToUnits(dist float64, class models.AssetClass, symbol string) float64 {
	switch class {
	case models.AssetForex:
		if strings.Contains(strings.ToUpper(symbol), "JPY") {
			return dist * 100
		}
		return dist * 10000
	case models.AssetGold:
		return dist * 10
	default:
		// Indices, crypto: the price distance already is the natural unit.
		return dist
	}
}

// RecommendedSize derives a position size from a risk budget and the
// entry-to-stop distance. Returns 0 when the stop distance is zero or any
// input is non-finite; sizing a trade with no stop is meaningless, not an
// error.
func RecommendedSize(riskAmount, entry, stop float64, class models.AssetClass, symbol string) float64 {
	dist := math.Abs(entry - stop)
	if dist == 0 || !finite(riskAmount, dist) || riskAmount <= 0 {
		return 0
	}

	switch class {
	case models.AssetForex:
		// Approximation: $10 per pip per standard lot.
		units := math.Abs(DistanceToUnits(dist, class, symbol))
		if units == 0 {
			return 0
		}
		return riskAmount / (units * pipValueForex)
	case models.AssetGold:
		// 100 oz per lot.
		return riskAmount / (dist * 100)
	case models.AssetIndices:
		// $1 per point generic CFD.
		return riskAmount / dist
	default:
		// Crypto and anything else: 1 lot = 1 unit of the asset.
		return riskAmount / dist
	}
}

// PipValue returns the per-class currency value of one pip/point for one
// standard lot, as used by the standalone risk sizing tool.
func PipValue(class models.AssetClass) float64 {
	switch class {
	case models.AssetForex:
		return pipValueForex
	case models.AssetIndices:
		return pipValueIndices
	case models.AssetGold:
		return pipValueGold
	default:
		return pipValueDefault
	}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
