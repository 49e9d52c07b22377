package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradeflow/internal/models"
)

var assetClasses = []models.AssetClass{
	models.AssetForex,
	models.AssetGold,
	models.AssetIndices,
	models.AssetCrypto,
}

// Property: DistanceToUnits is linear and sign-preserving for every asset
// class. Scaling the input distance scales the output by the same factor,
// and a negative distance never becomes positive.
func TestProperty_DistanceToUnitsLinearity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"EURUSD", "USDJPY", "XAUUSD", "US30", "BTCUSD"}

	properties.Property("scales proportionally with input distance", prop.ForAll(
		func(classIdx, symbolIdx int, dist, factor float64) bool {
			class := assetClasses[classIdx%len(assetClasses)]
			symbol := symbols[symbolIdx%len(symbols)]

			scaled := DistanceToUnits(dist*factor, class, symbol)
			expected := DistanceToUnits(dist, class, symbol) * factor
			return math.Abs(scaled-expected) <= 1e-6*math.Max(1, math.Abs(expected))
		},
		gen.IntRange(0, len(assetClasses)-1),
		gen.IntRange(0, 4),
		gen.Float64Range(-10, 10),
		gen.Float64Range(0.1, 100),
	))

	properties.Property("preserves sign", prop.ForAll(
		func(classIdx int, dist float64) bool {
			class := assetClasses[classIdx%len(assetClasses)]
			out := DistanceToUnits(dist, class, "EURUSD")
			switch {
			case dist > 0:
				return out > 0
			case dist < 0:
				return out < 0
			default:
				return out == 0
			}
		},
		gen.IntRange(0, len(assetClasses)-1),
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}

// Property: the risk-reward ratio matches the rounded reward/risk quotient
// whenever entry differs from stop, and is 0 when they coincide.
func TestProperty_RiskRewardDefinition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("rr equals rounded |target-entry|/|entry-stop|", prop.ForAll(
		func(entry, stopOffset, target float64) bool {
			stop := entry + stopOffset
			got := Compute(Input{
				Entry: entry, Stop: stop, Target: target,
				Direction: models.DirectionBuy, AssetClass: models.AssetIndices,
			}).RR
			want := math.Round(math.Abs(target-entry)/math.Abs(entry-stop)*100) / 100
			return math.Abs(got-want) <= 1e-9
		},
		gen.Float64Range(10, 1000),
		gen.Float64Range(0.5, 50), // never zero, so entry != stop
		gen.Float64Range(10, 1000),
	))

	properties.Property("entry equal to stop yields rr 0", prop.ForAll(
		func(entry, target float64) bool {
			got := Compute(Input{
				Entry: entry, Stop: entry, Target: target,
				Direction: models.DirectionSell, AssetClass: models.AssetCrypto,
			}).RR
			return got == 0
		},
		gen.Float64Range(1, 1000),
		gen.Float64Range(1, 1000),
	))

	properties.TestingRun(t)
}

// Property: the confluence score of any subset of the vocabulary equals the
// subset's cardinality, and toggling an already-selected tag off shrinks it
// by exactly one.
func TestProperty_ConfluenceScoreCardinality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("score equals subset size", prop.ForAll(
		func(mask int) bool {
			var subset []string
			for i, tag := range models.ConfluenceList {
				if mask&(1<<i) != 0 {
					subset = append(subset, tag)
				}
			}
			return ConfluenceScore(subset) == len(subset)
		},
		gen.IntRange(0, 1<<len(models.ConfluenceList)-1),
	))

	properties.Property("toggling off a selected tag decrements by one", prop.ForAll(
		func(mask, pick int) bool {
			var subset []string
			for i, tag := range models.ConfluenceList {
				if mask&(1<<i) != 0 {
					subset = append(subset, tag)
				}
			}
			if len(subset) == 0 {
				return true
			}
			victim := subset[pick%len(subset)]
			var toggled []string
			for _, tag := range subset {
				if tag != victim {
					toggled = append(toggled, tag)
				}
			}
			return ConfluenceScore(toggled) == ConfluenceScore(subset)-1
		},
		gen.IntRange(1, 1<<len(models.ConfluenceList)-1),
		gen.IntRange(0, 9),
	))

	properties.TestingRun(t)
}

// Property: aggregation is independent of input order. Shuffled trade
// histories produce identical statistics and an equity curve that walks
// timestamps in ascending order.
func TestProperty_AggregateOrderIndependence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	statuses := []models.TradeStatus{
		models.StatusOpen, models.StatusWin, models.StatusLoss, models.StatusBreakEven,
	}

	properties.Property("reversed input produces identical stats", prop.ForAll(
		func(count int, seed int64) bool {
			base := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
			trades := make([]models.Trade, count)
			for i := range trades {
				status := statuses[int(seed+int64(i*7))%len(statuses)]
				rr := float64(1+(seed+int64(i))%4) * 0.5
				trades[i] = closedTrade(
					"t"+string(rune('a'+i%26)),
					base.Add(time.Duration(i)*6*time.Hour),
					status, rr, 100,
				)
			}

			reversed := make([]models.Trade, count)
			for i := range trades {
				reversed[count-1-i] = trades[i]
			}

			a := Aggregate(trades, 10000)
			b := Aggregate(reversed, 10000)

			if a.Balance != b.Balance || a.Wins != b.Wins || a.Losses != b.Losses ||
				a.WinRate != b.WinRate || a.AverageRR != b.AverageRR {
				return false
			}
			if len(a.EquityCurve) != len(b.EquityCurve) {
				return false
			}
			for i := range a.EquityCurve {
				if a.EquityCurve[i] != b.EquityCurve[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 30),
		gen.Int64Range(0, 1<<30),
	))

	properties.Property("curve length is one plus closed-trade count", prop.ForAll(
		func(count int, seed int64) bool {
			base := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
			closed := 0
			trades := make([]models.Trade, count)
			for i := range trades {
				status := statuses[int(seed+int64(i*3))%len(statuses)]
				if status.Terminal() {
					closed++
				}
				trades[i] = closedTrade("t", base.Add(time.Duration(i)*time.Hour), status, 2, 100)
			}
			return len(Aggregate(trades, 10000).EquityCurve) == 1+closed
		},
		gen.IntRange(0, 40),
		gen.Int64Range(0, 1<<30),
	))

	properties.TestingRun(t)
}

// Property: a round trip through ResolvePnL and Aggregate reproduces the
// balance arithmetic: wins add riskAmount*rr, losses subtract riskAmount,
// break-even moves nothing.
func TestProperty_ResolvePnLBalanceConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("balance equals initial plus resolved pnl sum", prop.ForAll(
		func(riskAmount, rr, initial float64, statusIdx int) bool {
			status := []models.TradeStatus{
				models.StatusWin, models.StatusLoss, models.StatusBreakEven,
			}[statusIdx%3]

			trade := closedTrade("t", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), status, rr, riskAmount)
			stats := Aggregate([]models.Trade{trade}, initial)

			want := initial + ResolvePnL(status, riskAmount, rr)
			return math.Abs(stats.Balance-want) <= 1e-9*math.Max(1, math.Abs(want))
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(0, 10),
		gen.Float64Range(100, 100000),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
