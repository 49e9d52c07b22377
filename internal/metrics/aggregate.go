package metrics

import (
	"sort"

	"tradeflow/internal/models"
)

// StartLabel is the equity curve label for the seed point at the initial
// balance.
const StartLabel = "Start"

// curveDateLayout renders an equity point's calendar date as month/day,
// e.g. "Jan 2".
const curveDateLayout = "Jan 2"

// Aggregate folds an ordered trade history and an initial balance into the
// derived account statistics. The input slice is not modified; trades are
// walked in ascending timestamp order (stable, so ties keep their original
// relative order). Open trades count toward TotalTrades but contribute no
// realized change, no equity point, and no win-rate weight. Break-even
// trades are closed but sit outside the win-rate denominator.
//
// AverageRR accumulates RR from winning trades only; a loser's planned
// reward is discarded rather than counted as negative reward.
func Aggregate(trades []models.Trade, initialBalance float64) models.AccountStats {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	balance := initialBalance
	curve := []models.EquityPoint{{Date: StartLabel, Balance: initialBalance}}

	var wins, losses int
	var rewardSum float64

	for _, t := range sorted {
		if t.Status == models.StatusOpen {
			continue
		}

		balance += t.RealizedPnL()
		curve = append(curve, models.EquityPoint{
			Date:    t.Timestamp.Format(curveDateLayout),
			Balance: balance,
		})

		switch t.Status {
		case models.StatusWin:
			wins++
			rewardSum += t.RR
		case models.StatusLoss:
			losses++
		}
	}

	// Break-even and open trades are excluded from the strict win-rate
	// denominator.
	finished := wins + losses
	var winRate, avgRR float64
	if finished > 0 {
		winRate = float64(wins) / float64(finished) * 100
	}
	if wins > 0 {
		avgRR = rewardSum / float64(wins)
	}

	return models.AccountStats{
		Balance:        balance,
		InitialBalance: initialBalance,
		TotalTrades:    len(trades),
		Wins:           wins,
		Losses:         losses,
		WinRate:        winRate,
		AverageRR:      avgRR,
		EquityCurve:    curve,
	}
}

// CurrentBalance returns the initial balance plus the realized PnL of every
// closed trade, without building the full statistics.
func CurrentBalance(trades []models.Trade, initialBalance float64) float64 {
	balance := initialBalance
	for _, t := range trades {
		balance += t.RealizedPnL()
	}
	return balance
}
