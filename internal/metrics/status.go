package metrics

import "tradeflow/internal/models"

// DefaultRiskAmount is substituted when a trade carries no recorded risk
// amount. Early journal versions did not store risk, so closing such a
// legacy trade assumes a flat 100 currency units. A backward-compatibility
// policy, not a guess.
const DefaultRiskAmount = 100.0

// ResolvePnL maps a closing status to a realized profit/loss: Win pays the
// risk amount multiplied by the planned RR, Loss forfeits the risk amount,
// Break Even (and any non-terminal status) realizes 0. The result is always
// derived fresh from riskAmount and rr, so repeated status changes are
// idempotent.
func ResolvePnL(status models.TradeStatus, riskAmount, rr float64) float64 {
	if riskAmount <= 0 {
		riskAmount = DefaultRiskAmount
	}

	switch status {
	case models.StatusWin:
		return riskAmount * rr
	case models.StatusLoss:
		return -riskAmount
	default:
		return 0
	}
}
