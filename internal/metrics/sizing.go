package metrics

import "tradeflow/internal/models"

// Sizing is the output of the standalone position-size planner.
type Sizing struct {
	RiskAmount float64
	LotSize    float64
}

// SizeFromInputs recommends a position size from a balance, a risk
// percentage, and a stop distance already expressed in pips/points. It is a
// planning tool independent of any persisted trade: Lot = RiskAmount /
// (stopUnits × pip value per standard lot). A stop distance of zero or less
// yields a lot size of 0.
func SizeFromInputs(balance, riskPercent, stopUnits float64, class models.AssetClass) Sizing {
	s := Sizing{RiskAmount: balance * riskPercent / 100}
	if stopUnits <= 0 || !finite(s.RiskAmount, stopUnits) {
		return s
	}
	s.LotSize = s.RiskAmount / (stopUnits * PipValue(class))
	return s
}
