package models

import "time"

// Trade represents one journaled trading decision. A trade is created from
// the planning form with status Open, may be edited in place (same ID, same
// timestamp), and is closed by setting a terminal status plus realized PnL.
// Trades are never deleted here; deletion is a storage concern.
type Trade struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Plan fields.
	Pair        string     `json:"pair"`
	AssetClass  AssetClass `json:"assetClass"`
	Direction   Direction  `json:"direction"`
	EntryPrice  float64    `json:"entryPrice"`
	StopLoss    float64    `json:"stopLoss"`
	TakeProfit  float64    `json:"takeProfit"`
	Timeframe   string     `json:"timeframe"`
	Session     string     `json:"session"`
	Reason      string     `json:"reason"`
	Confluences []string   `json:"confluences"`

	// Derived at creation (recomputed on every edit).
	RR              float64 `json:"rr"`
	ConfluenceScore int     `json:"confluenceScore"`
	RiskPercent     float64 `json:"riskPercent"`
	RiskAmount      float64 `json:"riskAmount"`

	// Lifecycle.
	Status TradeStatus `json:"status"`
	PnL    *float64    `json:"pnl,omitempty"` // set iff Status is terminal
}

// RealizedPnL returns the realized profit/loss, or 0 while the trade is open.
func (t *Trade) RealizedPnL() float64 {
	if t.PnL == nil {
		return 0
	}
	return *t.PnL
}

// EquityPoint is one point of an account equity curve.
type EquityPoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// AccountStats is the derived account summary produced by folding a trade
// history into an initial balance. It is computed fresh on demand and never
// persisted.
type AccountStats struct {
	Balance        float64       `json:"balance"`
	InitialBalance float64       `json:"initialBalance"`
	TotalTrades    int           `json:"totalTrades"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	WinRate        float64       `json:"winRate"`
	AverageRR      float64       `json:"averageRR"`
	EquityCurve    []EquityPoint `json:"equityCurve"`
}
