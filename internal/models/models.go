// Package models provides domain models for the trading journal.
package models

// AssetClass represents the category of a traded instrument. The class
// determines how raw price distances are normalized into pips or points
// and which pip-value convention applies to position sizing.
type AssetClass string

const (
	AssetForex   AssetClass = "Forex"
	AssetGold    AssetClass = "Gold"
	AssetIndices AssetClass = "Indices"
	AssetCrypto  AssetClass = "Crypto"
)

// Direction represents the side of a trade.
type Direction string

const (
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// TradeStatus represents the lifecycle state of a journaled trade.
type TradeStatus string

const (
	StatusOpen      TradeStatus = "Open"
	StatusWin       TradeStatus = "Win"
	StatusLoss      TradeStatus = "Loss"
	StatusBreakEven TradeStatus = "Break Even"
)

// Terminal reports whether the status represents a closed trade.
func (s TradeStatus) Terminal() bool {
	return s == StatusWin || s == StatusLoss || s == StatusBreakEven
}

// ConfluenceList is the fixed vocabulary of technical signals a trader can
// check off in support of a setup. A trade's confluence set is any subset of
// this list; its score is the cardinality of that subset.
var ConfluenceList = []string{
	"Structure Break (BOS/CHoch)",
	"Supply & Demand Zone",
	"Imbalance (FVG)",
	"Liquidity Sweep",
	"Mitigation / Retest",
	"200 EMA Trend",
	"ATR Volatility Filter",
	"Fibonacci Golden Zone",
	"RSI Divergence",
	"Fundamental Bias",
}

// Timeframes lists the chart timeframes offered by the journal form.
var Timeframes = []string{"1m", "5m", "15m", "1h", "4h", "D"}

// Sessions lists the trading session labels offered by the journal form.
var Sessions = []string{"Asia", "London", "New York"}

// User represents an authenticated journal user. The ID is opaque and is
// used only to partition stored data.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider,omitempty"`
}
