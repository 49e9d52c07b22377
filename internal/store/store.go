// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"tradeflow/internal/models"
)

// GuestUserID is the storage partition used when nobody is logged in.
const GuestUserID = "guest"

// DataStore defines the interface for journal persistence. Every call takes
// the owning user's id explicitly; there is no ambient "current user" state,
// so concurrent callers for different users cannot contaminate each other.
type DataStore interface {
	// Trades
	GetTrades(ctx context.Context, userID string) ([]models.Trade, error)
	GetTrade(ctx context.Context, userID, id string) (*models.Trade, error)
	SaveTrade(ctx context.Context, userID string, trade *models.Trade) error
	UpdateTrade(ctx context.Context, userID string, trade *models.Trade) error
	UpdateTradeStatus(ctx context.Context, userID, id string, status models.TradeStatus, pnl float64) error

	// Account balance
	GetInitialBalance(ctx context.Context, userID string) (float64, error)
	SetInitialBalance(ctx context.Context, userID string, amount float64) error

	// Maintenance
	ClearUserData(ctx context.Context, userID string) error

	// Lifecycle
	Close() error
}
