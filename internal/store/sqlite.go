package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/models"
)

// defaultInitialBalance seeds accounts that never set a starting balance.
const defaultInitialBalance = 10000.0

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db             *sql.DB
	defaultBalance float64
}

// NewSQLiteStore creates a new SQLite-based data store at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithDefault(dbPath, defaultInitialBalance)
}

// NewSQLiteStoreWithDefault creates a store whose unset accounts report the
// given starting balance.
func NewSQLiteStoreWithDefault(dbPath string, defaultBalance float64) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db, defaultBalance: defaultBalance}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Journaled trades, partitioned per user
	CREATE TABLE IF NOT EXISTS trades (
		user_id TEXT NOT NULL,
		id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		pair TEXT NOT NULL,
		asset_class TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		take_profit REAL NOT NULL,
		timeframe TEXT,
		session TEXT,
		reason TEXT,
		confluences TEXT,
		confluence_score INTEGER NOT NULL DEFAULT 0,
		rr REAL NOT NULL DEFAULT 0,
		risk_percent REAL NOT NULL DEFAULT 0,
		risk_amount REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Open',
		pnl REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, id)
	);

	-- Initial account balance per user
	CREATE TABLE IF NOT EXISTS balances (
		user_id TEXT PRIMARY KEY,
		initial_balance REAL NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_user_timestamp ON trades(user_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_trades_user_status ON trades(user_id, status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const tradeColumns = `id, timestamp, pair, asset_class, direction, entry_price, stop_loss,
	take_profit, timeframe, session, reason, confluences, confluence_score,
	rr, risk_percent, risk_amount, status, pnl`

// GetTrades returns all trades in a user's partition, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, userID string) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
	`, userID)
	if err != nil {
		return nil, apperrors.NewStoreError("get_trades", userID, err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("get_trades", userID, err)
		}
		trades = append(trades, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("get_trades", userID, err)
	}

	return trades, nil
}

// GetTrade returns a single trade by id.
func (s *SQLiteStore) GetTrade(ctx context.Context, userID, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ? AND id = ?
	`, userID, id)

	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTradeNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_trade", userID, err)
	}
	return t, nil
}

// SaveTrade inserts a new trade into the user's partition.
func (s *SQLiteStore) SaveTrade(ctx context.Context, userID string, trade *models.Trade) error {
	confluences, _ := json.Marshal(trade.Confluences)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (user_id, `+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, trade.ID, trade.Timestamp, trade.Pair, trade.AssetClass, trade.Direction,
		trade.EntryPrice, trade.StopLoss, trade.TakeProfit, trade.Timeframe, trade.Session,
		trade.Reason, string(confluences), trade.ConfluenceScore, trade.RR,
		trade.RiskPercent, trade.RiskAmount, trade.Status, nullFloat(trade.PnL))
	if err != nil {
		return apperrors.NewStoreError("save_trade", userID, err)
	}
	return nil
}

// UpdateTrade replaces a trade by id. ID and timestamp are part of the
// record and therefore preserved by the caller; the row must already exist.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, userID string, trade *models.Trade) error {
	confluences, _ := json.Marshal(trade.Confluences)

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET
			pair = ?, asset_class = ?, direction = ?, entry_price = ?, stop_loss = ?,
			take_profit = ?, timeframe = ?, session = ?, reason = ?, confluences = ?,
			confluence_score = ?, rr = ?, risk_percent = ?, risk_amount = ?,
			status = ?, pnl = ?
		WHERE user_id = ? AND id = ?
	`, trade.Pair, trade.AssetClass, trade.Direction, trade.EntryPrice, trade.StopLoss,
		trade.TakeProfit, trade.Timeframe, trade.Session, trade.Reason, string(confluences),
		trade.ConfluenceScore, trade.RR, trade.RiskPercent, trade.RiskAmount,
		trade.Status, nullFloat(trade.PnL), userID, trade.ID)
	if err != nil {
		return apperrors.NewStoreError("update_trade", userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("update_trade", userID, err)
	}
	if n == 0 {
		return apperrors.ErrTradeNotFound
	}
	return nil
}

// UpdateTradeStatus sets only the status and realized pnl of a trade,
// leaving every other field untouched. Reverting to Open clears the pnl.
func (s *SQLiteStore) UpdateTradeStatus(ctx context.Context, userID, id string, status models.TradeStatus, pnl float64) error {
	var pnlValue interface{} = pnl
	if !status.Terminal() {
		pnlValue = nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET status = ?, pnl = ?
		WHERE user_id = ? AND id = ?
	`, status, pnlValue, userID, id)
	if err != nil {
		return apperrors.NewStoreError("update_status", userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("update_status", userID, err)
	}
	if n == 0 {
		return apperrors.ErrTradeNotFound
	}
	return nil
}

// GetInitialBalance returns the user's configured starting balance, or the
// store default when none was ever set.
func (s *SQLiteStore) GetInitialBalance(ctx context.Context, userID string) (float64, error) {
	var balance float64
	err := s.db.QueryRowContext(ctx, `
		SELECT initial_balance FROM balances WHERE user_id = ?
	`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return s.defaultBalance, nil
	}
	if err != nil {
		return 0, apperrors.NewStoreError("get_balance", userID, err)
	}
	return balance, nil
}

// SetInitialBalance stores the user's starting balance.
func (s *SQLiteStore) SetInitialBalance(ctx context.Context, userID string, amount float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (user_id, initial_balance, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			initial_balance = excluded.initial_balance,
			updated_at = CURRENT_TIMESTAMP
	`, userID, amount)
	if err != nil {
		return apperrors.NewStoreError("set_balance", userID, err)
	}
	return nil
}

// ClearUserData removes every trade and the balance for one user partition.
// Other partitions are untouched.
func (s *SQLiteStore) ClearUserData(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("clear", userID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE user_id = ?`, userID); err != nil {
		return apperrors.NewStoreError("clear", userID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM balances WHERE user_id = ?`, userID); err != nil {
		return apperrors.NewStoreError("clear", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("clear", userID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var confluences sql.NullString
	var timeframe, session, reason sql.NullString
	var pnl sql.NullFloat64

	err := row.Scan(&t.ID, &t.Timestamp, &t.Pair, &t.AssetClass, &t.Direction,
		&t.EntryPrice, &t.StopLoss, &t.TakeProfit, &timeframe, &session, &reason,
		&confluences, &t.ConfluenceScore, &t.RR, &t.RiskPercent, &t.RiskAmount,
		&t.Status, &pnl)
	if err != nil {
		return nil, err
	}

	t.Timeframe = timeframe.String
	t.Session = session.String
	t.Reason = reason.String
	if confluences.Valid && confluences.String != "" {
		if err := json.Unmarshal([]byte(confluences.String), &t.Confluences); err != nil {
			return nil, fmt.Errorf("failed to decode confluences for trade %s: %w", t.ID, err)
		}
	}
	if pnl.Valid {
		v := pnl.Float64
		t.PnL = &v
	}

	return &t, nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
