package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrade(id string, ts time.Time) *models.Trade {
	return &models.Trade{
		ID:              id,
		Timestamp:       ts,
		Pair:            "EURUSD",
		AssetClass:      models.AssetForex,
		Direction:       models.DirectionBuy,
		EntryPrice:      1.0500,
		StopLoss:        1.0450,
		TakeProfit:      1.0600,
		Timeframe:       "15m",
		Session:         "London",
		Reason:          "BOS retest into demand",
		Confluences:     []string{models.ConfluenceList[0], models.ConfluenceList[2]},
		ConfluenceScore: 2,
		RR:              2.0,
		RiskPercent:     1.0,
		RiskAmount:      100,
		Status:          models.StatusOpen,
	}
}

func TestSaveAndGetTrades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	first := sampleTrade("t1", base)
	second := sampleTrade("t2", base.Add(time.Hour))

	if err := s.SaveTrade(ctx, GuestUserID, first); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}
	if err := s.SaveTrade(ctx, GuestUserID, second); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	trades, err := s.GetTrades(ctx, GuestUserID)
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	// Newest first.
	if trades[0].ID != "t2" || trades[1].ID != "t1" {
		t.Errorf("order = [%s %s], want [t2 t1]", trades[0].ID, trades[1].ID)
	}

	got := trades[1]
	if got.Pair != "EURUSD" || got.Direction != models.DirectionBuy || got.RR != 2.0 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Confluences) != 2 || got.Confluences[0] != models.ConfluenceList[0] {
		t.Errorf("confluences round trip mismatch: %v", got.Confluences)
	}
	if got.PnL != nil {
		t.Errorf("open trade has pnl %v, want nil", *got.PnL)
	}
}

func TestPartitionIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	if err := s.SaveTrade(ctx, "alice", sampleTrade("a1", base)); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}
	if err := s.SaveTrade(ctx, "bob", sampleTrade("b1", base)); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}
	if err := s.SetInitialBalance(ctx, "alice", 25000); err != nil {
		t.Fatalf("SetInitialBalance: %v", err)
	}

	aliceTrades, _ := s.GetTrades(ctx, "alice")
	bobTrades, _ := s.GetTrades(ctx, "bob")
	if len(aliceTrades) != 1 || len(bobTrades) != 1 {
		t.Fatalf("partition leak: alice=%d bob=%d", len(aliceTrades), len(bobTrades))
	}

	bobBalance, err := s.GetInitialBalance(ctx, "bob")
	if err != nil {
		t.Fatalf("GetInitialBalance: %v", err)
	}
	if bobBalance != defaultInitialBalance {
		t.Errorf("bob balance = %v, want default %v", bobBalance, defaultInitialBalance)
	}

	if err := s.ClearUserData(ctx, "alice"); err != nil {
		t.Fatalf("ClearUserData: %v", err)
	}
	bobTrades, _ = s.GetTrades(ctx, "bob")
	if len(bobTrades) != 1 {
		t.Error("clearing alice removed bob's trades")
	}
}

func TestUpdateTradeStatusPreservesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	trade := sampleTrade("t1", ts)
	if err := s.SaveTrade(ctx, GuestUserID, trade); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	if err := s.UpdateTradeStatus(ctx, GuestUserID, "t1", models.StatusWin, 200); err != nil {
		t.Fatalf("UpdateTradeStatus: %v", err)
	}

	got, err := s.GetTrade(ctx, GuestUserID, "t1")
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.Status != models.StatusWin {
		t.Errorf("status = %s, want Win", got.Status)
	}
	if got.PnL == nil || *got.PnL != 200 {
		t.Errorf("pnl = %v, want 200", got.PnL)
	}
	if !got.Timestamp.Equal(ts) || got.Pair != "EURUSD" || got.RR != 2.0 {
		t.Errorf("status change altered plan fields: %+v", got)
	}

	// Reopening clears the realized pnl.
	if err := s.UpdateTradeStatus(ctx, GuestUserID, "t1", models.StatusOpen, 0); err != nil {
		t.Fatalf("UpdateTradeStatus(reopen): %v", err)
	}
	got, _ = s.GetTrade(ctx, GuestUserID, "t1")
	if got.Status != models.StatusOpen || got.PnL != nil {
		t.Errorf("reopen: status=%s pnl=%v, want Open/nil", got.Status, got.PnL)
	}
}

func TestUpdateTradeReplacesById(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	trade := sampleTrade("t1", ts)
	if err := s.SaveTrade(ctx, GuestUserID, trade); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	edited := *trade
	edited.TakeProfit = 1.0700
	edited.RR = 4.0
	edited.Reason = "extended target after sweep"
	if err := s.UpdateTrade(ctx, GuestUserID, &edited); err != nil {
		t.Fatalf("UpdateTrade: %v", err)
	}

	got, _ := s.GetTrade(ctx, GuestUserID, "t1")
	if got.TakeProfit != 1.0700 || got.RR != 4.0 {
		t.Errorf("edit not applied: %+v", got)
	}
	if !got.Timestamp.Equal(ts) {
		t.Error("edit changed creation timestamp")
	}

	trades, _ := s.GetTrades(ctx, GuestUserID)
	if len(trades) != 1 {
		t.Errorf("edit duplicated the trade: %d rows", len(trades))
	}
}

func TestTradeNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetTrade(ctx, GuestUserID, "missing"); !apperrors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("GetTrade error = %v, want ErrTradeNotFound", err)
	}
	if err := s.UpdateTradeStatus(ctx, GuestUserID, "missing", models.StatusWin, 100); !apperrors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("UpdateTradeStatus error = %v, want ErrTradeNotFound", err)
	}
	if err := s.UpdateTrade(ctx, GuestUserID, sampleTrade("missing", time.Now())); !apperrors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("UpdateTrade error = %v, want ErrTradeNotFound", err)
	}
}

func TestBalanceRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetInitialBalance(ctx, GuestUserID, 5000); err != nil {
		t.Fatalf("SetInitialBalance: %v", err)
	}
	if err := s.SetInitialBalance(ctx, GuestUserID, 7500); err != nil {
		t.Fatalf("SetInitialBalance(overwrite): %v", err)
	}

	got, err := s.GetInitialBalance(ctx, GuestUserID)
	if err != nil {
		t.Fatalf("GetInitialBalance: %v", err)
	}
	if got != 7500 {
		t.Errorf("balance = %v, want 7500", got)
	}
}
