package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/logging"
	"tradeflow/internal/metrics"
	"tradeflow/internal/models"
)

// addTradeCommands adds journal entry commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	tradeCmd := &cobra.Command{
		Use:   "trade",
		Short: "Journal trades",
		Long:  "Record, review, and close journaled trades.",
	}

	tradeCmd.AddCommand(newTradeAddCmd(app))
	tradeCmd.AddCommand(newTradeListCmd(app))
	tradeCmd.AddCommand(newTradeShowCmd(app))
	tradeCmd.AddCommand(newTradeEditCmd(app))
	tradeCmd.AddCommand(newTradeCloseCmd(app))
	tradeCmd.AddCommand(newTradeReopenCmd(app))
	tradeCmd.AddCommand(newTradeAnalyzeCmd(app))

	rootCmd.AddCommand(tradeCmd)
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Journal a new trade plan",
		Long: `Journal a new trade plan.

Risk metrics (RR ratio, risk amount, recommended lot size, confluence score)
are derived from the inputs at save time. A stop-loss on the wrong side of
the entry is reported as a warning unless strict validation is enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}
			ctx := cmd.Context()
			userID := app.UserID()

			pair, _ := cmd.Flags().GetString("pair")
			classFlag, _ := cmd.Flags().GetString("class")
			directionFlag, _ := cmd.Flags().GetString("direction")
			entry, _ := cmd.Flags().GetFloat64("entry")
			stop, _ := cmd.Flags().GetFloat64("stop")
			target, _ := cmd.Flags().GetFloat64("target")
			timeframe, _ := cmd.Flags().GetString("timeframe")
			session, _ := cmd.Flags().GetString("session")
			reason, _ := cmd.Flags().GetString("reason")
			confluences, _ := cmd.Flags().GetStringArray("confluence")
			riskPercent, _ := cmd.Flags().GetFloat64("risk")

			class, err := parseAssetClass(classFlag)
			if err != nil {
				return err
			}
			direction, err := parseDirection(directionFlag)
			if err != nil {
				return err
			}
			if pair == "" {
				return apperrors.NewValidationError("pair", pair, "pair is required")
			}
			tags, err := validateConfluences(confluences)
			if err != nil {
				return err
			}
			if riskPercent == 0 {
				riskPercent = app.Config.Journal.DefaultRiskPercent
			}

			balance, err := accountBalance(ctx, app, userID)
			if err != nil {
				return err
			}

			derived := metrics.Compute(metrics.Input{
				Entry:       entry,
				Stop:        stop,
				Target:      target,
				Direction:   direction,
				RiskPercent: riskPercent,
				Balance:     balance,
				AssetClass:  class,
				Symbol:      pair,
			})

			if derived.NativeDistance < 0 {
				if app.Config.Journal.StrictStopValidation {
					output.Error("Stop-loss is on the wrong side of the entry for a %s.", direction)
					return apperrors.ErrInvalidStop
				}
				output.Warning("⚠ Stop-loss is on the wrong side of the entry (%.1f pips). Saved as planned.", derived.NormalizedUnits)
			}

			trade := &models.Trade{
				ID:              ulid.Make().String(),
				Timestamp:       time.Now().UTC(),
				Pair:            strings.ToUpper(pair),
				AssetClass:      class,
				Direction:       direction,
				EntryPrice:      entry,
				StopLoss:        stop,
				TakeProfit:      target,
				Timeframe:       timeframe,
				Session:         session,
				Reason:          reason,
				Confluences:     tags,
				ConfluenceScore: len(tags),
				RR:              derived.RR,
				RiskPercent:     riskPercent,
				RiskAmount:      derived.RiskAmount,
				Status:          models.StatusOpen,
			}

			if err := app.Store.SaveTrade(ctx, userID, trade); err != nil {
				return err
			}
			logging.LogTradeSaved(logging.WithUser(app.Logger, userID), trade.ID, trade.Pair, trade.RR, trade.ConfluenceScore)

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Success("✓ Trade journaled: %s %s %s", trade.Pair, trade.Direction, FormatPrice(entry))
			output.Println()
			output.Box("Trade Plan", []string{
				fmt.Sprintf("ID:          %s", trade.ID),
				fmt.Sprintf("Entry:       %s  Stop: %s  Target: %s", FormatPrice(entry), FormatPrice(stop), FormatPrice(target)),
				fmt.Sprintf("RR:          %s", FormatRiskReward(derived.RR)),
				fmt.Sprintf("Stop Dist:   %.1f pips", derived.NormalizedUnits),
				fmt.Sprintf("Risk:        %.1f%% (%s)", riskPercent, FormatCurrency(derived.RiskAmount)),
				fmt.Sprintf("Lot Size:    %s", FormatLots(derived.LotSize)),
				fmt.Sprintf("Confluences: %d/%d", trade.ConfluenceScore, len(models.ConfluenceList)),
			})
			return nil
		},
	}

	cmd.Flags().String("pair", "", "instrument symbol, e.g. EURUSD (required)")
	cmd.Flags().String("class", "Forex", "asset class: Forex, Gold, Indices, Crypto")
	cmd.Flags().String("direction", "Buy", "trade direction: Buy or Sell")
	cmd.Flags().Float64("entry", 0, "entry price")
	cmd.Flags().Float64("stop", 0, "stop-loss price")
	cmd.Flags().Float64("target", 0, "take-profit price")
	cmd.Flags().String("timeframe", "", "chart timeframe: "+strings.Join(models.Timeframes, ", "))
	cmd.Flags().String("session", "", "trading session: "+strings.Join(models.Sessions, ", "))
	cmd.Flags().String("reason", "", "trade reasoning")
	cmd.Flags().StringArray("confluence", nil, "confluence tag, repeatable")
	cmd.Flags().Float64("risk", 0, "risk percent of balance (default from config)")
	cmd.MarkFlagRequired("pair")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled trades, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}
			userID := app.UserID()

			trades, err := app.Store.GetTrades(cmd.Context(), userID)
			if err != nil {
				return err
			}

			statusFilter, _ := cmd.Flags().GetString("status")
			if statusFilter != "" {
				status, err := parseStatus(statusFilter)
				if err != nil {
					return err
				}
				filtered := trades[:0]
				for _, t := range trades {
					if t.Status == status {
						filtered = append(filtered, t)
					}
				}
				trades = filtered
			}

			limit, _ := cmd.Flags().GetInt("limit")
			if limit > 0 && len(trades) > limit {
				trades = trades[:limit]
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Println("No trades journaled yet.")
				return nil
			}

			table := NewTable(output, "ID", "DATE", "PAIR", "DIR", "RR", "SCORE", "STATUS", "P&L")
			for _, t := range trades {
				pnl := "-"
				if t.PnL != nil {
					pnl = output.ColoredPnL(*t.PnL)
				}
				table.AddRow(
					shortID(t.ID),
					FormatDate(t.Timestamp),
					t.Pair,
					string(t.Direction),
					FormatRiskReward(t.RR),
					fmt.Sprintf("%d", t.ConfluenceScore),
					output.StatusText(string(t.Status)),
					pnl,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("status", "", "filter by status: Open, Win, Loss, BE")
	cmd.Flags().Int("limit", 0, "show at most N trades")

	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one trade in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}

			trade, err := findTrade(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			lines := []string{
				fmt.Sprintf("Date:        %s", FormatDateTime(trade.Timestamp)),
				fmt.Sprintf("Class:       %s", trade.AssetClass),
				fmt.Sprintf("Direction:   %s", trade.Direction),
				fmt.Sprintf("Entry:       %s  Stop: %s  Target: %s",
					FormatPrice(trade.EntryPrice), FormatPrice(trade.StopLoss), FormatPrice(trade.TakeProfit)),
				fmt.Sprintf("RR:          %s", FormatRiskReward(trade.RR)),
				fmt.Sprintf("Risk:        %.1f%% (%s)", trade.RiskPercent, FormatCurrency(trade.RiskAmount)),
				fmt.Sprintf("Status:      %s", output.StatusText(string(trade.Status))),
			}
			if trade.PnL != nil {
				lines = append(lines, fmt.Sprintf("P&L:         %s", output.ColoredPnL(*trade.PnL)))
			}
			if trade.Timeframe != "" {
				lines = append(lines, fmt.Sprintf("Timeframe:   %s", trade.Timeframe))
			}
			if trade.Session != "" {
				lines = append(lines, fmt.Sprintf("Session:     %s", trade.Session))
			}
			if len(trade.Confluences) > 0 {
				lines = append(lines, fmt.Sprintf("Confluences: %s (%d)", strings.Join(trade.Confluences, ", "), trade.ConfluenceScore))
			}
			if trade.Reason != "" {
				lines = append(lines, fmt.Sprintf("Reason:      %s", TruncateString(trade.Reason, 80)))
			}

			output.Box(trade.Pair+" ["+shortID(trade.ID)+"]", lines)
			return nil
		},
	}
}

func newTradeEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a trade plan and recompute its metrics",
		Long: `Edit a trade plan. Only the given flags are changed; every derived
metric is recomputed from scratch afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}
			ctx := cmd.Context()
			userID := app.UserID()

			trade, err := findTrade(ctx, app, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("entry") {
				trade.EntryPrice, _ = cmd.Flags().GetFloat64("entry")
			}
			if cmd.Flags().Changed("stop") {
				trade.StopLoss, _ = cmd.Flags().GetFloat64("stop")
			}
			if cmd.Flags().Changed("target") {
				trade.TakeProfit, _ = cmd.Flags().GetFloat64("target")
			}
			if cmd.Flags().Changed("risk") {
				trade.RiskPercent, _ = cmd.Flags().GetFloat64("risk")
			}
			if cmd.Flags().Changed("reason") {
				trade.Reason, _ = cmd.Flags().GetString("reason")
			}
			if cmd.Flags().Changed("timeframe") {
				trade.Timeframe, _ = cmd.Flags().GetString("timeframe")
			}
			if cmd.Flags().Changed("session") {
				trade.Session, _ = cmd.Flags().GetString("session")
			}
			if cmd.Flags().Changed("confluence") {
				raw, _ := cmd.Flags().GetStringArray("confluence")
				tags, err := validateConfluences(raw)
				if err != nil {
					return err
				}
				trade.Confluences = tags
			}

			balance, err := accountBalance(ctx, app, userID)
			if err != nil {
				return err
			}
			derived := metrics.Compute(metrics.Input{
				Entry:       trade.EntryPrice,
				Stop:        trade.StopLoss,
				Target:      trade.TakeProfit,
				Direction:   trade.Direction,
				RiskPercent: trade.RiskPercent,
				Balance:     balance,
				AssetClass:  trade.AssetClass,
				Symbol:      trade.Pair,
			})
			trade.RR = derived.RR
			trade.RiskAmount = derived.RiskAmount
			trade.ConfluenceScore = metrics.ConfluenceScore(trade.Confluences)

			if derived.NativeDistance < 0 {
				if app.Config.Journal.StrictStopValidation {
					output.Error("Stop-loss is on the wrong side of the entry for a %s.", trade.Direction)
					return apperrors.ErrInvalidStop
				}
				output.Warning("⚠ Stop-loss is on the wrong side of the entry (%.1f pips).", derived.NormalizedUnits)
			}

			if err := app.Store.UpdateTrade(ctx, userID, trade); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("✓ Trade %s updated (RR %s, risk %s)", shortID(trade.ID), FormatRiskReward(trade.RR), FormatCurrency(trade.RiskAmount))
			return nil
		},
	}

	cmd.Flags().Float64("entry", 0, "entry price")
	cmd.Flags().Float64("stop", 0, "stop-loss price")
	cmd.Flags().Float64("target", 0, "take-profit price")
	cmd.Flags().Float64("risk", 0, "risk percent of balance")
	cmd.Flags().String("reason", "", "trade reasoning")
	cmd.Flags().String("timeframe", "", "chart timeframe")
	cmd.Flags().String("session", "", "trading session")
	cmd.Flags().StringArray("confluence", nil, "confluence tag, repeatable (replaces the set)")

	return cmd
}

func newTradeCloseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a trade as Win, Loss, or Break Even",
		Long: `Close a trade with its outcome. The realized P&L is derived from the
trade's journaled risk amount and RR ratio: a win realizes risk × RR, a loss
realizes -risk, break even realizes 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}
			ctx := cmd.Context()
			userID := app.UserID()

			resultFlag, _ := cmd.Flags().GetString("result")
			status, err := parseStatus(resultFlag)
			if err != nil {
				return err
			}
			if !status.Terminal() {
				return apperrors.NewValidationError("result", resultFlag, "close requires Win, Loss, or BE")
			}

			trade, err := findTrade(ctx, app, args[0])
			if err != nil {
				return err
			}

			pnl := metrics.ResolvePnL(status, trade.RiskAmount, trade.RR)
			if err := app.Store.UpdateTradeStatus(ctx, userID, trade.ID, status, pnl); err != nil {
				return err
			}
			logging.LogStatusChange(logging.WithUser(app.Logger, userID), trade.ID, string(status), pnl)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"id":     trade.ID,
					"status": status,
					"pnl":    pnl,
				})
			}
			output.Success("✓ %s closed as %s: %s", trade.Pair, output.StatusText(string(status)), output.ColoredPnL(pnl))
			return nil
		},
	}

	cmd.Flags().String("result", "", "outcome: Win, Loss, or BE (required)")
	cmd.MarkFlagRequired("result")

	return cmd
}

func newTradeReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a closed trade and clear its realized P&L",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}
			ctx := cmd.Context()
			userID := app.UserID()

			trade, err := findTrade(ctx, app, args[0])
			if err != nil {
				return err
			}
			if trade.Status == models.StatusOpen {
				output.Warning("Trade %s is already open.", shortID(trade.ID))
				return nil
			}

			if err := app.Store.UpdateTradeStatus(ctx, userID, trade.ID, models.StatusOpen, 0); err != nil {
				return err
			}
			logging.LogStatusChange(logging.WithUser(app.Logger, userID), trade.ID, string(models.StatusOpen), 0)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"id": trade.ID, "status": models.StatusOpen})
			}
			output.Success("✓ %s reopened.", trade.Pair)
			return nil
		},
	}
}

func newTradeAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Request AI mentor feedback on a trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}

			trade, err := findTrade(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			if !output.IsJSON() {
				output.Info("Requesting mentor feedback for %s %s", trade.Pair, trade.Direction)
			}
			feedback := app.Analyzer.Analyze(cmd.Context(), trade)

			if output.IsJSON() {
				return output.JSON(map[string]string{
					"id":       trade.ID,
					"feedback": feedback,
				})
			}
			output.Bold("Mentor feedback for %s %s:", trade.Pair, trade.Direction)
			output.Println()
			output.Println(feedback)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

// findTrade resolves a possibly-shortened trade id within the active
// partition.
func findTrade(ctx context.Context, app *App, id string) (*models.Trade, error) {
	userID := app.UserID()

	trade, err := app.Store.GetTrade(ctx, userID, id)
	if err == nil {
		return trade, nil
	}
	if !apperrors.Is(err, apperrors.ErrTradeNotFound) {
		return nil, err
	}

	// Tables and messages display the tail of the ULID (its random part;
	// the head is timestamp-derived and collides for trades journaled close
	// together), so shortened ids match by suffix.
	trades, listErr := app.Store.GetTrades(ctx, userID)
	if listErr != nil {
		return nil, listErr
	}
	needle := strings.ToUpper(id)
	var match *models.Trade
	for i := range trades {
		if strings.HasSuffix(trades[i].ID, needle) {
			if match != nil {
				return nil, apperrors.NewValidationError("id", id, "ambiguous shortened trade id")
			}
			match = &trades[i]
		}
	}
	if match == nil {
		return nil, apperrors.ErrTradeNotFound
	}
	return match, nil
}

// accountBalance returns the current balance for a partition: the initial
// balance plus every realized P&L.
func accountBalance(ctx context.Context, app *App, userID string) (float64, error) {
	initial, err := app.Store.GetInitialBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	trades, err := app.Store.GetTrades(ctx, userID)
	if err != nil {
		return 0, err
	}
	return metrics.CurrentBalance(trades, initial), nil
}

// shortID keeps the last 8 characters of a ULID, the random portion, so
// displayed ids stay distinct and resolvable via findTrade's suffix match.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

func parseAssetClass(s string) (models.AssetClass, error) {
	switch strings.ToLower(s) {
	case "forex", "fx":
		return models.AssetForex, nil
	case "gold", "xau":
		return models.AssetGold, nil
	case "indices", "index":
		return models.AssetIndices, nil
	case "crypto":
		return models.AssetCrypto, nil
	default:
		return "", apperrors.NewValidationError("class", s, "must be Forex, Gold, Indices, or Crypto")
	}
}

func parseDirection(s string) (models.Direction, error) {
	switch strings.ToLower(s) {
	case "buy", "long":
		return models.DirectionBuy, nil
	case "sell", "short":
		return models.DirectionSell, nil
	default:
		return "", apperrors.NewValidationError("direction", s, "must be Buy or Sell")
	}
}

func parseStatus(s string) (models.TradeStatus, error) {
	switch strings.ToLower(strings.ReplaceAll(s, " ", "")) {
	case "open":
		return models.StatusOpen, nil
	case "win":
		return models.StatusWin, nil
	case "loss", "lose":
		return models.StatusLoss, nil
	case "be", "breakeven":
		return models.StatusBreakEven, nil
	default:
		return "", apperrors.NewValidationError("status", s, "must be Open, Win, Loss, or BE")
	}
}

// validateConfluences normalizes a tag list against the fixed vocabulary.
func validateConfluences(tags []string) ([]string, error) {
	normalized := metrics.NormalizeConfluences(tags)
	for _, tag := range normalized {
		if !knownConfluence(tag) {
			return nil, apperrors.NewValidationError("confluence", tag,
				"unknown tag; see 'tradeflow trade add --help' for the vocabulary")
		}
	}
	return normalized, nil
}

func knownConfluence(tag string) bool {
	for _, known := range models.ConfluenceList {
		if known == tag {
			return true
		}
	}
	return false
}
