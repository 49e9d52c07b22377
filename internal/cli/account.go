package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/metrics"
)

// addAccountCommands adds balance, export, and reset commands.
func addAccountCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBalanceCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newResetCmd(app))
}

func newBalanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Manage the account starting balance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the starting and current balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}
			ctx := cmd.Context()
			userID := app.UserID()

			initial, err := app.Store.GetInitialBalance(ctx, userID)
			if err != nil {
				return err
			}
			trades, err := app.Store.GetTrades(ctx, userID)
			if err != nil {
				return err
			}
			current := metrics.CurrentBalance(trades, initial)

			if output.IsJSON() {
				return output.JSON(map[string]float64{
					"initial": initial,
					"current": current,
				})
			}
			output.Printf("Initial: %s\n", FormatCurrency(initial))
			output.Printf("Current: %s (%s realized)\n", FormatCurrency(current), output.ColoredPnL(current-initial))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Set the starting balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil || amount < 0 {
				return apperrors.NewValidationError("amount", args[0], "must be a non-negative number")
			}

			userID := app.UserID()
			if err := app.Store.SetInitialBalance(cmd.Context(), userID, amount); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]float64{"initial": amount})
			}
			output.Success("✓ Starting balance set to %s", FormatCurrency(amount))
			return nil
		},
	})

	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}

			trades, err := app.Store.GetTrades(cmd.Context(), app.UserID())
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("out")
			writer := cmd.OutOrStdout()
			if path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				writer = f
			}

			w := csv.NewWriter(writer)
			header := []string{"id", "timestamp", "pair", "asset_class", "direction",
				"entry", "stop", "target", "timeframe", "session", "rr",
				"confluence_score", "risk_percent", "risk_amount", "status", "pnl", "reason"}
			if err := w.Write(header); err != nil {
				return err
			}
			for _, t := range trades {
				pnl := ""
				if t.PnL != nil {
					pnl = strconv.FormatFloat(*t.PnL, 'f', 2, 64)
				}
				record := []string{
					t.ID,
					t.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
					t.Pair,
					string(t.AssetClass),
					string(t.Direction),
					strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
					strconv.FormatFloat(t.StopLoss, 'f', -1, 64),
					strconv.FormatFloat(t.TakeProfit, 'f', -1, 64),
					t.Timeframe,
					t.Session,
					strconv.FormatFloat(t.RR, 'f', 2, 64),
					strconv.Itoa(t.ConfluenceScore),
					strconv.FormatFloat(t.RiskPercent, 'f', 2, 64),
					strconv.FormatFloat(t.RiskAmount, 'f', 2, 64),
					string(t.Status),
					pnl,
					t.Reason,
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}

			if path != "" {
				output.Success("✓ Exported %d trades to %s", len(trades), path)
			}
			return nil
		},
	}

	cmd.Flags().String("out", "", "write to a file instead of stdout")

	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every trade and the balance for the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrStoreClosed
			}
			userID := app.UserID()

			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				output.Warning("This deletes every trade and the balance for partition %q.", userID)
				output.Println("Re-run with --yes to confirm.")
				return nil
			}

			if err := app.Store.ClearUserData(cmd.Context(), userID); err != nil {
				return err
			}
			app.Logger.Info().Str("event", "reset").Str("user", userID).Msg("Journal cleared")

			if output.IsJSON() {
				return output.JSON(map[string]string{"cleared": userID})
			}
			output.Success("✓ Journal cleared for %s.", userID)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	return cmd
}
