package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/metrics"
	"tradeflow/internal/models"
)

// addDashboardCommands adds the account overview command.
func addDashboardCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDashboardCmd(app))
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show account statistics and the equity curve",
		Long: `Show the account dashboard: current balance, win rate, average RR of
winners, and the equity curve built from closed trades in chronological
order.`,
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

			stats := metrics.Aggregate(trades, initial)

			if output.IsJSON() {
				return output.JSON(stats)
			}

			renderStats(output, stats)
			output.Println()
			renderEquityCurve(output, stats.EquityCurve)
			return nil
		},
	}
}

func renderStats(output *Output, stats models.AccountStats) {
	change := stats.Balance - stats.InitialBalance
	changePct := 0.0
	if stats.InitialBalance != 0 {
		changePct = change / stats.InitialBalance * 100
	}

	output.Box("Account Overview", []string{
		fmt.Sprintf("Balance:      %s (%s)", FormatCurrency(stats.Balance),
			output.ColoredString(output.PnLColor(change), FormatPercent(changePct))),
		fmt.Sprintf("Started at:   %s", FormatCurrency(stats.InitialBalance)),
		fmt.Sprintf("Trades:       %d total, %d won, %d lost", stats.TotalTrades, stats.Wins, stats.Losses),
		fmt.Sprintf("Win Rate:     %.1f%%", stats.WinRate),
		fmt.Sprintf("Avg RR (won): %.2f", stats.AverageRR),
	})
}

// renderEquityCurve draws a horizontal bar per equity point, scaled to the
// curve's range.
func renderEquityCurve(output *Output, curve []models.EquityPoint) {
	if len(curve) < 2 {
		output.Println("No closed trades yet; the equity curve starts after the first close.")
		return
	}

	low, high := curve[0].Balance, curve[0].Balance
	for _, p := range curve {
		if p.Balance < low {
			low = p.Balance
		}
		if p.Balance > high {
			high = p.Balance
		}
	}

	const barWidth = 40
	span := high - low

	output.Bold("Equity Curve")
	for _, p := range curve {
		filled := barWidth
		if span > 0 {
			filled = int((p.Balance - low) / span * barWidth)
		}
		if filled < 1 {
			filled = 1
		}
		bar := strings.Repeat("█", filled)
		color := ColorGreen
		if p.Balance < curve[0].Balance {
			color = ColorRed
		}
		output.Printf("  %s %s %s\n",
			PadLeft(p.Date, 6),
			output.ColoredString(color, bar),
			FormatCurrency(p.Balance))
	}
}
