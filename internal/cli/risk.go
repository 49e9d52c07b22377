package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/metrics"
)

// addRiskCommands adds the standalone position-size planner.
func addRiskCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newRiskCmd(app))
}

func newRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Plan a position size before journaling",
		Long: `Plan a position size from a balance, a risk percentage, and a stop
distance in pips/points. The stop distance can be given directly with
--stop-pips, or derived from --entry and --stop prices.

No trade is journaled; this is a planning calculator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			classFlag, _ := cmd.Flags().GetString("class")
			class, err := parseAssetClass(classFlag)
			if err != nil {
				return err
			}

			balance, _ := cmd.Flags().GetFloat64("balance")
			if !cmd.Flags().Changed("balance") {
				// Default to the active account's current balance.
				if app.Store == nil {
					return apperrors.NewValidationError("balance", nil, "no store available; pass --balance explicitly")
				}
				balance, err = accountBalance(cmd.Context(), app, app.UserID())
				if err != nil {
					return err
				}
			}

			riskPercent, _ := cmd.Flags().GetFloat64("risk")
			if riskPercent == 0 {
				riskPercent = app.Config.Journal.DefaultRiskPercent
			}

			stopUnits, _ := cmd.Flags().GetFloat64("stop-pips")
			if !cmd.Flags().Changed("stop-pips") {
				entry, _ := cmd.Flags().GetFloat64("entry")
				stop, _ := cmd.Flags().GetFloat64("stop")
				pair, _ := cmd.Flags().GetString("pair")
				if entry == 0 || stop == 0 {
					return apperrors.NewValidationError("stop-pips", stopUnits,
						"provide --stop-pips, or --entry and --stop prices")
				}
				stopUnits = metrics.DistanceToUnits(entry-stop, class, pair)
				if stopUnits < 0 {
					stopUnits = -stopUnits
				}
			}

			sizing := metrics.SizeFromInputs(balance, riskPercent, stopUnits, class)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"balance":      balance,
					"risk_percent": riskPercent,
					"stop_units":   stopUnits,
					"risk_amount":  sizing.RiskAmount,
					"lot_size":     sizing.LotSize,
				})
			}

			output.Box("Position Size", []string{
				fmt.Sprintf("Balance:     %s", FormatCurrency(balance)),
				fmt.Sprintf("Risk:        %.1f%% (%s)", riskPercent, FormatCurrency(sizing.RiskAmount)),
				fmt.Sprintf("Stop Dist:   %.1f pips", stopUnits),
				fmt.Sprintf("Lot Size:    %s", FormatLots(sizing.LotSize)),
			})
			if sizing.LotSize == 0 {
				output.Warning("⚠ Lot size is 0; check the stop distance.")
			}
			return nil
		},
	}

	cmd.Flags().String("class", "Forex", "asset class: Forex, Gold, Indices, Crypto")
	cmd.Flags().Float64("balance", 0, "account balance (default: current balance)")
	cmd.Flags().Float64("risk", 0, "risk percent of balance (default from config)")
	cmd.Flags().Float64("stop-pips", 0, "stop distance in pips/points")
	cmd.Flags().Float64("entry", 0, "entry price, used with --stop")
	cmd.Flags().Float64("stop", 0, "stop-loss price, used with --entry")
	cmd.Flags().String("pair", "", "instrument symbol, used for JPY pip detection")

	return cmd
}
