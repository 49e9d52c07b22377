package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/models"
)

// Fallback messages returned instead of an error. AI feedback is advisory;
// a missing key or a dead endpoint must never block journaling.
const (
	MsgNoAPIKey      = "API Key not configured. Unable to perform AI analysis."
	MsgServiceError  = "Error connecting to AI service. Please try again later."
	msgEmptyResponse = "No analysis generated."
	mentorSystemRole = "You are a professional trading mentor. Analyze trade setups objectively."
)

// Analyzer produces mentor feedback for a trade plan.
type Analyzer struct {
	client LLMClient
	logger zerolog.Logger
}

// NewAnalyzer creates an analyzer. A nil client means no API key was
// configured; Analyze then returns the fallback message.
func NewAnalyzer(client LLMClient, logger zerolog.Logger) *Analyzer {
	return &Analyzer{client: client, logger: logger}
}

// Analyze returns a short mentor review of the trade. It never returns an
// error to the caller; failures degrade to a human-readable fallback string.
func (a *Analyzer) Analyze(ctx context.Context, trade *models.Trade) string {
	if a.client == nil {
		a.logger.Warn().Err(apperrors.ErrAdvisorOffline).Str("trade_id", trade.ID).Msg("AI analysis skipped")
		return MsgNoAPIKey
	}

	feedback, err := a.client.CompleteWithSystem(ctx, mentorSystemRole, buildPrompt(trade))
	if err != nil {
		a.logger.Error().Err(err).Str("trade_id", trade.ID).Msg("AI analysis failed")
		return MsgServiceError
	}

	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return msgEmptyResponse
	}
	return feedback
}

func buildPrompt(trade *models.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this trade setup.\n\n")
	fmt.Fprintf(&b, "Pair: %s\n", trade.Pair)
	fmt.Fprintf(&b, "Direction: %s\n", trade.Direction)
	fmt.Fprintf(&b, "Timeframe: %s\n", trade.Timeframe)
	fmt.Fprintf(&b, "RR Ratio: %.2f\n", trade.RR)
	fmt.Fprintf(&b, "Confluences Present: %s\n", strings.Join(trade.Confluences, ", "))
	fmt.Fprintf(&b, "Trader's Reasoning: %q\n\n", trade.Reason)
	b.WriteString("Provide a concise 3-sentence feedback summary.\n")
	b.WriteString("1. Comment on the technical validity based on confluences.\n")
	b.WriteString("2. Assess if the Risk-to-Reward (RR) is healthy.\n")
	b.WriteString("3. Give a brief psychological check or warning if the reasoning sounds emotional.")
	return b.String()
}
