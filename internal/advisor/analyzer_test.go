package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tradeflow/internal/models"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (f *fakeClient) CompleteWithSystem(_ context.Context, _, userPrompt string) (string, error) {
	f.prompt = userPrompt
	return f.response, f.err
}

func testTrade() *models.Trade {
	return &models.Trade{
		ID:          "t1",
		Pair:        "GBPUSD",
		Direction:   models.DirectionSell,
		Timeframe:   "1H",
		RR:          2.5,
		Confluences: []string{models.ConfluenceList[0], models.ConfluenceList[1]},
		Reason:      "Clean rejection from supply after liquidity sweep",
	}
}

func TestAnalyzeReturnsFeedback(t *testing.T) {
	client := &fakeClient{response: "  Solid setup with two confluences.  "}
	a := NewAnalyzer(client, zerolog.Nop())

	got := a.Analyze(context.Background(), testTrade())
	if got != "Solid setup with two confluences." {
		t.Errorf("Analyze = %q", got)
	}

	for _, want := range []string{"GBPUSD", "Sell", "2.50", "liquidity sweep"} {
		if !strings.Contains(client.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, client.prompt)
		}
	}
}

func TestAnalyzeWithoutClient(t *testing.T) {
	a := NewAnalyzer(nil, zerolog.Nop())

	if got := a.Analyze(context.Background(), testTrade()); got != MsgNoAPIKey {
		t.Errorf("Analyze = %q, want %q", got, MsgNoAPIKey)
	}
}

func TestAnalyzeServiceFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	a := NewAnalyzer(client, zerolog.Nop())

	if got := a.Analyze(context.Background(), testTrade()); got != MsgServiceError {
		t.Errorf("Analyze = %q, want %q", got, MsgServiceError)
	}
}

func TestAnalyzeEmptyResponse(t *testing.T) {
	client := &fakeClient{response: "   "}
	a := NewAnalyzer(client, zerolog.Nop())

	if got := a.Analyze(context.Background(), testTrade()); got != msgEmptyResponse {
		t.Errorf("Analyze = %q, want %q", got, msgEmptyResponse)
	}
}
