package cli

import (
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{10.5, "$10.50"},
		{1000, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
		{-2500, "-$2,500.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(200); got != "+$200.00" {
		t.Errorf("FormatPnL(200) = %q", got)
	}
	if got := FormatPnL(-100); got != "-$100.00" {
		t.Errorf("FormatPnL(-100) = %q", got)
	}
	if got := FormatPnL(0); got != "$0.00" {
		t.Errorf("FormatPnL(0) = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(12.345); got != "+12.35%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(-3.2); got != "-3.20%" {
		t.Errorf("FormatPercent = %q", got)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(1.05423); got != "1.05423" {
		t.Errorf("FormatPrice forex = %q", got)
	}
	if got := FormatPrice(2350.7); got != "2350.70" {
		t.Errorf("FormatPrice gold = %q", got)
	}
}

func TestFormatRiskReward(t *testing.T) {
	if got := FormatRiskReward(2.5); got != "1:2.50" {
		t.Errorf("FormatRiskReward = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "05-Mar-2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDateTime(d); got != "05-Mar-2024 10:30" {
		t.Errorf("FormatDateTime = %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("a longer sentence", 10); got != "a longe..." {
		t.Errorf("TruncateString = %q", got)
	}
}
