package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		v        float64
		currency string
		want     string
	}{
		{0, "GBP", "£0.00"},
		{1234.5, "GBP", "£1,234.50"},
		{-3, "usd", "-$3.00"},
		{1000000, "EUR", "€1,000,000.00"},
		{12, "CHF", "CHF 12.00"},
		{-0.001, "GBP", "£0.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.v, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.v, tt.currency, got, tt.want)
		}
	}
}

func TestDescribeBalance(t *testing.T) {
	tests := map[float64]string{
		0:     "Nothing owed",
		-30:   "Currently £30.00 in credit",
		1250:  "Currently £1,250.00 in debt",
	}
	for v, want := range tests {
		if got := DescribeBalance(v, "GBP"); got != want {
			t.Errorf("DescribeBalance(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestDescribeCredit(t *testing.T) {
	if got := DescribeCredit(0, "GBP"); got != "No credit limit specified" {
		t.Errorf("got %q", got)
	}
	if got := DescribeCredit(500, "GBP"); got != "Credit limit of £500.00" {
		t.Errorf("got %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range tests {
		if got := FormatNumber(n); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(150, 100, "GBP"); got != "+£50.00" {
		t.Errorf("got %q", got)
	}
	if got := FormatDelta(100, 150, "GBP"); got != "-£50.00" {
		t.Errorf("got %q", got)
	}
}
