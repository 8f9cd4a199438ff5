// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
	"JPY": "¥",
}

// FormatMoney formats an amount with thousands separators and two decimals,
// prefixed by the currency symbol. Unknown currency codes are written as a
// prefix, e.g. "CHF 12.00".
// e.g., FormatMoney(1234.5, "GBP") -> "£1,234.50", FormatMoney(-3, "USD") -> "-$3.00"
func FormatMoney(v float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	sym, ok := currencySymbols[code]
	if !ok {
		sym = code + " "
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// Round first so 0.005 and friends don't print as "-0.00".
	v = math.Round(v*100) / 100
	if v == 0 {
		sign = ""
	}
	return sign + sym + humanize.FormatFloat("#,###.##", v)
}

// DescribeBalance returns a sentence describing a balance.
func DescribeBalance(balance float64, currency string) string {
	switch {
	case balance == 0:
		return "Nothing owed"
	case balance < 0:
		return fmt.Sprintf("Currently %s in credit", FormatMoney(math.Abs(balance), currency))
	default:
		return fmt.Sprintf("Currently %s in debt", FormatMoney(balance, currency))
	}
}

// DescribeCredit returns a sentence describing a credit limit.
func DescribeCredit(credit float64, currency string) string {
	if credit == 0 {
		return "No credit limit specified"
	}
	return "Credit limit of " + FormatMoney(credit, currency)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats a balance movement with an explicit sign.
func FormatDelta(current, previous float64, currency string) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta, currency)
	}
	return "-" + FormatMoney(-delta, currency)
}
