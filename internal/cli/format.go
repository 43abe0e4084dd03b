// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with a currency symbol and thousands separators.
// Whole amounts drop the fraction: 1234 -> "₹1,234", 12.5 -> "₹12.50".
func FormatMoney(symbol string, amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	whole := amount.Truncate(0)
	s := symbol + FormatNumber(whole.IntPart())
	if frac := amount.Sub(whole); !frac.IsZero() {
		cents := frac.StringFixed(2) // "0.50"
		s += cents[1:]
	}
	return sign + s
}

// FormatBalance labels a balance as owed or advance, using its magnitude.
func FormatBalance(symbol string, balance decimal.Decimal) (label, amount string) {
	if balance.IsPositive() {
		return "You Owe", FormatMoney(symbol, balance)
	}
	return "Advance Paid", FormatMoney(symbol, balance.Abs())
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

// FormatDays pluralizes a day count: 1 -> "1 day", 5 -> "5 days".
func FormatDays(n int) string {
	if n == 1 || n == -1 {
		return strconv.Itoa(n) + " day"
	}
	return strconv.Itoa(n) + " days"
}

// FormatDate renders a YYYY-MM-DD key as "Tue 03 Feb 2026". Keys that do
// not parse are returned unchanged.
func FormatDate(key string) string {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return key
	}
	return FormatDayOfWeek(int(t.Weekday())) + " " + t.Format("02 Jan 2006")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatSince renders a start date for the header line, e.g. "Since Feb 1, 2026".
func FormatSince(t time.Time) string {
	return "Since " + t.Format("Jan 2, 2006")
}
