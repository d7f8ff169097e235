// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency prefixes every formatted amount.
var Currency = "₹"

var thousand = decimal.NewFromInt(1000)

// FormatMoney formats an amount with grouping and two decimals.
// e.g., 1234.5 -> "₹1,234.50", -20 -> "-₹20.00"
func FormatMoney(d decimal.Decimal) string {
	return signed(d, func(abs decimal.Decimal) string {
		whole := abs.Truncate(0)
		frac := abs.Sub(whole).StringFixed(2)
		// StringFixed rounds, so 0.999 becomes "1.00".
		if strings.HasPrefix(frac, "1") {
			whole = whole.Add(decimal.NewFromInt(1))
			frac = "0.00"
		}
		return humanize.Comma(whole.IntPart()) + frac[1:]
	})
}

// FormatMoneyWhole formats an amount rounded to whole units.
// e.g., 1234.5 -> "₹1,235"
func FormatMoneyWhole(d decimal.Decimal) string {
	return signed(d, func(abs decimal.Decimal) string {
		return humanize.Comma(abs.Round(0).IntPart())
	})
}

// FormatCompact formats an amount with K/M/B suffixes.
// e.g., 1234 -> "₹1.2K", 2500000 -> "₹2.5M"
func FormatCompact(d decimal.Decimal) string {
	return signed(d, func(abs decimal.Decimal) string {
		f := abs.InexactFloat64()
		switch {
		case f >= 1_000_000_000:
			return fmt.Sprintf("%.1fB", f/1_000_000_000)
		case f >= 1_000_000:
			return fmt.Sprintf("%.1fM", f/1_000_000)
		case abs.GreaterThanOrEqual(thousand):
			return fmt.Sprintf("%.1fK", f/1_000)
		default:
			return abs.Round(0).String()
		}
	})
}

func signed(d decimal.Decimal, body func(abs decimal.Decimal) string) string {
	if d.IsNegative() {
		return "-" + Currency + body(d.Neg())
	}
	return Currency + body(d)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-100 percentage with one decimal.
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// FormatDelta formats a signed money difference.
func FormatDelta(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatMoneyWhole(d)
	}
	return "+" + FormatMoneyWhole(d)
}

// FormatDate formats a date as "Mon 02 Jan".
func FormatDate(t time.Time) string {
	return t.Format("Mon 02 Jan")
}

// FormatAgo formats t relative to now, e.g. "3 hours ago".
func FormatAgo(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
