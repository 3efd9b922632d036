// Package money holds the coercion and formatting rules for currency
// amounts. All arithmetic elsewhere uses decimal.Decimal; this is the only
// place raw form text becomes a number and the only place a number becomes
// display text.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse coerces a raw form value into a decimal amount. Blank or
// non-numeric input yields zero rather than an error; bad numbers never
// reject a row. Negative values pass through untouched.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount as plain fixed two-decimal text, the form
// used in table cells and history rows.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatUSD renders an amount as $#,##0.00 with comma grouping, matching
// the invoices already printed and filed.
func FormatUSD(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	out := "$" + groupThousands(whole) + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
