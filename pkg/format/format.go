// Package format renders numbers for human-readable reports: space-grouped
// thousands, a comma decimal separator and at most two decimals.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Default postfixes for money and item counts.
const (
	DefaultCurrency = "руб."
	DefaultQuantity = "шт."
)

const highlighter = "`"

// Number rounds n to two decimals and formats it with space-grouped
// thousands and a comma decimal separator. Integral results carry no
// fractional part and trailing zeros are dropped.
func Number(n float64) string {
	return Decimal(decimal.NewFromFloat(n))
}

// Decimal is Number for values that are already decimals.
func Decimal(d decimal.Decimal) string {
	s := d.Round(2).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	out := sign + groupThousands(whole)
	if frac != "" {
		out += "," + frac
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
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// AddPostfix wraps the formatted number in marker on both sides and appends
// postfix after a space. The result is trimmed, so an empty postfix leaves
// no trailing space.
func AddPostfix(n float64, postfix, marker string) string {
	return strings.TrimSpace(marker + Number(n) + marker + " " + postfix)
}

// Percent formats a ratio as a percentage: 0.875 is "87,5%".
func Percent(ratio float64) string {
	return Decimal(decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100))) + "%"
}

// Currency formats a money amount with the default currency postfix.
func Currency(n float64) string {
	return CurrencyWith(n, DefaultCurrency)
}

// CurrencyWith formats a money amount with a custom currency postfix.
func CurrencyWith(n float64, currency string) string {
	return AddPostfix(n, currency, highlighter)
}

// Quantity formats an item count with the default quantity postfix.
func Quantity(n float64) string {
	return QuantityWith(n, DefaultQuantity)
}

// QuantityWith formats an item count with a custom postfix.
func QuantityWith(n float64, unit string) string {
	return AddPostfix(n, unit, highlighter)
}
