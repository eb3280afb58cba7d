// Package money formats and totals the amounts printed on invoices and
// estimates: Indian rupee formatting, amounts in words, and the GST split
// between central, state and integrated tax.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rupee is the currency symbol used when the active font can render it.
const Rupee = "₹"

// RupeeFallback is printed with fonts limited to cp1252.
const RupeeFallback = "Rs."

// Parse reads an amount that may carry a currency symbol, grouping commas
// or surrounding spaces. An empty string parses as zero.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, Rupee)
	s = strings.TrimPrefix(s, RupeeFallback)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return d, nil
}

// Plain formats the magnitude of a with two decimals and Indian digit
// grouping, e.g. "1,23,45,678.90".
func Plain(a decimal.Decimal) string {
	whole, frac, _ := strings.Cut(a.Abs().StringFixed(2), ".")
	return group(whole) + "." + frac
}

// group inserts commas after the last three digits and then after every
// two, as in lakh and crore.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	for i, r := range head {
		if i > 0 && (len(head)-i)%2 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "," + tail
}

// Format formats a with the currency symbol, e.g. "₹1,23,456.50".
// Negative amounts are prefixed with a minus sign before the symbol.
func Format(a decimal.Decimal, symbol string) string {
	s := symbol + Plain(a)
	if a.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// Percent formats a tax rate, e.g. "18%" or "2.5%".
func Percent(rate decimal.Decimal) string {
	return rate.String() + "%"
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
