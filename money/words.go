package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Words spells a rupee amount in the Indian numbering system, e.g.
// "One Lakh Twenty Three Thousand Four Hundred Fifty Six Rupees and Fifty
// Paise Only". The sign is ignored.
func Words(a decimal.Decimal) string {
	a = a.Abs().Round(2)
	rupees := a.IntPart()
	paise := a.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(spell(rupees))
	}
	if rupees == 1 {
		b.WriteString(" Rupee")
	} else {
		b.WriteString(" Rupees")
	}
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(spell(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// spell writes n > 0 using crore, lakh, thousand and hundred.
func spell(n int64) string {
	var parts []string
	if n >= 10000000 {
		parts = append(parts, spell(n/10000000), "Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, below100(n/100000), "Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, below100(n/1000), "Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, below100(n))
	}
	return strings.Join(parts, " ")
}

func below100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
