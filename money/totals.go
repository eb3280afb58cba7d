package money

import "github.com/shopspring/decimal"

// Line is one billable line of a document.
type Line struct {
	Qty      decimal.Decimal
	Rate     decimal.Decimal
	Discount decimal.Decimal // absolute discount on the line
	TaxRate  decimal.Decimal // GST percent
}

// Gross returns Qty × Rate.
func (l Line) Gross() decimal.Decimal {
	return l.Qty.Mul(l.Rate)
}

// Taxable returns the gross amount less the discount, never below zero.
func (l Line) Taxable() decimal.Decimal {
	return Max(decimal.Zero, l.Gross().Sub(l.Discount))
}

// Totals is the summary printed at the foot of a document.
type Totals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	Tax      Tax
	Grand    decimal.Decimal
}

// Summarize applies a single discount and tax rate to a gross amount:
// taxable = gross − discount (floored at zero) and grand = taxable + tax.
func Summarize(gross, discount, ratePercent decimal.Decimal, supply Supply) Totals {
	taxable := Max(decimal.Zero, gross.Sub(discount))
	tax := Split(taxable, ratePercent, supply)
	return Totals{
		Gross:    gross,
		Discount: discount,
		Taxable:  taxable,
		Tax:      tax,
		Grand:    taxable.Add(tax.Total()),
	}
}

// Compute totals lines that may carry different tax rates. Discounts and
// tax are taken per line.
func Compute(lines []Line, supply Supply) Totals {
	t := Totals{Tax: Tax{Supply: supply}}
	for _, l := range lines {
		taxable := l.Taxable()
		t.Gross = t.Gross.Add(l.Gross())
		t.Discount = t.Discount.Add(l.Gross().Sub(taxable))
		t.Taxable = t.Taxable.Add(taxable)
		t.Tax = t.Tax.Add(Split(taxable, l.TaxRate, supply))
	}
	t.Grand = t.Taxable.Add(t.Tax.Total())
	return t
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	s := decimal.Zero
	for _, a := range amounts {
		s = s.Add(a)
	}
	return s
}
