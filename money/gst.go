package money

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Supply distinguishes intra-state from inter-state sales.
type Supply int

const (
	IntraState Supply = iota // CGST + SGST
	InterState               // IGST
)

func (s Supply) String() string {
	if s == InterState {
		return "inter-state"
	}
	return "intra-state"
}

var hundred = decimal.NewFromInt(100)
var two = decimal.NewFromInt(2)

// SupplyOf compares the seller's and buyer's states after trimming and
// case folding. An unknown state on either side is treated as intra-state.
func SupplyOf(sellerState, buyerState string) Supply {
	a := strings.TrimSpace(sellerState)
	b := strings.TrimSpace(buyerState)
	if a == "" || b == "" || strings.EqualFold(a, b) {
		return IntraState
	}
	return InterState
}

// Tax is the GST levied on a taxable value.
type Tax struct {
	Supply Supply
	CGST   decimal.Decimal
	SGST   decimal.Decimal
	IGST   decimal.Decimal
}

// Total returns CGST + SGST + IGST.
func (t Tax) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// Add returns the component-wise sum of t and u. The supply of t is kept.
func (t Tax) Add(u Tax) Tax {
	return Tax{
		Supply: t.Supply,
		CGST:   t.CGST.Add(u.CGST),
		SGST:   t.SGST.Add(u.SGST),
		IGST:   t.IGST.Add(u.IGST),
	}
}

// Split computes GST on taxable at ratePercent. Intra-state sales pay half
// the rate as CGST and half as SGST; inter-state sales pay it all as IGST.
func Split(taxable, ratePercent decimal.Decimal, supply Supply) Tax {
	full := taxable.Mul(ratePercent).Div(hundred)
	if supply == InterState {
		return Tax{Supply: supply, IGST: full}
	}
	half := full.Div(two)
	return Tax{Supply: supply, CGST: half, SGST: half}
}

// Slab aggregates the lines taxed at one rate.
type Slab struct {
	Rate    decimal.Decimal // full GST rate in percent
	Taxable decimal.Decimal
	Tax     Tax
}

// ComponentRate is the rate printed for a single tax head: half the rate
// for CGST and SGST, the full rate for IGST.
func (s Slab) ComponentRate() decimal.Decimal {
	if s.Tax.Supply == InterState {
		return s.Rate
	}
	return s.Rate.Div(two)
}

// Slabs groups lines by tax rate, ordered by ascending rate. Lines with a
// zero rate are left out.
func Slabs(lines []Line, supply Supply) []Slab {
	idx := make(map[string]int)
	var out []Slab
	for _, l := range lines {
		if l.TaxRate.IsZero() {
			continue
		}
		key := l.TaxRate.String()
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, Slab{Rate: l.TaxRate, Tax: Tax{Supply: supply}})
		}
		taxable := l.Taxable()
		out[i].Taxable = out[i].Taxable.Add(taxable)
		out[i].Tax = out[i].Tax.Add(Split(taxable, l.TaxRate, supply))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Rate.LessThan(out[b].Rate) })
	return out
}
