package documents

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartgarage/garagedocs/layout"
	"github.com/smartgarage/garagedocs/money"
)

// Business is the garage issuing a document.
type Business struct {
	Name    string `json:"name"`
	Parent  string `json:"parent,omitempty"` // printed as "(A Unit Of <Parent>)"
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	Website string `json:"website,omitempty"`
	Logo    string `json:"logo,omitempty"` // URL or path of the logo image
	Brand   string `json:"brand,omitempty"`
}

// Party is a customer, biller or consignee.
type Party struct {
	Name     string `json:"name"`
	Business string `json:"business,omitempty"`
	Address  string `json:"address,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Email    string `json:"email,omitempty"`
	GSTIN    string `json:"gstin,omitempty"`
	State    string `json:"state,omitempty"`
}

// Fields lists the party's non-empty details for an info column.
func (p Party) Fields() []layout.Field {
	return nonEmpty([]layout.Field{
		{Label: "Name : ", Value: p.Name},
		{Label: "Business Name : ", Value: p.Business},
		{Label: "Address : ", Value: p.Address},
		{Label: "Contact : ", Value: p.Contact},
		{Label: "Email ID : ", Value: p.Email},
		{Label: "GSTIN/UIN : ", Value: p.GSTIN},
		{Label: "State : ", Value: p.State},
	})
}

// Bank holds the payment details printed on invoices.
type Bank struct {
	Name    string `json:"name,omitempty"`
	Account string `json:"account,omitempty"`
	IFSC    string `json:"ifsc,omitempty"`
	Branch  string `json:"branch,omitempty"`
	UPI     string `json:"upi,omitempty"` // virtual payment address for the QR code
}

// Lines returns the bank details as printable lines. Missing values print
// as "--".
func (b Bank) Lines() []string {
	lines := []string{
		"Bank : " + orDash(b.Name),
		"A/C No : " + orDash(b.Account),
		"IFSC : " + orDash(b.IFSC),
	}
	if b.Branch != "" {
		lines = append(lines, "Branch : "+b.Branch)
	}
	if b.UPI != "" {
		lines = append(lines, "UPI : "+b.UPI)
	}
	return lines
}

// Item types.
const (
	TypeService = "service"
	TypePackage = "package"
	TypeSpare   = "spare"
)

// Item is one spare part or service on a document.
type Item struct {
	Name     string          `json:"name"`
	Type     string          `json:"type,omitempty"` // service, package or spare
	Code     string          `json:"code,omitempty"` // product or part code
	HSN      string          `json:"hsn,omitempty"`
	Qty      decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
	Discount decimal.Decimal `json:"discount,omitempty"` // absolute, for the whole line
	TaxRate  decimal.Decimal `json:"taxRate,omitempty"`  // GST percent
	Removed  bool            `json:"removed,omitempty"`  // struck through and left out of totals
}

// IsService reports whether the item is labour rather than a part.
func (it Item) IsService() bool {
	t := strings.ToLower(strings.TrimSpace(it.Type))
	return t == TypeService || t == TypePackage
}

// Line converts the item for the money package.
func (it Item) Line() money.Line {
	return money.Line{Qty: it.Qty, Rate: it.Rate, Discount: it.Discount, TaxRate: it.TaxRate}
}

// Concern is a customer complaint with the jobs done for it.
type Concern struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// billable returns the lines of items that are not removed.
func billable(items []Item) []money.Line {
	var out []money.Line
	for _, it := range items {
		if !it.Removed {
			out = append(out, it.Line())
		}
	}
	return out
}

// partition splits items into spare parts and services.
func partition(items []Item) (spares, services []Item) {
	for _, it := range items {
		if it.IsService() {
			services = append(services, it)
		} else {
			spares = append(spares, it)
		}
	}
	return spares, services
}

func flatten(concerns []Concern, extra []Item) []Item {
	var out []Item
	for _, c := range concerns {
		out = append(out, c.Items...)
	}
	return append(out, extra...)
}

// subtotal sums the taxable value of the billable items.
func subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range billable(items) {
		sum = sum.Add(l.Taxable())
	}
	return sum
}

func nonEmpty(fields []layout.Field) []layout.Field {
	out := fields[:0:0]
	for _, f := range fields {
		if strings.TrimSpace(f.Value) != "" {
			out = append(out, f)
		}
	}
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "--"
	}
	return s
}
