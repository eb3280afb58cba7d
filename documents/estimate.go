package documents

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/layout"
	"github.com/smartgarage/garagedocs/money"
	"github.com/smartgarage/garagedocs/table"
)

// EstimateLayout selects how estimate items are tabulated.
type EstimateLayout string

const (
	// Grouped lists items under the customer concern they address.
	Grouped EstimateLayout = "grouped"
	// Split lists spare parts and services in two separate tables.
	Split EstimateLayout = "split"
)

// Estimate titles.
const (
	TitleRepairEstimate  = "Repair Estimate"
	TitleBookingEstimate = "Booking Estimate"
)

const estimateDeclaration = "The final amount of this estimate may vary by up to ±10% based on actual requirements and execution."

// Estimate is a repair or booking estimate.
type Estimate struct {
	Title         string           `json:"title,omitempty"` // defaults to TitleRepairEstimate
	Number        string           `json:"number"`
	Layout        EstimateLayout   `json:"layout,omitempty"` // defaults to Grouped
	Business      Business         `json:"business"`
	Sections      []layout.Section `json:"sections,omitempty"` // customer, vehicle and service details
	CustomerState string           `json:"customerState,omitempty"`
	Concerns      []Concern        `json:"concerns,omitempty"`
	Items         []Item           `json:"items,omitempty"` // items not tied to a concern
	Terms         []string         `json:"terms,omitempty"`
	Declaration   string           `json:"declaration,omitempty"`
	Watermark     string           `json:"watermark,omitempty"`
}

// Column widths of the estimate and job card item tables.
var itemWidths = [7]float64{180, 76, 76, 60, 45, 50, 73}

func itemIcon(it Item) string {
	if it.IsService() {
		return iconService
	}
	return iconSpare
}

// itemSchema is the seven-column item table shared by estimates and job
// cards. first is the header of the description column.
func itemSchema(first, symbol string) table.Schema[Item] {
	w := itemWidths
	return table.Schema[Item]{
		{Column: table.Column{Header: first, Width: w[0]}, Cell: func(_ int, it Item) table.Cell {
			c := table.Text(it.Name)
			c.Icon = itemIcon(it)
			return c
		}},
		{Column: table.Column{Header: "Product Code", Width: w[1], Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.Code)
		}},
		{Column: table.Column{Header: "HSN/SAC", Width: w[2], Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.HSN)
		}},
		{Column: table.Column{Header: "MRP", Width: w[3], Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Rate))
		}},
		{Column: table.Column{Header: "Dis (" + symbol + ")", Width: w[4], Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Discount))
		}},
		{Column: table.Column{Header: "Quantity", Width: w[5], Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.Qty.String())
		}},
		{Column: table.Column{Header: "Value", Width: w[6], Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Line().Taxable()))
		}},
	}
}

// addItems appends one row per item, striking removed items through.
func addItems(t *table.Table, schema table.Schema[Item], items []Item) {
	for i, it := range items {
		t.AddRow(schema.Cells(i, it)...).SetStruck(it.Removed)
	}
}

// concernTable builds the grouped table: each concern is a group row
// followed by its items.
func concernTable(doc *garagedocs.Document, schema table.Schema[Item], concerns []Concern, extra []Item) *table.Table {
	accent := garagedocs.Accent
	t := table.New(doc, schema.Columns()...).SetStyle(table.GroupedStyle()).SetX(boxLeft)
	for _, c := range concerns {
		t.AddGroup(table.Cell{Text: orDash(c.Name), Color: &accent})
		addItems(t, schema, c.Items)
	}
	if len(extra) > 0 {
		t.AddGroup(table.Cell{Text: "Additional Items", Color: &accent})
		addItems(t, schema, extra)
	}
	return t
}

// taxLine summarizes discount and tax heads on one line.
func taxLine(t money.Totals, symbol string) string {
	parts := []string{"Discount : " + money.Format(t.Discount, symbol)}
	if t.Tax.Supply == money.InterState {
		parts = append(parts, "IGST : "+money.Format(t.Tax.IGST, symbol))
	} else {
		parts = append(parts,
			"CGST : "+money.Format(t.Tax.CGST, symbol),
			"SGST : "+money.Format(t.Tax.SGST, symbol))
	}
	return strings.Join(parts, "    ")
}

// Estimate renders e to w.
func (g *Generator) Estimate(ctx context.Context, w io.Writer, e *Estimate) error {
	if e == nil {
		return invalid("estimate")
	}
	if err := checkSections("estimate", e.Sections); err != nil {
		return err
	}
	lay := e.Layout
	if lay == "" {
		lay = Grouped
	}
	if lay != Grouped && lay != Split {
		return fmt.Errorf("documents: estimate: layout %q: %w", lay, garagedocs.ErrInvalidParam)
	}
	title := e.Title
	if title == "" {
		title = TitleRepairEstimate
	}

	opts := []garagedocs.Option{garagedocs.WithTitle(title+" "+e.Number, e.Business.Name)}
	if e.Watermark != "" {
		opts = append(opts, garagedocs.WithWatermark(e.Watermark))
	}
	doc, err := g.newDocument(opts...)
	if err != nil {
		return err
	}
	if err := registerIcons(doc); err != nil {
		return err
	}
	logo := g.loadImage(ctx, doc, logoImage, e.Business.Logo)

	fr := &frame{doc: doc, header: header{biz: e.Business, title: title, number: e.Number, logo: logo}, info: e.Sections}
	s := fr.first()
	f := fr.flow()
	symbol := doc.Currency()

	spares, services := partition(flatten(e.Concerns, e.Items))
	spare, labour, totals := estimateTotals(e)

	if lay == Grouped {
		t := concernTable(doc, itemSchema("Spare/Service Description", symbol), e.Concerns, e.Items)
		if s, err = t.Render(f, s); err != nil {
			return err
		}
	} else {
		for _, part := range []struct {
			title string
			items []Item
		}{{"Spare Parts", spares}, {"Services", services}} {
			if len(part.items) == 0 {
				continue
			}
			schema := itemSchema(part.title, symbol)
			t := table.New(doc, schema.Columns()...).SetStyle(table.GroupedStyle()).SetX(boxLeft)
			addItems(t, schema, part.items)
			if s, err = t.Render(f, s); err != nil {
				return err
			}
			s = rightLine(doc, f, s, part.title+" Total : "+money.Format(subtotal(part.items), symbol))
		}
	}

	if lay == Grouped {
		s = rightLine(doc, f, s, fmt.Sprintf("Spare Total : %s    Labour Total : %s",
			money.Format(spare, symbol), money.Format(labour, symbol)))
	}
	if !totals.Tax.Total().IsZero() || !totals.Discount.IsZero() {
		s = rightLine(doc, f, s, taxLine(totals, symbol))
	}
	s = amountBox(doc, f, s.Down(4), money.Words(totals.Grand), money.Format(totals.Grand, symbol))

	decl := e.Declaration
	if decl == "" {
		decl = estimateDeclaration
	}
	drawClosing(doc, f, s.Down(10), closing{terms: e.Terms, declaration: decl, signer: e.Business.Name})
	return finish(doc, w)
}

// estimateTotals returns the spare parts and labour subtotals and the
// document totals. Removed items are left out.
func estimateTotals(e *Estimate) (spare, labour decimal.Decimal, t money.Totals) {
	all := flatten(e.Concerns, e.Items)
	spares, services := partition(all)
	return subtotal(spares), subtotal(services), money.Compute(billable(all), money.SupplyOf(e.Business.State, e.CustomerState))
}
