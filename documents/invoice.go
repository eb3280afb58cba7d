package documents

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/layout"
	"github.com/smartgarage/garagedocs/money"
	"github.com/smartgarage/garagedocs/table"
)

// InvoiceKind is the type of a garage invoice.
type InvoiceKind string

const (
	ServiceInvoice    InvoiceKind = "service"
	SparePartsInvoice InvoiceKind = "spare"
	ClaimInvoice      InvoiceKind = "claim"
)

// Title returns the heading printed for k.
func (k InvoiceKind) Title() string {
	switch k {
	case SparePartsInvoice:
		return "Spare Parts Invoice"
	case ClaimInvoice:
		return "Claim Invoice"
	default:
		return "Service Invoice"
	}
}

// Invoice is a service, spare parts or insurance claim invoice.
type Invoice struct {
	Kind           InvoiceKind     `json:"kind,omitempty"` // defaults to ServiceInvoice
	Number         string          `json:"number"`
	Business       Business        `json:"business"`
	Biller         Party           `json:"biller"`
	Buyer          Party           `json:"buyer"`
	Consignee      *Party          `json:"consignee,omitempty"` // defaults to the buyer
	Meta           []layout.Field  `json:"meta,omitempty"`      // date, job card, vehicle, odometer, claim number
	Items          []Item          `json:"items"`
	Bank           Bank            `json:"bank"`
	ShowQR         bool            `json:"showQr,omitempty"`
	InsuranceShare decimal.Decimal `json:"insuranceShare,omitempty"`
	AdvancePaid    decimal.Decimal `json:"advancePaid,omitempty"`
	PendingDO      decimal.Decimal `json:"pendingDo,omitempty"`
	FileCharge     decimal.Decimal `json:"fileCharge,omitempty"`
	Terms          []string        `json:"terms,omitempty"`
	Declaration    string          `json:"declaration,omitempty"`
	Watermark      string          `json:"watermark,omitempty"`
}

func invoiceSchema(parts bool, supply money.Supply) table.Schema[Item] {
	name := table.Field[Item]{Column: table.Column{Header: "Service", Width: 175}}
	if parts {
		name.Header = "Part Name"
		name.Width = 125
	}
	name.Cell = func(_ int, it Item) table.Cell { return table.Text(it.Name) }

	schema := table.Schema[Item]{
		{Column: table.Column{Header: "#", Width: 20, Align: "C"}, Cell: func(i int, _ Item) table.Cell {
			return table.Textf("%d", i+1)
		}},
		name,
	}
	if parts {
		schema = append(schema, table.Field[Item]{
			Column: table.Column{Header: "Part No.", Width: 70, Align: "C"},
			Cell:   func(_ int, it Item) table.Cell { return table.Text(it.Code) },
		})
	}
	rateHeader, hsnHeader := "Rate", "SAC"
	rateW, discW, taxableW := 65.0, 50.0, 65.0
	if parts {
		rateHeader, hsnHeader = "MRP", "HSN"
		rateW, discW, taxableW = 55, 45, 60
	}
	return append(schema, table.Schema[Item]{
		{Column: table.Column{Header: hsnHeader, Width: 55, Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.HSN)
		}},
		{Column: table.Column{Header: "Qty", Width: 35, Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.Qty.String())
		}},
		{Column: table.Column{Header: rateHeader, Width: rateW, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Rate))
		}},
		{Column: table.Column{Header: "Disc.", Width: discW, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Discount))
		}},
		{Column: table.Column{Header: "Taxable", Width: taxableW, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Line().Taxable()))
		}},
		{Column: table.Column{Header: "GST %", Width: 35, Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.TaxRate.String())
		}},
		{Column: table.Column{Header: "Amount", Width: 60, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			taxable := it.Line().Taxable()
			return table.Text(money.Plain(taxable.Add(money.Split(taxable, it.TaxRate, supply).Total())))
		}},
	}...)
}

// slabTable builds the GST breakdown: one row per tax rate and a total row.
func slabTable(doc *garagedocs.Document, slabs []money.Slab, supply money.Supply) *table.Table {
	var cols []table.Column
	if supply == money.InterState {
		cols = []table.Column{
			{Header: "GST Rate", Width: 80, Align: "C"},
			{Header: "Taxable Value", Width: 130, Align: "R"},
			{Header: "IGST %", Width: 90, Align: "C"},
			{Header: "IGST Amount", Width: 130, Align: "R"},
			{Header: "Total Tax", Width: 130, Align: "R"},
		}
	} else {
		cols = []table.Column{
			{Header: "GST Rate", Width: 80, Align: "C"},
			{Header: "Taxable Value", Width: 110, Align: "R"},
			{Header: "CGST %", Width: 60, Align: "C"},
			{Header: "CGST Amount", Width: 95, Align: "R"},
			{Header: "SGST %", Width: 60, Align: "C"},
			{Header: "SGST Amount", Width: 95, Align: "R"},
			{Header: "Total Tax", Width: 60, Align: "R"},
		}
	}
	t := table.New(doc, cols...).SetStyle(table.GridStyle()).SetX(boxLeft)

	taxable, total := decimal.Zero, money.Tax{Supply: supply}
	for _, sl := range slabs {
		taxable = taxable.Add(sl.Taxable)
		total = total.Add(sl.Tax)
		rate := money.Percent(sl.ComponentRate())
		if supply == money.InterState {
			t.AddRow(table.Text(money.Percent(sl.Rate)), table.Text(money.Plain(sl.Taxable)),
				table.Text(rate), table.Text(money.Plain(sl.Tax.IGST)), table.Text(money.Plain(sl.Tax.Total())))
			continue
		}
		t.AddRow(table.Text(money.Percent(sl.Rate)), table.Text(money.Plain(sl.Taxable)),
			table.Text(rate), table.Text(money.Plain(sl.Tax.CGST)),
			table.Text(rate), table.Text(money.Plain(sl.Tax.SGST)), table.Text(money.Plain(sl.Tax.Total())))
	}

	bold := func(s string) table.Cell { return table.Cell{Text: s, Bold: true} }
	if supply == money.InterState {
		t.AddRow(bold("Total"), bold(money.Plain(taxable)), table.Text(""), bold(money.Plain(total.IGST)), bold(money.Plain(total.Total())))
	} else {
		t.AddRow(bold("Total"), bold(money.Plain(taxable)), table.Text(""), bold(money.Plain(total.CGST)),
			table.Text(""), bold(money.Plain(total.SGST)), bold(money.Plain(total.Total())))
	}
	return t
}

// summaryRows lists the settlement rows under the invoice totals. The
// balance is the grand total less the insurance share and any advance.
func summaryRows(inv *Invoice, grand decimal.Decimal) []amountRow {
	var customer decimal.Decimal
	if inv.Kind == ClaimInvoice {
		customer = grand.Sub(inv.InsuranceShare)
	}
	return visibleRows([]amountRow{
		{label: "Insurance Share", value: inv.InsuranceShare},
		{label: "Customer Share", value: customer},
		{label: "Advance Paid", value: inv.AdvancePaid},
		{label: "Balance Total", value: grand.Sub(money.Sum(inv.InsuranceShare, inv.AdvancePaid)), bold: true},
		{label: "Pending Do", value: inv.PendingDO},
		{label: "File Charge", value: inv.FileCharge},
	})
}

// metaGrid draws label/value pairs four to a row in width w.
func metaGrid(doc *garagedocs.Document, x, y, w float64, fields []layout.Field) float64 {
	const cols = 4
	colW := w / cols
	doc.SetFont(garagedocs.Regular, bodySize)
	lh := doc.LineHeight()
	rows := (len(fields) + cols - 1) / cols
	for i, fl := range fields {
		cx := x + float64(i%cols)*colW
		cy := y + float64(i/cols)*(2*lh+6)
		doc.SetTextColor(garagedocs.Label)
		doc.TextAlign(cx, cy, colW-6, fl.Label, "L")
		doc.SetTextColor(garagedocs.Ink)
		doc.TextAlign(cx, cy+lh, colW-6, orDash(fl.Value), "L")
	}
	doc.SetTextColor(garagedocs.Black)
	return float64(rows) * (2*lh + 6)
}

// Invoice renders inv to w.
func (g *Generator) Invoice(ctx context.Context, w io.Writer, inv *Invoice) error {
	if inv == nil {
		return invalid("invoice")
	}
	kind := inv.Kind
	if kind == "" {
		kind = ServiceInvoice
	}
	if kind != ServiceInvoice && kind != SparePartsInvoice && kind != ClaimInvoice {
		return fmt.Errorf("documents: invoice: kind %q: %w", kind, garagedocs.ErrInvalidParam)
	}
	opts := []garagedocs.Option{garagedocs.WithTitle(kind.Title()+" "+inv.Number, inv.Business.Name)}
	if inv.Watermark != "" {
		opts = append(opts, garagedocs.WithWatermark(inv.Watermark))
	}
	doc, err := g.newDocument(opts...)
	if err != nil {
		return err
	}
	if err := registerIcons(doc); err != nil {
		return err
	}
	logo := g.loadImage(ctx, doc, logoImage, inv.Business.Logo)

	supply := money.SupplyOf(inv.Business.State, inv.Buyer.State)
	billed := billable(inv.Items)
	totals := money.Compute(billed, supply)
	qr := inv.ShowQR && g.upiQR(doc, inv.Bank.UPI, inv.Business.Name, totals.Grand.StringFixed(2), kind.Title()+" "+inv.Number)

	fr := &frame{doc: doc, header: header{biz: inv.Business, title: kind.Title(), number: inv.Number, logo: logo}}
	s := fr.first()
	f := fr.flow()
	symbol := doc.Currency()

	consignee := inv.Buyer
	if inv.Consignee != nil {
		consignee = *inv.Consignee
	}
	y := drawInfo(doc, []layout.Section{
		{Title: "Biller", Fields: inv.Biller.Fields()},
		{Title: "Buyer", Fields: inv.Buyer.Fields()},
		{Title: "Consignee", Fields: consignee.Fields()},
	}, s.Y+10)

	if len(inv.Meta) > 0 || qr {
		const qrSize = 64.0
		gridW := fullWidth - 10
		if qr {
			gridW -= qrSize + 10
		}
		top := y + 8
		h := metaGrid(doc, left, top, gridW, inv.Meta)
		if qr {
			doc.DrawImage(qrImage, left+boxWidth-qrSize, top, qrSize, qrSize)
			h = max(h, qrSize)
		}
		y = top + h
	}
	s = s.Continue(y + 10)

	spares, services := partition(inv.Items)
	for _, part := range []struct {
		title string
		parts bool
		items []Item
	}{{"SPARE PARTS", true, spares}, {"SERVICES", false, services}} {
		if len(part.items) == 0 {
			continue
		}
		s = bar(doc, f, s.Down(4), part.title, 40)
		schema := invoiceSchema(part.parts, supply)
		t := table.New(doc, schema.Columns()...).SetStyle(table.BandedStyle()).SetX(boxLeft)
		addItems(t, schema, part.items)
		if s, err = t.Render(f, s); err != nil {
			return err
		}
	}

	s = amountBox(doc, f, s.Down(8), money.Words(totals.Grand), "Total : "+money.Format(totals.Grand, symbol))

	if slabs := money.Slabs(billed, supply); len(slabs) > 0 {
		s = bar(doc, f, s.Down(8), "GST SUMMARY", 40)
		if s, err = slabTable(doc, slabs, supply).Render(f, s); err != nil {
			return err
		}
	}

	// Bank details and E.&O.E. on the left, totals and settlement on the right.
	rows := append(totalRows(totals), summaryRows(inv, totals.Grand)...)
	colW := boxWidth/2 - 10
	bank := inv.Bank.Lines()
	leftH := linesHeight(doc, colW, bank) + 20
	rightH := amountRowsHeight(doc, len(rows))
	at, _ := f.Reserve(s.Down(10), max(leftH, rightH))
	bh := drawLines(doc, left, at.Y, colW, "Bank Details", bank)
	doc.SetFont(garagedocs.SemiBold, bodySize)
	doc.SetTextColor(garagedocs.Muted)
	doc.Text(left, at.Y+bh+8, "E.&O.E.")
	drawAmountRows(doc, left+boxWidth/2, at.Y, boxWidth/2, rows, symbol)
	s = at.Down(max(leftH, rightH))

	drawClosing(doc, f, s.Down(10), closing{terms: inv.Terms, declaration: inv.Declaration, signer: inv.Business.Name})
	return finish(doc, w)
}
