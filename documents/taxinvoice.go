package documents

import (
	"context"
	"io"
	"strings"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/layout"
	"github.com/smartgarage/garagedocs/media"
	"github.com/smartgarage/garagedocs/money"
	"github.com/smartgarage/garagedocs/table"
)

// TaxInvoice is a GST tax invoice.
type TaxInvoice struct {
	Number        string   `json:"number"`
	Date          string   `json:"date,omitempty"`
	DueDate       string   `json:"dueDate,omitempty"`
	PlaceOfSupply string   `json:"placeOfSupply,omitempty"`
	Seller        Business `json:"seller"`
	BillTo        Party    `json:"billTo"`
	ShipTo        *Party   `json:"shipTo,omitempty"`
	Items         []Item   `json:"items"`
	Bank          Bank     `json:"bank"`
	PaymentTerms  string   `json:"paymentTerms,omitempty"`
	Terms         []string `json:"terms,omitempty"`
	Stamp         string   `json:"stamp,omitempty"` // URL or path of the stamp image
	Watermark     string   `json:"watermark,omitempty"`
}

// taxHeader is the compact header of tax invoices: company name and the
// document title on one line with the company details below.
type taxHeader struct {
	seller Business
	logo   bool
}

func (h taxHeader) draw(doc *garagedocs.Document) float64 {
	y := 20.0
	x := left
	if h.logo {
		dw, _ := doc.FitImage(logoImage, left, y, 60, 30)
		x += dw + 8
	}
	doc.SetFont(garagedocs.Bold, 14)
	doc.SetTextColor(garagedocs.Ink)
	doc.Text(x, y+4, h.seller.Name)
	doc.SetFont(garagedocs.Bold, 16)
	doc.SetTextColor(garagedocs.Accent)
	doc.TextAlign(left, y+2, boxWidth, "TAX INVOICE", "R")

	var parts []string
	for _, p := range []string{h.seller.Address, gstinText(h.seller.GSTIN), h.seller.Contact, h.seller.Email} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	doc.SetFont(garagedocs.Regular, bodySize)
	doc.SetTextColor(garagedocs.Muted)
	hgt := doc.Paragraph(left, y+36, boxWidth, strings.Join(parts, " | "), "L")
	bottom := y + 36 + hgt + 6
	doc.Line(boxLeft, bottom, boxLeft+fullWidth, bottom, garagedocs.Accent, 1)
	doc.SetTextColor(garagedocs.Black)
	return bottom
}

func gstinText(g string) string {
	if g == "" {
		return ""
	}
	return "GSTIN: " + g
}

func taxInvoiceSchema(supply money.Supply) table.Schema[Item] {
	return table.Schema[Item]{
		{Column: table.Column{Header: "#", Width: 25, Align: "C"}, Cell: func(i int, _ Item) table.Cell {
			return table.Textf("%d", i+1)
		}},
		{Column: table.Column{Header: "Item", Width: 165}, Cell: func(_ int, it Item) table.Cell {
			c := table.Text(it.Name)
			c.Sub = it.Code
			return c
		}},
		{Column: table.Column{Header: "HSN/SAC", Width: 55, Align: "C"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.HSN)
		}},
		{Column: table.Column{Header: "Qty", Width: 35, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.Qty.String())
		}},
		{Column: table.Column{Header: "Rate", Width: 60, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Rate))
		}},
		{Column: table.Column{Header: "Disc.", Width: 50, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Discount))
		}},
		{Column: table.Column{Header: "Taxable", Width: 65, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(money.Plain(it.Line().Taxable()))
		}},
		{Column: table.Column{Header: "GST %", Width: 35, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			return table.Text(it.TaxRate.String())
		}},
		{Column: table.Column{Header: "Amount", Width: 70, Align: "R"}, Cell: func(_ int, it Item) table.Cell {
			taxable := it.Line().Taxable()
			return table.Text(money.Plain(taxable.Add(money.Split(taxable, it.TaxRate, supply).Total())))
		}},
	}
}

// totalRows lists the totals box rows; the tax heads follow the supply.
func totalRows(t money.Totals) []amountRow {
	rows := []amountRow{
		{label: "Subtotal", value: t.Gross},
		{label: "Discount", value: t.Discount},
		{label: "Taxable Value", value: t.Taxable},
	}
	if t.Tax.Supply == money.InterState {
		rows = append(rows, amountRow{label: "IGST", value: t.Tax.IGST})
	} else {
		rows = append(rows,
			amountRow{label: "CGST", value: t.Tax.CGST},
			amountRow{label: "SGST", value: t.Tax.SGST})
	}
	return append(rows, amountRow{label: "Total", value: t.Grand, bold: true})
}

// upiQR registers a UPI payment QR code for amount. It reports whether the
// code was added.
func (g *Generator) upiQR(doc *garagedocs.Document, vpa, payee, amount, note string) bool {
	if vpa == "" {
		return false
	}
	data, err := media.QRCode(media.UPILink(vpa, payee, amount, note), 256)
	if err != nil {
		g.logger.Printf("skipping UPI QR: %v", err)
		return false
	}
	return doc.RegisterImage(qrImage, "PNG", data) == nil
}

// TaxInvoice renders inv to w.
func (g *Generator) TaxInvoice(ctx context.Context, w io.Writer, inv *TaxInvoice) error {
	if inv == nil {
		return invalid("tax invoice")
	}
	opts := []garagedocs.Option{garagedocs.WithTitle("Tax Invoice "+inv.Number, inv.Seller.Name)}
	if inv.Watermark != "" {
		opts = append(opts, garagedocs.WithWatermark(inv.Watermark))
	}
	doc, err := g.newDocument(opts...)
	if err != nil {
		return err
	}
	logo := g.loadImage(ctx, doc, logoImage, inv.Seller.Logo)
	stamp := g.loadImage(ctx, doc, stampImage, inv.Stamp)

	supply := money.SupplyOf(inv.Seller.State, inv.BillTo.State)
	totals := money.Compute(billable(inv.Items), supply)
	qr := g.upiQR(doc, inv.Bank.UPI, inv.Seller.Name, totals.Grand.StringFixed(2), "Invoice "+inv.Number)

	fr := &frame{doc: doc, header: taxHeader{seller: inv.Seller, logo: logo}}
	s := fr.first()
	f := fr.flow()
	symbol := doc.Currency()

	seller := layout.Section{Title: "Seller / Biller", Fields: Party{
		Name:    inv.Seller.Name,
		Address: inv.Seller.Address,
		Contact: inv.Seller.Contact,
		GSTIN:   inv.Seller.GSTIN,
		State:   inv.Seller.State,
	}.Fields()}
	meta := layout.Section{Title: "Invoice", Fields: []layout.Field{
		{Label: "Invoice No : ", Value: inv.Number},
		{Label: "Date : ", Value: inv.Date},
		{Label: "Due Date : ", Value: inv.DueDate},
		{Label: "Place of Supply : ", Value: inv.PlaceOfSupply},
	}}
	y := drawInfo(doc, []layout.Section{seller, meta}, s.Y+5)

	parties := []layout.Section{{Title: "Invoice To", Fields: inv.BillTo.Fields()}}
	if inv.ShipTo != nil {
		parties = append(parties, layout.Section{Title: "Ship To", Fields: inv.ShipTo.Fields()})
	}
	partiesTop := y + 10
	y = drawInfo(doc, parties, partiesTop)
	if qr {
		const qrSize = 80.0
		qx := left + boxWidth - qrSize
		doc.DrawImage(qrImage, qx, partiesTop, qrSize, qrSize)
		doc.SetFont(garagedocs.Regular, bodySize)
		doc.SetTextColor(garagedocs.Muted)
		doc.TextAlign(qx, partiesTop+qrSize+2, qrSize, "Scan to Pay (UPI)", "C")
		if end := partiesTop + qrSize + 14; end > y {
			y = end
		}
	}
	s = s.Continue(y + 10)

	schema := taxInvoiceSchema(supply)
	t := table.New(doc, schema.Columns()...).SetStyle(table.PlainStyle()).SetX(boxLeft)
	addItems(t, schema, inv.Items)
	if s, err = t.Render(f, s); err != nil {
		return err
	}

	// Payment terms and bank details on the left, totals on the right.
	rows := totalRows(totals)
	colW := boxWidth/2 - 10
	bank := inv.Bank.Lines()
	leftH := linesHeight(doc, colW, bank)
	if inv.PaymentTerms != "" {
		leftH += linesHeight(doc, colW, []string{inv.PaymentTerms}) + 8
	}
	rightH := amountRowsHeight(doc, len(rows))
	at, _ := f.Reserve(s.Down(10), max(leftH, rightH))
	ly := at.Y
	if inv.PaymentTerms != "" {
		ly += drawLines(doc, left, ly, colW, "Payment Terms", []string{inv.PaymentTerms}) + 8
	}
	drawLines(doc, left, ly, colW, "Bank Details", bank)
	drawAmountRows(doc, left+boxWidth/2, at.Y, boxWidth/2, rows, symbol)
	s = at.Down(max(leftH, rightH))

	s = amountBox(doc, f, s.Down(8), money.Words(totals.Grand), money.Format(totals.Grand, symbol))
	drawClosing(doc, f, s.Down(10), closing{terms: inv.Terms, signer: inv.Seller.Name, stamp: stamp})
	return finish(doc, w)
}
