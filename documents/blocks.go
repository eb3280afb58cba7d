package documents

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/layout"
	"github.com/smartgarage/garagedocs/media"
	"github.com/smartgarage/garagedocs/money"
)

// Page geometry shared by the generators, in points.
const (
	left         = 20.0          // left edge of text
	boxLeft      = 15.0          // left edge of tables and shaded boxes
	boxWidth     = 550.0         // text column width
	fullWidth    = boxWidth + 10 // width of tables and shaded boxes
	headerBottom = 115.0         // divider under the repeating header
	barHeight    = 17.0
	infoGap      = 4.0
	bodySize     = 7.0
)

// Registered image names.
const (
	iconService = "icon-service"
	iconSpare   = "icon-spare"
	iconPin     = "icon-pin"
	logoImage   = "logo"
	stampImage  = "stamp"
	qrImage     = "upi-qr"
)

var icons = []struct {
	name  string
	shape media.Shape
	color garagedocs.Color
	size  int // distinct per icon so image objects keep a fixed order
}{
	{iconService, media.Dot, garagedocs.Link, 32},
	{iconSpare, media.Diamond, garagedocs.Accent, 33},
	{iconPin, media.Pin, garagedocs.Accent, 34},
}

// registerIcons adds the item type and address icons to doc.
func registerIcons(doc *garagedocs.Document) error {
	for _, ic := range icons {
		data, err := media.Icon(ic.shape, rgba(ic.color), ic.size)
		if err != nil {
			return err
		}
		if err := doc.RegisterImage(ic.name, "PNG", data); err != nil {
			return err
		}
	}
	return nil
}

func rgba(c garagedocs.Color) color.NRGBA {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

// pageHeader draws the block repeated at the top of every page and returns
// the y below it.
type pageHeader interface {
	draw(doc *garagedocs.Document) float64
}

// header is the garage letterhead used by estimates, job cards and
// invoices.
type header struct {
	biz    Business
	title  string
	number string
	logo   bool // logoImage is registered
}

// draw renders h on the current page and returns the y of the divider
// below it.
func (h header) draw(doc *garagedocs.Document) float64 {
	y := 20.0
	for _, kv := range [][2]string{
		{"Contact :", h.biz.Contact},
		{"Email :", h.biz.Email},
		{"GSTIN/UIN :", h.biz.GSTIN},
	} {
		doc.SetFont(garagedocs.SemiBold, bodySize)
		doc.SetTextColor(garagedocs.Accent)
		doc.Text(left, y, kv[0])
		lw := doc.Width(kv[0])
		doc.SetFont(garagedocs.Regular, bodySize)
		doc.SetTextColor(garagedocs.Ink)
		doc.Text(left+lw+3, y, orDash(kv[1]))
		y += doc.LineHeight() + 4.5
	}
	y += 6

	// Business name on a filled band running off the left edge.
	size := 13.0
	doc.SetFont(garagedocs.Bold, size)
	for doc.Width(h.biz.Name) > 260 && size > 8 {
		size--
		doc.SetFont(garagedocs.Bold, size)
	}
	bandW := math.Max(140, doc.Width(h.biz.Name)+2*left)
	doc.FillRect(0, y, bandW, 36, garagedocs.Accent)
	doc.SetTextColor(garagedocs.White)
	doc.Text(left, y+(36-doc.LineHeight())/2, h.biz.Name)
	if h.biz.Parent != "" {
		doc.SetFont(garagedocs.Regular, bodySize)
		doc.SetTextColor(garagedocs.Muted)
		doc.Text(left, y+40, "(A Unit Of "+h.biz.Parent+")")
	}
	doc.Line(0, headerBottom, 140, headerBottom, garagedocs.Accent, 1)

	// Right column: logo and brand, title, number, address.
	right := left + boxWidth
	doc.SetFont(garagedocs.SemiBold, 15)
	brandW := doc.Width(h.biz.Brand)
	if h.biz.Brand != "" {
		doc.SetTextColor(garagedocs.Accent)
		doc.TextAlign(right-260, 18, 260, h.biz.Brand, "R")
	}
	if h.logo {
		doc.FitImage(logoImage, right-brandW-28, 16, 23, 23)
	}
	doc.SetFont(garagedocs.Bold, 20)
	doc.SetTextColor(garagedocs.Ink)
	doc.TextAlign(right-300, 42, 300, h.title, "R")
	doc.SetFont(garagedocs.Bold, 9)
	doc.TextAlign(right-300, 70, 300, h.number, "R")
	if h.biz.Address != "" {
		doc.SetFont(garagedocs.Regular, bodySize)
		doc.Paragraph(right-212, 86, 200, h.biz.Address, "R")
		doc.DrawImage(iconPin, right-9, 86, 9, 9)
	}

	doc.SetTextColor(garagedocs.Black)
	return headerBottom
}

// drawInfo draws up to three titled columns of fields starting at y and
// returns the y of the rule below the tallest column.
func drawInfo(doc *garagedocs.Document, sections []layout.Section, y float64) float64 {
	colW := boxWidth / 3
	textW := colW - 10
	bottom := y
	for i, sec := range sections {
		x := left + float64(i)*colW
		doc.SetFont(garagedocs.Bold, bodySize)
		doc.SetTextColor(garagedocs.Ink)
		doc.Text(x, y, strings.ToUpper(sec.Title))
		top := y + doc.LineHeight() + 5

		doc.SetFont(garagedocs.Regular, bodySize)
		cy := top
		for _, f := range sec.Fields {
			doc.SetTextColor(garagedocs.Label)
			cy += doc.Paragraph(x, cy, textW, f.Label, "L")
			doc.SetTextColor(garagedocs.Ink)
			cy += doc.Paragraph(x, cy, textW, orDash(f.Value), "L") + infoGap
		}
		if end := top + layout.SectionHeight(doc, sec, textW, infoGap); end > bottom {
			bottom = end
		}
	}
	doc.Line(boxLeft+2, bottom+5, boxLeft+fullWidth, bottom+5, garagedocs.Rule, 0.5)
	doc.SetTextColor(garagedocs.Black)
	return bottom + 5
}

// frame draws the repeating part of every page and supplies the flow's
// page-break callback.
type frame struct {
	doc    *garagedocs.Document
	header pageHeader
	info   []layout.Section // redrawn below the header when set
}

// draw renders the frame on the current page and returns the y where
// content starts.
func (f *frame) draw() float64 {
	y := f.header.draw(f.doc)
	if len(f.info) > 0 {
		y = drawInfo(f.doc, f.info, y+20)
	}
	return y + 10
}

// first adds the first page and returns the state below its frame.
func (f *frame) first() layout.State {
	f.doc.AddPage()
	return layout.Start(left, f.draw())
}

// flow returns a layout.Flow that starts each new page with the frame.
func (f *frame) flow() layout.Flow {
	return layout.Flow{
		Page: f.doc.Page(),
		NewPage: func(s layout.State) layout.State {
			f.doc.AddPage()
			return layout.State{X: s.X, Y: f.draw()}
		},
	}
}

func checkSections(op string, sections []layout.Section) error {
	if len(sections) > 3 {
		return fmt.Errorf("documents: %s: %d info sections, at most 3: %w", op, len(sections), garagedocs.ErrInvalidParam)
	}
	return nil
}

// bar draws a shaded section heading. keep is the height of the content
// that must follow the heading on the same page.
func bar(doc *garagedocs.Document, f layout.Flow, s layout.State, title string, keep float64) layout.State {
	at, _ := f.Reserve(s, barHeight+keep)
	doc.FillRect(boxLeft, at.Y, fullWidth, barHeight, garagedocs.HeaderBG)
	doc.SetFont(garagedocs.SemiBold, bodySize)
	doc.SetTextColor(garagedocs.Ink)
	doc.Text(left, at.Y+(barHeight-doc.LineHeight())/2, title)
	return at.Down(barHeight + 6)
}

// rightLine draws one right-aligned line of text, e.g. subtotals under a
// table.
func rightLine(doc *garagedocs.Document, f layout.Flow, s layout.State, text string) layout.State {
	doc.SetFont(garagedocs.SemiBold, bodySize)
	h := doc.LineHeight() + 10
	at, _ := f.Reserve(s, h)
	doc.SetFont(garagedocs.SemiBold, bodySize)
	doc.SetTextColor(garagedocs.Ink)
	doc.TextAlign(left, at.Y+5, boxWidth, text, "R")
	return at.Down(h)
}

// amountBox draws the shaded amount-in-words box with the grand total on
// the right.
func amountBox(doc *garagedocs.Document, f layout.Flow, s layout.State, words, amount string) layout.State {
	doc.SetFont(garagedocs.Bold, 8)
	amountW := doc.Width(amount) + 10
	wordsW := boxWidth - amountW - 12
	text := "Amount in words: " + words
	h := math.Max(22, doc.Height(text, wordsW)+12)

	at, _ := f.Reserve(s, h)
	doc.FillRoundedRect(boxLeft, at.Y, fullWidth, h, 4, garagedocs.HeaderBG)
	doc.SetFont(garagedocs.Bold, 8)
	doc.SetTextColor(garagedocs.Ink)
	doc.Paragraph(left, at.Y+6, wordsW, text, "L")
	doc.TextAlign(left, at.Y+6, boxWidth, amount, "R")
	return at.Down(h)
}

// bulletGrid lays items out in cols columns, one reserved row at a time.
func bulletGrid(doc *garagedocs.Document, f layout.Flow, s layout.State, items []string, cols int, c garagedocs.Color) layout.State {
	colW := boxWidth / float64(cols)
	w := colW - 10
	for i := 0; i < len(items); i += cols {
		row := items[i:min(i+cols, len(items))]
		doc.SetFont(garagedocs.Regular, bodySize)
		var h float64
		for _, it := range row {
			h = math.Max(h, doc.Height("• "+it, w))
		}
		at, _ := f.Reserve(s, h+6)
		doc.SetFont(garagedocs.Regular, bodySize)
		doc.SetTextColor(c)
		for j, it := range row {
			doc.Paragraph(left+float64(j)*colW, at.Y, w, "• "+it, "L")
		}
		s = at.Down(h + 6)
	}
	doc.SetTextColor(garagedocs.Black)
	return s
}

// closing is the terms, declaration and signature block that ends most
// documents.
type closing struct {
	terms       []string
	declaration string
	signer      string // business name printed above the right signature
	stamp       bool   // stampImage is registered
}

func numbered(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = fmt.Sprintf("%d. %s", i+1, t)
	}
	return out
}

// drawClosing keeps the closing block on one page when it fits on a page;
// longer terms continue line by line across pages.
func drawClosing(doc *garagedocs.Document, f layout.Flow, s layout.State, c closing) layout.State {
	termW := boxWidth - 12
	lines := numbered(c.terms)

	doc.SetFont(garagedocs.Regular, bodySize)
	lh := doc.LineHeight()
	total := 20.0
	heights := make([]float64, len(lines))
	for i, l := range lines {
		heights[i] = doc.Height(l, termW) + 3
		total += heights[i]
	}
	declW := boxWidth - 60
	if c.declaration != "" {
		total += doc.Height(c.declaration, declW) + 10
	}
	const signH = 60.0
	total += signH

	at, _ := f.Reserve(s.Down(10), total)
	if len(lines) > 0 {
		doc.SetFont(garagedocs.Bold, bodySize)
		doc.SetTextColor(garagedocs.Ink)
		doc.Text(left, at.Y, "TERMS & CONDITIONS")
		at = at.Down(lh + 6)
		for i, l := range lines {
			at, _ = f.Reserve(at, heights[i])
			doc.SetFont(garagedocs.Regular, bodySize)
			doc.SetTextColor(garagedocs.Ink)
			doc.Paragraph(left, at.Y, termW, l, "L")
			at = at.Down(heights[i])
		}
	}

	if c.declaration != "" {
		doc.SetFont(garagedocs.Regular, bodySize)
		dh := doc.Height(c.declaration, declW)
		at, _ = f.Reserve(at.Down(10), dh)
		doc.SetFont(garagedocs.SemiBold, bodySize)
		doc.SetTextColor(garagedocs.Ink)
		doc.Text(left, at.Y, "Declaration : ")
		doc.SetFont(garagedocs.Regular, bodySize)
		doc.Paragraph(left+60, at.Y, declW, c.declaration, "L")
		at = at.Down(dh)
	}

	at, _ = f.Reserve(at, signH)
	return drawSignatures(doc, at, c)
}

func drawSignatures(doc *garagedocs.Document, at layout.State, c closing) layout.State {
	lineY := at.Y + 40
	right := left + boxWidth
	doc.SetFont(garagedocs.SemiBold, bodySize)
	doc.SetTextColor(garagedocs.Ink)
	if c.signer != "" {
		doc.TextAlign(right-160, at.Y+6, 160, "For "+c.signer, "R")
	}
	if c.stamp {
		doc.FitImage(stampImage, right-110, at.Y+12, 60, 26)
	}
	doc.DashedLine(left, lineY, left+130, lineY, garagedocs.Rule, 0.5)
	doc.DashedLine(right-130, lineY, right, lineY, garagedocs.Rule, 0.5)
	doc.Text(left, lineY+4, "CUSTOMER SIGNATURE")
	doc.TextAlign(right-160, lineY+4, 160, "AUTHORISED SIGNATORY", "R")
	doc.SetTextColor(garagedocs.Black)
	return at.Down(60)
}

// amountRow is one label and amount line of a totals or summary box.
type amountRow struct {
	label string
	value decimal.Decimal
	bold  bool
}

// Summary rows printed even when their value is zero.
var alwaysShown = map[string]bool{
	"Balance Total": true,
	"Pending Do":    true,
	"File Charge":   true,
}

// visibleRows drops zero-valued rows except those in alwaysShown.
func visibleRows(rows []amountRow) []amountRow {
	var out []amountRow
	for _, r := range rows {
		if !r.value.IsZero() || alwaysShown[r.label] {
			out = append(out, r)
		}
	}
	return out
}

func amountRowsHeight(doc *garagedocs.Document, n int) float64 {
	doc.SetFont(garagedocs.Regular, bodySize)
	return float64(n)*(doc.LineHeight()+5) + 8
}

// drawAmountRows draws rows in a bordered box of width w at x, y with the
// labels on the left and right-aligned amounts.
func drawAmountRows(doc *garagedocs.Document, x, y, w float64, rows []amountRow, symbol string) {
	h := amountRowsHeight(doc, len(rows))
	doc.StrokeRect(x, y, w, h, garagedocs.Rule, 0.5)
	rh := doc.LineHeight() + 5
	cy := y + 6
	for _, r := range rows {
		role := garagedocs.Regular
		if r.bold {
			role = garagedocs.Bold
		}
		doc.SetFont(role, bodySize)
		doc.SetTextColor(garagedocs.Ink)
		doc.TextAlign(x+6, cy, w/2, r.label, "L")
		doc.TextAlign(x+w/2, cy, w/2-6, money.Format(r.value, symbol), "R")
		cy += rh
	}
	doc.SetTextColor(garagedocs.Black)
}

// drawLines draws a bold title followed by lines of text and returns the
// height used.
func drawLines(doc *garagedocs.Document, x, y, w float64, title string, lines []string) float64 {
	doc.SetFont(garagedocs.Bold, bodySize+1)
	doc.SetTextColor(garagedocs.Ink)
	doc.Text(x, y, title)
	h := doc.LineHeight() + 4
	doc.SetFont(garagedocs.Regular, bodySize)
	for _, l := range lines {
		h += doc.Paragraph(x, y+h, w, l, "L")
	}
	return h
}

// linesHeight measures what drawLines would use.
func linesHeight(doc *garagedocs.Document, w float64, lines []string) float64 {
	doc.SetFont(garagedocs.Bold, bodySize+1)
	h := doc.LineHeight() + 4
	doc.SetFont(garagedocs.Regular, bodySize)
	for _, l := range lines {
		h += doc.Height(l, w)
	}
	return h
}
