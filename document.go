package garagedocs

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/smartgarage/garagedocs/layout"
)

// lineFactor is the line height as a multiple of the font size.
const lineFactor = 1.2

// TextRun describes one line of text written to a page.
type TextRun struct {
	Page int
	X, Y float64 // top-left corner of the line box
	Text string
}

// Document is an A4 drawing canvas measured in points.
type Document struct {
	pdf   *fpdf.Fpdf
	cfg   *documentConfig
	page  layout.Page
	faces [3]fontFace
	utf8  bool
	tr    func(string) string

	role FontRole
	size float64

	images map[string]*fpdf.ImageInfoType
	widths map[int]bool // pixel widths of registered images
	imp    *gofpdi.Importer
	tpl    int
	hasTpl bool
	hook   func(TextRun)
}

// New creates an empty document. No page is added until AddPage is called.
//
// Example:
//
//	doc, err := garagedocs.New(
//	    garagedocs.WithFontDir("assets/fonts"),
//	    garagedocs.WithWatermark("DRAFT"),
//	)
func New(opts ...Option) (*Document, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		SizeStr:        cfg.size,
	})
	pdf.SetMargins(cfg.margin, cfg.margin, cfg.margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCompression(cfg.compress)
	pdf.SetCreationDate(cfg.created)
	pdf.SetModificationDate(cfg.created)
	pdf.SetCatalogSort(true)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		pdf.SetAuthor(cfg.author, true)
	}

	w, h := pdf.GetPageSize()
	d := &Document{
		pdf:    pdf,
		cfg:    cfg,
		page:   layout.Page{Width: w, Height: h, Top: 40, Bottom: cfg.bottom},
		images: make(map[string]*fpdf.ImageInfoType),
		widths: make(map[int]bool),
		hook:   cfg.hook,
	}

	if err := d.loadFonts(); err != nil {
		return nil, err
	}
	if d.utf8 {
		d.tr = func(s string) string { return s }
	} else {
		d.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	d.SetFont(Regular, 9)

	if cfg.letterhead != "" {
		if err := d.loadLetterhead(cfg.letterhead); err != nil {
			return nil, err
		}
	}

	pdf.AliasNbPages(pageCountAlias)
	pdf.SetFooterFunc(d.footer)

	if pdf.Err() {
		return nil, newDocError("New", pdf.Error())
	}
	return d, nil
}

// Page returns the page geometry used for pagination.
func (d *Document) Page() layout.Page {
	return d.page
}

// Margin returns the left and right page margin.
func (d *Document) Margin() float64 {
	return d.cfg.margin
}

// ContentWidth returns the page width between the side margins.
func (d *Document) ContentWidth() float64 {
	return d.page.Width - 2*d.cfg.margin
}

// PageNo returns the current 1-based page number, or 0 before the first page.
func (d *Document) PageNo() int {
	return d.pdf.PageNo()
}

// AddPage starts a new page and draws the letterhead behind it.
func (d *Document) AddPage() {
	role, size := d.role, d.size
	d.pdf.AddPage()
	if d.hasTpl {
		d.imp.UseImportedTemplate(d.pdf, d.tpl, 0, 0, d.page.Width, d.page.Height)
	}
	d.SetFont(role, size)
}

// Err returns the first error recorded by the document, if any.
func (d *Document) Err() error {
	if d.pdf.Err() {
		return d.pdf.Error()
	}
	return nil
}

// Output finalizes the document and writes it to w.
func (d *Document) Output(w io.Writer) error {
	if d.pdf.Err() {
		return newDocError("Output", d.pdf.Error())
	}
	if d.pdf.PageNo() == 0 {
		return newDocError("Output", ErrNoPage)
	}
	if err := d.pdf.Output(w); err != nil {
		return newDocError("Output", err)
	}
	return nil
}

// SetTextColor sets the color of subsequent text.
func (d *Document) SetTextColor(c Color) {
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

// SetFillColor sets the fill color of subsequent shapes.
func (d *Document) SetFillColor(c Color) {
	d.pdf.SetFillColor(c.R, c.G, c.B)
}

// SetDrawColor sets the stroke color of subsequent shapes.
func (d *Document) SetDrawColor(c Color) {
	d.pdf.SetDrawColor(c.R, c.G, c.B)
}

// LineHeight returns the height of one line of text in the current font.
func (d *Document) LineHeight() float64 {
	return d.size * lineFactor
}

// Width returns the width of s in the current font.
func (d *Document) Width(s string) float64 {
	return d.pdf.GetStringWidth(d.tr(s))
}

// Height returns the height of s wrapped to width in the current font.
// Empty text measures as one line.
func (d *Document) Height(s string, width float64) float64 {
	return float64(len(d.lines(s, width))) * d.LineHeight()
}

// Text draws a single line of text with its top-left corner at x, y.
func (d *Document) Text(x, y float64, s string) {
	enc := d.tr(s)
	d.cell(x, y, d.pdf.GetStringWidth(enc), enc, "L")
}

// TextAlign draws a single line aligned within a box of width w.
// align is "L", "C" or "R".
func (d *Document) TextAlign(x, y, w float64, s, align string) {
	d.cell(x, y, w, d.tr(s), align)
}

// Paragraph draws s wrapped to width w and returns the height used.
func (d *Document) Paragraph(x, y, w float64, s, align string) float64 {
	lines := d.lines(s, w)
	lh := d.LineHeight()
	for i, l := range lines {
		d.cell(x, y+float64(i)*lh, w, l, align)
	}
	return float64(len(lines)) * lh
}

// Strike draws a horizontal line through a text line of width w at y.
func (d *Document) Strike(x, y, w float64, c Color) {
	mid := y + d.LineHeight()/2
	d.Line(x, mid, x+w, mid, c, 0.6)
}

// Link makes the rectangle a clickable link to url.
func (d *Document) Link(x, y, w, h float64, url string) {
	d.pdf.LinkString(x, y, w, h, url)
}

// Rect draws a rectangle. style is "D" (stroke), "F" (fill) or "DF".
func (d *Document) Rect(x, y, w, h float64, style string) {
	d.pdf.Rect(x, y, w, h, style)
}

// FillRect fills a rectangle with c.
func (d *Document) FillRect(x, y, w, h float64, c Color) {
	d.SetFillColor(c)
	d.pdf.Rect(x, y, w, h, "F")
}

// StrokeRect outlines a rectangle.
func (d *Document) StrokeRect(x, y, w, h float64, c Color, width float64) {
	d.SetDrawColor(c)
	d.pdf.SetLineWidth(width)
	d.pdf.Rect(x, y, w, h, "D")
}

// FillRoundedRect fills a rectangle with all corners rounded by r.
func (d *Document) FillRoundedRect(x, y, w, h, r float64, c Color) {
	d.SetFillColor(c)
	d.pdf.RoundedRect(x, y, w, h, r, "1234", "F")
}

// Line draws a straight line.
func (d *Document) Line(x1, y1, x2, y2 float64, c Color, width float64) {
	d.SetDrawColor(c)
	d.pdf.SetLineWidth(width)
	d.pdf.Line(x1, y1, x2, y2)
}

// DashedLine draws a dashed straight line.
func (d *Document) DashedLine(x1, y1, x2, y2 float64, c Color, width float64) {
	d.pdf.SetDashPattern([]float64{3, 2}, 0)
	d.Line(x1, y1, x2, y2, c, width)
	d.pdf.SetDashPattern([]float64{}, 0)
}

// lines splits s into encoded lines that fit width.
func (d *Document) lines(s string, width float64) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r", ""), "\n") {
		var ls []string
		if d.utf8 {
			ls = d.pdf.SplitText(para, width)
		} else {
			for _, b := range d.pdf.SplitLines([]byte(d.tr(para)), width) {
				ls = append(ls, string(b))
			}
		}
		if len(ls) == 0 {
			ls = []string{""}
		}
		out = append(out, ls...)
	}
	return out
}

// cell writes one encoded line into a box of width w.
func (d *Document) cell(x, y, w float64, enc, align string) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, d.LineHeight(), enc, "", 0, align, false, 0, "")
	if d.hook != nil {
		d.hook(TextRun{Page: d.pdf.PageNo(), X: x, Y: y, Text: enc})
	}
}

func (d *Document) String() string {
	return fmt.Sprintf("garagedocs.Document{pages: %d, utf8: %v}", d.pdf.PageCount(), d.utf8)
}
