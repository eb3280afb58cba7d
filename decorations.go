package garagedocs

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// pageCountAlias is replaced by the total page count when the document is
// closed.
const pageCountAlias = "{nb}"

// Watermark defaults.
const (
	watermarkSize    = 60
	watermarkAngle   = 45
	watermarkOpacity = 0.3
)

var watermarkColor = Color{200, 200, 200}

// footer runs as each page is finished.
func (d *Document) footer() {
	role, size := d.role, d.size
	if d.cfg.watermark != "" {
		d.drawWatermark(d.cfg.watermark)
	}
	if d.cfg.pageNumbers != "" {
		d.SetFont(Regular, 7)
		d.SetTextColor(Muted)
		text := fmt.Sprintf(d.cfg.pageNumbers, d.pdf.PageNo(), pageCountAlias)
		d.TextAlign(d.cfg.margin, d.page.Height-22, d.ContentWidth(), text, "R")
	}
	d.SetFont(role, size)
	d.SetTextColor(Black)
}

// drawWatermark renders text diagonally across the center of the page.
func (d *Document) drawWatermark(text string) {
	d.SetFont(Bold, watermarkSize)
	d.SetTextColor(watermarkColor)
	d.pdf.SetAlpha(watermarkOpacity, "Normal")

	enc := d.tr(text)
	textW := d.pdf.GetStringWidth(enc)
	cx := d.page.Width / 2
	cy := d.page.Height / 2

	d.pdf.TransformBegin()
	d.pdf.TransformRotate(watermarkAngle, cx, cy)
	d.pdf.Text(cx-textW/2, cy+watermarkSize/3, enc)
	d.pdf.TransformEnd()

	d.pdf.SetAlpha(1.0, "Normal")
}

// loadLetterhead imports the first page of a PDF as a page template.
func (d *Document) loadLetterhead(path string) (err error) {
	if _, err := os.Stat(path); err != nil {
		return newDocError("loadLetterhead", fmt.Errorf("%w: %v", ErrLetterhead, err))
	}
	defer func() {
		if r := recover(); r != nil {
			err = newDocError("loadLetterhead", fmt.Errorf("%w: %v", ErrLetterhead, r))
		}
	}()
	d.imp = gofpdi.NewImporter()
	d.tpl = d.imp.ImportPage(d.pdf, path, 1, "/MediaBox")
	d.hasTpl = true
	if d.pdf.Err() {
		return newDocError("loadLetterhead", fmt.Errorf("%w: %v", ErrLetterhead, d.pdf.Error()))
	}
	return nil
}
