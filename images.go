package garagedocs

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"

	"github.com/smartgarage/garagedocs/media"
)

// RegisterImage makes image data available under name. imgType is "PNG",
// "JPG" or "GIF". Registering the same name twice keeps the first image.
//
// fpdf writes image objects sorted by pixel width only, so images sharing a
// width would come out in map order. An image whose width is already taken
// is widened by blank columns on the right until its width is unique.
func (d *Document) RegisterImage(name, imgType string, data []byte) error {
	if name == "" || len(data) == 0 {
		return newDocError("RegisterImage", ErrInvalidParam)
	}
	if _, ok := d.images[name]; ok {
		return nil
	}
	cfg, _, cfgErr := image.DecodeConfig(bytes.NewReader(data))
	if cfgErr == nil && d.widths[cfg.Width] {
		w := cfg.Width + 1
		for d.widths[w] {
			w++
		}
		padded, err := media.Pad(data, w)
		if err != nil {
			return newDocError("RegisterImage", fmt.Errorf("%w: %s: %v", ErrImage, name, err))
		}
		imgType, data, cfg.Width = padded.Type, padded.Data, w
	}
	info := d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
	if d.pdf.Err() {
		err := d.pdf.Error()
		d.pdf.ClearError()
		return newDocError("RegisterImage", fmt.Errorf("%w: %s: %v", ErrImage, name, err))
	}
	d.images[name] = info
	if cfgErr == nil {
		d.widths[cfg.Width] = true
	}
	return nil
}

// HasImage reports whether name has been registered.
func (d *Document) HasImage(name string) bool {
	_, ok := d.images[name]
	return ok
}

// DrawImage draws a registered image stretched to the w × h box.
func (d *Document) DrawImage(name string, x, y, w, h float64) {
	if !d.HasImage(name) {
		return
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
}

// FitImage draws a registered image as large as possible inside the w × h
// box while keeping its aspect ratio, centered in the box. It returns the
// drawn size.
func (d *Document) FitImage(name string, x, y, w, h float64) (float64, float64) {
	info, ok := d.images[name]
	if !ok || info.Width() == 0 || info.Height() == 0 {
		return 0, 0
	}
	iw, ih := info.Width(), info.Height()
	scale := w / iw
	if s := h / ih; s < scale {
		scale = s
	}
	dw, dh := iw*scale, ih*scale
	d.pdf.ImageOptions(name, x+(w-dw)/2, y+(h-dh)/2, dw, dh, false, fpdf.ImageOptions{}, 0, "")
	return dw, dh
}
