package garagedocs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FontRole selects one of the three weights used by the generators.
type FontRole int

const (
	Regular FontRole = iota
	SemiBold
	Bold
)

// Inter font files looked up in the font directory.
const (
	FontRegularFile  = "Inter-Regular.ttf"
	FontSemiBoldFile = "Inter-SemiBold.ttf"
	FontBoldFile     = "Inter-Bold.ttf"
)

type fontFace struct {
	family string
	style  string
}

// coreFaces render with the built-in Helvetica family; SemiBold maps to bold.
var coreFaces = [3]fontFace{
	Regular:  {"Helvetica", ""},
	SemiBold: {"Helvetica", "B"},
	Bold:     {"Helvetica", "B"},
}

// SetFont selects the font weight and size in points for subsequent text.
func (d *Document) SetFont(role FontRole, size float64) {
	f := d.faces[role]
	d.pdf.SetFont(f.family, f.style, size)
	d.role = role
	d.size = size
}

// UTF8 reports whether TrueType fonts were loaded. Without them text is
// limited to the cp1252 character set.
func (d *Document) UTF8() bool {
	return d.utf8
}

// Currency returns the rupee symbol the loaded fonts can render.
func (d *Document) Currency() string {
	if d.utf8 {
		return "₹"
	}
	return "Rs."
}

// loadFonts registers the Inter family from the configured font directory.
// The regular weight is required; missing heavier weights fall back to the
// next lighter one. Without a font directory or a regular weight file the
// core fonts are used.
func (d *Document) loadFonts() error {
	d.faces = coreFaces
	if d.cfg.fontDir == "" {
		return nil
	}

	regular, err := readFont(d.cfg.fontDir, FontRegularFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	d.pdf.AddUTF8FontFromBytes("Inter", "", regular)
	faces := [3]fontFace{
		Regular:  {"Inter", ""},
		SemiBold: {"Inter", ""},
		Bold:     {"Inter", ""},
	}

	if b, err := readFont(d.cfg.fontDir, FontSemiBoldFile); err == nil {
		d.pdf.AddUTF8FontFromBytes("InterSemiBold", "", b)
		faces[SemiBold] = fontFace{"InterSemiBold", ""}
		faces[Bold] = faces[SemiBold]
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if b, err := readFont(d.cfg.fontDir, FontBoldFile); err == nil {
		d.pdf.AddUTF8FontFromBytes("Inter", "B", b)
		faces[Bold] = fontFace{"Inter", "B"}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if d.pdf.Err() {
		return newDocError("loadFonts", fmt.Errorf("%w: %v", ErrFont, d.pdf.Error()))
	}
	d.faces = faces
	d.utf8 = true
	return nil
}

func readFont(dir, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, newDocError("loadFonts", fmt.Errorf("%w: %v", ErrFont, err))
	}
	return b, nil
}
