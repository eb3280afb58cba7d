package garagedocs_test

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/layout"
)

func newTestDoc(t *testing.T, opts ...garagedocs.Option) *garagedocs.Document {
	t.Helper()
	doc, err := garagedocs.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return doc
}

func output(t *testing.T, doc *garagedocs.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	return buf.Bytes()
}

func TestNewDefaults(t *testing.T) {
	doc := newTestDoc(t)
	if doc.UTF8() {
		t.Error("expected core fonts without a font directory")
	}
	if got := doc.Currency(); got != "Rs." {
		t.Errorf("Currency = %q", got)
	}
	p := doc.Page()
	if p.Width != 595.28 || p.Height != 841.89 || p.Bottom != 40 {
		t.Errorf("page = %+v", p)
	}
	var _ layout.Measurer = doc
}

func TestMissingFontDirFallsBack(t *testing.T) {
	doc := newTestDoc(t, garagedocs.WithFontDir(t.TempDir()))
	if doc.UTF8() {
		t.Error("expected fallback to core fonts")
	}
}

func TestOutputWithoutPage(t *testing.T) {
	doc := newTestDoc(t)
	err := doc.Output(&bytes.Buffer{})
	if !errors.Is(err, garagedocs.ErrNoPage) {
		t.Fatalf("err = %v, want ErrNoPage", err)
	}
	var de *garagedocs.DocError
	if !errors.As(err, &de) || de.Op != "Output" {
		t.Errorf("err = %#v, want DocError{Op: Output}", err)
	}
}

func TestHeightMonotonic(t *testing.T) {
	doc := newTestDoc(t)
	doc.SetFont(garagedocs.Regular, 7)
	words := strings.Fields(strings.Repeat("front brake pad replacement with disc skimming and caliper service ", 6))
	// 163 is the description column less its inset and row icon.
	for _, width := range []float64{174, 163} {
		prev := 0.0
		for i := 1; i <= len(words); i++ {
			h := doc.Height(strings.Join(words[:i], " "), width)
			if h < prev {
				t.Fatalf("width %v: height decreased at word %d: %v < %v", width, i, h, prev)
			}
			prev = h
		}
		if prev <= doc.LineHeight() {
			t.Errorf("width %v: long text did not wrap: %v", width, prev)
		}
	}
}

func TestWrappedRowIsTaller(t *testing.T) {
	doc := newTestDoc(t)
	doc.SetFont(garagedocs.Regular, 7)
	widths := []float64{180, 76, 76, 60, 45, 50, 73}
	textW := widths[0] - 6

	one := []layout.Cell{layout.Text("Engine oil", textW)}
	two := []layout.Cell{layout.Text("Engine oil replacement with OEM filter, drain plug washer, and full synthetic 5W-30 top-up", textW)}

	h1 := layout.RowHeight(doc, one, 10)
	h2 := layout.RowHeight(doc, two, 10)
	if doc.Height(two[0].Parts[0], textW) != 2*doc.LineHeight() {
		t.Fatalf("description should wrap to two lines, got %v", doc.Height(two[0].Parts[0], textW))
	}
	if h2 <= h1 {
		t.Errorf("wrapped row %v not taller than single-line row %v", h2, h1)
	}

	page := doc.Page()
	limit := page.Height - page.Bottom
	f := layout.Flow{Page: page}
	if _, broke := f.Reserve(layout.State{Y: limit - h2, Page: 1}, h2); broke {
		t.Error("row ending exactly at the limit should not break")
	}
	if _, broke := f.Reserve(layout.State{Y: limit - h2 + 0.5, Page: 1}, h2); !broke {
		t.Error("row crossing the limit should break")
	}
}

func TestDeterministicOutput(t *testing.T) {
	render := func() []byte {
		doc := newTestDoc(t, garagedocs.WithWatermark("DRAFT"))
		doc.AddPage()
		doc.SetFont(garagedocs.Bold, 14)
		doc.Text(20, 20, "TAX INVOICE")
		doc.SetFont(garagedocs.Regular, 9)
		doc.Paragraph(20, 40, 200, "Periodic service, wheel alignment and balancing", "L")
		doc.FillRect(20, 80, 100, 18, garagedocs.Band)
		doc.AddPage()
		doc.Text(20, 20, "continued")
		return output(t, doc)
	}
	if !bytes.Equal(render(), render()) {
		t.Error("identical input produced different bytes")
	}
}

func TestPageNumbers(t *testing.T) {
	doc := newTestDoc(t, garagedocs.WithCompression(false))
	doc.AddPage()
	doc.AddPage()
	pdf := string(output(t, doc))
	for _, want := range []string{"Page 1 of 2", "Page 2 of 2"} {
		if !strings.Contains(pdf, want) {
			t.Errorf("missing %q in output", want)
		}
	}
}

func TestTextHook(t *testing.T) {
	var runs []garagedocs.TextRun
	doc := newTestDoc(t,
		garagedocs.WithPageNumbers(""),
		garagedocs.WithTextHook(func(r garagedocs.TextRun) { runs = append(runs, r) }),
	)
	doc.AddPage()
	doc.Text(15, 25, "Job Card")
	h := doc.Paragraph(15, 40, 40, "Wash and vacuum interior", "L")
	if h <= doc.LineHeight() {
		t.Fatalf("paragraph height = %v, expected wrapping", h)
	}
	if len(runs) < 3 {
		t.Fatalf("got %d runs, want at least 3", len(runs))
	}
	if runs[0] != (garagedocs.TextRun{Page: 1, X: 15, Y: 25, Text: "Job Card"}) {
		t.Errorf("first run = %+v", runs[0])
	}
	if runs[2].Y != 40+doc.LineHeight() {
		t.Errorf("second paragraph line at %v", runs[2].Y)
	}
}

func TestRegisterImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 224, G: 75, B: 36, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	doc := newTestDoc(t)
	doc.AddPage()
	if err := doc.RegisterImage("logo", "PNG", buf.Bytes()); err != nil {
		t.Fatalf("RegisterImage: %v", err)
	}
	if !doc.HasImage("logo") {
		t.Fatal("image not registered")
	}
	w, h := doc.FitImage("logo", 10, 10, 100, 100)
	if w != 100 || h != 50 {
		t.Errorf("fit = %vx%v, want 100x50", w, h)
	}

	err := doc.RegisterImage("broken", "PNG", []byte("not a png"))
	if !errors.Is(err, garagedocs.ErrImage) {
		t.Errorf("err = %v, want ErrImage", err)
	}
	if doc.Err() != nil {
		t.Errorf("document error leaked: %v", doc.Err())
	}
	output(t, doc)
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRegisterImageSameWidthDeterministic(t *testing.T) {
	images := [][]byte{
		solidPNG(t, 40, 20, color.NRGBA{R: 255, A: 255}),
		solidPNG(t, 40, 20, color.NRGBA{G: 255, A: 255}),
		solidPNG(t, 40, 20, color.NRGBA{B: 255, A: 255}),
		solidPNG(t, 40, 20, color.NRGBA{R: 255, G: 255, A: 255}),
	}
	build := func() []byte {
		doc := newTestDoc(t)
		doc.AddPage()
		for i, data := range images {
			name := fmt.Sprintf("img-%d", i)
			if err := doc.RegisterImage(name, "PNG", data); err != nil {
				t.Fatalf("RegisterImage(%s): %v", name, err)
			}
			doc.DrawImage(name, 10+float64(i)*50, 10, 40, 20)
		}
		return output(t, doc)
	}

	first := build()
	for i := 1; i < 10; i++ {
		if !bytes.Equal(first, build()) {
			t.Fatalf("render %d differs from the first", i)
		}
	}

	// Later images are widened, so they fit a wide box with less height.
	doc := newTestDoc(t)
	doc.AddPage()
	for i, data := range images[:2] {
		if err := doc.RegisterImage(fmt.Sprintf("img-%d", i), "PNG", data); err != nil {
			t.Fatal(err)
		}
	}
	_, h0 := doc.FitImage("img-0", 0, 0, 100, 100)
	_, h1 := doc.FitImage("img-1", 0, 0, 100, 100)
	if h0 != 50 || h1 >= h0 {
		t.Errorf("fit heights = %v, %v; want 50 and less", h0, h1)
	}
}

func TestLetterheadMissing(t *testing.T) {
	_, err := garagedocs.New(garagedocs.WithLetterhead("does-not-exist.pdf"))
	if !errors.Is(err, garagedocs.ErrLetterhead) {
		t.Fatalf("err = %v, want ErrLetterhead", err)
	}
}

func TestHex(t *testing.T) {
	tests := map[string]garagedocs.Color{
		"#E04B24": {224, 75, 36},
		"f6f6f6":  {246, 246, 246},
		"#123":    {},
		"zzzzzz":  {},
	}
	for in, want := range tests {
		if got := garagedocs.Hex(in); got != want {
			t.Errorf("Hex(%q) = %v, want %v", in, got, want)
		}
	}
}
