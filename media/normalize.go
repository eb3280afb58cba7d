package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxPixels caps the declared width × height of an image before it is
// decoded.
const MaxPixels = 40_000_000

// ErrTooManyPixels is returned for images declaring more than MaxPixels.
var ErrTooManyPixels = errors.New("media: image dimensions exceed pixel limit")

// Image is image data in a format the PDF writer embeds directly.
type Image struct {
	Data   []byte
	Type   string // "PNG" or "JPG"
	Width  int
	Height int
}

// Normalize converts data to an embeddable PNG or JPEG. Images larger than
// maxDim pixels on either side are scaled down; a maxDim of zero keeps the
// original size. JPEGs and 8-bit non-interlaced PNGs that need no scaling
// are passed through unchanged. WebP and GIF sources are re-encoded.
func Normalize(data []byte, maxDim int) (Image, error) {
	cfg, format, err := decodeConfig(data)
	if err != nil {
		return Image{}, err
	}
	fits := maxDim <= 0 || (cfg.Width <= maxDim && cfg.Height <= maxDim)

	switch {
	case fits && format == "jpeg":
		return Image{Data: data, Type: "JPG", Width: cfg.Width, Height: cfg.Height}, nil
	case fits && format == "png" && embeddablePNG(data):
		return Image{Data: data, Type: "PNG", Width: cfg.Width, Height: cfg.Height}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("media: decode %s: %w", format, err)
	}
	if !fits {
		src = scaleDown(src, maxDim)
	}

	var buf bytes.Buffer
	b := src.Bounds()
	if format == "jpeg" || format == "webp" {
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 85}); err != nil {
			return Image{}, fmt.Errorf("media: encode jpeg: %w", err)
		}
		return Image{Data: buf.Bytes(), Type: "JPG", Width: b.Dx(), Height: b.Dy()}, nil
	}
	if err := png.Encode(&buf, toNRGBA(src)); err != nil {
		return Image{}, fmt.Errorf("media: encode png: %w", err)
	}
	return Image{Data: buf.Bytes(), Type: "PNG", Width: b.Dx(), Height: b.Dy()}, nil
}

// Pad widens an image to width pixels by adding columns on the right,
// transparent for PNG output and white for JPEG.
func Pad(data []byte, width int) (Image, error) {
	cfg, format, err := decodeConfig(data)
	if err != nil {
		return Image{}, err
	}
	if width < cfg.Width {
		return Image{}, fmt.Errorf("media: pad to %d: image is %d wide", width, cfg.Width)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("media: decode %s: %w", format, err)
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, width, b.Dy()))
	if format == "jpeg" {
		draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	}
	draw.Draw(dst, image.Rect(0, 0, b.Dx(), b.Dy()), src, b.Min, draw.Src)

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
			return Image{}, fmt.Errorf("media: encode jpeg: %w", err)
		}
		return Image{Data: buf.Bytes(), Type: "JPG", Width: width, Height: b.Dy()}, nil
	}
	if err := png.Encode(&buf, dst); err != nil {
		return Image{}, fmt.Errorf("media: encode png: %w", err)
	}
	return Image{Data: buf.Bytes(), Type: "PNG", Width: width, Height: b.Dy()}, nil
}

// decodeConfig reads the image header and enforces MaxPixels.
func decodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return cfg, format, fmt.Errorf("media: decode: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return cfg, format, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

// embeddablePNG reports whether the IHDR chunk declares 8-bit depth and no
// interlacing.
func embeddablePNG(data []byte) bool {
	// IHDR data follows the signature, the chunk length and the chunk type.
	const ihdr = 8 + 4 + 4
	if len(data) < ihdr+13 || string(data[12:16]) != "IHDR" {
		return false
	}
	depth := data[ihdr+8]
	interlace := data[ihdr+12]
	return depth == 8 && interlace == 0
}

func scaleDown(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
