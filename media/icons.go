package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Shape selects the glyph drawn by Icon.
type Shape int

const (
	Dot     Shape = iota // filled circle, used for services
	Diamond              // used for spare parts
	Pin                  // map pin, used next to addresses
)

// Icon rasterizes shape in c onto a transparent size × size PNG.
func Icon(shape Shape, c color.Color, size int) ([]byte, error) {
	if size < 4 {
		return nil, fmt.Errorf("media: icon size %d too small", size)
	}
	s := float32(size)
	z := vector.NewRasterizer(size, size)
	switch shape {
	case Dot:
		polygon(z, circle(s/2, s/2, s*0.42, 0, 2*math.Pi, 48))
	case Diamond:
		polygon(z, []point{{s / 2, s * 0.06}, {s * 0.94, s / 2}, {s / 2, s * 0.94}, {s * 0.06, s / 2}})
	case Pin:
		r := s * 0.3
		head := circle(s/2, s*0.36, r, math.Pi*0.8, math.Pi*2.2, 40)
		polygon(z, append(head, point{s / 2, s * 0.96}))
	default:
		return nil, fmt.Errorf("media: unknown icon shape %d", shape)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	z.DrawOp = draw.Over
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("media: encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

type point struct{ x, y float32 }

// circle returns points on an arc from angle a0 to a1, measured clockwise
// from the positive x axis in image coordinates.
func circle(cx, cy, r float32, a0, a1 float64, n int) []point {
	pts := make([]point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		pts = append(pts, point{cx + r*float32(math.Cos(a)), cy + r*float32(math.Sin(a))})
	}
	return pts
}

func polygon(z *vector.Rasterizer, pts []point) {
	z.MoveTo(pts[0].x, pts[0].y)
	for _, p := range pts[1:] {
		z.LineTo(p.x, p.y)
	}
	z.ClosePath()
}
