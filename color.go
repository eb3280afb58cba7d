package garagedocs

import (
	"strconv"
	"strings"
)

// Color is an RGB color.
type Color struct {
	R, G, B int
}

// Hex parses "#RRGGBB" or "RRGGBB". Malformed input yields black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// Palette shared by the generators.
var (
	Black     = Color{0, 0, 0}
	White     = Color{255, 255, 255}
	Ink       = Hex("#1E1E1E")
	Muted     = Hex("#6B6B6B")
	Label     = Hex("#8A8A8A")
	Rule      = Hex("#E2E6EA")
	Band      = Hex("#F6F6F6")
	HeaderBG  = Hex("#F6F8FC")
	Accent    = Hex("#E04B24")
	AccentDim = Hex("#FDECE8")
	Link      = Hex("#1A5FB4")
	Struck    = Hex("#B00020")
	Good      = Hex("#34C759")
)
