// Package table renders tables onto a garagedocs.Document.
//
// A table is described by its columns (header label, width, alignment) and
// a sequence of rows. Rows may be group rows, drawn as a full-width band,
// followed by their leaf rows. Rendering goes through a layout.Flow: when a
// row does not fit on the current page the flow's new-page callback runs and
// the column header is drawn again before the pending row.
package table

import garagedocs "github.com/smartgarage/garagedocs"

// Style defines the overall appearance of a table.
type Style struct {
	FontSize       float64 // body text size in points
	HeaderFontSize float64
	SubFontSize    float64 // size of the secondary line of a cell
	Padding        float64 // vertical padding added to the measured text height
	Inset          float64 // horizontal padding inside a column, split over both sides

	HeaderFill *garagedocs.Color
	HeaderText garagedocs.Color
	HeaderRule *garagedocs.Color // line under the header row
	RowRule    *garagedocs.Color // line under every leaf row
	Grid       *garagedocs.Color // cell borders

	GroupFill    garagedocs.Color
	GroupHeight  float64 // drawn height of a group row
	GroupAdvance float64 // height reserved for and advanced past a group row

	IconSize float64
}

// PlainStyle is a borderless table with a rule under the header, used on
// tax invoices.
func PlainStyle() Style {
	rule := garagedocs.Rule
	ink := garagedocs.Ink
	return Style{
		FontSize:       8,
		HeaderFontSize: 8,
		SubFontSize:    7,
		Padding:        8,
		Inset:          6,
		HeaderText:     ink,
		HeaderRule:     &ink,
		RowRule:        &rule,
		GroupFill:      garagedocs.Band,
		GroupHeight:    18,
		GroupAdvance:   20,
		IconSize:       8,
	}
}

// BandedStyle has a tinted header band and hairlines between rows, used on
// service, spare-parts and claim invoices.
func BandedStyle() Style {
	fill := garagedocs.HeaderBG
	rule := garagedocs.Rule
	return Style{
		FontSize:       7.5,
		HeaderFontSize: 7.5,
		SubFontSize:    6.5,
		Padding:        10,
		Inset:          6,
		HeaderFill:     &fill,
		HeaderText:     garagedocs.Ink,
		HeaderRule:     &rule,
		RowRule:        &rule,
		GroupFill:      garagedocs.Band,
		GroupHeight:    18,
		GroupAdvance:   20,
		IconSize:       8,
	}
}

// GroupedStyle is used for concern/jobsheet tables on estimates and job
// cards: 7pt body text, semibold header, shaded group rows with type icons.
func GroupedStyle() Style {
	fill := garagedocs.HeaderBG
	rule := garagedocs.Rule
	return Style{
		FontSize:       7,
		HeaderFontSize: 8,
		SubFontSize:    6,
		Padding:        10,
		Inset:          6,
		HeaderFill:     &fill,
		HeaderText:     garagedocs.Ink,
		HeaderRule:     &rule,
		RowRule:        &rule,
		GroupFill:      garagedocs.Band,
		GroupHeight:    18,
		GroupAdvance:   20,
		IconSize:       8,
	}
}

// GridStyle draws every cell with a border, used for small summary tables
// such as the GST slab table.
func GridStyle() Style {
	fill := garagedocs.HeaderBG
	grid := garagedocs.Rule
	return Style{
		FontSize:       7,
		HeaderFontSize: 7,
		SubFontSize:    6,
		Padding:        8,
		Inset:          6,
		HeaderFill:     &fill,
		HeaderText:     garagedocs.Ink,
		Grid:           &grid,
		GroupFill:      garagedocs.Band,
		GroupHeight:    16,
		GroupAdvance:   16,
		IconSize:       8,
	}
}
