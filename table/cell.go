package table

import (
	"fmt"

	garagedocs "github.com/smartgarage/garagedocs"
)

// Placeholder is printed for cells whose value is missing.
const Placeholder = "--"

// Column defines the header label, width and alignment of a column.
type Column struct {
	Header string
	Width  float64
	Align  string // "L", "C" or "R"
}

// Cell is the content of one table cell.
type Cell struct {
	Text  string
	Sub   string            // optional second line drawn smaller and muted
	Icon  string            // registered image name drawn before the text
	Color *garagedocs.Color // text color override
	Bold  bool
}

// Text returns a plain cell. Empty text is replaced by Placeholder.
func Text(s string) Cell {
	if s == "" {
		s = Placeholder
	}
	return Cell{Text: s}
}

// Textf returns a plain cell with formatted text.
func Textf(format string, args ...any) Cell {
	return Cell{Text: fmt.Sprintf(format, args...)}
}

// Row is a single row of a table.
type Row struct {
	Cells  []Cell
	Group  bool // drawn as a shaded full-width band
	Struck bool // removed item, drawn with a line through it
}

// SetStruck marks the row as a removed item.
func (r *Row) SetStruck(v bool) *Row {
	r.Struck = v
	return r
}
