package layout

// Measurer measures wrapped text in the active font.
type Measurer interface {
	// Height returns the height of text wrapped to width. Empty text
	// measures as a single line.
	Height(text string, width float64) float64
}

// Cell is one measured cell of a row. A cell with several parts (a name
// above a part code, for example) is as tall as its parts stacked.
type Cell struct {
	Parts []string
	Width float64
}

// Text returns a single-part cell.
func Text(s string, width float64) Cell {
	return Cell{Parts: []string{s}, Width: width}
}

// Height returns the stacked height of the cell's parts.
func (c Cell) Height(m Measurer) float64 {
	if len(c.Parts) == 0 {
		return m.Height("", c.Width)
	}
	var h float64
	for _, p := range c.Parts {
		h += m.Height(p, c.Width)
	}
	return h
}

// RowHeight returns the tallest cell height plus padding.
func RowHeight(m Measurer, cells []Cell, padding float64) float64 {
	var max float64
	for _, c := range cells {
		if h := c.Height(m); h > max {
			max = h
		}
	}
	return max + padding
}

// Field is a label/value row of a Section.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a titled group of label/value rows drawn in one column.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// FieldHeight is the height of one label/value row: the label line, the
// wrapped value, and the gap below it.
func FieldHeight(m Measurer, f Field, width, gap float64) float64 {
	return m.Height(f.Label, width) + m.Height(f.Value, width) + gap
}

// SectionHeight is the sum of the section's row heights.
func SectionHeight(m Measurer, s Section, width, gap float64) float64 {
	var h float64
	for _, f := range s.Fields {
		h += FieldHeight(m, f, width, gap)
	}
	return h
}
