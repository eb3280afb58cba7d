package table

import (
	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/layout"
)

// iconGap is the space between a cell icon and its text.
const iconGap = 3

// Table is a table bound to a document.
type Table struct {
	doc      *garagedocs.Document
	columns  []Column
	rows     []*Row
	style    Style
	x        float64
	noHeader bool
	placed   []layout.Placement
}

// New creates a table with the given columns, starting at the left margin.
func New(doc *garagedocs.Document, cols ...Column) *Table {
	return &Table{
		doc:     doc,
		columns: cols,
		style:   PlainStyle(),
		x:       doc.Margin(),
	}
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s Style) *Table {
	t.style = s
	return t
}

// SetX sets the left edge of the table.
func (t *Table) SetX(x float64) *Table {
	t.x = x
	return t
}

// HideHeader suppresses the column header row.
func (t *Table) HideHeader() *Table {
	t.noHeader = true
	return t
}

// Columns returns the column definitions.
func (t *Table) Columns() []Column {
	return t.columns
}

// Width returns the sum of the column widths.
func (t *Table) Width() float64 {
	var w float64
	for _, c := range t.columns {
		w += c.Width
	}
	return w
}

// Len returns the number of rows, group rows included.
func (t *Table) Len() int {
	return len(t.rows)
}

// AddRow appends a leaf row.
func (t *Table) AddRow(cells ...Cell) *Row {
	r := &Row{Cells: cells}
	t.rows = append(t.rows, r)
	return r
}

// AddGroup appends a group row. A group row with a single cell spans the
// full table width.
func (t *Table) AddGroup(cells ...Cell) *Row {
	r := &Row{Cells: cells, Group: true}
	t.rows = append(t.rows, r)
	return r
}

// Placements reports where each row was drawn by the last Render.
func (t *Table) Placements() []layout.Placement {
	return t.placed
}

// HeaderHeight measures the column header labels.
func (t *Table) HeaderHeight() float64 {
	t.doc.SetFont(garagedocs.SemiBold, t.style.HeaderFontSize)
	cells := make([]layout.Cell, len(t.columns))
	for i, c := range t.columns {
		cells[i] = layout.Text(c.Header, c.Width-t.style.Inset)
	}
	return layout.RowHeight(t.doc, cells, t.style.Padding)
}

// RowHeight returns the height a row occupies: the tallest measured cell
// plus padding for leaf rows, the group advance for group rows.
func (t *Table) RowHeight(r *Row) float64 {
	if r.Group {
		return t.style.GroupAdvance
	}
	var max float64
	for i, c := range r.Cells {
		if i >= len(t.columns) {
			break
		}
		if h := t.cellHeight(i, c); h > max {
			max = h
		}
	}
	return max + t.style.Padding
}

// Render draws the table starting at s and returns the state below it.
// Rows that do not fit trigger a page break through f, after which the
// column header is drawn again.
func (t *Table) Render(f layout.Flow, s layout.State) (layout.State, error) {
	t.placed = t.placed[:0]

	var headerH float64
	if !t.noHeader {
		headerH = t.HeaderHeight()
		need := headerH
		if len(t.rows) > 0 {
			need += t.RowHeight(t.rows[0])
		}
		at, _ := f.Reserve(s, need)
		s = t.drawHeader(at, headerH)
	}

	for i, r := range t.rows {
		h := t.RowHeight(r)
		at, broke := f.Reserve(s, h)
		if broke && !t.noHeader {
			at = t.drawHeader(at, headerH)
		}
		t.placed = append(t.placed, layout.Placement{Index: i, At: at, Break: broke})
		if r.Group {
			t.drawGroup(r, at)
		} else {
			t.drawRow(r, at, h)
		}
		s = at.Down(h)
	}

	t.doc.SetTextColor(garagedocs.Black)
	return s, t.doc.Err()
}

func (t *Table) textWidth(i int, c Cell) float64 {
	w := t.columns[i].Width - t.style.Inset
	if c.Icon != "" {
		w -= t.style.IconSize + iconGap
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (t *Table) cellHeight(i int, c Cell) float64 {
	w := t.textWidth(i, c)
	t.bodyFont(c)
	h := t.doc.Height(c.Text, w)
	if c.Sub != "" {
		t.doc.SetFont(garagedocs.Regular, t.style.SubFontSize)
		h += t.doc.Height(c.Sub, w)
	}
	return h
}

func (t *Table) bodyFont(c Cell) {
	role := garagedocs.Regular
	if c.Bold {
		role = garagedocs.SemiBold
	}
	t.doc.SetFont(role, t.style.FontSize)
}

func (t *Table) drawHeader(at layout.State, h float64) layout.State {
	st := t.style
	if st.HeaderFill != nil {
		t.doc.FillRect(t.x, at.Y, t.Width(), h, *st.HeaderFill)
	}
	t.doc.SetFont(garagedocs.SemiBold, st.HeaderFontSize)
	x := t.x
	for _, c := range t.columns {
		t.doc.SetTextColor(st.HeaderText)
		t.doc.Paragraph(x+st.Inset/2, at.Y+st.Padding/2, c.Width-st.Inset, c.Header, c.Align)
		if st.Grid != nil {
			t.doc.StrokeRect(x, at.Y, c.Width, h, *st.Grid, 0.5)
		}
		x += c.Width
	}
	if st.HeaderRule != nil {
		t.doc.Line(t.x, at.Y+h, t.x+t.Width(), at.Y+h, *st.HeaderRule, 0.6)
	}
	return at.Down(h)
}

func (t *Table) drawRow(r *Row, at layout.State, h float64) {
	st := t.style
	x := t.x
	for i, col := range t.columns {
		var c Cell
		if i < len(r.Cells) {
			c = r.Cells[i]
		}
		tx := x + st.Inset/2
		ty := at.Y + st.Padding/2
		if c.Icon != "" {
			t.doc.DrawImage(c.Icon, tx, ty, st.IconSize, st.IconSize)
			tx += st.IconSize + iconGap
		}
		w := t.textWidth(i, c)

		t.bodyFont(c)
		t.doc.SetTextColor(garagedocs.Ink)
		if c.Color != nil {
			t.doc.SetTextColor(*c.Color)
		}
		th := t.doc.Paragraph(tx, ty, w, c.Text, col.Align)
		if r.Struck && c.Text != "" {
			t.strike(tx, ty, w, c.Text, col.Align)
		}
		if c.Sub != "" {
			t.doc.SetFont(garagedocs.Regular, st.SubFontSize)
			t.doc.SetTextColor(garagedocs.Muted)
			t.doc.Paragraph(tx, ty+th, w, c.Sub, col.Align)
		}
		if st.Grid != nil {
			t.doc.StrokeRect(x, at.Y, col.Width, h, *st.Grid, 0.5)
		}
		x += col.Width
	}
	if st.RowRule != nil {
		t.doc.Line(t.x, at.Y+h, t.x+t.Width(), at.Y+h, *st.RowRule, 0.5)
	}
}

// strike crosses out the first line of a cell's text.
func (t *Table) strike(x, y, w float64, text, align string) {
	lw := t.doc.Width(text)
	if lw > w {
		lw = w
	}
	switch align {
	case "R":
		x += w - lw
	case "C":
		x += (w - lw) / 2
	}
	t.doc.Strike(x, y, lw, garagedocs.Struck)
}

func (t *Table) drawGroup(r *Row, at layout.State) {
	st := t.style
	t.doc.FillRect(t.x, at.Y, t.Width(), st.GroupHeight, st.GroupFill)
	t.doc.SetFont(garagedocs.SemiBold, st.FontSize)
	t.doc.SetTextColor(garagedocs.Ink)
	ty := at.Y + (st.GroupHeight-t.doc.LineHeight())/2

	if len(r.Cells) == 1 {
		c := r.Cells[0]
		if c.Color != nil {
			t.doc.SetTextColor(*c.Color)
		}
		tx := t.x + st.Inset/2
		if c.Icon != "" {
			t.doc.DrawImage(c.Icon, tx, at.Y+(st.GroupHeight-st.IconSize)/2, st.IconSize, st.IconSize)
			tx += st.IconSize + iconGap
		}
		t.doc.TextAlign(tx, ty, t.Width()-(tx-t.x)-st.Inset/2, c.Text, "L")
		return
	}

	x := t.x
	for i, col := range t.columns {
		if i >= len(r.Cells) {
			break
		}
		c := r.Cells[i]
		tx := x + st.Inset/2
		if c.Icon != "" {
			t.doc.DrawImage(c.Icon, tx, at.Y+(st.GroupHeight-st.IconSize)/2, st.IconSize, st.IconSize)
			tx += st.IconSize + iconGap
		}
		t.doc.TextAlign(tx, ty, t.textWidth(i, c), c.Text, col.Align)
		x += col.Width
	}
}
