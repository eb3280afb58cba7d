package table

import garagedocs "github.com/smartgarage/garagedocs"

// Field binds a column to the formatter that produces its cell for an item.
type Field[T any] struct {
	Column
	Cell func(index int, item T) Cell
}

// Schema is the ordered list of fields describing a table of T.
type Schema[T any] []Field[T]

// Columns returns the column definitions of the schema.
func (s Schema[T]) Columns() []Column {
	cols := make([]Column, len(s))
	for i, f := range s {
		cols[i] = f.Column
	}
	return cols
}

// Cells formats one item. index is the item's position, used for serial
// number columns.
func (s Schema[T]) Cells(index int, item T) []Cell {
	cells := make([]Cell, len(s))
	for i, f := range s {
		if f.Cell == nil {
			cells[i] = Text("")
			continue
		}
		cells[i] = f.Cell(index, item)
	}
	return cells
}

// Build creates a table with one row per item.
func Build[T any](doc *garagedocs.Document, style Style, schema Schema[T], items []T) *Table {
	t := New(doc, schema.Columns()...).SetStyle(style)
	for i, it := range items {
		t.AddRow(schema.Cells(i, it)...)
	}
	return t
}
