// Package layout implements the paginated flow used by every document
// generator: rows are measured first, then placed at increasing vertical
// offsets, and a page break is taken when the next row would cross the
// bottom limit of the page.
//
// The package never draws anything. Positions are carried in an immutable
// State that each placement returns, and page breaks are delegated to an
// explicit callback, so layout decisions can be tested without a canvas.
package layout

// Page describes the geometry of a page in points.
type Page struct {
	Width  float64
	Height float64
	Top    float64 // default resume offset after a page break
	Bottom float64 // bottom margin
}

// A4 is the portrait A4 page used by all generators.
var A4 = Page{Width: 595.28, Height: 841.89, Top: 40, Bottom: 40}

// Limit returns the lowest y coordinate content may reach.
func (p Page) Limit() float64 {
	return p.Height - p.Bottom
}

// State is the layout cursor. It is a value: operations return a new State
// rather than mutating the receiver.
type State struct {
	X, Y float64
	Page int // 1-based page index

	// Fresh reports that nothing has been placed since the last page break.
	Fresh bool
}

// Start returns the state at the top-left content position of page 1.
func Start(x, y float64) State {
	return State{X: x, Y: y, Page: 1, Fresh: true}
}

// Down moves the cursor down by dy.
func (s State) Down(dy float64) State {
	s.Y += dy
	if dy > 0 {
		s.Fresh = false
	}
	return s
}

// Continue returns s moved down to y after content was drawn outside the
// flow. The page is no longer fresh, so the next block may break it.
func (s State) Continue(y float64) State {
	s.Y = y
	s.Fresh = false
	return s
}

// At returns s with the x coordinate replaced.
func (s State) At(x float64) State {
	s.X = x
	return s
}

// AtY returns s with the y coordinate replaced.
func (s State) AtY(y float64) State {
	s.Y = y
	return s
}

// Fits reports whether a block of height h placed at s stays above the
// bottom limit of p.
func (s State) Fits(h float64, p Page) bool {
	return s.Y+h <= p.Limit()
}
