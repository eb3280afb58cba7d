package layout

// NewPageFunc starts a new page and redraws whatever repeats at its top.
// It receives the state at the moment of the break and returns the state
// just below the repeated content.
type NewPageFunc func(State) State

// Flow is the pagination driver.
type Flow struct {
	Page    Page
	NewPage NewPageFunc
}

// Placement records where a block was placed by Plan.
type Placement struct {
	Index int
	At    State
	Break bool // a page break was taken before this block
}

// Reserve returns the state at which a block of height h must be drawn.
// When the block does not fit below s, the page is broken first and the
// returned bool is true. A block that does not fit on a fresh page is
// placed there anyway; breaking again would only produce blank pages.
func (f Flow) Reserve(s State, h float64) (State, bool) {
	if s.Fits(h, f.Page) || s.Fresh {
		return s, false
	}
	return f.Break(s), true
}

// Break unconditionally starts a new page.
func (f Flow) Break(s State) State {
	var next State
	if f.NewPage != nil {
		next = f.NewPage(s)
	} else {
		next = State{X: s.X, Y: f.Page.Top}
	}
	next.Page = s.Page + 1
	next.Fresh = true
	return next
}

// Place reserves room for a block of height h and returns both the state
// to draw it at and the state below it.
func (f Flow) Place(s State, h float64) (at, next State) {
	at, _ = f.Reserve(s, h)
	return at, at.Down(h)
}

// Plan places blocks of the given heights one after another and reports
// where each one lands. Every input index appears exactly once, in order.
func (f Flow) Plan(s State, heights []float64) ([]Placement, State) {
	out := make([]Placement, 0, len(heights))
	for i, h := range heights {
		at, broke := f.Reserve(s, h)
		out = append(out, Placement{Index: i, At: at, Break: broke})
		s = at.Down(h)
	}
	return out, s
}

// Pages groups the placements of Plan by page, preserving order.
func Pages(ps []Placement) map[int][]int {
	out := make(map[int][]int)
	for _, p := range ps {
		out[p.At.Page] = append(out[p.At.Page], p.Index)
	}
	return out
}
