package layout_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/smartgarage/garagedocs/layout"
)

// fixedMeasurer wraps at a fixed number of characters per point of width.
type fixedMeasurer struct {
	charW float64
	lineH float64
}

func (m fixedMeasurer) Height(text string, width float64) float64 {
	perLine := int(width / m.charW)
	if perLine < 1 {
		perLine = 1
	}
	lines := 0
	for _, para := range strings.Split(text, "\n") {
		n := len([]rune(para))
		l := (n + perLine - 1) / perLine
		if l == 0 {
			l = 1
		}
		lines += l
	}
	return float64(lines) * m.lineH
}

var seven = fixedMeasurer{charW: 3.5, lineH: 8.4}

func TestHeightMonotonic(t *testing.T) {
	text := strings.Repeat("brake pad replacement front axle ", 12)
	prev := 0.0
	for i := 0; i <= len(text); i++ {
		h := seven.Height(text[:i], 174)
		if h < prev {
			t.Fatalf("height decreased at %d: %v < %v", i, h, prev)
		}
		prev = h
	}
}

func TestRowHeightTakesTallestCell(t *testing.T) {
	short := layout.Text("Oil filter", 174)
	long := layout.Text(strings.Repeat("x", 60), 174)
	multi := layout.Cell{Parts: []string{"Engine oil", "PC-1029"}, Width: 70}
	line := seven.lineH

	if got, want := layout.RowHeight(seven, []layout.Cell{short}, 10), line+10; got != want {
		t.Errorf("single line row = %v, want %v", got, want)
	}
	if got, want := layout.RowHeight(seven, []layout.Cell{short, long}, 10), 2*line+10; got != want {
		t.Errorf("wrapped row = %v, want %v", got, want)
	}
	if got, want := multi.Height(seven), 2*line; got != want {
		t.Errorf("multi-part cell = %v, want %v", got, want)
	}
}

func TestSectionHeightSumsFields(t *testing.T) {
	s := layout.Section{
		Title: "Customer Detail",
		Fields: []layout.Field{
			{Label: "Name", Value: "Rahul Sharma"},
			{Label: "Address", Value: strings.Repeat("a", 80)},
		},
	}
	var want float64
	for _, f := range s.Fields {
		want += layout.FieldHeight(seven, f, 170, 5)
	}
	if got := layout.SectionHeight(seven, s, 170, 5); got != want {
		t.Errorf("SectionHeight = %v, want %v", got, want)
	}
}

func TestReserveBreakTrigger(t *testing.T) {
	page := layout.A4
	limit := page.Height - page.Bottom
	redraws := 0
	f := layout.Flow{Page: page, NewPage: func(s layout.State) layout.State {
		redraws++
		return layout.State{X: s.X, Y: 150}
	}}

	rowH := 32.0
	tests := []struct {
		name  string
		y     float64
		broke bool
	}{
		{"well above", 500, false},
		{"exactly at limit", limit - rowH, false},
		{"just past limit", limit - rowH + 0.01, true},
		{"below limit", limit + 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := layout.State{X: 10, Y: tt.y, Page: 1}
			at, broke := f.Reserve(s, rowH)
			if broke != tt.broke {
				t.Fatalf("broke = %v, want %v", broke, tt.broke)
			}
			if broke {
				if at.Page != 2 || at.Y != 150 || !at.Fresh {
					t.Errorf("after break state = %+v", at)
				}
			} else if at != s {
				t.Errorf("state changed without break: %+v", at)
			}
		})
	}
	if redraws != 2 {
		t.Errorf("NewPage called %d times, want 2", redraws)
	}
}

func TestReserveOversizeOnFreshPage(t *testing.T) {
	f := layout.Flow{Page: layout.A4}
	s := layout.State{Y: 800, Page: 3}
	at, broke := f.Reserve(s, 2000)
	if !broke {
		t.Fatal("expected break")
	}
	again, broke := f.Reserve(at, 2000)
	if broke || again != at {
		t.Fatalf("fresh page broke again: %+v", again)
	}
}

func TestPlanConservesRows(t *testing.T) {
	f := layout.Flow{Page: layout.A4, NewPage: func(s layout.State) layout.State {
		return layout.State{X: s.X, Y: 180}
	}}
	heights := make([]float64, 90)
	for i := range heights {
		heights[i] = 18 + float64(i%4)*8.4
	}
	placed, end := f.Plan(layout.Start(10, 300), heights)

	var got []int
	pages := layout.Pages(placed)
	for p := 1; p <= end.Page; p++ {
		got = append(got, pages[p]...)
	}
	want := make([]int, len(heights))
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows across pages (-want +got):\n%s", diff)
	}
	if end.Page < 2 {
		t.Fatalf("expected pagination, got %d page(s)", end.Page)
	}
	for _, p := range placed {
		if p.At.Y+heights[p.Index] > layout.A4.Limit()+1e-9 {
			t.Errorf("row %d overflows: y=%v h=%v", p.Index, p.At.Y, heights[p.Index])
		}
		if p.Break && p.At.Y != 180 {
			t.Errorf("row %d resumed at %v, want 180", p.Index, p.At.Y)
		}
	}
}

func TestStateHelpers(t *testing.T) {
	s := layout.Start(10, 40)
	if !s.Fresh || s.Page != 1 {
		t.Fatalf("Start = %+v", s)
	}
	n := s.Down(12.5).At(300)
	if n.Fresh || n.Y != 52.5 || n.X != 300 {
		t.Errorf("Down/At = %+v", n)
	}
	if s.Y != 40 {
		t.Error("Down mutated receiver")
	}
	if c := s.Continue(40); c.Fresh || c.Y != 40 || c.Page != 1 {
		t.Errorf("Continue = %+v", c)
	}
}

func TestContinueAllowsBreak(t *testing.T) {
	f := layout.Flow{Page: layout.A4}
	start := layout.Start(10, 790)
	if at, broke := f.Reserve(start, 50); broke || at != start {
		t.Errorf("fresh page broke: %+v", at)
	}
	at, broke := f.Reserve(start.Continue(790), 50)
	if !broke || at.Page != 2 || at.Y != layout.A4.Top {
		t.Errorf("Reserve after Continue = %+v, broke %v", at, broke)
	}
}
