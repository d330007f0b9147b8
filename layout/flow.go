package layout

import (
	"errors"
	"iter"
	"strings"
)

// ErrNilMeasure is returned by New when no MeasureFunc is supplied.
var ErrNilMeasure = errors.New("layout: nil measure function")

// MeasureFunc returns the horizontal advance of a word followed by one space,
// in the same unit as the Geometry.
type MeasureFunc func(word string) float64

// FixedWidth returns a MeasureFunc that gives every word the same advance.
func FixedWidth(width float64) MeasureFunc {
	return func(string) float64 { return width }
}

// DrawCommand places one word. X and Y are the left end of the baseline.
type DrawCommand struct {
	Word string
	X    float64
	Y    float64
	Page int
}

// Result is a fully materialized layout.
type Result struct {
	Commands []DrawCommand
	Pages    int
}

// Flow is a validated layout of one text. It holds no cursor of its own;
// every call to Commands lays the text out again from the top of page 0,
// so a Flow can be ranged over any number of times and shared between
// goroutines.
type Flow struct {
	text     string
	geometry Geometry
	measure  MeasureFunc
}

// New validates the geometry and returns a Flow for text. Nothing is
// measured until the commands are consumed.
func New(text string, g Geometry, measure MeasureFunc) (*Flow, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if measure == nil {
		return nil, ErrNilMeasure
	}
	return &Flow{text: text, geometry: g, measure: measure}, nil
}

// Geometry returns the geometry the flow was built with.
func (f *Flow) Geometry() Geometry {
	return f.geometry
}

// Text returns the source text.
func (f *Flow) Text() string {
	return f.text
}

// Commands returns the draw commands in emission order.
func (f *Flow) Commands() iter.Seq[DrawCommand] {
	return func(yield func(DrawCommand) bool) {
		f.run(yield)
	}
}

// PageCount lays the text out and returns the number of pages it needs.
// Empty text needs one page.
func (f *Flow) PageCount() int {
	end := f.run(func(DrawCommand) bool { return true })
	return end.Page + 1
}

// Layout materializes every command together with the page count.
func (f *Flow) Layout() Result {
	var cmds []DrawCommand
	end := f.run(func(c DrawCommand) bool {
		cmds = append(cmds, c)
		return true
	})
	return Result{Commands: cmds, Pages: end.Page + 1}
}

// run walks the text and calls yield for every placed word. It stops early
// when yield returns false and returns the cursor where layout ended.
//
// Every paragraph, the last one included, ends with a line break, so a
// final break that crosses the bottom margin counts a new page.
func (f *Flow) run(yield func(DrawCommand) bool) Cursor {
	g := f.geometry
	cur := newCursor(g)

	for paragraph := range strings.SplitSeq(f.text, "\n") {
		for word := range strings.FieldsSeq(paragraph) {
			width := f.measure(word)
			if cur.X+width > g.MaxWidth {
				cur.lineBreak(g)
			}
			if !yield(DrawCommand{Word: word, X: cur.X, Y: cur.Y, Page: cur.Page}) {
				return cur
			}
			cur.X += width
		}
		cur.lineBreak(g)
	}
	return cur
}
