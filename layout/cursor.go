package layout

// Cursor is the position where the next word will be placed.
type Cursor struct {
	X    float64
	Y    float64
	Page int
}

func newCursor(g Geometry) Cursor {
	return Cursor{X: g.LeftMargin, Y: g.TopStart}
}

// lineBreak moves to the start of the next line and starts a new page when
// the line would fall below the bottom margin.
func (c *Cursor) lineBreak(g Geometry) {
	c.X = g.LeftMargin
	c.Y -= g.LineHeight
	if c.Y < g.BottomMargin {
		c.Page++
		c.Y = g.TopStart
	}
}
