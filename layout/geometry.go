// Package layout flows plain text into positioned words on fixed-size pages.
//
// The layout is greedy: words are placed left to right until the next one
// would cross the right edge, then the cursor drops one line. When the
// cursor drops below the bottom margin a new page begins. Words are never
// split. Coordinates use a bottom-left origin, so y decreases as the text
// moves down the page.
//
// Font metrics are injected through a MeasureFunc, which keeps this package
// free of any drawing backend.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a Geometry cannot be laid out.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// Default geometry values in points.
const (
	DefaultLeftMargin   = 100
	DefaultTopStart     = 800
	DefaultBottomMargin = 50
	DefaultMaxWidth     = 500
	DefaultLineHeight   = 15
)

// Geometry describes the printable area of a page.
//
// MaxWidth is an absolute x coordinate, not a width relative to LeftMargin:
// a word fits when its right edge is at or before MaxWidth.
type Geometry struct {
	LeftMargin   float64 `yaml:"left_margin"`
	TopStart     float64 `yaml:"top_start"`
	BottomMargin float64 `yaml:"bottom_margin"`
	MaxWidth     float64 `yaml:"max_width"`
	LineHeight   float64 `yaml:"line_height"`
}

// DefaultGeometry returns the geometry used for summary documents.
func DefaultGeometry() Geometry {
	return Geometry{
		LeftMargin:   DefaultLeftMargin,
		TopStart:     DefaultTopStart,
		BottomMargin: DefaultBottomMargin,
		MaxWidth:     DefaultMaxWidth,
		LineHeight:   DefaultLineHeight,
	}
}

// GeometryError reports which Geometry field was rejected.
// It matches ErrInvalidGeometry with errors.Is.
type GeometryError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s = %g %s", ErrInvalidGeometry, e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidGeometry.
func (e *GeometryError) Is(target error) bool {
	return target == ErrInvalidGeometry
}

// Validate rejects geometry that would keep the layout from making progress.
func (g Geometry) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"left_margin", g.LeftMargin},
		{"top_start", g.TopStart},
		{"bottom_margin", g.BottomMargin},
		{"max_width", g.MaxWidth},
		{"line_height", g.LineHeight},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &GeometryError{Field: f.name, Value: f.value, Reason: "is not a finite number"}
		}
	}

	if g.LineHeight <= 0 {
		return &GeometryError{Field: "line_height", Value: g.LineHeight, Reason: "must be greater than 0"}
	}
	if g.MaxWidth <= g.LeftMargin {
		return &GeometryError{
			Field:  "max_width",
			Value:  g.MaxWidth,
			Reason: fmt.Sprintf("must be greater than left_margin (%g)", g.LeftMargin),
		}
	}
	return nil
}

// LineWidth is the horizontal space available to a line.
func (g Geometry) LineWidth() float64 {
	return g.MaxWidth - g.LeftMargin
}

// LinesPerPage is the number of lines that fit between TopStart and
// BottomMargin, counting the first line at TopStart. It returns at least 1.
func (g Geometry) LinesPerPage() int {
	if g.LineHeight <= 0 || g.TopStart < g.BottomMargin {
		return 1
	}
	return int(math.Floor((g.TopStart-g.BottomMargin)/g.LineHeight)) + 1
}
