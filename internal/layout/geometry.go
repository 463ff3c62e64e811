package layout

import "math"

// Geometry holds the fixed measurements of the agenda grid in layout units.
type Geometry struct {
	RowHeight     float64 // height of one stage row
	RowPadding    float64 // gap between a row's top edge and its shows
	ContentHeight float64 // height of a show rectangle
	HourWidth     float64 // width of one hour at zoom 1
	SpanHours     float64 // hours on the time axis
	LeftMargin    float64 // negative; room for stage labels
	TopMargin     float64 // negative; room for hour labels
	BottomMargin  float64 // extra space below the last row
}

// DefaultGeometry returns the stock grid measurements.
func DefaultGeometry() Geometry {
	return Geometry{
		RowHeight:     80,
		RowPadding:    5,
		ContentHeight: 70,
		HourWidth:     60,
		SpanHours:     24,
		LeftMargin:    -100,
		TopMargin:     -50,
		BottomMargin:  50,
	}
}

// Normalize replaces unusable values with defaults. Padding and content
// that overflow the row are rescaled to the default proportions.
func (g Geometry) Normalize() Geometry {
	d := DefaultGeometry()
	if g.RowHeight <= 0 {
		g.RowHeight = d.RowHeight
	}
	if g.RowPadding < 0 {
		g.RowPadding = d.RowPadding
	}
	if g.ContentHeight <= 0 {
		g.ContentHeight = d.ContentHeight
	}
	if g.HourWidth <= 0 {
		g.HourWidth = d.HourWidth
	}
	if g.SpanHours <= 0 {
		g.SpanHours = d.SpanHours
	}
	// Shows must stay inside their own row, or shows on neighbouring
	// stages would intersect.
	if g.RowPadding+g.ContentHeight > g.RowHeight {
		g.RowPadding = g.RowHeight * d.RowPadding / d.RowHeight
		g.ContentHeight = g.RowHeight * d.ContentHeight / d.RowHeight
	}
	return g
}

// Rect is an axis-aligned rectangle in layout space.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether r and o share interior area. Rectangles that
// only touch along an edge, and empty rectangles, never intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Intersect returns the overlap of r and o. The result is empty when they
// do not intersect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.W, o.X+o.W)
	y1 := math.Min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether the point lies inside r. The left and top edges
// are inside, the right and bottom edges are not.
func (r Rect) Contains(x, y float64) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}
