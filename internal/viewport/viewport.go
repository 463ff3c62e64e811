// Package viewport owns the camera over the agenda grid: the pan/zoom
// transform, the scrollable bounds, and the drag state machine.
//
// All coordinates are layout units. A screen point p maps to layout space
// as p + (MinX, MinY) - (TX, TY). Horizontal zoom is not part of that
// inverse: it is applied by widening the hour when the scene is built
// (see HourWidth), so hit-testing stays a pure translation.
package viewport

import "github.com/daviddao/agenda_viewer/internal/layout"

// Transform is the camera state. SY is always 1.
type Transform struct {
	TX, TY float64
	SX, SY float64
}

// Bounds is the scrollable extent of layout space.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Mode is the pointer interaction state.
type Mode int

const (
	Idle Mode = iota
	Panning
)

func (m Mode) String() string {
	if m == Panning {
		return "panning"
	}
	return "idle"
}

// ComputeBounds returns the scrollable extent for a canvas and the hour
// width to lay out with. When a day at hourWidth would not fill the
// canvas, the hour is widened until it does.
func ComputeBounds(canvasW, canvasH float64, rows int, spanHours, hourWidth float64, g layout.Geometry) (Bounds, float64) {
	g = g.Normalize()
	if spanHours <= 0 {
		spanHours = 24
	}
	if hourWidth <= 0 {
		hourWidth = g.HourWidth
	}
	if (canvasW+g.LeftMargin)/(spanHours*hourWidth) > 1 {
		hourWidth = (canvasW + g.LeftMargin) / spanHours
	}

	b := Bounds{
		MinX: g.LeftMargin,
		MinY: g.TopMargin,
		MaxX: spanHours * hourWidth,
	}
	content := float64(rows) * g.RowHeight
	if canvasH > content {
		b.MaxY = canvasH
	} else {
		b.MaxY = content + g.BottomMargin
	}
	return b, hourWidth
}

// Viewport is a value owned by the UI model. Use New to get a usable one.
type Viewport struct {
	geom    layout.Geometry
	canvasW float64
	canvasH float64
	rows    int

	t         Transform
	bounds    Bounds
	hourWidth float64

	mode         Mode
	lastX, lastY float64
	moved        bool
}

// New returns an idle viewport at the origin with no zoom.
func New(g layout.Geometry) Viewport {
	v := Viewport{geom: g.Normalize(), t: Transform{SX: 1, SY: 1}}
	v.recompute()
	return v
}

// Resize sets the canvas size in layout units and the number of stage
// rows. The translation is pulled back inside the new bounds.
func (v *Viewport) Resize(canvasW, canvasH float64, rows int) {
	v.canvasW = canvasW
	v.canvasH = canvasH
	v.rows = rows
	v.recompute()
	v.t.TX = clamp(v.t.TX, v.minTX(), 1)
	v.t.TY = clamp(v.t.TY, v.minTY(), 1)
}

func (v *Viewport) recompute() {
	base := v.geom.HourWidth * v.t.SX
	v.bounds, v.hourWidth = ComputeBounds(v.canvasW, v.canvasH, v.rows, v.geom.SpanHours, base, v.geom)
	// Auto-fill counts as zoom.
	v.t.SX = v.hourWidth / v.geom.HourWidth
}

// HourWidth is the effective width of one hour for the next scene build.
func (v *Viewport) HourWidth() float64 { return v.hourWidth }

func (v *Viewport) Bounds() Bounds { return v.bounds }

func (v *Viewport) Transform() Transform { return v.t }

func (v *Viewport) Mode() Mode { return v.mode }

// Geometry returns the grid measurements the viewport was created with.
func (v *Viewport) Geometry() layout.Geometry { return v.geom }

// Canvas returns the canvas size in layout units.
func (v *Viewport) Canvas() (w, h float64) { return v.canvasW, v.canvasH }

func (v *Viewport) minTX() float64 {
	return -(v.bounds.MaxX - v.bounds.MinX - v.canvasW)
}

func (v *Viewport) minTY() float64 {
	return -(v.bounds.MaxY - v.bounds.MinY - v.canvasH)
}

func (v *Viewport) inBounds(dx, dy float64) bool {
	x := v.t.TX + dx
	y := v.t.TY + dy
	return x <= 1 && x >= v.minTX() && y <= 1 && y >= v.minTY()
}

// ProposePan translates the camera by (dx, dy) if the result stays inside
// the bounds on both axes. A rejected delta is dropped whole.
func (v *Viewport) ProposePan(dx, dy float64) bool {
	if !v.inBounds(dx, dy) {
		return false
	}
	v.t.TX += dx
	v.t.TY += dy
	return true
}

// ProposeZoom multiplies the horizontal scale by factor. Zoom is not
// clamped; it returns to the origin and recomputes the bounds. Factors
// <= 0 are ignored.
func (v *Viewport) ProposeZoom(factor float64) bool {
	if factor <= 0 {
		return false
	}
	v.t.SX *= factor
	v.t.TX, v.t.TY = 0, 0
	v.recompute()
	return true
}

// Reset drops zoom and translation.
func (v *Viewport) Reset() {
	v.t = Transform{SX: 1, SY: 1}
	v.mode = Idle
	v.recompute()
}

// BeginPan enters the Panning state at a screen point.
func (v *Viewport) BeginPan(x, y float64) {
	v.mode = Panning
	v.lastX, v.lastY = x, y
	v.moved = false
}

// DragTo proposes the movement since the previous drag point. The drag
// point advances even when the pan is rejected. Outside Panning it does
// nothing.
func (v *Viewport) DragTo(x, y float64) bool {
	if v.mode != Panning {
		return false
	}
	dx, dy := x-v.lastX, y-v.lastY
	v.lastX, v.lastY = x, y
	if dx == 0 && dy == 0 {
		return false
	}
	v.moved = true
	return v.ProposePan(dx, dy)
}

// EndPan returns to Idle and reports whether the pointer moved while the
// button was down. A pan that never moved is a click.
func (v *Viewport) EndPan() bool {
	moved := v.moved
	v.mode = Idle
	v.moved = false
	return moved
}

// ScreenToLayout maps a canvas point to layout space.
func (v *Viewport) ScreenToLayout(x, y float64) (float64, float64) {
	return x + v.bounds.MinX - v.t.TX, y + v.bounds.MinY - v.t.TY
}

// LayoutToScreen is the inverse of ScreenToLayout.
func (v *Viewport) LayoutToScreen(x, y float64) (float64, float64) {
	return x - v.bounds.MinX + v.t.TX, y - v.bounds.MinY + v.t.TY
}

func clamp(x, lo, hi float64) float64 {
	if lo > hi {
		return hi
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
