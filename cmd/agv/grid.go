package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/daviddao/agenda_viewer/internal/layout"
	"github.com/daviddao/agenda_viewer/internal/viewport"
)

// --- Grid rasterizer ---
//
// The agenda grid is drawn in layout units and sampled into terminal
// cells, each cellW x cellH units. The viewport supplies the layout to
// screen mapping.

type cell struct {
	ch   rune
	fg   string
	bg   string
	bold bool
}

type canvas struct {
	cols, rows   int
	cellW, cellH float64
	vp           *viewport.Viewport
	cells        []cell
}

const (
	gridFg     = "#1E1E2E"
	gridLabel  = "#CDD6F4"
	gridStripe = "#313244"
	gridLine   = "#45475A"
)

func newCanvas(cols, rows int, cellW, cellH float64, vp *viewport.Viewport) *canvas {
	c := &canvas{cols: cols, rows: rows, cellW: cellW, cellH: cellH, vp: vp}
	c.cells = make([]cell, cols*rows)
	for i := range c.cells {
		c.cells[i] = cell{ch: ' '}
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return nil
	}
	return &c.cells[y*c.cols+x]
}

// toCell maps a layout point to the cell containing it.
func (c *canvas) toCell(x, y float64) (int, int) {
	sx, sy := c.vp.LayoutToScreen(x, y)
	return int(math.Floor(sx / c.cellW)), int(math.Floor(sy / c.cellH))
}

// span returns the cells covered by a layout rectangle: [x0,x1) x [y0,y1).
// Edges are rounded to the nearest cell boundary; a rectangle with area
// always covers at least one cell.
func (c *canvas) span(r layout.Rect) (x0, y0, x1, y1 int) {
	sx, sy := c.vp.LayoutToScreen(r.X, r.Y)
	x0 = int(math.Round(sx / c.cellW))
	y0 = int(math.Round(sy / c.cellH))
	x1 = int(math.Round((sx + r.W) / c.cellW))
	y1 = int(math.Round((sy + r.H) / c.cellH))
	if !r.Empty() {
		if x1 <= x0 {
			x1 = x0 + 1
		}
		if y1 <= y0 {
			y1 = y0 + 1
		}
	}
	return
}

func (c *canvas) fill(r layout.Rect, ch rune, fg, bg string) {
	x0, y0, x1, y1 := c.span(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if p := c.at(x, y); p != nil {
				*p = cell{ch: ch, fg: fg, bg: bg}
			}
		}
	}
}

// text writes s starting at cell (x, y), at most width cells, keeping the
// background already there. Longer text ends in "...".
func (c *canvas) text(x, y int, s string, width int, fg string, bold bool) {
	r := []rune(s)
	if width <= 0 {
		return
	}
	if len(r) > width {
		if width <= 3 {
			r = r[:width]
		} else {
			r = append(r[:width-3:width-3], '.', '.', '.')
		}
	}
	for i, ch := range r {
		if p := c.at(x+i, y); p != nil {
			p.ch = ch
			p.fg = fg
			p.bold = bold
		}
	}
}

func (c *canvas) hline(y int, ch rune, fg string) {
	for x := 0; x < c.cols; x++ {
		if p := c.at(x, y); p != nil {
			p.ch = ch
			p.fg = fg
		}
	}
}

// drawScene paints sc in the fixed order: hour bar, stage rows, then each
// show followed by its conflict region. Edges and text go on top.
func drawScene(c *canvas, sc *layout.Scene, selected layout.Selection) {
	g := sc.Geometry

	// Hour bar.
	for i, l := range sc.HourLabels {
		if i%2 == 0 {
			c.fill(layout.Rect{X: float64(i) * sc.HourWidth, Y: g.TopMargin, W: sc.HourWidth, H: -g.TopMargin},
				' ', gridLabel, gridStripe)
		}
		cx, cy := c.toCell(l.X, l.Y)
		c.text(cx-len(l.Text)/2, cy, l.Text, len(l.Text), gridLabel, false)
	}

	// Stage rows.
	for i, y := range sc.RowLines {
		_, cy := c.toCell(0, y)
		c.hline(cy, '─', gridLine)
		l := sc.Labels[i]
		cx, ly := c.toCell(l.X, l.Y)
		labelCols := int(-g.LeftMargin/c.cellW) - 2
		c.text(cx, ly, l.Text, labelCols, gridLabel, true)
	}

	// Shows.
	overlays := make(map[int]layout.Region, len(sc.Conflicts))
	for _, r := range sc.Conflicts {
		overlays[r.Index] = r
	}
	for i, r := range sc.Rects {
		edge := '│'
		if selected[r.Show.ID] {
			edge = '┃'
		}
		c.fill(r.Rect, ' ', gridFg, r.Color)
		if o, ok := overlays[i]; ok {
			c.fill(o.Rect, '░', gridFg, o.Color)
		}
		x0, y0, x1, y1 := c.span(r.Rect)
		for y := y0; y < y1; y++ {
			if p := c.at(x0, y); p != nil {
				p.ch = edge
			}
		}
		width := x1 - x0 - 1
		c.text(x0+1, y0, r.Show.Name, width, gridFg, true)
		if y1-y0 > 1 {
			c.text(x0+1, y0+1, r.Show.ArtistLine(), width, gridFg, false)
		}
		if y1-y0 > 2 {
			c.text(x0+1, y0+2, r.Show.Start.String()+"-"+r.Show.End.String(), width, gridFg, false)
		}
	}
}

// render turns the cells into lines, styling runs of equal cells together.
func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteRune('\n')
		}
		row := c.cells[y*c.cols : (y+1)*c.cols]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && sameStyle(row[x], row[start]) {
				continue
			}
			b.WriteString(cellStyle(row[start]).Render(runText(row[start:x])))
			start = x
		}
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

func runText(cells []cell) string {
	r := make([]rune, len(cells))
	for i, c := range cells {
		r[i] = c.ch
	}
	return string(r)
}

func cellStyle(c cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.fg != "" {
		s = s.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		s = s.Background(lipgloss.Color(c.bg))
	}
	if c.bold {
		s = s.Bold(true)
	}
	return s
}
