// Package layout turns an agenda into grid geometry.
//
// Layout space has one row per stage in use (y grows downward, one row is
// Geometry.RowHeight tall) and time on the x axis (one hour is the
// effective hour width wide, starting at midnight). The Scene produced by
// Build is everything a render pass needs: show rectangles, conflict
// regions, stage labels, and hour labels.
package layout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/daviddao/agenda_viewer/internal/agenda"
)

// Params controls one rebuild.
type Params struct {
	Geometry  Geometry
	HourWidth float64 // effective width of an hour; Geometry.HourWidth when zero
	Selection Selection
	Palette   Palette
}

// Label is a piece of text anchored at a layout-space point.
type Label struct {
	Text string
	X, Y float64
}

// Scene is the result of one layout rebuild. It is not modified after
// Build returns.
type Scene struct {
	Geometry   Geometry
	HourWidth  float64
	Stages     []agenda.Stage
	Rects      []Rectangle
	Conflicts  []Region
	Labels     []Label // stage names, one per row
	HourLabels []Label // "H.00", one per hour, centred in the hour
	RowLines   []float64
}

// Build runs the full pipeline: stage index, show mapping, conflict
// detection, and labels. The same input always yields an equal Scene.
func Build(src Source, p Params) *Scene {
	g := p.Geometry.Normalize()
	hw := p.HourWidth
	if hw <= 0 {
		hw = g.HourWidth
	}

	idx := BuildStageIndex(src)
	shows := src.Shows()

	sc := &Scene{
		Geometry:  g,
		HourWidth: hw,
		Stages:    idx.Stages(),
		Rects:     make([]Rectangle, 0, len(shows)),
	}
	for _, s := range shows {
		sc.Rects = append(sc.Rects, MapShow(s, idx, hw, g, p.Selection, p.Palette))
	}
	sc.Conflicts = FindConflicts(sc.Rects, p.Palette.Conflict)

	for i, st := range sc.Stages {
		bottom := g.RowHeight * float64(i+1)
		sc.RowLines = append(sc.RowLines, bottom)
		sc.Labels = append(sc.Labels, Label{
			Text: st.Name,
			X:    g.LeftMargin + 10,
			Y:    bottom - g.RowHeight/2,
		})
	}

	hours := int(g.SpanHours)
	for h := 0; h < hours; h++ {
		sc.HourLabels = append(sc.HourLabels, Label{
			Text: HourLabel(h),
			X:    float64(h)*hw + hw/2,
			Y:    g.TopMargin / 2,
		})
	}
	return sc
}

// HourLabel formats an hour of the time axis ("9.00").
func HourLabel(h int) string {
	return fmt.Sprintf("%d.00", h)
}

// Rows returns the number of stage rows.
func (s *Scene) Rows() int {
	return len(s.Stages)
}

// ShowAt returns the show whose rectangle contains the layout-space point.
// The first match in rectangle order wins.
func (s *Scene) ShowAt(x, y float64) (agenda.Show, bool) {
	for _, r := range s.Rects {
		if r.Contains(x, y) {
			return r.Show, true
		}
	}
	return agenda.Show{}, false
}

// RectFor returns the rectangle of a show.
func (s *Scene) RectFor(id uuid.UUID) (Rectangle, bool) {
	for _, r := range s.Rects {
		if r.Show.ID == id {
			return r, true
		}
	}
	return Rectangle{}, false
}

// ConflictFor returns the first-match conflict region drawn for a show.
func (s *Scene) ConflictFor(id uuid.UUID) (Region, bool) {
	for _, c := range s.Conflicts {
		if s.Rects[c.Index].Show.ID == id {
			return c, true
		}
	}
	return Region{}, false
}

// Pairs lists every overlapping pair of shows in the scene.
func (s *Scene) Pairs() []Pair {
	return OverlapPairs(s.Rects)
}
