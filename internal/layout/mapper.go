package layout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/daviddao/agenda_viewer/internal/agenda"
)

// Palette holds the fill colours of the grid as "#RRGGBB" strings.
//
// Show is the normal fill and Focus marks shows in the selection set.
// The config file keeps the historical key names (selected_color for
// Show, unselected_color for Focus).
type Palette struct {
	Show     string
	Focus    string
	Conflict string
}

// DefaultPalette returns the stock colours.
func DefaultPalette() Palette {
	return Palette{
		Show:     "#45CBE6",
		Focus:    "#5FB336",
		Conflict: "#E64545",
	}
}

// Selection is a set of show IDs chosen by the user.
type Selection map[uuid.UUID]bool

// Rectangle is the grid geometry of one show.
type Rectangle struct {
	Rect
	Show  agenda.Show
	Row   int
	Color string
}

// ShowID returns the ID of the source show.
func (r Rectangle) ShowID() uuid.UUID {
	return r.Show.ID
}

// MapShow places a show on the grid. The show's stage must be in idx;
// anything else is a caller bug and panics.
func MapShow(s agenda.Show, idx StageIndex, hourWidth float64, g Geometry, sel Selection, pal Palette) Rectangle {
	row, ok := idx.Row(s.StageID)
	if !ok {
		panic(fmt.Sprintf("layout: show %q (%s) references stage %s missing from the stage index",
			s.Name, s.ID, s.StageID))
	}

	x0 := s.Start.Hours() * hourWidth
	x1 := s.End.Hours() * hourWidth

	color := pal.Show
	if sel[s.ID] {
		color = pal.Focus
	}

	return Rectangle{
		Rect: Rect{
			X: x0,
			Y: float64(row)*g.RowHeight + g.RowPadding,
			W: x1 - x0,
			H: g.ContentHeight,
		},
		Show:  s,
		Row:   row,
		Color: color,
	}
}
