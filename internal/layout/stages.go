package layout

import (
	"github.com/google/uuid"

	"github.com/daviddao/agenda_viewer/internal/agenda"
)

// Source is what the layout engine reads from a schedule.
type Source interface {
	Shows() []agenda.Show
	Stage(id uuid.UUID) (agenda.Stage, bool)
}

// StageIndex maps each stage in use to its row.
type StageIndex struct {
	stages []agenda.Stage
	rows   map[uuid.UUID]int
}

// BuildStageIndex collects the distinct stages referenced by src's shows,
// in order of first appearance. Stages without shows get no row. A show
// whose stage the source cannot resolve still gets a row, labelled with
// an empty name.
func BuildStageIndex(src Source) StageIndex {
	idx := StageIndex{rows: make(map[uuid.UUID]int)}
	for _, s := range src.Shows() {
		if _, seen := idx.rows[s.StageID]; seen {
			continue
		}
		st, ok := src.Stage(s.StageID)
		if !ok {
			st = agenda.Stage{ID: s.StageID}
		}
		idx.rows[s.StageID] = len(idx.stages)
		idx.stages = append(idx.stages, st)
	}
	return idx
}

// Row returns the row assigned to the stage.
func (x StageIndex) Row(id uuid.UUID) (int, bool) {
	r, ok := x.rows[id]
	return r, ok
}

// Len returns the number of rows.
func (x StageIndex) Len() int {
	return len(x.stages)
}

// Stages returns the stages in row order.
func (x StageIndex) Stages() []agenda.Stage {
	return append([]agenda.Stage(nil), x.stages...)
}
