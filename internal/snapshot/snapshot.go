// Package snapshot builds immutable views of an agenda file.
//
// A DataSnapshot captures the agenda plus precomputed statistics at a
// point in time. Snapshots are rebuilt on each file change and swapped
// whole into the UI model; nothing mutates one after Build returns.
package snapshot

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/daviddao/agenda_viewer/internal/agenda"
	"github.com/daviddao/agenda_viewer/internal/datasource"
	"github.com/daviddao/agenda_viewer/internal/layout"
)

// StageStats summarises one stage that has shows.
type StageStats struct {
	Stage     agenda.Stage
	Shows     int
	Hours     float64 // total scheduled hours
	First     agenda.TimeOfDay
	Last      agenda.TimeOfDay
	Conflicts int // overlapping pairs on this stage
}

// DataSnapshot is an immutable, self-contained view of an agenda.
type DataSnapshot struct {
	Path   string
	Agenda *agenda.Agenda

	// Stages in row order, as the grid shows them.
	Stages []StageStats

	// Counts.
	TotalShows      int
	TotalStages     int // registered, including stages without shows
	OverlapPairs    int
	ConflictedShows int

	// Conflicted holds the IDs of shows that overlap another show.
	Conflicted map[uuid.UUID]bool

	// ModTime is the agenda file's modification time when it was read;
	// zero for snapshots of in-memory agendas.
	ModTime time.Time

	// Timestamp of snapshot creation.
	BuiltAt time.Time
}

// Option configures how a snapshot is computed.
type Option func(*options)

type options struct {
	geom layout.Geometry
}

// WithGeometry lays the agenda out with g, so conflict statistics match a
// grid drawn with the same measurements.
func WithGeometry(g layout.Geometry) Option {
	return func(o *options) { o.geom = g }
}

// Build loads the agenda at path and returns a complete snapshot.
func Build(path string, opts ...Option) (*DataSnapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	a, err := datasource.Load(path)
	if err != nil {
		return nil, err
	}
	snap := FromAgenda(path, a, opts...)
	snap.ModTime = info.ModTime()
	return snap, nil
}

// FromAgenda snapshots an in-memory agenda. The agenda is cloned, so later
// edits by the caller do not leak into the snapshot.
func FromAgenda(path string, a *agenda.Agenda, opts ...Option) *DataSnapshot {
	o := options{geom: layout.DefaultGeometry()}
	for _, opt := range opts {
		opt(&o)
	}
	a = a.Clone()
	sc := layout.Build(a, layout.Params{Geometry: o.geom})
	pairs := sc.Pairs()

	snap := &DataSnapshot{
		Path:         path,
		Agenda:       a,
		TotalShows:   a.Len(),
		TotalStages:  len(a.Stages()),
		OverlapPairs: len(pairs),
		Conflicted:   make(map[uuid.UUID]bool),
		BuiltAt:      time.Now(),
	}

	stats := make([]StageStats, len(sc.Stages))
	for i, st := range sc.Stages {
		stats[i].Stage = st
	}
	for _, r := range sc.Rects {
		s := &stats[r.Row]
		if s.Shows == 0 || r.Show.Start.Before(s.First) {
			s.First = r.Show.Start
		}
		if s.Shows == 0 || s.Last.Before(r.Show.End) {
			s.Last = r.Show.End
		}
		s.Shows++
		s.Hours += r.Show.Duration()
	}
	for _, p := range pairs {
		stats[sc.Rects[p.A].Row].Conflicts++
		snap.Conflicted[sc.Rects[p.A].Show.ID] = true
		snap.Conflicted[sc.Rects[p.B].Show.ID] = true
	}
	snap.Stages = stats
	snap.ConflictedShows = len(snap.Conflicted)
	return snap
}
