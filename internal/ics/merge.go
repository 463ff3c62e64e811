package ics

import (
	"fmt"
	"time"

	"github.com/daviddao/agenda_viewer/internal/agenda"
)

// DefaultStage receives events without a LOCATION.
const DefaultStage = "Unassigned"

// MergeResult reports what Merge did.
type MergeResult struct {
	Added     int
	Skipped   int
	NewStages []string
}

// Merge adds single-day events to a as shows. Missing stages are created.
// All-day events are skipped. An event ending after midnight is cut at
// 24:00. Events without artists use their summary as the artist.
func Merge(a *agenda.Agenda, events []Event, loc *time.Location) (MergeResult, error) {
	if loc == nil {
		loc = time.Local
	}
	var res MergeResult
	for _, ev := range events {
		if ev.AllDay {
			res.Skipped++
			continue
		}

		name := ev.Location
		if name == "" {
			name = DefaultStage
		}
		st, ok := a.StageByName(name)
		if !ok {
			st = agenda.NewStage(name, "")
			if err := a.AddStage(st); err != nil {
				return res, fmt.Errorf("event %q: %w", ev.Summary, err)
			}
			res.NewStages = append(res.NewStages, name)
		}

		start := ev.Start.In(loc)
		end := ev.End.In(loc)
		from := agenda.At(start.Hour(), start.Minute())
		until := agenda.At(end.Hour(), end.Minute())
		if end.YearDay() != start.YearDay() || end.Year() != start.Year() {
			until = agenda.At(24, 0)
		}

		artists := ev.Artists
		if len(artists) == 0 {
			artists = []string{ev.Summary}
		}
		if err := a.AddShow(agenda.NewShow(ev.Summary, artists, st, from, until)); err != nil {
			return res, fmt.Errorf("event %q: %w", ev.Summary, err)
		}
		res.Added++
	}
	return res, nil
}
