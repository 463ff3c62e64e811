package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/daviddao/agenda_viewer/internal/agenda"
	"github.com/daviddao/agenda_viewer/internal/datasource"
	"github.com/daviddao/agenda_viewer/internal/ics"
	"github.com/daviddao/agenda_viewer/internal/layout"
	"github.com/daviddao/agenda_viewer/internal/snapshot"
	"github.com/daviddao/agenda_viewer/internal/svg"
)

// jsonOutput is the structure for --json mode: the laid-out scene plus the
// snapshot statistics.
type jsonOutput struct {
	Path      string         `json:"path"`
	Shows     []jsonShow     `json:"shows"`
	Conflicts []jsonConflict `json:"conflicts"`
	Overlaps  []jsonOverlap  `json:"overlaps"`
	Stages    []jsonStage    `json:"stages"`
	Stats     jsonStats      `json:"stats"`
}

type jsonRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonShow struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Stage      string   `json:"stage"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Row        int      `json:"row"`
	Rect       jsonRect `json:"rect"`
	Color      string   `json:"color"`
	Conflicted bool     `json:"conflicted"`
}

// jsonConflict is a drawn conflict region: the overlap of a show with the
// first show it collides with.
type jsonConflict struct {
	Show  string   `json:"show"`
	Other string   `json:"other"`
	Rect  jsonRect `json:"rect"`
}

type jsonOverlap struct {
	A    string `json:"a"`
	B    string `json:"b"`
	From string `json:"from"`
	To   string `json:"to"`
}

type jsonStage struct {
	Name      string  `json:"name"`
	Location  string  `json:"location,omitempty"`
	Shows     int     `json:"shows"`
	Hours     float64 `json:"hours"`
	First     string  `json:"first"`
	Last      string  `json:"last"`
	Conflicts int     `json:"conflicts"`
}

type jsonStats struct {
	TotalShows      int    `json:"total_shows"`
	TotalStages     int    `json:"total_stages"`
	OverlapPairs    int    `json:"overlap_pairs"`
	ConflictedShows int    `json:"conflicted_shows"`
	BuiltAt         string `json:"built_at"`
}

func toJSONRect(r layout.Rect) jsonRect {
	return jsonRect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// buildJSONOutput converts a snapshot and its scene into the JSON output structure.
func buildJSONOutput(snap *snapshot.DataSnapshot, sc *layout.Scene) jsonOutput {
	shows := make([]jsonShow, len(sc.Rects))
	for i, r := range sc.Rects {
		st, _ := snap.Agenda.Stage(r.Show.StageID)
		shows[i] = jsonShow{
			ID:         r.Show.ID.String(),
			Name:       r.Show.Name,
			Artists:    r.Show.Artists,
			Stage:      st.Name,
			Start:      r.Show.Start.String(),
			End:        r.Show.End.String(),
			Row:        r.Row,
			Rect:       toJSONRect(r.Rect),
			Color:      r.Color,
			Conflicted: snap.Conflicted[r.Show.ID],
		}
	}

	conflicts := make([]jsonConflict, len(sc.Conflicts))
	for i, c := range sc.Conflicts {
		conflicts[i] = jsonConflict{
			Show:  sc.Rects[c.Index].Show.Name,
			Other: sc.Rects[c.Other].Show.Name,
			Rect:  toJSONRect(c.Rect),
		}
	}

	pairs := sc.Pairs()
	overlaps := make([]jsonOverlap, len(pairs))
	for i, p := range pairs {
		a, b := sc.Rects[p.A].Show, sc.Rects[p.B].Show
		from, to := overlapSpan(a, b)
		overlaps[i] = jsonOverlap{A: a.Name, B: b.Name, From: from.String(), To: to.String()}
	}

	stages := make([]jsonStage, len(snap.Stages))
	for i, st := range snap.Stages {
		stages[i] = jsonStage{
			Name:      st.Stage.Name,
			Location:  st.Stage.Location,
			Shows:     st.Shows,
			Hours:     st.Hours,
			First:     st.First.String(),
			Last:      st.Last.String(),
			Conflicts: st.Conflicts,
		}
	}

	return jsonOutput{
		Path:      snap.Path,
		Shows:     shows,
		Conflicts: conflicts,
		Overlaps:  overlaps,
		Stages:    stages,
		Stats: jsonStats{
			TotalShows:      snap.TotalShows,
			TotalStages:     snap.TotalStages,
			OverlapPairs:    snap.OverlapPairs,
			ConflictedShows: snap.ConflictedShows,
			BuiltAt:         snap.BuiltAt.Format(time.RFC3339),
		},
	}
}

func writeJSON(w io.Writer, out jsonOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeSVG renders sc to path; "-" writes to stdout.
func writeSVG(path string, sc *layout.Scene, title string) error {
	opts := svg.DefaultOptions()
	opts.Title = title
	doc := svg.Render(sc, opts)
	if path == "-" {
		_, err := io.WriteString(os.Stdout, doc)
		return err
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}

// importICS merges the events of one day from an ICS file into the agenda
// at agendaPath. A missing agenda file is created.
func importICS(w io.Writer, icsPath, agendaPath string, day time.Time, loc *time.Location, logger *slog.Logger) error {
	body, err := os.ReadFile(icsPath)
	if err != nil {
		return err
	}
	events, err := ics.Parse(body, logger)
	if err != nil {
		return fmt.Errorf("parse %s: %w", icsPath, err)
	}
	events, err = ics.OnDay(events, day, loc)
	if err != nil {
		return err
	}

	a, err := datasource.Load(agendaPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		a = agenda.New()
	case err != nil:
		return err
	}

	res, err := ics.Merge(a, events, loc)
	if err != nil {
		return err
	}
	if err := datasource.Save(agendaPath, a); err != nil {
		return err
	}

	logger.Info("ics imported", "file", icsPath, "agenda", agendaPath, "added", res.Added, "skipped", res.Skipped)
	fmt.Fprintf(w, "imported %d show(s) from %s into %s", res.Added, icsPath, agendaPath)
	if res.Skipped > 0 {
		fmt.Fprintf(w, ", skipped %d all-day event(s)", res.Skipped)
	}
	if len(res.NewStages) > 0 {
		fmt.Fprintf(w, ", new stages: %s", strings.Join(res.NewStages, ", "))
	}
	fmt.Fprintln(w)
	return nil
}
