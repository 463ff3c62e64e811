// Package agenda holds the festival schedule model: stages, shows, and the
// agenda that owns them.
//
// Stages and shows are identified by generated UUIDs rather than by
// pointer identity, so an Agenda can be copied, serialized, and handed to
// a background loader without aliasing.
package agenda

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Agenda errors.
var (
	ErrDuplicateShow  = errors.New("show already in agenda")
	ErrDuplicateStage = errors.New("stage name already registered")
	ErrUnknownStage   = errors.New("stage not registered")
	ErrNoArtists      = errors.New("show needs at least one artist")
	ErrEmptyName      = errors.New("name is empty")
	ErrShowNotFound   = errors.New("show not found")
	ErrInvalidTime    = errors.New("invalid time of day")
)

// Stage is a named performance location (a podium).
type Stage struct {
	ID       uuid.UUID
	Name     string
	Location string
}

// NewStage creates a Stage with a fresh ID.
func NewStage(name, location string) Stage {
	return Stage{ID: uuid.New(), Name: name, Location: location}
}

// Show is one scheduled performance on a stage.
type Show struct {
	ID      uuid.UUID
	Name    string
	Artists []string
	StageID uuid.UUID
	Start   TimeOfDay
	End     TimeOfDay
}

// NewShow creates a Show with a fresh ID.
func NewShow(name string, artists []string, stage Stage, start, end TimeOfDay) Show {
	return Show{
		ID:      uuid.New(),
		Name:    name,
		Artists: append([]string(nil), artists...),
		StageID: stage.ID,
		Start:   start,
		End:     end,
	}
}

// ArtistLine joins the performers for display.
func (s Show) ArtistLine() string {
	return strings.Join(s.Artists, ", ")
}

// Duration returns the show length in hours. Malformed intervals give a
// zero or negative result.
func (s Show) Duration() float64 {
	return s.End.Hours() - s.Start.Hours()
}

// Agenda is the full set of shows for an event plus the stage registry.
// The zero value is ready to use.
type Agenda struct {
	stages []Stage
	shows  []Show
}

// New returns an empty agenda.
func New() *Agenda {
	return &Agenda{}
}

// AddStage registers a stage. Stage names are unique.
func (a *Agenda) AddStage(st Stage) error {
	if strings.TrimSpace(st.Name) == "" {
		return fmt.Errorf("stage: %w", ErrEmptyName)
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	for _, existing := range a.stages {
		if existing.ID == st.ID || existing.Name == st.Name {
			return fmt.Errorf("stage %q: %w", st.Name, ErrDuplicateStage)
		}
	}
	a.stages = append(a.stages, st)
	return nil
}

// Stage looks a stage up by ID.
func (a *Agenda) Stage(id uuid.UUID) (Stage, bool) {
	for _, st := range a.stages {
		if st.ID == id {
			return st, true
		}
	}
	return Stage{}, false
}

// StageByName looks a stage up by its name.
func (a *Agenda) StageByName(name string) (Stage, bool) {
	for _, st := range a.stages {
		if st.Name == name {
			return st, true
		}
	}
	return Stage{}, false
}

// Stages returns the registered stages in registration order, including
// stages that have no shows.
func (a *Agenda) Stages() []Stage {
	return append([]Stage(nil), a.stages...)
}

// AddShow appends a show. The show's stage must be registered.
func (a *Agenda) AddShow(s Show) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("show: %w", ErrEmptyName)
	}
	if len(s.Artists) == 0 {
		return fmt.Errorf("show %q: %w", s.Name, ErrNoArtists)
	}
	if _, ok := a.Stage(s.StageID); !ok {
		return fmt.Errorf("show %q: %w", s.Name, ErrUnknownStage)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if a.indexOf(s.ID) >= 0 {
		return fmt.Errorf("show %q: %w", s.Name, ErrDuplicateShow)
	}
	s.Artists = append([]string(nil), s.Artists...)
	a.shows = append(a.shows, s)
	return nil
}

// RemoveShow deletes the show with the given ID and reports whether it
// was present.
func (a *Agenda) RemoveShow(id uuid.UUID) bool {
	i := a.indexOf(id)
	if i < 0 {
		return false
	}
	a.shows = append(a.shows[:i], a.shows[i+1:]...)
	return true
}

// ReplaceShow removes the show with s.ID and adds s. The replacement goes
// to the end of the iteration order. If s fails validation the agenda is
// left unchanged.
func (a *Agenda) ReplaceShow(s Show) error {
	i := a.indexOf(s.ID)
	if i < 0 {
		return fmt.Errorf("show %q: %w", s.Name, ErrShowNotFound)
	}
	old := a.shows[i]
	a.RemoveShow(s.ID)
	if err := a.AddShow(s); err != nil {
		a.shows = append(a.shows[:i], append([]Show{old}, a.shows[i:]...)...)
		return err
	}
	return nil
}

// Show looks a show up by ID.
func (a *Agenda) Show(id uuid.UUID) (Show, bool) {
	if i := a.indexOf(id); i >= 0 {
		return a.shows[i], true
	}
	return Show{}, false
}

// Shows returns the shows in insertion order. The slice is a copy.
func (a *Agenda) Shows() []Show {
	out := make([]Show, len(a.shows))
	copy(out, a.shows)
	return out
}

// Len returns the number of shows.
func (a *Agenda) Len() int {
	return len(a.shows)
}

// Clone returns a deep copy.
func (a *Agenda) Clone() *Agenda {
	c := &Agenda{
		stages: append([]Stage(nil), a.stages...),
		shows:  make([]Show, len(a.shows)),
	}
	for i, s := range a.shows {
		s.Artists = append([]string(nil), s.Artists...)
		c.shows[i] = s
	}
	return c
}

func (a *Agenda) indexOf(id uuid.UUID) int {
	for i, s := range a.shows {
		if s.ID == id {
			return i
		}
	}
	return -1
}
