package datasource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/daviddao/agenda_viewer/internal/agenda"
	"github.com/daviddao/agenda_viewer/internal/fsutil"
)

type fileStage struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location,omitempty"`
}

type fileShow struct {
	Name    string           `yaml:"name"`
	Artists []string         `yaml:"artists"`
	Stage   string           `yaml:"stage"`
	Start   agenda.TimeOfDay `yaml:"start"`
	End     agenda.TimeOfDay `yaml:"end"`
}

type file struct {
	Stages []fileStage `yaml:"stages"`
	Shows  []fileShow  `yaml:"shows"`
}

// Decode reads an agenda document. Stages and shows get fresh IDs; a show
// naming a stage that is not declared is an error.
func Decode(r io.Reader) (*agenda.Agenda, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode agenda: %w", err)
	}

	a := agenda.New()
	for _, st := range f.Stages {
		if err := a.AddStage(agenda.NewStage(st.Name, st.Location)); err != nil {
			return nil, err
		}
	}
	for i, sh := range f.Shows {
		st, ok := a.StageByName(sh.Stage)
		if !ok {
			return nil, fmt.Errorf("show %d (%q): stage %q: %w", i+1, sh.Name, sh.Stage, agenda.ErrUnknownStage)
		}
		if err := a.AddShow(agenda.NewShow(sh.Name, sh.Artists, st, sh.Start, sh.End)); err != nil {
			return nil, fmt.Errorf("show %d: %w", i+1, err)
		}
	}
	return a, nil
}

// Encode writes a in the agenda document format.
func Encode(w io.Writer, a *agenda.Agenda) error {
	var f file
	for _, st := range a.Stages() {
		f.Stages = append(f.Stages, fileStage{Name: st.Name, Location: st.Location})
	}
	for _, sh := range a.Shows() {
		st, ok := a.Stage(sh.StageID)
		if !ok {
			return fmt.Errorf("show %q: %w", sh.Name, agenda.ErrUnknownStage)
		}
		f.Shows = append(f.Shows, fileShow{
			Name:    sh.Name,
			Artists: sh.Artists,
			Stage:   st.Name,
			Start:   sh.Start,
			End:     sh.End,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}

// Load reads the agenda file at path.
func Load(path string) (*agenda.Agenda, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	a, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Save writes a to path atomically.
func Save(path string, a *agenda.Agenda) error {
	var buf bytes.Buffer
	if err := Encode(&buf, a); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
