package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daviddao/agenda_viewer/internal/datasource"
	"github.com/daviddao/agenda_viewer/internal/snapshot"
)

func TestSmokeAgendaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agenda.yaml")
	body := `stages:
  - name: Main
shows:
  - {name: Opener, artists: [alice], stage: Main, start: "09:00", end: "10:00"}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(datasource.EnvAgenda, path)

	found, err := datasource.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	snap, err := snapshot.Build(found)
	if err != nil {
		t.Fatalf("snapshot build failed: %v", err)
	}
	t.Logf("snapshot: %d shows on %d stages, built at %s", snap.TotalShows, snap.TotalStages, snap.BuiltAt)

	w, err := datasource.NewWatcher(found)
	if err != nil {
		t.Fatalf("watcher creation failed: %v", err)
	}
	defer w.Close()

	m := newModel(w, snap, found, nil, nil)
	if m.scene == nil || len(m.scene.Rects) != 1 {
		t.Fatalf("model scene = %+v", m.scene)
	}
}
