package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/daviddao/agenda_viewer/internal/layout"
)

func TestLoadCreatesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agv", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Geometry() != layout.DefaultGeometry() {
		t.Errorf("Geometry() = %+v, want defaults", cfg.Geometry())
	}
	if cfg.Palette() != layout.DefaultPalette() {
		t.Errorf("Palette() = %+v, want defaults", cfg.Palette())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("first run should write the config file: %v", err)
	}
}

func TestLoadFillsMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "grid:\n  row_height: 100\ncolors:\n  selected_color: \"#112233\"\n  unselected_color: nope\nzoom_step: 0.5\nrefresh: 250ms\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := cfg.Geometry()
	if g.RowHeight != 100 {
		t.Errorf("RowHeight = %v, want 100", g.RowHeight)
	}
	if g.HourWidth != 60 || g.LeftMargin != -100 {
		t.Errorf("missing grid values not defaulted: %+v", g)
	}
	p := cfg.Palette()
	if p.Show != "#112233" {
		t.Errorf("Show = %q, want #112233", p.Show)
	}
	if p.Focus != layout.DefaultPalette().Focus {
		t.Errorf("invalid colour kept: %q", p.Focus)
	}
	if cfg.ZoomStep != 1.25 {
		t.Errorf("ZoomStep = %v, want 1.25", cfg.ZoomStep)
	}
	if cfg.RefreshInterval() != 250*time.Millisecond {
		t.Errorf("RefreshInterval() = %v", cfg.RefreshInterval())
	}
}

func TestLoadRescalesOverflowingRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "grid:\n  row_height: 80\n  row_padding: 5\n  content_height: 120\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := cfg.Geometry()
	if g.RowPadding+g.ContentHeight > g.RowHeight {
		t.Errorf("shows overflow their row: %+v", g)
	}
	if cfg.Grid.ContentHeight != 70 {
		t.Errorf("Grid.ContentHeight = %v, want 70", cfg.Grid.ContentHeight)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("grid: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Agenda = "/srv/festival/agenda.yaml"
	cfg.Cell.Width = 8
	cfg.Timezone = "Europe/Amsterdam"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Agenda != cfg.Agenda || got.Cell.Width != 8 || got.Timezone != "Europe/Amsterdam" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestSaveRejectsEmptyInput(t *testing.T) {
	if err := Save("", DefaultConfig()); err == nil {
		t.Error("empty path accepted")
	}
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Error("nil config accepted")
	}
}

func TestLocationFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Not/AZone"
	if cfg.Location() != time.Local {
		t.Errorf("Location() = %v, want time.Local", cfg.Location())
	}
	cfg.Timezone = "UTC"
	if cfg.Location().String() != "UTC" {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
}
