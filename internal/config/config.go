// Package config holds the viewer settings and their YAML load/save.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/daviddao/agenda_viewer/internal/fsutil"
	"github.com/daviddao/agenda_viewer/internal/layout"
)

// GridConfig mirrors layout.Geometry.
type GridConfig struct {
	RowHeight     float64 `yaml:"row_height"`
	RowPadding    float64 `yaml:"row_padding"`
	ContentHeight float64 `yaml:"content_height"`
	HourWidth     float64 `yaml:"hour_width"`
	SpanHours     float64 `yaml:"span_hours"`
	LeftMargin    float64 `yaml:"left_margin"`
	TopMargin     float64 `yaml:"top_margin"`
	BottomMargin  float64 `yaml:"bottom_margin"`
}

// CellConfig is the size of one terminal cell in layout units.
type CellConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ColorConfig holds the grid colours as "#RRGGBB".
//
// selected_color is the normal show fill and unselected_color marks shows
// the user picked. The names are kept for compatibility with older files.
type ColorConfig struct {
	Show     string `yaml:"selected_color"`
	Focus    string `yaml:"unselected_color"`
	Conflict string `yaml:"conflict_color"`
}

// Config is the top-level viewer configuration.
type Config struct {
	// Agenda is the default agenda file when neither --agenda nor
	// AGV_AGENDA is set. Empty means discover.
	Agenda string `yaml:"agenda"`

	Grid   GridConfig  `yaml:"grid"`
	Cell   CellConfig  `yaml:"cell"`
	Colors ColorConfig `yaml:"colors"`

	// ZoomStep is the factor applied by one zoom-in key press; zoom-out
	// uses its inverse.
	ZoomStep float64 `yaml:"zoom_step"`

	// PanStep is the distance of one keyboard pan in layout units.
	PanStep float64 `yaml:"pan_step"`

	// Refresh is the polling interval used when file watching is not
	// available ("2s", "500ms").
	Refresh string `yaml:"refresh"`

	// Timezone is the IANA zone calendar imports are read in.
	Timezone string `yaml:"timezone"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	g := layout.DefaultGeometry()
	p := layout.DefaultPalette()
	return &Config{
		Grid: GridConfig{
			RowHeight:     g.RowHeight,
			RowPadding:    g.RowPadding,
			ContentHeight: g.ContentHeight,
			HourWidth:     g.HourWidth,
			SpanHours:     g.SpanHours,
			LeftMargin:    g.LeftMargin,
			TopMargin:     g.TopMargin,
			BottomMargin:  g.BottomMargin,
		},
		Cell:     CellConfig{Width: 10, Height: 20},
		Colors:   ColorConfig{Show: p.Show, Focus: p.Focus, Conflict: p.Conflict},
		ZoomStep: 1.25,
		PanStep:  30,
		Refresh:  "2s",
		Timezone: "Local",
	}
}

// Normalize fills zero or unusable values with defaults so partially
// written files still work.
func (c *Config) Normalize() {
	d := DefaultConfig()

	if c.Grid.RowHeight <= 0 {
		c.Grid.RowHeight = d.Grid.RowHeight
	}
	if c.Grid.RowPadding < 0 {
		c.Grid.RowPadding = d.Grid.RowPadding
	}
	if c.Grid.ContentHeight <= 0 {
		c.Grid.ContentHeight = d.Grid.ContentHeight
	}
	if c.Grid.HourWidth <= 0 {
		c.Grid.HourWidth = d.Grid.HourWidth
	}
	if c.Grid.SpanHours <= 0 || c.Grid.SpanHours > 24 {
		c.Grid.SpanHours = d.Grid.SpanHours
	}
	if c.Grid.LeftMargin == 0 {
		c.Grid.LeftMargin = d.Grid.LeftMargin
	}
	if c.Grid.TopMargin == 0 {
		c.Grid.TopMargin = d.Grid.TopMargin
	}
	if c.Grid.BottomMargin <= 0 {
		c.Grid.BottomMargin = d.Grid.BottomMargin
	}
	if c.Grid.RowPadding+c.Grid.ContentHeight > c.Grid.RowHeight {
		c.Grid.RowPadding = c.Grid.RowHeight * d.Grid.RowPadding / d.Grid.RowHeight
		c.Grid.ContentHeight = c.Grid.RowHeight * d.Grid.ContentHeight / d.Grid.RowHeight
	}

	if c.Cell.Width <= 0 {
		c.Cell.Width = d.Cell.Width
	}
	if c.Cell.Height <= 0 {
		c.Cell.Height = d.Cell.Height
	}

	if !validHex(c.Colors.Show) {
		c.Colors.Show = d.Colors.Show
	}
	if !validHex(c.Colors.Focus) {
		c.Colors.Focus = d.Colors.Focus
	}
	if !validHex(c.Colors.Conflict) {
		c.Colors.Conflict = d.Colors.Conflict
	}

	if c.ZoomStep <= 1 {
		c.ZoomStep = d.ZoomStep
	}
	if c.PanStep <= 0 {
		c.PanStep = d.PanStep
	}
	if _, err := time.ParseDuration(c.Refresh); err != nil {
		c.Refresh = d.Refresh
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
}

func validHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Geometry returns the grid measurements.
func (c *Config) Geometry() layout.Geometry {
	return layout.Geometry{
		RowHeight:     c.Grid.RowHeight,
		RowPadding:    c.Grid.RowPadding,
		ContentHeight: c.Grid.ContentHeight,
		HourWidth:     c.Grid.HourWidth,
		SpanHours:     c.Grid.SpanHours,
		LeftMargin:    c.Grid.LeftMargin,
		TopMargin:     c.Grid.TopMargin,
		BottomMargin:  c.Grid.BottomMargin,
	}.Normalize()
}

// Palette returns the grid colours.
func (c *Config) Palette() layout.Palette {
	return layout.Palette{Show: c.Colors.Show, Focus: c.Colors.Focus, Conflict: c.Colors.Conflict}
}

// RefreshInterval parses Refresh.
func (c *Config) RefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Refresh)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "agv", "config.yaml"), nil
}

// Load reads the YAML config at path. On first run (no file) the defaults
// are written to path with 0600 permissions and returned; a failed write
// still returns the defaults alongside the error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save normalizes cfg and writes it atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o600)
}
