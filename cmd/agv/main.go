// agv is a terminal viewer for festival agendas.
//
// It lays out the shows of one day on a stage-by-hour grid, marks shows
// that overlap on the same stage, and follows the agenda file as it
// changes on disk.
//
// Usage:
//
//	agv                          # Auto-discover agenda.yaml
//	agv --agenda <path>          # Use a specific agenda file
//	agv --json                   # Dump the laid-out agenda as JSON and exit
//	agv --svg out.svg            # Render the agenda grid as SVG and exit
//	agv --import-ics cal.ics     # Merge one day of a calendar into the agenda
//	agv --select <show>          # Select a show on startup
//	agv --view shows             # Start in a specific view
//	agv --refresh 5s             # Set polling fallback interval
//	agv --version                # Print version and exit
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/daviddao/agenda_viewer/internal/config"
	"github.com/daviddao/agenda_viewer/internal/datasource"
	"github.com/daviddao/agenda_viewer/internal/layout"
	"github.com/daviddao/agenda_viewer/internal/snapshot"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// EnvConfig overrides the config file location.
const EnvConfig = "AGV_CONFIG"

// parseViewFlag maps a --view flag string to a viewID.
func parseViewFlag(s string) (viewID, error) {
	switch strings.ToLower(s) {
	case "agenda", "grid", "a":
		return viewGrid, nil
	case "shows", "s":
		return viewShows, nil
	case "conflicts", "c":
		return viewConflicts, nil
	case "stages", "p":
		return viewStages, nil
	default:
		return 0, fmt.Errorf("unknown view %q (valid: agenda, shows, conflicts, stages)", s)
	}
}

// resolveAgenda picks the agenda file: --agenda, then AGV_AGENDA, then the
// config file, then discovery from the working directory.
func resolveAgenda(flagPath string, cfg *config.Config) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if os.Getenv(datasource.EnvAgenda) == "" && cfg.Agenda != "" {
		return cfg.Agenda, nil
	}
	return datasource.Discover()
}

func loadConfig(flagPath string) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.DefaultConfig(), err
		}
		path = p
	}
	return config.Load(path)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "agv: %v\n", err)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()

	agendaPath := flag.String("agenda", "", "path to agenda.yaml (default: auto-discover)")
	configPath := flag.String("config", "", "path to config.yaml (default: user config dir)")
	refreshDur := flag.Duration("refresh", 0, "polling fallback interval (default: from config)")
	jsonMode := flag.Bool("json", false, "dump the laid-out agenda as JSON and exit (no TUI)")
	svgPath := flag.String("svg", "", "render the agenda grid as SVG to this file (- for stdout) and exit")
	icsPath := flag.String("import-ics", "", "merge the events of --day from an ICS file into the agenda and exit")
	dayFlag := flag.String("day", "", "festival day for --import-ics, YYYY-MM-DD (default: today)")
	selectFlag := flag.String("select", "", "select a show by name on startup")
	viewFlag := flag.String("view", "", "start in specific view (agenda|shows|conflicts|stages)")
	logPath := flag.String("log", "", "write debug logs to this file")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("agv %s\n", Version)
		os.Exit(0)
	}

	tui := !*jsonMode && *svgPath == "" && *icsPath == ""

	var logger *slog.Logger
	switch {
	case *logPath != "":
		f, err := tea.LogToFile(*logPath, "agv")
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case tui:
		// stderr belongs to the terminal UI.
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	default:
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		if cfg == nil {
			fatal(fmt.Errorf("config: %w", err))
		}
		logger.Warn("config not saved, using defaults", "err", err)
	}

	path, err := resolveAgenda(*agendaPath, cfg)

	// --import-ics mode: merge calendar events, exit.
	if *icsPath != "" {
		if err != nil {
			path = "agenda.yaml"
		}
		loc := cfg.Location()
		day := time.Now().In(loc)
		if *dayFlag != "" {
			day, err = time.ParseInLocation("2006-01-02", *dayFlag, loc)
			if err != nil {
				fatal(fmt.Errorf("--day: %w", err))
			}
		}
		if err := importICS(os.Stdout, *icsPath, path, day, loc, logger); err != nil {
			fatal(fmt.Errorf("import: %w", err))
		}
		os.Exit(0)
	}

	if err != nil {
		fatal(err)
	}

	snap, err := snapshot.Build(path, snapshot.WithGeometry(cfg.Geometry()))
	if err != nil {
		fatal(fmt.Errorf("snapshot: %w", err))
	}
	logger.Info("agenda loaded", "path", path, "shows", snap.TotalShows, "stages", snap.TotalStages)

	// --json and --svg modes: lay out the whole day, write, exit.
	if *jsonMode || *svgPath != "" {
		sc := layout.Build(snap.Agenda, layout.Params{Geometry: cfg.Geometry(), Palette: cfg.Palette()})
		if *svgPath != "" {
			title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if err := writeSVG(*svgPath, sc, title); err != nil {
				fatal(fmt.Errorf("svg: %w", err))
			}
		}
		if *jsonMode {
			if err := writeJSON(os.Stdout, buildJSONOutput(snap, sc)); err != nil {
				fatal(fmt.Errorf("json: %w", err))
			}
		}
		os.Exit(0)
	}

	w, err := datasource.NewWatcher(path, datasource.WithLogger(logger))
	if err != nil {
		fatal(fmt.Errorf("watch: %w", err))
	}

	m := newModel(w, snap, path, cfg, logger)
	if *refreshDur > 0 {
		m.refreshInterval = *refreshDur
	}

	// Apply --view flag.
	if *viewFlag != "" {
		v, err := parseViewFlag(*viewFlag)
		if err != nil {
			w.Close()
			fatal(err)
		}
		m.activeView = v
	}

	// Apply --select flag.
	if *selectFlag != "" {
		if err := m.selectByName(*selectFlag); err != nil {
			w.Close()
			fatal(err)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Feed file change events into the TUI.
	go func() {
		for range w.Changes() {
			p.Send(fileChangedMsg{})
		}
	}()

	// Polling fallback: fsnotify misses changes on some network filesystems.
	go func() {
		ticker := time.NewTicker(m.refreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			p.Send(fileChangedMsg{})
		}
	}()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			os.Exit(130)
		}
		fatal(err)
	}
}
