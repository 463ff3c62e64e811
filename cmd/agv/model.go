package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/daviddao/agenda_viewer/internal/agenda"
	"github.com/daviddao/agenda_viewer/internal/config"
	"github.com/daviddao/agenda_viewer/internal/datasource"
	"github.com/daviddao/agenda_viewer/internal/layout"
	"github.com/daviddao/agenda_viewer/internal/snapshot"
	"github.com/daviddao/agenda_viewer/internal/viewport"
)

// --- Messages ---

type fileChangedMsg struct{}

type snapshotReadyMsg struct {
	snap   *snapshot.DataSnapshot
	err    error
	forced bool // requested with r; replaces unsaved edits
}

type savedMsg struct {
	err error
}

type tickMsg struct{}

// --- Key bindings ---

type keyMap struct {
	Quit    key.Binding
	Tab     key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Remove  key.Binding
	Write   key.Binding
	Help    key.Binding
	Enter   key.Binding
	Esc     key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/left", "earlier")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/right", "later")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
	Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next show")),
	Prev:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "previous show")),
	Remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove show")),
	Write:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write agenda")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show detail")),
	Esc:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

// viewKeys maps single keys to views for fast navigation.
var viewKeys = map[string]viewID{
	"a": viewGrid,
	"s": viewShows,
	"c": viewConflicts,
	"p": viewStages,
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.Reset, k.Tab},
		{k.Next, k.Prev, k.Enter, k.Esc},
		{k.Remove, k.Write, k.Refresh, k.Quit},
	}
}

// contextHelp returns help text appropriate for the current view.
func contextHelp(v viewID) string {
	switch v {
	case viewGrid:
		return "hjkl/drag: pan | +/-: zoom | 0: reset | n/N: select | enter: detail | a/s/c/p: views | ?: help | q: quit"
	case viewDetail:
		return "x: remove | esc: back | a/s/c/p: views | ?: help | q: quit"
	case viewShows:
		return "j/k: select | enter: detail | x: remove | a/s/c/p: views | tab: next | ?: help | q: quit"
	default:
		return "j/k: scroll | a/s/c/p: views | tab: next | ?: help | q: quit"
	}
}

// --- Views ---

type viewID int

const (
	viewGrid viewID = iota
	viewShows
	viewConflicts
	viewStages
	viewCount // sentinel; views after it are not in the tab bar
	viewDetail
)

func (v viewID) String() string {
	switch v {
	case viewGrid:
		return "Agenda"
	case viewShows:
		return "Shows"
	case viewConflicts:
		return "Conflicts"
	case viewStages:
		return "Stages"
	case viewDetail:
		return "Show Detail"
	}
	return "?"
}

// Rows taken by the title bar, tab bar, spacer and status bar.
const chromeRows = 4

// gridTop is the terminal row where the grid starts.
const gridTop = 3

// --- Model ---

type uiModel struct {
	watcher *datasource.Watcher
	snap    *snapshot.DataSnapshot
	path    string
	cfg     *config.Config
	logger  *slog.Logger

	vp       viewport.Viewport
	scene    *layout.Scene
	selected uuid.UUID // uuid.Nil = nothing selected
	dirty    bool      // agenda edited in memory and not yet written

	activeView      viewID
	prevView        viewID // for Esc navigation
	width           int
	height          int
	scrollPos       int
	refreshInterval time.Duration

	help     help.Model
	showHelp bool

	status      string
	lastRefresh time.Time
}

func newModel(w *datasource.Watcher, snap *snapshot.DataSnapshot, path string, cfg *config.Config, logger *slog.Logger) uiModel {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = discardLogger()
	}
	m := uiModel{
		watcher:         w,
		snap:            snap,
		path:            path,
		cfg:             cfg,
		logger:          logger,
		vp:              viewport.New(cfg.Geometry()),
		refreshInterval: cfg.RefreshInterval(),
		help:            newHelp(),
		lastRefresh:     time.Now(),
	}
	m.relayout()
	return m
}

func (m uiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// gridSize is the grid area in cells.
func (m uiModel) gridSize() (cols, rows int) {
	rows = m.height - chromeRows
	if m.showHelp {
		rows -= 3
	}
	return max(m.width, 0), max(rows, 0)
}

// relayout resizes the viewport to the grid area and rebuilds the scene.
func (m *uiModel) relayout() {
	cols, rows := m.gridSize()
	stages := layout.BuildStageIndex(m.snap.Agenda).Len()
	m.vp.Resize(float64(cols)*m.cfg.Cell.Width, float64(rows)*m.cfg.Cell.Height, stages)
	m.rebuild()
}

// rebuild runs the layout pipeline with the current zoom and selection.
func (m *uiModel) rebuild() {
	m.scene = layout.Build(m.snap.Agenda, layout.Params{
		Geometry:  m.vp.Geometry(),
		HourWidth: m.vp.HourWidth(),
		Selection: m.selection(),
		Palette:   m.cfg.Palette(),
	})
}

func (m uiModel) selection() layout.Selection {
	if m.selected == uuid.Nil {
		return nil
	}
	return layout.Selection{m.selected: true}
}

func (m uiModel) selectedShow() (agenda.Show, bool) {
	if m.selected == uuid.Nil {
		return agenda.Show{}, false
	}
	return m.snap.Agenda.Show(m.selected)
}

// selectedIndex is the position of the selected show in agenda order, or -1.
func (m uiModel) selectedIndex() int {
	for i, s := range m.snap.Agenda.Shows() {
		if s.ID == m.selected {
			return i
		}
	}
	return -1
}

// selectByName selects the first show whose name matches, ignoring case.
func (m *uiModel) selectByName(name string) error {
	for _, s := range m.snap.Agenda.Shows() {
		if strings.EqualFold(s.Name, name) {
			m.selected = s.ID
			m.rebuild()
			return nil
		}
	}
	return fmt.Errorf("no show named %q", name)
}

// step moves the selection by delta shows in agenda order, wrapping.
func (m *uiModel) step(delta int) {
	shows := m.snap.Agenda.Shows()
	if len(shows) == 0 {
		m.selected = uuid.Nil
		return
	}
	i := m.selectedIndex()
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(shows) - 1
	default:
		i = ((i+delta)%len(shows) + len(shows)) % len(shows)
	}
	m.selected = shows[i].ID
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.relayout()

	case fileChangedMsg:
		if m.dirty {
			// Unsaved edits win; r forces a reload.
			return m, nil
		}
		return m, m.refreshSnapshot(false)

	case snapshotReadyMsg:
		if m.dirty && !msg.forced {
			// Started before the edit; the file no longer wins.
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error("reload failed", "path", m.path, "err", msg.err)
			m.status = "reload failed: " + msg.err.Error()
			return m, nil
		}
		if msg.snap != nil {
			m.swapSnapshot(msg.snap)
			m.dirty = false
			m.lastRefresh = time.Now()
		}

	case savedMsg:
		if msg.err != nil {
			m.logger.Error("save failed", "path", m.path, "err", msg.err)
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.dirty = false
		m.status = "saved " + m.path
		m.logger.Info("agenda saved", "path", m.path, "shows", m.snap.TotalShows)

	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

// swapSnapshot installs a new snapshot. Show IDs are not stable across
// loads, so the selection is carried over by name, stage and start time.
func (m *uiModel) swapSnapshot(snap *snapshot.DataSnapshot) {
	var want string
	if s, ok := m.selectedShow(); ok {
		want = showKey(m.snap.Agenda, s)
	}
	m.snap = snap
	m.selected = uuid.Nil
	if want != "" {
		for _, s := range snap.Agenda.Shows() {
			if showKey(snap.Agenda, s) == want {
				m.selected = s.ID
				break
			}
		}
	}
	if m.selected == uuid.Nil && m.activeView == viewDetail {
		m.activeView = m.prevView
	}
	m.relayout()
}

func showKey(a *agenda.Agenda, s agenda.Show) string {
	st, _ := a.Stage(s.StageID)
	return fmt.Sprintf("%s\x00%s\x00%s", s.Name, st.Name, s.Start)
}

func (m uiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Check single-key view shortcuts first (always available).
	if v, ok := viewKeys[msg.String()]; ok {
		m.activeView = v
		m.scrollPos = 0
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Esc):
		if m.activeView == viewDetail {
			m.activeView = m.prevView
			m.scrollPos = 0
		} else if m.selected != uuid.Nil {
			m.selected = uuid.Nil
			m.rebuild()
		}

	case key.Matches(msg, keys.Enter):
		if m.activeView != viewDetail {
			if _, ok := m.selectedShow(); ok {
				m.prevView = m.activeView
				m.activeView = viewDetail
				m.scrollPos = 0
			}
		}

	case key.Matches(msg, keys.Tab):
		if m.activeView == viewDetail {
			m.activeView = m.prevView
		} else {
			m.activeView = (m.activeView + 1) % viewCount
		}
		m.scrollPos = 0

	case key.Matches(msg, keys.Refresh):
		m.status = ""
		return m, m.refreshSnapshot(true)

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.relayout()

	case key.Matches(msg, keys.Next):
		m.step(1)
		m.rebuild()

	case key.Matches(msg, keys.Prev):
		m.step(-1)
		m.rebuild()

	case key.Matches(msg, keys.Remove):
		m.removeSelected()

	case key.Matches(msg, keys.Write):
		return m, m.saveAgenda()

	case m.activeView == viewGrid:
		m.handleGridKey(msg)

	case key.Matches(msg, keys.Up):
		if m.activeView == viewShows {
			m.step(-1)
			m.rebuild()
		} else if m.scrollPos > 0 {
			m.scrollPos--
		}

	case key.Matches(msg, keys.Down):
		if m.activeView == viewShows {
			m.step(1)
			m.rebuild()
		} else if m.scrollPos < m.maxScroll() {
			m.scrollPos++
		}
	}

	return m, nil
}

// handleGridKey pans and zooms the agenda grid.
func (m *uiModel) handleGridKey(msg tea.KeyMsg) {
	step := m.cfg.PanStep
	changed := false
	switch {
	case key.Matches(msg, keys.Up):
		changed = m.vp.ProposePan(0, step)
	case key.Matches(msg, keys.Down):
		changed = m.vp.ProposePan(0, -step)
	case key.Matches(msg, keys.Left):
		changed = m.vp.ProposePan(step, 0)
	case key.Matches(msg, keys.Right):
		changed = m.vp.ProposePan(-step, 0)
	case key.Matches(msg, keys.ZoomIn):
		changed = m.vp.ProposeZoom(m.cfg.ZoomStep)
	case key.Matches(msg, keys.ZoomOut):
		changed = m.vp.ProposeZoom(1 / m.cfg.ZoomStep)
	case key.Matches(msg, keys.Reset):
		m.vp.Reset()
		changed = true
	}
	if changed {
		m.rebuild()
	}
}

// maxScroll bounds list scrolling; View clamps as well.
func (m uiModel) maxScroll() int {
	return m.snap.TotalShows + m.snap.OverlapPairs + len(m.snap.Stages) + 20
}

func (m uiModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.activeView != viewGrid {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.scrollPos > 0 {
				m.scrollPos--
			}
		case tea.MouseButtonWheelDown:
			if m.scrollPos < m.maxScroll() {
				m.scrollPos++
			}
		}
		return m, nil
	}

	cw, ch := m.cfg.Cell.Width, m.cfg.Cell.Height
	// Pointer position in canvas units, at the centre of the cell.
	px := (float64(msg.X) + 0.5) * cw
	py := (float64(msg.Y-gridTop) + 0.5) * ch
	// Scroll distance; one wheel notch moves two thirds of a pan step.
	scroll := m.cfg.PanStep / 1.5

	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Ctrl:
		if m.vp.ProposeZoom(m.cfg.ZoomStep) {
			m.rebuild()
		}
	case msg.Button == tea.MouseButtonWheelDown && msg.Ctrl:
		if m.vp.ProposeZoom(1 / m.cfg.ZoomStep) {
			m.rebuild()
		}
	case msg.Button == tea.MouseButtonWheelUp && msg.Shift, msg.Button == tea.MouseButtonWheelLeft:
		if m.vp.ProposePan(scroll, 0) {
			m.rebuild()
		}
	case msg.Button == tea.MouseButtonWheelDown && msg.Shift, msg.Button == tea.MouseButtonWheelRight:
		if m.vp.ProposePan(-scroll, 0) {
			m.rebuild()
		}
	case msg.Button == tea.MouseButtonWheelUp:
		if m.vp.ProposePan(0, scroll) {
			m.rebuild()
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if m.vp.ProposePan(0, -scroll) {
			m.rebuild()
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		// Only presses on the visible grid start a pan or click.
		if _, rows := m.gridSize(); msg.Y >= gridTop && msg.Y < gridTop+rows {
			m.vp.BeginPan(px, py)
		}
	case msg.Action == tea.MouseActionMotion:
		if m.vp.Mode() == viewport.Panning && m.vp.DragTo(px, py) {
			m.rebuild()
		}
	case msg.Action == tea.MouseActionRelease:
		if m.vp.Mode() != viewport.Panning {
			return m, nil
		}
		if !m.vp.EndPan() {
			m.clickAt(px, py)
		}
	}
	return m, nil
}

// clickAt selects the show under a canvas point, or clears the selection
// when the point is empty.
func (m *uiModel) clickAt(px, py float64) {
	x, y := m.vp.ScreenToLayout(px, py)
	if s, ok := m.scene.ShowAt(x, y); ok {
		m.selected = s.ID
		m.logger.Debug("show selected", "show", s.Name, "x", x, "y", y)
	} else {
		m.selected = uuid.Nil
	}
	m.rebuild()
}

// removeSelected drops the selected show from the in-memory agenda.
func (m *uiModel) removeSelected() {
	s, ok := m.selectedShow()
	if !ok {
		return
	}
	a := m.snap.Agenda.Clone()
	a.RemoveShow(s.ID)
	m.snap = snapshot.FromAgenda(m.path, a, snapshot.WithGeometry(m.vp.Geometry()))
	m.selected = uuid.Nil
	m.dirty = true
	m.status = fmt.Sprintf("removed %q (w to save, r to discard)", s.Name)
	m.logger.Info("show removed", "show", s.Name)
	if m.activeView == viewDetail {
		m.activeView = m.prevView
	}
	m.relayout()
}

// refreshSnapshot reloads the agenda in the background. Unless forced, an
// unchanged file is not reparsed.
func (m uiModel) refreshSnapshot(force bool) tea.Cmd {
	path := m.path
	geom := m.vp.Geometry()
	var seen time.Time
	if m.snap != nil {
		seen = m.snap.ModTime
	}
	return func() tea.Msg {
		if !force {
			if info, err := os.Stat(path); err == nil && info.ModTime().Equal(seen) {
				return nil
			}
		}
		snap, err := snapshot.Build(path, snapshot.WithGeometry(geom))
		return snapshotReadyMsg{snap: snap, err: err, forced: force}
	}
}

func (m uiModel) saveAgenda() tea.Cmd {
	path := m.path
	a := m.snap.Agenda.Clone()
	return func() tea.Msg {
		return savedMsg{err: datasource.Save(path, a)}
	}
}
