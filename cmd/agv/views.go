package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/daviddao/agenda_viewer/internal/agenda"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#45CBE6")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#45CBE6")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	showStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4"))

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	conflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAB387")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))
)

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')
	b.WriteString(m.renderTabBar())
	b.WriteRune('\n')
	b.WriteRune('\n')

	_, contentHeight := m.gridSize()

	var content string
	switch {
	case m.activeView == viewGrid:
		content = m.renderGrid()
	case m.activeView == viewShows && m.width >= 120 && m.selected != uuid.Nil:
		// Wide terminals get the selected show's detail beside the list.
		leftWidth := m.width/2 - 1
		rightWidth := m.width - leftWidth - 3
		content = renderSplitPane(m.scrolled(m.renderShows(), contentHeight), m.renderDetail(),
			leftWidth, rightWidth, contentHeight)
	default:
		switch m.activeView {
		case viewShows:
			content = m.renderShows()
		case viewConflicts:
			content = m.renderConflicts()
		case viewStages:
			content = m.renderStages()
		case viewDetail:
			content = m.renderDetail()
		}
		content = m.scrolled(content, contentHeight)
	}

	content = truncateLines(content, m.width)
	b.WriteString(content)

	// Pad so the status bar sits on the last line.
	rendered := strings.Count(b.String(), "\n")
	last := m.height - 1
	if m.showHelp {
		last = m.height - lipgloss.Height(m.help.View(keys))
	}
	for rendered < last {
		b.WriteRune('\n')
		rendered++
	}

	if m.showHelp {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

// scrolled applies the scroll position to content and cuts it to height
// lines. View has a value receiver, so the clamp stays local.
func (m uiModel) scrolled(content string, height int) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	scrollPos := m.scrollPos
	if scrollPos >= len(lines) {
		scrollPos = max(0, len(lines)-1)
	}
	lines = lines[scrollPos:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("agenda viewer")
	name := ""
	if m.path != "" {
		name = " " + filepath.Base(m.path)
	}
	if m.dirty {
		name += dirtyStyle.Render(" [modified]")
	}
	stats := dimStyle.Render(fmt.Sprintf(
		"%d shows | %d stages | %d conflicts | zoom x%.2f",
		m.snap.TotalShows,
		m.snap.TotalStages,
		m.snap.OverlapPairs,
		m.vp.Transform().SX,
	))
	left := title + name
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(stats)-2))
	return left + gap + stats
}

func (m uiModel) renderTabBar() string {
	var tabs []string
	for i := viewID(0); i < viewCount; i++ {
		if i == m.activeView {
			tabs = append(tabs, tabActiveStyle.Render(i.String()))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(i.String()))
		}
	}
	if m.activeView == viewDetail {
		if s, ok := m.selectedShow(); ok {
			tabs = append(tabs, tabActiveStyle.Render("Show: "+s.Name))
		}
	}
	return strings.Join(tabs, " ")
}

func (m uiModel) renderStatusBar() string {
	left := " " + contextHelp(m.activeView)
	if m.status != "" {
		left = " " + m.status
	}
	ago := time.Since(m.lastRefresh).Truncate(time.Second)
	right := fmt.Sprintf("refreshed %s ago ", shortDuration(ago))
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)))
	return statusBarStyle.Render(truncateLines(left+gap+right, m.width))
}

// --- Agenda grid ---

func (m uiModel) renderGrid() string {
	cols, rows := m.gridSize()
	if cols == 0 || rows == 0 {
		return ""
	}
	vp := m.vp
	c := newCanvas(cols, rows, m.cfg.Cell.Width, m.cfg.Cell.Height, &vp)
	drawScene(c, m.scene, m.selection())
	if m.snap.TotalShows == 0 {
		msg := "(no shows in agenda)"
		c.text((cols-len(msg))/2, rows/2, msg, cols, gridLabel, false)
	}
	return c.render()
}

// --- Shows list ---

func (m uiModel) renderShows() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Shows"))
	b.WriteRune('\n')

	shows := m.snap.Agenda.Shows()
	if len(shows) == 0 {
		b.WriteString(dimStyle.Render("  (no shows)"))
		b.WriteRune('\n')
		return b.String()
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-11s %-16s %-24s %s",
		"Time", "Stage", "Show", "Artists")))
	b.WriteRune('\n')

	for _, s := range shows {
		st, _ := m.snap.Agenda.Stage(s.StageID)
		cursor := "  "
		if s.ID == m.selected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-11s %-16s %-24s %s",
			cursor, s.Start.String()+"-"+s.End.String(), truncate(st.Name, 13), truncate(s.Name, 21), s.ArtistLine())
		style := showStyle
		if m.snap.Conflicted[s.ID] {
			style = conflictStyle
		}
		if s.ID == m.selected {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteRune('\n')
	}
	return b.String()
}

// --- Conflicts list ---

func (m uiModel) renderConflicts() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Conflicts"))
	b.WriteRune('\n')

	pairs := m.scene.Pairs()
	if len(pairs) == 0 {
		b.WriteString(dimStyle.Render("  (no overlapping shows)"))
		b.WriteRune('\n')
		return b.String()
	}

	for _, p := range pairs {
		a, c := m.scene.Rects[p.A].Show, m.scene.Rects[p.B].Show
		st, _ := m.snap.Agenda.Stage(a.StageID)
		from, to := overlapSpan(a, c)
		b.WriteString(stageStyle.Render("  " + st.Name))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s-%s", from, to)))
		b.WriteRune('\n')
		b.WriteString(conflictStyle.Render(fmt.Sprintf("    %s (%s-%s)", a.Name, a.Start, a.End)))
		b.WriteString(dimStyle.Render(" x "))
		b.WriteString(conflictStyle.Render(fmt.Sprintf("%s (%s-%s)", c.Name, c.Start, c.End)))
		b.WriteRune('\n')
	}
	return b.String()
}

// overlapSpan is the time both shows are on.
func overlapSpan(a, b agenda.Show) (agenda.TimeOfDay, agenda.TimeOfDay) {
	from, to := a.Start, a.End
	if from.Before(b.Start) {
		from = b.Start
	}
	if b.End.Before(to) {
		to = b.End
	}
	return from, to
}

// --- Stages ---

func (m uiModel) renderStages() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Stages"))
	b.WriteRune('\n')

	if len(m.snap.Stages) == 0 {
		b.WriteString(dimStyle.Render("  (no stages with shows)"))
		b.WriteRune('\n')
		return b.String()
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-18s %-18s %-6s %-8s %-11s %s",
		"Stage", "Location", "Shows", "Hours", "Open", "Conflicts")))
	b.WriteRune('\n')

	for _, st := range m.snap.Stages {
		line := fmt.Sprintf("  %-18s %-18s %-6d %-8s %-11s ",
			truncate(st.Stage.Name, 15), truncate(st.Stage.Location, 15), st.Shows,
			hoursLabel(st.Hours), st.First.String()+"-"+st.Last.String())
		b.WriteString(stageStyle.Render(line))
		if st.Conflicts > 0 {
			b.WriteString(conflictStyle.Render(fmt.Sprintf("%d", st.Conflicts)))
		} else {
			b.WriteString(dimStyle.Render("0"))
		}
		b.WriteRune('\n')
	}

	if idle := m.snap.TotalStages - len(m.snap.Stages); idle > 0 {
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d registered stage(s) without shows", idle)))
		b.WriteRune('\n')
	}
	return b.String()
}

// --- Show detail ---

func (m uiModel) renderDetail() string {
	s, ok := m.selectedShow()
	if !ok {
		return dimStyle.Render("  (no show selected)")
	}
	st, _ := m.snap.Agenda.Stage(s.StageID)

	var b strings.Builder
	b.WriteString(headerStyle.Render(s.Name))
	b.WriteRune('\n')
	b.WriteRune('\n')

	field := func(name, value string) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-10s", name)))
		b.WriteString(showStyle.Render(value))
		b.WriteRune('\n')
	}
	field("Stage", st.Name)
	if st.Location != "" {
		field("Location", st.Location)
	}
	field("Time", fmt.Sprintf("%s-%s (%s)", s.Start, s.End, hoursLabel(s.Duration())))

	b.WriteRune('\n')
	b.WriteString(headerStyle.Render("  Artists"))
	b.WriteRune('\n')
	for _, a := range s.Artists {
		for _, line := range wrapText(a, max(20, m.width-6)) {
			b.WriteString("    " + line)
			b.WriteRune('\n')
		}
	}

	if r, ok := m.scene.RectFor(s.ID); ok {
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render(fmt.Sprintf("  grid x=%.0f y=%.0f w=%.0f h=%.0f", r.X, r.Y, r.W, r.H)))
		b.WriteRune('\n')
	}

	others := m.overlapping(s.ID)
	b.WriteRune('\n')
	if len(others) == 0 {
		b.WriteString(dimStyle.Render("  no conflicts"))
		b.WriteRune('\n')
		return b.String()
	}
	b.WriteString(conflictStyle.Render(fmt.Sprintf("  Overlaps %d show(s)", len(others))))
	b.WriteRune('\n')
	for _, o := range others {
		from, to := overlapSpan(s, o)
		b.WriteString(conflictStyle.Render(fmt.Sprintf("    %s (%s-%s)", o.Name, o.Start, o.End)))
		b.WriteString(dimStyle.Render(fmt.Sprintf(" shared %s-%s", from, to)))
		b.WriteRune('\n')
	}
	return b.String()
}

// overlapping returns the shows whose rectangles intersect the show's.
func (m uiModel) overlapping(id uuid.UUID) []agenda.Show {
	var out []agenda.Show
	for _, p := range m.scene.Pairs() {
		a, c := m.scene.Rects[p.A].Show, m.scene.Rects[p.B].Show
		switch id {
		case a.ID:
			out = append(out, c)
		case c.ID:
			out = append(out, a)
		}
	}
	return out
}
