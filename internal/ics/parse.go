// Package ics imports shows from iCalendar files.
//
// Each VEVENT becomes one show: SUMMARY is the show name, LOCATION the
// stage, ATTENDEE common names (or the DESCRIPTION) the artists. Recurring
// events are expanded onto a single festival day by OnDay before they are
// merged into an agenda.
package ics

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Event is a parsed VEVENT.
type Event struct {
	UID      string
	Summary  string
	Location string
	Artists  []string

	Start  time.Time
	End    time.Time
	AllDay bool

	RawRRule string
	ExDates  []time.Time
}

// Parse reads an ICS payload. Events that cannot be read are logged and
// skipped; a payload that is not a calendar at all is an error.
func Parse(body []byte, logger *slog.Logger) ([]Event, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0)
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			logger.Warn("ics: skipping event", "uid", ev.UID, "err", err)
			continue
		}
		events = append(events, ev)
	}
	logger.Info("ics: parsed calendar", "events", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (Event, error) {
	var out Event

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = strings.TrimSpace(p.Value)
	}
	if out.Summary == "" {
		return out, errors.New("missing SUMMARY")
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = strings.TrimSpace(p.Value)
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}
	out.Start, out.End = start, end

	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs := p.ICalParameters["VALUE"]; len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
		if !strings.Contains(p.Value, "T") {
			out.AllDay = true
		}
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		if cn := p.ICalParameters["CN"]; len(cn) > 0 && strings.TrimSpace(cn[0]) != "" {
			out.Artists = append(out.Artists, strings.TrimSpace(cn[0]))
		}
	}
	if len(out.Artists) == 0 {
		if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
			out.Artists = splitArtists(p.Value)
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, start.Location()); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}
	return out, nil
}

// splitArtists reads a DESCRIPTION as a list of performers separated by
// commas or newlines.
func splitArtists(desc string) []string {
	desc = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";").Replace(desc)
	var out []string
	for _, line := range strings.Split(desc, "\n") {
		for _, name := range strings.Split(line, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// parseICSTime parses the basic DATE / DATE-TIME forms used in EXDATE.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
