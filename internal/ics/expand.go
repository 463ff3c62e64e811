package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// OnDay returns the occurrences of events that start on the given day in
// loc. Recurring events are expanded with their RRULE and EXDATEs; the
// returned events are single occurrences with RawRRule cleared. Times are
// converted to loc.
func OnDay(events []Event, day time.Time, loc *time.Location) ([]Event, error) {
	if loc == nil {
		loc = time.Local
	}
	day = day.In(loc)
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)

	var out []Event
	for _, ev := range events {
		if ev.RawRRule == "" {
			if !ev.Start.Before(from) && ev.Start.Before(to) {
				out = append(out, occurrence(ev, ev.Start, ev.End, loc))
			}
			continue
		}

		r, err := rrule.StrToRRule(ev.RawRRule)
		if err != nil {
			return nil, fmt.Errorf("event %q: rrule %q: %w", ev.Summary, ev.RawRRule, err)
		}
		r.DTStart(ev.Start)

		var set rrule.Set
		set.RRule(r)
		for _, ex := range ev.ExDates {
			set.ExDate(ex.In(ev.Start.Location()))
		}

		dur := ev.End.Sub(ev.Start)
		for _, start := range set.Between(from.In(ev.Start.Location()), to.In(ev.Start.Location()), true) {
			if !start.Before(to) {
				continue
			}
			out = append(out, occurrence(ev, start, start.Add(dur), loc))
		}
	}
	return out, nil
}

func occurrence(ev Event, start, end time.Time, loc *time.Location) Event {
	ev.Start = start.In(loc)
	ev.End = end.In(loc)
	ev.RawRRule = ""
	ev.ExDates = nil
	ev.Artists = append([]string(nil), ev.Artists...)
	return ev
}
