// Package calendar mirrors an external iCal feed into a local cache and
// answers busy-interval questions from that mirror, never from the feed
// directly.
package calendar

import (
	"strings"
	"time"

	"sensea-booking/internal/pkg/errs"
)

// Event is one VEVENT reduced to what availability needs.
type Event struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
	AllDay  bool
}

// ParseFeed extracts VEVENTs from raw iCal data. Events without a UID or a
// parseable DTSTART are skipped rather than failing the whole feed: one
// malformed entry must not blank out the entire external calendar.
func ParseFeed(data []byte, loc *time.Location) []Event {
	lines := unfold(string(data))

	var (
		events  []Event
		current map[string]string
	)

	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			current = make(map[string]string)
		case line == "END:VEVENT":
			if current != nil {
				if ev, ok := buildEvent(current, loc); ok {
					events = append(events, ev)
				}
				current = nil
			}
		case current != nil:
			name, value, found := strings.Cut(line, ":")
			if found {
				current[name] = value
			}
		}
	}

	return events
}

// unfold joins folded lines: a line starting with a space or tab continues
// the previous one (RFC 5545 §3.1).
func unfold(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && len(out) > 0 {
			out[len(out)-1] += line[1:]
			continue
		}
		out = append(out, line)
	}
	return out
}

func buildEvent(props map[string]string, loc *time.Location) (Event, bool) {
	uid := firstProp(props, "UID")
	if uid == "" {
		return Event{}, false
	}

	startName, startValue := findProp(props, "DTSTART")
	if startName == "" {
		return Event{}, false
	}
	start, allDay, err := parseDateTime(startName, startValue, loc)
	if err != nil {
		return Event{}, false
	}

	ev := Event{
		UID:     uid,
		Summary: unescapeText(firstProp(props, "SUMMARY")),
		Start:   start,
		AllDay:  allDay,
	}

	if endName, endValue := findProp(props, "DTEND"); endName != "" {
		if end, _, endErr := parseDateTime(endName, endValue, loc); endErr == nil {
			ev.End = end
			return ev, true
		}
	}

	// DTEND is optional: all-day events span their date, timed events get an
	// hour.
	if allDay {
		ev.End = start.AddDate(0, 0, 1)
	} else {
		ev.End = start.Add(time.Hour)
	}
	return ev, true
}

// firstProp returns the value of name, ignoring any parameters (UID;X=Y:...).
func firstProp(props map[string]string, name string) string {
	_, value := findProp(props, name)
	return value
}

func findProp(props map[string]string, name string) (fullName, value string) {
	if v, ok := props[name]; ok {
		return name, v
	}
	prefix := name + ";"
	for k, v := range props {
		if strings.HasPrefix(k, prefix) {
			return k, v
		}
	}
	return "", ""
}

// parseDateTime handles the three DTSTART/DTEND shapes the upstream feed
// emits: VALUE=DATE (all day), UTC with a Z suffix, and TZID or floating
// local time.
func parseDateTime(name, value string, loc *time.Location) (time.Time, bool, error) {
	params := parseParams(name)

	if params["VALUE"] == "DATE" || len(value) == 8 {
		t, err := time.ParseInLocation("20060102", value, loc)
		if err != nil {
			return time.Time{}, false, errs.Wrap(err, "invalid iCal date")
		}
		return t, true, nil
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return time.Time{}, false, errs.Wrap(err, "invalid iCal UTC datetime")
		}
		return t.In(loc), false, nil
	}

	eventLoc := loc
	if tzid := params["TZID"]; tzid != "" {
		if parsed, err := time.LoadLocation(tzid); err == nil {
			eventLoc = parsed
		}
	}
	t, err := time.ParseInLocation("20060102T150405", value, eventLoc)
	if err != nil {
		return time.Time{}, false, errs.Wrap(err, "invalid iCal datetime")
	}
	return t.In(loc), false, nil
}

// parseParams splits "DTSTART;TZID=Europe/Paris" into its parameter map.
func parseParams(name string) map[string]string {
	parts := strings.Split(name, ";")
	params := make(map[string]string, len(parts)-1)
	for _, part := range parts[1:] {
		if k, v, found := strings.Cut(part, "="); found {
			params[k] = v
		}
	}
	return params
}

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}
