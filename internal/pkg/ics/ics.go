// Package ics renders minimal RFC 5545 documents, enough for the calendar
// attachments handed to booking clients.
package ics

import (
	"strings"
	"time"
)

type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
}

// Render emits a VCALENDAR wrapping the given events. Times are written as
// UTC (Z-suffixed) so clients agree on the instant regardless of timezone.
// now stamps DTSTAMP; callers pass their clock so output is reproducible.
func Render(prodID string, now time.Time, events []Event) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")

	for _, ev := range events {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+escapeText(ev.UID))
		writeLine(&b, "DTSTAMP:"+formatUTC(now))
		writeLine(&b, "DTSTART:"+formatUTC(ev.Start))
		writeLine(&b, "DTEND:"+formatUTC(ev.End))
		writeLine(&b, "SUMMARY:"+escapeText(ev.Summary))
		if ev.Description != "" {
			writeLine(&b, "DESCRIPTION:"+escapeText(ev.Description))
		}
		if ev.Location != "" {
			writeLine(&b, "LOCATION:"+escapeText(ev.Location))
		}
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

func formatUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// writeLine folds content longer than 75 octets per RFC 5545 §3.1 and
// terminates with CRLF.
func writeLine(b *strings.Builder, line string) {
	const limit = 75
	for len(line) > limit {
		b.WriteString(line[:limit])
		b.WriteString("\r\n ")
		line = line[limit:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
