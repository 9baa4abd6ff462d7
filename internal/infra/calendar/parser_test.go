//go:build unit

package calendar_test

import (
	"strings"
	"testing"
	"time"

	"sensea-booking/internal/infra/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func feed(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func TestParseFeedTimedEvent(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	events := calendar.ParseFeed(feed(
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:ev-1",
		"SUMMARY:Workshop",
		"DTSTART;TZID=Europe/Paris:20260907T140000",
		"DTEND;TZID=Europe/Paris:20260907T160000",
		"END:VEVENT",
		"END:VCALENDAR",
	), paris)

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "ev-1", ev.UID)
	assert.Equal(t, "Workshop", ev.Summary)
	assert.False(t, ev.AllDay)
	assert.Equal(t, time.Date(2026, 9, 7, 14, 0, 0, 0, paris), ev.Start)
	assert.Equal(t, time.Date(2026, 9, 7, 16, 0, 0, 0, paris), ev.End)
}

func TestParseFeedUTCDatetime(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	events := calendar.ParseFeed(feed(
		"BEGIN:VEVENT",
		"UID:ev-utc",
		"DTSTART:20260907T120000Z",
		"DTEND:20260907T130000Z",
		"END:VEVENT",
	), paris)

	require.Len(t, events, 1)
	// CEST is UTC+2 in September.
	assert.Equal(t, time.Date(2026, 9, 7, 14, 0, 0, 0, paris), events[0].Start)
	assert.Equal(t, time.Date(2026, 9, 7, 15, 0, 0, 0, paris), events[0].End)
}

func TestParseFeedAllDayEvent(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	events := calendar.ParseFeed(feed(
		"BEGIN:VEVENT",
		"UID:ev-allday",
		"DTSTART;VALUE=DATE:20260907",
		"END:VEVENT",
	), paris)

	require.Len(t, events, 1)
	ev := events[0]
	assert.True(t, ev.AllDay)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, paris), ev.Start)
	// Missing DTEND on an all-day event spans the whole date.
	assert.Equal(t, time.Date(2026, 9, 8, 0, 0, 0, 0, paris), ev.End)
}

func TestParseFeedMissingDTENDDefaultsToOneHour(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	events := calendar.ParseFeed(feed(
		"BEGIN:VEVENT",
		"UID:ev-nodtend",
		"DTSTART;TZID=Europe/Paris:20260907T090000",
		"END:VEVENT",
	), paris)

	require.Len(t, events, 1)
	assert.Equal(t, time.Hour, events[0].End.Sub(events[0].Start))
}

func TestParseFeedFloatingTimeUsesLocalZone(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	events := calendar.ParseFeed(feed(
		"BEGIN:VEVENT",
		"UID:ev-floating",
		"DTSTART:20260907T090000",
		"END:VEVENT",
	), paris)

	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, paris), events[0].Start)
}

func TestParseFeedUnfoldsAndUnescapes(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	events := calendar.ParseFeed(feed(
		"BEGIN:VEVENT",
		"UID:ev-folded",
		"SUMMARY:Long title that",
		" continues on the next line\\, with a comma",
		"DTSTART:20260907T090000Z",
		"END:VEVENT",
	), paris)

	require.Len(t, events, 1)
	assert.Equal(t, "Long title thatcontinues on the next line, with a comma", events[0].Summary)
}

func TestParseFeedSkipsMalformedEvents(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	events := calendar.ParseFeed(feed(
		"BEGIN:VEVENT",
		"SUMMARY:No UID",
		"DTSTART:20260907T090000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ev-baddate",
		"DTSTART:not-a-date-at-all",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ev-good",
		"DTSTART:20260907T090000Z",
		"END:VEVENT",
	), paris)

	require.Len(t, events, 1)
	assert.Equal(t, "ev-good", events[0].UID)
}

func TestParseFeedEmptyInput(t *testing.T) {
	assert.Empty(t, calendar.ParseFeed(nil, time.UTC))
	assert.Empty(t, calendar.ParseFeed([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), time.UTC))
}
