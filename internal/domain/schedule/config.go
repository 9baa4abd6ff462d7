// Package schedule holds the provider's weekly opening configuration and the
// slot grid derived from it. Everything here is pure: callers pass the config
// snapshot and the date in, nothing reads ambient state or the system clock.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"sensea-booking/internal/domain/booking"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM")

// TimeOfDay is a wall-clock time expressed as minutes from midnight.
type TimeOfDay int

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(h*60 + m), nil
}

func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// At anchors the time of day on the calendar day of date, in date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}

// DayHours is one weekday's open/close window. A nil *DayHours means closed.
type DayHours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// Durations describes one session type: the client-visible length plus the
// pause reserved after it for cleanup.
type Durations struct {
	DisplayMinutes int
	PauseMinutes   int
}

func (d Durations) BlockedMinutes() int {
	return d.DisplayMinutes + d.PauseMinutes
}

func (d Durations) Blocked() time.Duration {
	return time.Duration(d.BlockedMinutes()) * time.Minute
}

// Config is the full schedule configuration snapshot for one calendar. It is
// assembled from the settings store on every call, never cached in-process.
type Config struct {
	// Week is indexed by time.Weekday (Sunday = 0); nil entries are closed days.
	Week [7]*DayHours

	LunchStart TimeOfDay
	LunchEnd   TimeOfDay
	FirstSlot  TimeOfDay

	Discovery Durations
	Regular   Durations

	// DayCutoffHour: once local time reaches this hour, the current day is no
	// longer offered for booking (same-day last-minute slots are withheld).
	DayCutoffHour int
}

// DefaultConfig mirrors the values used when no setting rows exist yet.
func DefaultConfig() Config {
	weekday := &DayHours{Open: MustTimeOfDay("09:00"), Close: MustTimeOfDay("18:00")}
	saturday := &DayHours{Open: MustTimeOfDay("10:00"), Close: MustTimeOfDay("17:00")}
	return Config{
		Week: [7]*DayHours{
			time.Sunday:    nil,
			time.Monday:    weekday,
			time.Tuesday:   weekday,
			time.Wednesday: weekday,
			time.Thursday:  nil,
			time.Friday:    weekday,
			time.Saturday:  saturday,
		},
		LunchStart:    MustTimeOfDay("12:30"),
		LunchEnd:      MustTimeOfDay("13:30"),
		FirstSlot:     MustTimeOfDay("09:00"),
		Discovery:     Durations{DisplayMinutes: 75, PauseMinutes: 15},
		Regular:       Durations{DisplayMinutes: 45, PauseMinutes: 20},
		DayCutoffHour: 23,
	}
}

func (c Config) DurationsFor(dt booking.DurationType) Durations {
	if dt == booking.TypeDiscovery {
		return c.Discovery
	}
	return c.Regular
}

// HoursFor returns the open/close window for date's weekday, nil when closed.
func (c Config) HoursFor(date time.Time) *DayHours {
	return c.Week[date.Weekday()]
}

func (c Config) IsOpen(date time.Time) bool {
	return c.HoursFor(date) != nil
}
