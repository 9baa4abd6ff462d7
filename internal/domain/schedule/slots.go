package schedule

import (
	"time"

	"sensea-booking/internal/domain/booking"
)

// SlotsFor generates the ordered list of theoretically bookable start times
// for one day and duration type. The grid is recomputed on every call from
// the config snapshot; availability (bookings, external calendar) is layered
// on elsewhere.
//
// The walk starts at the later of the configured first-slot time and the
// day's opening time (so a later Saturday opening wins automatically) and
// steps by the blocked duration. A candidate overlapping the lunch break is
// dropped and the walk jumps to the end of the break rather than butting a
// partial slot against it. Generation stops at the first candidate that
// would run past closing time.
func (c Config) SlotsFor(date time.Time, dt booking.DurationType) []time.Time {
	hours := c.HoursFor(date)
	if hours == nil {
		return nil
	}

	blocked := c.DurationsFor(dt).Blocked()

	start := c.FirstSlot
	if hours.Open > start {
		start = hours.Open
	}

	cur := start.At(date)
	closeAt := hours.Close.At(date)
	lunchStart := c.LunchStart.At(date)
	lunchEnd := c.LunchEnd.At(date)

	var slots []time.Time
	for {
		end := cur.Add(blocked)
		if end.After(closeAt) {
			break
		}

		overlapsLunch := cur.Before(lunchEnd) && end.After(lunchStart)
		if !overlapsLunch {
			slots = append(slots, cur)
		}

		cur = cur.Add(blocked)
		if !cur.Before(lunchStart) && cur.Before(lunchEnd) {
			cur = lunchEnd
		}
	}

	return slots
}

// ContainsSlot reports whether start sits exactly on the generated grid for
// its day. Off-grid times are rejected at validation even when nothing else
// conflicts.
func (c Config) ContainsSlot(start time.Time, dt booking.DurationType) bool {
	for _, s := range c.SlotsFor(start, dt) {
		if s.Equal(start) {
			return true
		}
	}
	return false
}
