package queries

import (
	"context"
	"time"

	"sensea-booking/internal/domain/booking"
	"sensea-booking/internal/domain/schedule"
	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// bookingHorizonMonths caps how far ahead the public calendar is published.
const bookingHorizonMonths = 3

type Slot struct {
	Time     string `json:"time"`
	DateTime string `json:"datetime"`
}

type DaySlots struct {
	Date           string `json:"date"`
	Type           string `json:"type"`
	DisplayMinutes int    `json:"duration_display_minutes"`
	BlockedMinutes int    `json:"duration_blocked_minutes"`
	Slots          []Slot `json:"slots"`
}

type ScheduleDay struct {
	Day   int     `json:"day"`
	Open  bool    `json:"open"`
	Hours *string `json:"hours,omitempty"`
}

type DurationInfo struct {
	DisplayMinutes int `json:"display_minutes"`
	BlockedMinutes int `json:"blocked_minutes"`
}

type ScheduleInfo struct {
	Days                      []ScheduleDay           `json:"schedule"`
	LunchBreakStart           string                  `json:"lunch_break_start"`
	LunchBreakEnd             string                  `json:"lunch_break_end"`
	FirstSlot                 string                  `json:"first_slot"`
	Durations                 map[string]DurationInfo `json:"durations"`
	EmailConfirmationRequired bool                    `json:"email_confirmation_required"`
}

// SettingsSource provides the late-bound schedule configuration.
type SettingsSource interface {
	ScheduleConfig(ctx context.Context) (schedule.Config, error)
	EmailConfirmationRequired(ctx context.Context) (bool, error)
}

// BusyCalendar is the external calendar mirror. Implementations refresh their
// cache (TTL-bounded, fail-open) before answering.
type BusyCalendar interface {
	BusyIntervalsForDate(ctx context.Context, dayStart, dayEnd time.Time) ([]BusyInterval, error)
	IsIntervalBlocked(ctx context.Context, start, end time.Time) (bool, error)
}

type AvailabilityQueries interface {
	AvailableDates(ctx context.Context, year, month int, dt booking.DurationType) ([]string, error)
	AvailableSlots(ctx context.Context, date time.Time, dt booking.DurationType) (*DaySlots, error)
	// ValidateSlot re-runs the full eligibility chain and returns the first
	// failing reason. exclude removes one booking from the overlap check so a
	// pending booking does not collide with itself at confirmation time.
	ValidateSlot(ctx context.Context, start time.Time, dt booking.DurationType, exclude *uuid.UUID) error
	ScheduleInfo(ctx context.Context) (*ScheduleInfo, error)
}

type availabilityResolver struct {
	settings SettingsSource
	bookings BookingReadStore
	calendar BusyCalendar
	clock    clock.Clock
	loc      *time.Location
}

func NewAvailabilityQueries(
	settings SettingsSource,
	bookings BookingReadStore,
	calendar BusyCalendar,
	clk clock.Clock,
	loc *time.Location,
) AvailabilityQueries {
	return &availabilityResolver{
		settings: settings,
		bookings: bookings,
		calendar: calendar,
		clock:    clk,
		loc:      loc,
	}
}

func (r *availabilityResolver) now() time.Time {
	return r.clock.Now().In(r.loc)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// firstBookableDay is today, or tomorrow once local time passes the cutoff
// hour (same-day last-minute slots are withheld from the public calendar).
func firstBookableDay(now time.Time, cutoffHour int) time.Time {
	day := midnight(now)
	if now.Hour() >= cutoffHour {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func (r *availabilityResolver) AvailableDates(ctx context.Context, year, month int, dt booking.DurationType) ([]string, error) {
	if month < 1 || month > 12 {
		return nil, errs.ErrInvalidMonth
	}

	now := r.now()
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, r.loc)

	// Nothing to publish for past months or beyond the booking horizon.
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.loc)
	if monthStart.Before(currentMonth) || monthStart.After(now.AddDate(0, bookingHorizonMonths, 0)) {
		return []string{}, nil
	}

	cfg, err := r.settings.ScheduleConfig(ctx)
	if err != nil {
		return nil, err
	}

	first := firstBookableDay(now, cfg.DayCutoffHour)

	dates := []string{}
	for day := monthStart; day.Month() == time.Month(month); day = day.AddDate(0, 0, 1) {
		if day.Before(first) || !cfg.IsOpen(day) {
			continue
		}
		slots, err := r.slotsForDay(ctx, cfg, day, dt)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			dates = append(dates, day.Format("2006-01-02"))
		}
	}

	return dates, nil
}

func (r *availabilityResolver) AvailableSlots(ctx context.Context, date time.Time, dt booking.DurationType) (*DaySlots, error) {
	cfg, err := r.settings.ScheduleConfig(ctx)
	if err != nil {
		return nil, err
	}

	day := midnight(date.In(r.loc))
	durations := cfg.DurationsFor(dt)

	out := &DaySlots{
		Date:           day.Format("2006-01-02"),
		Type:           dt.String(),
		DisplayMinutes: durations.DisplayMinutes,
		BlockedMinutes: durations.BlockedMinutes(),
		Slots:          []Slot{},
	}

	starts, err := r.slotsForDay(ctx, cfg, day, dt)
	if err != nil {
		return nil, err
	}
	for _, s := range starts {
		out.Slots = append(out.Slots, Slot{
			Time:     s.Format("15:04"),
			DateTime: s.Format("2006-01-02 15:04:05"),
		})
	}

	return out, nil
}

// slotsForDay layers bookings and the calendar mirror over the generated grid
// and keeps only future, unblocked starts.
func (r *availabilityResolver) slotsForDay(ctx context.Context, cfg schedule.Config, day time.Time, dt booking.DurationType) ([]time.Time, error) {
	candidates := cfg.SlotsFor(day, dt)
	if len(candidates) == 0 {
		return nil, nil
	}

	dayEnd := day.AddDate(0, 0, 1)
	active, err := r.bookings.ActiveIntervalsForDate(ctx, day, dayEnd)
	if err != nil {
		return nil, err
	}
	busy, err := r.calendar.BusyIntervalsForDate(ctx, day, dayEnd)
	if err != nil {
		return nil, err
	}

	now := r.now()
	blocked := cfg.DurationsFor(dt).Blocked()

	var free []time.Time
nextCandidate:
	for _, start := range candidates {
		if !start.After(now) {
			continue
		}
		end := start.Add(blocked)
		for _, b := range active {
			if b.Overlaps(start, end) {
				continue nextCandidate
			}
		}
		for _, b := range busy {
			if b.Blocks(start, end) {
				continue nextCandidate
			}
		}
		free = append(free, start)
	}

	return free, nil
}

func (r *availabilityResolver) ValidateSlot(ctx context.Context, start time.Time, dt booking.DurationType, exclude *uuid.UUID) error {
	start = start.In(r.loc)
	now := r.now()

	if !start.After(now) {
		return errs.ErrSlotInPast
	}

	cfg, err := r.settings.ScheduleConfig(ctx)
	if err != nil {
		return err
	}

	hours := cfg.HoursFor(start)
	if hours == nil {
		return errs.ErrDayClosed
	}
	if start.Before(hours.Open.At(start)) {
		return errs.ErrBeforeOpening
	}

	end := start.Add(cfg.DurationsFor(dt).Blocked())
	if end.After(hours.Close.At(start)) {
		return errs.ErrCrossesClosing
	}

	if !cfg.ContainsSlot(start, dt) {
		return errs.ErrInvalidSlot
	}

	calendarBlocked, err := r.calendar.IsIntervalBlocked(ctx, start, end)
	if err != nil {
		return err
	}
	if calendarBlocked {
		return errs.ErrSlotUnavailable
	}

	booked, err := r.bookings.HasActiveOverlap(ctx, start, end, exclude)
	if err != nil {
		return err
	}
	if booked {
		return errs.ErrSlotUnavailable
	}

	return nil
}

func (r *availabilityResolver) ScheduleInfo(ctx context.Context) (*ScheduleInfo, error) {
	cfg, err := r.settings.ScheduleConfig(ctx)
	if err != nil {
		return nil, err
	}
	emailRequired, err := r.settings.EmailConfirmationRequired(ctx)
	if err != nil {
		return nil, err
	}

	info := &ScheduleInfo{
		LunchBreakStart: cfg.LunchStart.String(),
		LunchBreakEnd:   cfg.LunchEnd.String(),
		FirstSlot:       cfg.FirstSlot.String(),
		Durations: map[string]DurationInfo{
			booking.TypeDiscovery.String(): {
				DisplayMinutes: cfg.Discovery.DisplayMinutes,
				BlockedMinutes: cfg.Discovery.BlockedMinutes(),
			},
			booking.TypeRegular.String(): {
				DisplayMinutes: cfg.Regular.DisplayMinutes,
				BlockedMinutes: cfg.Regular.BlockedMinutes(),
			},
		},
		EmailConfirmationRequired: emailRequired,
	}

	for day := 0; day < 7; day++ {
		sd := ScheduleDay{Day: day, Open: cfg.Week[day] != nil}
		if hours := cfg.Week[day]; hours != nil {
			formatted := hours.Open.String() + "-" + hours.Close.String()
			sd.Hours = &formatted
		}
		info.Days = append(info.Days, sd)
	}

	return info, nil
}
