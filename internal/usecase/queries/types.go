package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                uuid.UUID  `json:"id"`
	SessionStart      time.Time  `json:"session_start"`
	DurationType      string     `json:"duration_type"`
	DisplayMinutes    int        `json:"duration_display_minutes"`
	BlockedMinutes    int        `json:"duration_blocked_minutes"`
	Status            string     `json:"status"`
	ConfirmationToken string     `json:"-"`
	ClientEmail       string     `json:"client_email"`
	ClientPhone       *string    `json:"client_phone,omitempty"`
	ClientFirstName   string     `json:"client_first_name"`
	ClientLastName    string     `json:"client_last_name"`
	PersonFirstName   string     `json:"person_first_name"`
	PersonLastName    string     `json:"person_last_name"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ActiveInterval is the minimal projection of a pending/confirmed booking the
// availability math needs.
type ActiveInterval struct {
	ID             uuid.UUID
	Start          time.Time
	BlockedMinutes int
}

func (i ActiveInterval) End() time.Time {
	return i.Start.Add(time.Duration(i.BlockedMinutes) * time.Minute)
}

func (i ActiveInterval) Overlaps(start, end time.Time) bool {
	return i.Start.Before(end) && i.End().After(start)
}

// BusyInterval is a mirrored external calendar event. All-day entries block
// their entire date regardless of the requested window.
type BusyInterval struct {
	Start  time.Time
	End    time.Time
	AllDay bool
}

func (b BusyInterval) Blocks(start, end time.Time) bool {
	if b.AllDay {
		return true
	}
	return b.Start.Before(end) && b.End.After(start)
}

type BookingFilters struct {
	Status       *string
	DurationType *string
	DateFrom     *time.Time
	DateTo       *time.Time
}

type BookingStats struct {
	Upcoming          int64            `json:"upcoming"`
	Today             int64            `json:"today"`
	Pending           int64            `json:"pending"`
	ByStatusThisMonth map[string]int64 `json:"by_status_this_month"`
}

// BookingReadStore is the read-side persistence port.
type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByToken(ctx context.Context, token string) (*BookingView, error)
	List(ctx context.Context, filters BookingFilters, limit, offset int32) ([]*BookingView, error)
	Count(ctx context.Context, filters BookingFilters) (int64, error)

	// Availability inputs
	ActiveIntervalsForDate(ctx context.Context, dayStart, dayEnd time.Time) ([]ActiveInterval, error)
	HasActiveOverlap(ctx context.Context, start, end time.Time, exclude *uuid.UUID) (bool, error)

	// Abuse limits
	CountUpcomingByEmail(ctx context.Context, email string, now time.Time) (int64, error)
	CountUpcomingByIP(ctx context.Context, ip string, now time.Time) (int64, error)

	// Admin calendar and stats
	CountsPerDay(ctx context.Context, monthStart, monthEnd time.Time) (map[string]int64, error)
	Stats(ctx context.Context, now time.Time) (*BookingStats, error)
}
