package booking

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingSessionStart = errors.New("session start is required")
	ErrInvalidEmail        = errors.New("client email is invalid")
	ErrMissingClientName   = errors.New("client name is required")
	ErrMissingPersonName   = errors.New("beneficiary name is required")
)

// Client identifies who books and who attends. The engine itself only needs
// the slot fields; the rest rides along for notifications and the admin view.
type Client struct {
	Email           string
	Phone           string
	FirstName       string
	LastName        string
	PersonFirstName string
	PersonLastName  string
	IP              string
}

type Booking struct {
	id                uuid.UUID
	sessionStart      time.Time
	durationType      DurationType
	displayMinutes    int
	blockedMinutes    int
	status            Status
	confirmationToken string
	client            Client
	confirmedAt       *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// NewBooking creates a pending booking with a fresh confirmation token.
// Display/blocked minutes are snapshotted from the configuration in force at
// creation time so later configuration changes never move existing bookings.
func NewBooking(start time.Time, dt DurationType, displayMinutes, pauseMinutes int, client Client, now time.Time) (*Booking, error) {
	if start.IsZero() {
		return nil, ErrMissingSessionStart
	}
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	if !strings.Contains(client.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(client.FirstName) == "" || strings.TrimSpace(client.LastName) == "" {
		return nil, ErrMissingClientName
	}
	if strings.TrimSpace(client.PersonFirstName) == "" || strings.TrimSpace(client.PersonLastName) == "" {
		return nil, ErrMissingPersonName
	}

	token, err := NewConfirmationToken()
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:                uuid.New(),
		sessionStart:      start,
		durationType:      dt,
		displayMinutes:    displayMinutes,
		blockedMinutes:    displayMinutes + pauseMinutes,
		status:            StatusPending,
		confirmationToken: token,
		client:            client,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	sessionStart time.Time,
	dt DurationType,
	displayMinutes, blockedMinutes int,
	status Status,
	confirmationToken string,
	client Client,
	confirmedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                id,
		sessionStart:      sessionStart,
		durationType:      dt,
		displayMinutes:    displayMinutes,
		blockedMinutes:    blockedMinutes,
		status:            status,
		confirmationToken: confirmationToken,
		client:            client,
		confirmedAt:       confirmedAt,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (b *Booking) transition(next Status, now time.Time) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	b.updatedAt = now
	return nil
}

// Confirm moves pending → confirmed and stamps confirmedAt. Confirming an
// already confirmed booking is reported distinctly so callers can answer
// "already confirmed" instead of failing.
func (b *Booking) Confirm(now time.Time) error {
	if b.status == StatusConfirmed {
		return ErrAlreadyConfirmed
	}
	if err := b.transition(StatusConfirmed, now); err != nil {
		return err
	}
	t := now
	b.confirmedAt = &t
	return nil
}

// Cancel is allowed from pending or confirmed. Cancelling an already
// cancelled booking is idempotent and reported as ErrAlreadyCancelled.
func (b *Booking) Cancel(now time.Time) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	return b.transition(StatusCancelled, now)
}

// Complete marks a delivered session; admin only, from confirmed.
func (b *Booking) Complete(now time.Time) error {
	return b.transition(StatusCompleted, now)
}

// MarkNoShow records a client absence; admin only, from confirmed.
func (b *Booking) MarkNoShow(now time.Time) error {
	return b.transition(StatusNoShow, now)
}

func (b *Booking) BlockedEnd() time.Time {
	return b.sessionStart.Add(time.Duration(b.blockedMinutes) * time.Minute)
}

// Overlaps reports whether the blocked interval intersects [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.sessionStart.Before(end) && b.BlockedEnd().After(start)
}

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) SessionStart() time.Time    { return b.sessionStart }
func (b *Booking) DurationType() DurationType { return b.durationType }
func (b *Booking) DisplayMinutes() int        { return b.displayMinutes }
func (b *Booking) BlockedMinutes() int        { return b.blockedMinutes }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) ConfirmationToken() string  { return b.confirmationToken }
func (b *Booking) Client() Client             { return b.client }
func (b *Booking) ConfirmedAt() *time.Time    { return b.confirmedAt }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }

// NewConfirmationToken returns a 64-char hex token, the single-use credential
// behind the public confirm/cancel endpoints.
func NewConfirmationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
