//go:build unit

package booking_test

import (
	"testing"
	"time"

	"sensea-booking/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func validClient() booking.Client {
	return booking.Client{
		Email:           "Client@Example.COM",
		Phone:           "+33600000000",
		FirstName:       "Marie",
		LastName:        "Durand",
		PersonFirstName: "Lea",
		PersonLastName:  "Durand",
		IP:              "203.0.113.7",
	}
}

func newPending(t *testing.T) *booking.Booking {
	t.Helper()
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	b, err := booking.NewBooking(start, booking.TypeRegular, 45, 20, validClient(), testNow)
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newPending(t)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, booking.StatusPending, b.Status())
	assert.Equal(t, 45, b.DisplayMinutes())
	assert.Equal(t, 65, b.BlockedMinutes())
	assert.Len(t, b.ConfirmationToken(), 64)
	assert.Nil(t, b.ConfirmedAt())

	// Email is normalized at construction time.
	assert.Equal(t, "client@example.com", b.Client().Email)

	assert.Equal(t, b.SessionStart().Add(65*time.Minute), b.BlockedEnd())
}

func TestNewBookingValidation(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(c *booking.Client) time.Time
		wantErr error
	}{
		{
			name:    "missing session start",
			mutate:  func(_ *booking.Client) time.Time { return time.Time{} },
			wantErr: booking.ErrMissingSessionStart,
		},
		{
			name: "invalid email",
			mutate: func(c *booking.Client) time.Time {
				c.Email = "not-an-email"
				return start
			},
			wantErr: booking.ErrInvalidEmail,
		},
		{
			name: "missing client name",
			mutate: func(c *booking.Client) time.Time {
				c.FirstName = "  "
				return start
			},
			wantErr: booking.ErrMissingClientName,
		},
		{
			name: "missing beneficiary name",
			mutate: func(c *booking.Client) time.Time {
				c.PersonLastName = ""
				return start
			},
			wantErr: booking.ErrMissingPersonName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := validClient()
			s := tt.mutate(&client)
			_, err := booking.NewBooking(s, booking.TypeRegular, 45, 20, client, testNow)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfirm(t *testing.T) {
	b := newPending(t)
	later := testNow.Add(time.Hour)

	require.NoError(t, b.Confirm(later))
	assert.Equal(t, booking.StatusConfirmed, b.Status())
	require.NotNil(t, b.ConfirmedAt())
	assert.Equal(t, later, *b.ConfirmedAt())
	assert.Equal(t, later, b.UpdatedAt())

	// Confirming twice is reported distinctly.
	assert.ErrorIs(t, b.Confirm(later.Add(time.Minute)), booking.ErrAlreadyConfirmed)
}

func TestCancelIsIdempotent(t *testing.T) {
	b := newPending(t)

	require.NoError(t, b.Cancel(testNow))
	assert.Equal(t, booking.StatusCancelled, b.Status())

	assert.ErrorIs(t, b.Cancel(testNow), booking.ErrAlreadyCancelled)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from    booking.Status
		apply   func(b *booking.Booking) error
		wantErr error
		want    booking.Status
	}{
		{from: booking.StatusPending, apply: func(b *booking.Booking) error { return b.Confirm(testNow) }, want: booking.StatusConfirmed},
		{from: booking.StatusPending, apply: func(b *booking.Booking) error { return b.Cancel(testNow) }, want: booking.StatusCancelled},
		{from: booking.StatusPending, apply: func(b *booking.Booking) error { return b.Complete(testNow) }, wantErr: booking.ErrInvalidTransition},
		{from: booking.StatusPending, apply: func(b *booking.Booking) error { return b.MarkNoShow(testNow) }, wantErr: booking.ErrInvalidTransition},
		{from: booking.StatusConfirmed, apply: func(b *booking.Booking) error { return b.Complete(testNow) }, want: booking.StatusCompleted},
		{from: booking.StatusConfirmed, apply: func(b *booking.Booking) error { return b.Cancel(testNow) }, want: booking.StatusCancelled},
		{from: booking.StatusConfirmed, apply: func(b *booking.Booking) error { return b.MarkNoShow(testNow) }, want: booking.StatusNoShow},
		{from: booking.StatusCompleted, apply: func(b *booking.Booking) error { return b.Cancel(testNow) }, wantErr: booking.ErrInvalidTransition},
		{from: booking.StatusCancelled, apply: func(b *booking.Booking) error { return b.Confirm(testNow) }, wantErr: booking.ErrInvalidTransition},
		{from: booking.StatusNoShow, apply: func(b *booking.Booking) error { return b.Complete(testNow) }, wantErr: booking.ErrInvalidTransition},
	}

	for _, tt := range tests {
		b := newPending(t)
		switch tt.from {
		case booking.StatusConfirmed:
			require.NoError(t, b.Confirm(testNow))
		case booking.StatusCompleted:
			require.NoError(t, b.Confirm(testNow))
			require.NoError(t, b.Complete(testNow))
		case booking.StatusCancelled:
			require.NoError(t, b.Cancel(testNow))
		case booking.StatusNoShow:
			require.NoError(t, b.Confirm(testNow))
			require.NoError(t, b.MarkNoShow(testNow))
		}

		err := tt.apply(b)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.from, b.Status(), "status must not change on a rejected transition")
		} else {
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Status())
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range booking.Statuses() {
		terminal := s == booking.StatusCompleted || s == booking.StatusCancelled || s == booking.StatusNoShow
		assert.Equal(t, terminal, s.IsTerminal(), s.String())
	}
}

func TestOverlaps(t *testing.T) {
	b := newPending(t) // 09:00 - 10:05 blocked
	start := b.SessionStart()

	assert.True(t, b.Overlaps(start, start.Add(65*time.Minute)))
	assert.True(t, b.Overlaps(start.Add(-30*time.Minute), start.Add(time.Minute)))
	assert.True(t, b.Overlaps(start.Add(64*time.Minute), start.Add(2*time.Hour)))

	// Touching intervals do not overlap (half-open semantics).
	assert.False(t, b.Overlaps(start.Add(65*time.Minute), start.Add(3*time.Hour)))
	assert.False(t, b.Overlaps(start.Add(-time.Hour), start))
}

func TestNewConfirmationToken(t *testing.T) {
	a, err := booking.NewConfirmationToken()
	require.NoError(t, err)
	b, err := booking.NewConfirmationToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
