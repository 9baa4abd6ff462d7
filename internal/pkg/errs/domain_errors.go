package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotTaken       = errors.New("slot already taken")

	// Slot validation errors; each carries the distinct reason surfaced to the
	// client, and ValidateSlot returns the first one that applies.
	ErrSlotInPast      = errors.New("requested slot is in the past")
	ErrDayClosed       = errors.New("this day is closed")
	ErrBeforeOpening   = errors.New("requested slot is before opening time")
	ErrCrossesClosing  = errors.New("slot would run past closing time")
	ErrInvalidSlot     = errors.New("invalid slot")
	ErrSlotUnavailable = errors.New("slot is no longer available")
	ErrTooManyUpcoming = errors.New("too many upcoming bookings")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
	ErrInvalidDate     = errors.New("invalid date")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
