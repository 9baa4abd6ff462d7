package request

import (
	"strings"
	"time"

	"sensea-booking/internal/domain/booking"
	"sensea-booking/internal/pkg/errs"
)

// sessionStartLayouts are the accepted shapes for session_start, tried in
// order. Offset-less values are interpreted in the provider's timezone.
var sessionStartLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

type CreateBookingRequest struct {
	SessionStart    string  `json:"session_start" binding:"required"`
	DurationType    string  `json:"duration_type" binding:"required"`
	ClientEmail     string  `json:"client_email" binding:"required,email"`
	ClientPhone     *string `json:"client_phone,omitempty"`
	ClientFirstName string  `json:"client_first_name" binding:"required"`
	ClientLastName  string  `json:"client_last_name" binding:"required"`
	PersonFirstName string  `json:"person_first_name" binding:"required"`
	PersonLastName  string  `json:"person_last_name" binding:"required"`
}

func (r CreateBookingRequest) ParseSessionStart(loc *time.Location) (time.Time, error) {
	for _, layout := range sessionStartLayouts {
		if t, err := time.ParseInLocation(layout, r.SessionStart, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.ErrInvalidDate
}

func (r CreateBookingRequest) ParseDurationType() (booking.DurationType, error) {
	return booking.ParseDurationType(strings.ToLower(strings.TrimSpace(r.DurationType)))
}

func (r CreateBookingRequest) Client(ip string) booking.Client {
	client := booking.Client{
		Email:           r.ClientEmail,
		FirstName:       strings.TrimSpace(r.ClientFirstName),
		LastName:        strings.TrimSpace(r.ClientLastName),
		PersonFirstName: strings.TrimSpace(r.PersonFirstName),
		PersonLastName:  strings.TrimSpace(r.PersonLastName),
		IP:              ip,
	}
	if r.ClientPhone != nil {
		client.Phone = strings.TrimSpace(*r.ClientPhone)
	}
	return client
}
