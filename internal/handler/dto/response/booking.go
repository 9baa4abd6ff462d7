package response

import (
	"time"

	"sensea-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	SessionStart    time.Time  `json:"sessionStart"`
	DurationType    string     `json:"durationType"`
	DisplayMinutes  int        `json:"displayMinutes"`
	BlockedMinutes  int        `json:"blockedMinutes"`
	Status          string     `json:"status"`
	ClientEmail     string     `json:"clientEmail"`
	ClientPhone     *string    `json:"clientPhone,omitempty"`
	ClientFirstName string     `json:"clientFirstName"`
	ClientLastName  string     `json:"clientLastName"`
	PersonFirstName string     `json:"personFirstName"`
	PersonLastName  string     `json:"personLastName"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateBookingResponse additionally exposes the confirmation token: booking
// creation is the only moment it crosses the wire.
type CreateBookingResponse struct {
	Booking           *BookingResponse `json:"booking"`
	ConfirmationToken string           `json:"confirmationToken"`
	AutoConfirmed     bool             `json:"autoConfirmed"`
}

type BookingPageResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int64              `json:"total"`
	Limit    int32              `json:"limit"`
	Offset   int32              `json:"offset"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	// Field names line up; copier keeps this mapping from drifting as the
	// view grows.
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookingPage(page *queries.BookingPage) *BookingPageResponse {
	resp := &BookingPageResponse{
		Bookings: make([]*BookingResponse, 0, len(page.Bookings)),
		Total:    page.Total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	for _, view := range page.Bookings {
		resp.Bookings = append(resp.Bookings, FromBookingView(view))
	}
	return resp
}
