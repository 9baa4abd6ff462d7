package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"sensea-booking/internal/domain/booking"
	reqdto "sensea-booking/internal/handler/dto/request"
	resdto "sensea-booking/internal/handler/dto/response"
	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/pkg/errs"
	"sensea-booking/internal/pkg/ics"
	"sensea-booking/internal/usecase/commands"
	"sensea-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const icsProdID = "-//sensea//booking//EN"

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
	clock           clock.Clock
	loc             *time.Location
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries, clk clock.Clock, loc *time.Location) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
		clock:           clk,
		loc:             loc,
	}
}

// abortSlotError translates the slot validation chain into responses. The
// reasons are mutually exclusive; the first failing check decides.
func abortSlotError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, errs.ErrSlotInPast):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Requested slot is in the past"})
	case errors.Is(err, errs.ErrDayClosed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This day is closed"})
	case errors.Is(err, errs.ErrBeforeOpening):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Requested slot is before opening time"})
	case errors.Is(err, errs.ErrCrossesClosing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Session would run past closing time"})
	case errors.Is(err, errs.ErrInvalidSlot):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid slot"})
	case errors.Is(err, errs.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot is no longer available"})
	case errors.Is(err, errs.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot was just taken"})
	default:
		return false
	}
	return true
}

// @Summary Create booking
// @Description Book a slot; returns the booking and its confirmation token
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	start, err := req.ParseSessionStart(h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session_start format",
		})
		return
	}

	dt, err := req.ParseDurationType()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session type",
		})
		return
	}

	result, err := h.bookingCommands.Create(c.Request.Context(), commands.CreateBookingInput{
		SessionStart: start,
		DurationType: dt,
		Client:       req.Client(c.ClientIP()),
	})
	if err != nil {
		switch {
		case abortSlotError(c, err):
		case errors.Is(err, errs.ErrTooManyUpcoming):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many upcoming bookings",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateBookingResponse{
		Booking:           resdto.FromBookingView(result.Booking),
		ConfirmationToken: result.ConfirmationToken,
		AutoConfirmed:     result.AutoConfirmed,
	})
}

// @Summary Get booking
// @Description Fetch a booking by its confirmation token
// @Tags bookings
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{token} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	view, err := h.bookingQueries.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, errs.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Confirm booking
// @Description Confirm a pending booking; the slot is re-checked first
// @Tags bookings
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/confirm/{token} [get]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	view, err := h.bookingCommands.ConfirmByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, booking.ErrAlreadyConfirmed):
			c.JSON(http.StatusOK, gin.H{
				"message": "Booking already confirmed",
				"status":  booking.StatusConfirmed.String(),
			})
		case errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking can no longer be confirmed",
			})
		case abortSlotError(c, err):
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Cancel a booking by its confirmation token; idempotent
// @Tags bookings
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/cancel/{token} [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	view, err := h.bookingCommands.CancelByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, booking.ErrAlreadyCancelled):
			c.JSON(http.StatusOK, gin.H{
				"message": "Booking already cancelled",
				"status":  booking.StatusCancelled.String(),
			})
		case errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking can no longer be cancelled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Booking calendar file
// @Description Download a confirmed booking as an .ics calendar event
// @Tags bookings
// @Produce text/calendar
// @Param token path string true "Confirmation token"
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{token}/ics [get]
func (h *BookingHandler) GetBookingICS(c *gin.Context) {
	view, err := h.bookingQueries.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, errs.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	// Only a confirmed session is worth putting in a calendar.
	if view.Status != booking.StatusConfirmed.String() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is not confirmed",
		})
		return
	}

	event := ics.Event{
		UID:     view.ID.String() + "@sensea",
		Summary: fmt.Sprintf("Sensea %s session", view.DurationType),
		Description: fmt.Sprintf("Session for %s %s (%d min)",
			view.PersonFirstName, view.PersonLastName, view.DisplayMinutes),
		Start: view.SessionStart,
		End:   view.SessionStart.Add(time.Duration(view.DisplayMinutes) * time.Minute),
	}

	c.Header("Content-Disposition", `attachment; filename="booking.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics.Render(icsProdID, h.clock.Now(), []ics.Event{event})))
}
