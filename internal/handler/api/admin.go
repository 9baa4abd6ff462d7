package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"sensea-booking/internal/domain/booking"
	reqdto "sensea-booking/internal/handler/dto/request"
	resdto "sensea-booking/internal/handler/dto/response"
	"sensea-booking/internal/pkg/errs"
	"sensea-booking/internal/usecase/commands"
	"sensea-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CalendarRefresher triggers an immediate external calendar sync.
type CalendarRefresher interface {
	Refresh(ctx context.Context) error
}

type AdminHandler struct {
	bookingCommands  commands.BookingCommands
	bookingQueries   queries.BookingQueries
	settingsCommands commands.SettingsCommands
	settingsQueries  queries.SettingsQueries
	refresher        CalendarRefresher
	loc              *time.Location
}

func NewAdminHandler(
	bookingCommands commands.BookingCommands,
	bookingQueries queries.BookingQueries,
	settingsCommands commands.SettingsCommands,
	settingsQueries queries.SettingsQueries,
	refresher CalendarRefresher,
	loc *time.Location,
) *AdminHandler {
	return &AdminHandler{
		bookingCommands:  bookingCommands,
		bookingQueries:   bookingQueries,
		settingsCommands: settingsCommands,
		settingsQueries:  settingsQueries,
		refresher:        refresher,
		loc:              loc,
	}
}

// @Summary List bookings
// @Description List bookings with optional filters and pagination
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param type query string false "Session type filter"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date exclusive (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} resdto.BookingPageResponse
// @Failure 400 {object} map[string]string
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.bookingQueries.List(c.Request.Context(), filters, int32(limit), int32(offset))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingPage(page))
}

func (h *AdminHandler) parseFilters(c *gin.Context) (queries.BookingFilters, bool) {
	var filters queries.BookingFilters

	if raw := c.Query("status"); raw != "" {
		if _, err := booking.ParseStatus(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return filters, false
		}
		filters.Status = &raw
	}
	if raw := c.Query("type"); raw != "" {
		if _, err := booking.ParseDurationType(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type filter"})
			return filters, false
		}
		filters.DurationType = &raw
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return filters, false
		}
		filters.DateFrom = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return filters, false
		}
		to = to.AddDate(0, 0, 1)
		filters.DateTo = &to
	}

	return filters, true
}

// @Summary Get booking
// @Description Fetch one booking by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/bookings/{id} [get]
func (h *AdminHandler) GetBooking(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *AdminHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Cancel booking
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/bookings/{id}/cancel [post]
func (h *AdminHandler) CancelBooking(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Cancel)
}

// @Summary Complete booking
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/bookings/{id}/complete [post]
func (h *AdminHandler) CompleteBooking(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Complete)
}

// @Summary Mark booking as no-show
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/bookings/{id}/no-show [post]
func (h *AdminHandler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.MarkNoShow)
}

func (h *AdminHandler) applyTransition(c *gin.Context, apply func(context.Context, uuid.UUID) (*queries.BookingView, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := apply(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, booking.ErrAlreadyCancelled):
			c.JSON(http.StatusOK, gin.H{
				"message": "Booking already cancelled",
				"status":  booking.StatusCancelled.String(),
			})
		case errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Transition not allowed from current status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Booking calendar
// @Description Per-day active booking counts for one month
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /admin/calendar [get]
func (h *AdminHandler) GetCalendar(c *gin.Context) {
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "year and month are required",
		})
		return
	}

	counts, err := h.bookingQueries.CountsPerDay(c.Request.Context(), year, month)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"month":  month,
		"counts": counts,
	})
}

// @Summary Booking statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.BookingStats
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.bookingQueries.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary List settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /admin/settings [get]
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsQueries.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// @Summary Update settings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req reqdto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.settingsCommands.Update(c.Request.Context(), req.Settings); err != nil {
		switch {
		case errors.Is(err, commands.ErrUnknownSettingKey):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown setting key"})
		case errors.Is(err, commands.ErrInvalidSettingValue):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid setting value"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

// @Summary Refresh calendar cache
// @Description Force an immediate external calendar sync
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /admin/calendar/refresh [post]
func (h *AdminHandler) RefreshCalendar(c *gin.Context) {
	if err := h.refresher.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Calendar feed refresh failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Calendar cache refreshed"})
}
