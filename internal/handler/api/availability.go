package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sensea-booking/internal/domain/booking"
	"sensea-booking/internal/pkg/errs"
	"sensea-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
	loc          *time.Location
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries, loc *time.Location) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, loc: loc}
}

func parseDurationTypeParam(c *gin.Context) (booking.DurationType, bool) {
	raw := c.DefaultQuery("type", booking.TypeRegular.String())
	dt, err := booking.ParseDurationType(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session type",
		})
		return "", false
	}
	return dt, true
}

// @Summary Available dates
// @Description List the dates of a month that still have at least one free slot
// @Tags availability
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param type query string false "Session type" Enums(discovery, regular)
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /availability/dates [get]
func (h *AvailabilityHandler) GetDates(c *gin.Context) {
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "year and month are required",
		})
		return
	}

	dt, ok := parseDurationTypeParam(c)
	if !ok {
		return
	}

	dates, err := h.availability.AvailableDates(c.Request.Context(), year, month, dt)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "month must be between 1 and 12",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":            year,
		"month":           month,
		"type":            dt.String(),
		"available_dates": dates,
	})
}

// @Summary Available slots
// @Description List the free slots of one day for a session type
// @Tags availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param type query string false "Session type" Enums(discovery, regular)
// @Success 200 {object} queries.DaySlots
// @Failure 400 {object} map[string]string
// @Router /availability/slots [get]
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "date must be YYYY-MM-DD",
		})
		return
	}

	dt, ok := parseDurationTypeParam(c)
	if !ok {
		return
	}

	slots, err := h.availability.AvailableSlots(c.Request.Context(), date, dt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// @Summary Schedule information
// @Description Opening hours, lunch break and session durations
// @Tags availability
// @Produce json
// @Success 200 {object} queries.ScheduleInfo
// @Router /availability/schedule [get]
func (h *AvailabilityHandler) GetSchedule(c *gin.Context) {
	info, err := h.availability.ScheduleInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, info)
}
