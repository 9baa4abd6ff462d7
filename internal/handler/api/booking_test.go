//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sensea-booking/internal/domain/booking"
	"sensea-booking/internal/handler/api"
	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/pkg/errs"
	"sensea-booking/internal/usecase/commands"
	"sensea-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeBookingCommands struct {
	commands.BookingCommands

	createResult *commands.CreateBookingResult
	createErr    error
	confirmView  *queries.BookingView
	confirmErr   error
	cancelView   *queries.BookingView
	cancelErr    error
}

func (f *fakeBookingCommands) Create(_ context.Context, _ commands.CreateBookingInput) (*commands.CreateBookingResult, error) {
	return f.createResult, f.createErr
}

func (f *fakeBookingCommands) ConfirmByToken(_ context.Context, _ string) (*queries.BookingView, error) {
	return f.confirmView, f.confirmErr
}

func (f *fakeBookingCommands) CancelByToken(_ context.Context, _ string) (*queries.BookingView, error) {
	return f.cancelView, f.cancelErr
}

type fakeBookingQueries struct {
	queries.BookingQueries

	view    *queries.BookingView
	viewErr error
}

func (f *fakeBookingQueries) GetByToken(_ context.Context, _ string) (*queries.BookingView, error) {
	return f.view, f.viewErr
}

func sampleView() *queries.BookingView {
	return &queries.BookingView{
		ID:              uuid.New(),
		SessionStart:    time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		DurationType:    "regular",
		DisplayMinutes:  45,
		BlockedMinutes:  65,
		Status:          "pending",
		ClientEmail:     "client@example.com",
		ClientFirstName: "Marie",
		ClientLastName:  "Durand",
		PersonFirstName: "Lea",
		PersonLastName:  "Durand",
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeBookingCommands
	queries  *fakeBookingQueries
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &fakeBookingCommands{}
	s.queries = &fakeBookingQueries{}
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	handler := api.NewBookingHandler(s.commands, s.queries, clk, time.UTC)

	s.router.POST("/api/bookings", handler.CreateBooking)
	s.router.GET("/api/bookings/confirm/:token", handler.ConfirmBooking)
	s.router.POST("/api/bookings/cancel/:token", handler.CancelBooking)
	s.router.GET("/api/bookings/:token", handler.GetBooking)
	s.router.GET("/api/bookings/:token/ics", handler.GetBookingICS)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) perform(method, url, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validCreateBody() string {
	payload := map[string]any{
		"session_start":     "2026-09-07 09:00:00",
		"duration_type":     "regular",
		"client_email":      "client@example.com",
		"client_first_name": "Marie",
		"client_last_name":  "Durand",
		"person_first_name": "Lea",
		"person_last_name":  "Durand",
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	s.Run("success returns 201 with the confirmation token", func() {
		view := sampleView()
		s.commands.createErr = nil
		s.commands.createResult = &commands.CreateBookingResult{
			Booking:           view,
			ConfirmationToken: "tok123",
			AutoConfirmed:     true,
		}

		rec := s.perform(http.MethodPost, "/api/bookings", validCreateBody())
		assert.Equal(s.T(), http.StatusCreated, rec.Code)
		assert.Contains(s.T(), rec.Body.String(), `"confirmationToken":"tok123"`)
		assert.Contains(s.T(), rec.Body.String(), `"autoConfirmed":true`)
	})

	s.Run("invalid body returns 400", func() {
		rec := s.perform(http.MethodPost, "/api/bookings", `{"duration_type":"regular"}`)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("unparseable session_start returns 400", func() {
		body := strings.Replace(validCreateBody(), "2026-09-07 09:00:00", "next tuesday", 1)
		rec := s.perform(http.MethodPost, "/api/bookings", body)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("error mapping", func() {
		cases := []struct {
			err  error
			code int
		}{
			{errs.ErrSlotInPast, http.StatusUnprocessableEntity},
			{errs.ErrDayClosed, http.StatusUnprocessableEntity},
			{errs.ErrBeforeOpening, http.StatusUnprocessableEntity},
			{errs.ErrCrossesClosing, http.StatusUnprocessableEntity},
			{errs.ErrInvalidSlot, http.StatusUnprocessableEntity},
			{errs.ErrSlotUnavailable, http.StatusConflict},
			{errs.ErrSlotTaken, http.StatusConflict},
			{errs.ErrTooManyUpcoming, http.StatusTooManyRequests},
			{errs.ErrDatabaseOperationFailed, http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.commands.createResult = nil
			s.commands.createErr = tc.err
			rec := s.perform(http.MethodPost, "/api/bookings", validCreateBody())
			assert.Equalf(s.T(), tc.code, rec.Code, "error %v", tc.err)
		}
	})
}

func (s *BookingHandlerTestSuite) TestConfirmBooking() {
	s.Run("success returns the confirmed booking", func() {
		view := sampleView()
		view.Status = "confirmed"
		s.commands.confirmView = view

		rec := s.perform(http.MethodGet, "/api/bookings/confirm/tok", "")
		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Contains(s.T(), rec.Body.String(), `"status":"confirmed"`)
	})

	s.Run("already confirmed is an informative 200", func() {
		s.commands.confirmView = nil
		s.commands.confirmErr = booking.ErrAlreadyConfirmed

		rec := s.perform(http.MethodGet, "/api/bookings/confirm/tok", "")
		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Contains(s.T(), rec.Body.String(), "already confirmed")
	})

	s.Run("slot gone returns 409", func() {
		s.commands.confirmErr = errs.ErrSlotUnavailable
		rec := s.perform(http.MethodGet, "/api/bookings/confirm/tok", "")
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})

	s.Run("terminal booking returns 409", func() {
		s.commands.confirmErr = booking.ErrInvalidTransition
		rec := s.perform(http.MethodGet, "/api/bookings/confirm/tok", "")
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})

	s.Run("unknown token returns 404", func() {
		s.commands.confirmErr = errs.ErrBookingNotFound
		rec := s.perform(http.MethodGet, "/api/bookings/confirm/tok", "")
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	s.Run("already cancelled is an informative 200", func() {
		s.commands.cancelErr = booking.ErrAlreadyCancelled
		rec := s.perform(http.MethodPost, "/api/bookings/cancel/tok", "")
		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Contains(s.T(), rec.Body.String(), "already cancelled")
	})
}

func (s *BookingHandlerTestSuite) TestBookingICS() {
	s.Run("confirmed booking returns a calendar document", func() {
		view := sampleView()
		view.Status = "confirmed"
		s.queries.view = view

		rec := s.perform(http.MethodGet, "/api/bookings/tok/ics", "")
		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Contains(s.T(), rec.Header().Get("Content-Type"), "text/calendar")
		assert.Contains(s.T(), rec.Body.String(), "BEGIN:VEVENT")
		assert.Contains(s.T(), rec.Body.String(), "DTSTAMP:20260901T100000Z")
	})

	s.Run("pending booking returns 409", func() {
		s.queries.view = sampleView()

		rec := s.perform(http.MethodGet, "/api/bookings/tok/ics", "")
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})

	s.Run("cancelled booking returns 409", func() {
		view := sampleView()
		view.Status = "cancelled"
		s.queries.view = view

		rec := s.perform(http.MethodGet, "/api/bookings/tok/ics", "")
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})

	s.Run("unknown token returns 404", func() {
		s.queries.view = nil
		s.queries.viewErr = errs.ErrBookingNotFound

		rec := s.perform(http.MethodGet, "/api/bookings/tok/ics", "")
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}
