package queries

import (
	"context"
	"time"

	"sensea-booking/internal/infra"
	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingPage struct {
	Bookings []*BookingView `json:"bookings"`
	Total    int64          `json:"total"`
	Limit    int32          `json:"limit"`
	Offset   int32          `json:"offset"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	GetByToken(ctx context.Context, token string) (*BookingView, error)
	List(ctx context.Context, filters BookingFilters, limit, offset int32) (*BookingPage, error)
	CountsPerDay(ctx context.Context, year, month int) (map[string]int64, error)
	Stats(ctx context.Context) (*BookingStats, error)
}

type bookingQueries struct {
	store BookingReadStore
	clock clock.Clock
	loc   *time.Location
}

func NewBookingQueries(store BookingReadStore, clk clock.Clock, loc *time.Location) BookingQueries {
	return &bookingQueries{store: store, clock: clk, loc: loc}
}

func (q *bookingQueries) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueries) GetByToken(ctx context.Context, token string) (*BookingView, error) {
	view, err := q.store.FindByToken(ctx, token)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueries) List(ctx context.Context, filters BookingFilters, limit, offset int32) (*BookingPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	views, err := q.store.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := q.store.Count(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &BookingPage{Bookings: views, Total: total, Limit: limit, Offset: offset}, nil
}

func (q *bookingQueries) CountsPerDay(ctx context.Context, year, month int) (map[string]int64, error) {
	if month < 1 || month > 12 {
		return nil, errs.ErrInvalidMonth
	}
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, q.loc)
	return q.store.CountsPerDay(ctx, monthStart, monthStart.AddDate(0, 1, 0))
}

func (q *bookingQueries) Stats(ctx context.Context) (*BookingStats, error) {
	return q.store.Stats(ctx, q.clock.Now().In(q.loc))
}
