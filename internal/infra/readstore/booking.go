package readstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sensea-booking/internal/infra"
	"sensea-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const viewColumns = `
	id, session_start, duration_type, display_minutes, blocked_minutes,
	status, confirmation_token,
	client_email, client_phone, client_first_name, client_last_name,
	person_first_name, person_last_name,
	confirmed_at, created_at, updated_at`

type BookingReadStore struct {
	db infra.DBTX
}

func NewBookingReadStore(db *pgxpool.Pool) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const query = `SELECT` + viewColumns + ` FROM bookings WHERE id = $1`
	return r.scanView(r.db.QueryRow(ctx, query, id))
}

func (r *BookingReadStore) FindByToken(ctx context.Context, token string) (*queries.BookingView, error) {
	const query = `SELECT` + viewColumns + ` FROM bookings WHERE confirmation_token = $1`
	return r.scanView(r.db.QueryRow(ctx, query, token))
}

func (r *BookingReadStore) scanView(row pgx.Row) (*queries.BookingView, error) {
	var view queries.BookingView
	err := row.Scan(
		&view.ID, &view.SessionStart, &view.DurationType, &view.DisplayMinutes, &view.BlockedMinutes,
		&view.Status, &view.ConfirmationToken,
		&view.ClientEmail, &view.ClientPhone, &view.ClientFirstName, &view.ClientLastName,
		&view.PersonFirstName, &view.PersonLastName,
		&view.ConfirmedAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan booking view", err)
	}
	return &view, nil
}

// filterClause builds the WHERE clause shared by List and Count.
func filterClause(filters queries.BookingFilters) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filters.Status != nil {
		add("status = $%d", *filters.Status)
	}
	if filters.DurationType != nil {
		add("duration_type = $%d", *filters.DurationType)
	}
	if filters.DateFrom != nil {
		add("session_start >= $%d", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		add("session_start < $%d", *filters.DateTo)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *BookingReadStore) List(ctx context.Context, filters queries.BookingFilters, limit, offset int32) ([]*queries.BookingView, error) {
	where, args := filterClause(filters)
	query := `SELECT` + viewColumns + ` FROM bookings` + where +
		fmt.Sprintf(` ORDER BY session_start DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	views := []*queries.BookingView{}
	for rows.Next() {
		view, err := r.scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return views, nil
}

func (r *BookingReadStore) Count(ctx context.Context, filters queries.BookingFilters) (int64, error) {
	where, args := filterClause(filters)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`+where, args...).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count bookings", err)
	}
	return count, nil
}

func (r *BookingReadStore) ActiveIntervalsForDate(ctx context.Context, dayStart, dayEnd time.Time) ([]queries.ActiveInterval, error) {
	const query = `
		SELECT id, session_start, blocked_minutes
		FROM bookings
		WHERE status IN ('pending', 'confirmed')
		  AND session_start < $2
		  AND session_start + make_interval(mins => blocked_minutes) > $1
		ORDER BY session_start`

	rows, err := r.db.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query active intervals", err)
	}
	defer rows.Close()

	var out []queries.ActiveInterval
	for rows.Next() {
		var iv queries.ActiveInterval
		if err := rows.Scan(&iv.ID, &iv.Start, &iv.BlockedMinutes); err != nil {
			return nil, infra.WrapRepoErr("failed to scan active interval", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate active intervals", err)
	}
	return out, nil
}

func (r *BookingReadStore) HasActiveOverlap(ctx context.Context, start, end time.Time, exclude *uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE status IN ('pending', 'confirmed')
			  AND blocked_during && tstzrange($1, $2)
			  AND ($3::uuid IS NULL OR id <> $3)
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, start, end, exclude).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

func (r *BookingReadStore) CountUpcomingByEmail(ctx context.Context, email string, now time.Time) (int64, error) {
	const query = `
		SELECT count(*) FROM bookings
		WHERE client_email = $1
		  AND status IN ('pending', 'confirmed')
		  AND session_start > $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, email, now).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count upcoming bookings by email", err)
	}
	return count, nil
}

func (r *BookingReadStore) CountUpcomingByIP(ctx context.Context, ip string, now time.Time) (int64, error) {
	const query = `
		SELECT count(*) FROM bookings
		WHERE client_ip = $1
		  AND status IN ('pending', 'confirmed')
		  AND session_start > $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, ip, now).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count upcoming bookings by IP", err)
	}
	return count, nil
}

func (r *BookingReadStore) CountsPerDay(ctx context.Context, monthStart, monthEnd time.Time) (map[string]int64, error) {
	const query = `
		SELECT to_char(session_start AT TIME ZONE $3, 'YYYY-MM-DD') AS day, count(*)
		FROM bookings
		WHERE status IN ('pending', 'confirmed')
		  AND session_start >= $1 AND session_start < $2
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.Query(ctx, query, monthStart, monthEnd, monthStart.Location().String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count bookings per day", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			day   string
			count int64
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan per-day count", err)
		}
		out[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate per-day counts", err)
	}
	return out, nil
}

func (r *BookingReadStore) Stats(ctx context.Context, now time.Time) (*queries.BookingStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	const query = `
		SELECT
			count(*) FILTER (WHERE status IN ('pending', 'confirmed') AND session_start > $1),
			count(*) FILTER (WHERE status IN ('pending', 'confirmed') AND session_start >= $2 AND session_start < $3),
			count(*) FILTER (WHERE status = 'pending')
		FROM bookings`

	stats := &queries.BookingStats{}
	err := r.db.QueryRow(ctx, query, now, dayStart, dayStart.AddDate(0, 0, 1)).
		Scan(&stats.Upcoming, &stats.Today, &stats.Pending)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read booking stats", err)
	}

	const byStatus = `
		SELECT status, count(*)
		FROM bookings
		WHERE session_start >= $1 AND session_start < $2
		GROUP BY status`

	rows, err := r.db.Query(ctx, byStatus, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read monthly status counts", err)
	}
	defer rows.Close()

	stats.ByStatusThisMonth = make(map[string]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan status count", err)
		}
		stats.ByStatusThisMonth[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate status counts", err)
	}
	return stats, nil
}
