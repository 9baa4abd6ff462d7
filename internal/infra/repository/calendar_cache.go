package repository

import (
	"context"
	"log/slog"
	"time"

	"sensea-booking/internal/infra"
	"sensea-booking/internal/infra/calendar"
	"sensea-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CalendarCacheRepository struct {
	db *pgxpool.Pool
}

func NewCalendarCacheRepository(db *pgxpool.Pool) *CalendarCacheRepository {
	return &CalendarCacheRepository{db: db}
}

func (r *CalendarCacheRepository) LastFetchedAt(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	err := r.db.QueryRow(ctx, `SELECT max(last_fetched_at) FROM booking_calendar_cache`).Scan(&last)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read calendar cache age", err)
	}
	return last, nil
}

// ReplaceFeed reconciles in one transaction: rows for UIDs no longer in the
// feed go away, everything else is upserted in place. Running it twice with
// the same snapshot is a no-op.
func (r *CalendarCacheRepository) ReplaceFeed(ctx context.Context, events []calendar.Event, fetchedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin calendar cache transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			slog.Debug("calendar cache rollback", "error", rollbackErr)
		}
	}()

	uids := make([]string, 0, len(events))
	for _, ev := range events {
		uids = append(uids, ev.UID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM booking_calendar_cache WHERE event_uid <> ALL($1)`, uids); err != nil {
		return infra.WrapRepoErr("failed to prune removed calendar events", err)
	}

	const upsert = `
		INSERT INTO booking_calendar_cache (event_uid, summary, start_time, end_time, is_all_day, last_fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_uid) DO UPDATE SET
			summary = EXCLUDED.summary,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_all_day = EXCLUDED.is_all_day,
			last_fetched_at = EXCLUDED.last_fetched_at`

	for _, ev := range events {
		if _, err := tx.Exec(ctx, upsert, ev.UID, ev.Summary, ev.Start, ev.End, ev.AllDay, fetchedAt); err != nil {
			return infra.WrapRepoErr("failed to upsert calendar event", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit calendar cache transaction", err)
	}
	return nil
}

func (r *CalendarCacheRepository) EventsBetween(ctx context.Context, start, end time.Time) ([]queries.BusyInterval, error) {
	const query = `
		SELECT start_time, end_time, is_all_day
		FROM booking_calendar_cache
		WHERE start_time < $2 AND end_time > $1
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query calendar cache", err)
	}
	defer rows.Close()

	var out []queries.BusyInterval
	for rows.Next() {
		var iv queries.BusyInterval
		if err := rows.Scan(&iv.Start, &iv.End, &iv.AllDay); err != nil {
			return nil, infra.WrapRepoErr("failed to scan calendar event", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate calendar events", err)
	}
	return out, nil
}

func (r *CalendarCacheRepository) HasOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM booking_calendar_cache
			WHERE start_time < $2 AND end_time > $1
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, start, end).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check calendar overlap", err)
	}
	return exists, nil
}
