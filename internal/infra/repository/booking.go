package repository

import (
	"context"
	"errors"
	"time"

	"sensea-booking/internal/domain/booking"
	"sensea-booking/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the booking table can raise on insert.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

const bookingColumns = `
	id, session_start, duration_type, display_minutes, blocked_minutes,
	status, confirmation_token,
	client_email, client_phone, client_first_name, client_last_name,
	person_first_name, person_last_name, client_ip,
	confirmed_at, created_at, updated_at`

type BookingRepository struct {
	db infra.DBTX
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking; blocked_during is derived in SQL so the
// exclusion constraint always sees exactly the interval the row claims.
func (r *BookingRepository) Create(ctx context.Context, tx infra.DBTX, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, session_start, duration_type, display_minutes, blocked_minutes,
			blocked_during, status, confirmation_token,
			client_email, client_phone, client_first_name, client_last_name,
			person_first_name, person_last_name, client_ip,
			confirmed_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			tstzrange($2, $2 + make_interval(mins => $5)), $6, $7,
			$8, NULLIF($9, ''), $10, $11,
			$12, $13, NULLIF($14, ''),
			$15, $16, $17
		)`

	client := b.Client()
	_, err := tx.Exec(ctx, query,
		b.ID(), b.SessionStart(), b.DurationType().String(), b.DisplayMinutes(), b.BlockedMinutes(),
		b.Status().String(), b.ConfirmationToken(),
		client.Email, client.Phone, client.FirstName, client.LastName,
		client.PersonFirstName, client.PersonLastName, client.IP,
		b.ConfirmedAt(), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgExclusionViolation:
				return infra.WrapRepoErr("booking interval overlaps an active booking", err, infra.KindConflict)
			case pgUniqueViolation:
				return infra.WrapRepoErr("booking violates a unique constraint", err, infra.KindDuplicateKey)
			}
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const query = `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *BookingRepository) FindByToken(ctx context.Context, token string) (*booking.Booking, error) {
	const query = `SELECT` + bookingColumns + ` FROM bookings WHERE confirmation_token = $1`
	return r.scanOne(ctx, query, token)
}

func (r *BookingRepository) scanOne(ctx context.Context, query string, arg any) (*booking.Booking, error) {
	var (
		id                          uuid.UUID
		sessionStart                time.Time
		durationType, status        string
		displayMinutes, blockedMins int
		confirmationToken           string
		email, firstName, lastName  string
		personFirst, personLast     string
		phone, clientIP             *string
		confirmedAt                 *time.Time
		createdAt, updatedAt        time.Time
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &sessionStart, &durationType, &displayMinutes, &blockedMins,
		&status, &confirmationToken,
		&email, &phone, &firstName, &lastName,
		&personFirst, &personLast, &clientIP,
		&confirmedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	dt, err := booking.ParseDurationType(durationType)
	if err != nil {
		return nil, infra.WrapRepoErr("stored duration type is invalid", err)
	}
	st, err := booking.ParseStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored status is invalid", err)
	}

	client := booking.Client{
		Email:           email,
		FirstName:       firstName,
		LastName:        lastName,
		PersonFirstName: personFirst,
		PersonLastName:  personLast,
	}
	if phone != nil {
		client.Phone = *phone
	}
	if clientIP != nil {
		client.IP = *clientIP
	}

	return booking.Reconstruct(
		id, sessionStart, dt, displayMinutes, blockedMins,
		st, confirmationToken, client, confirmedAt, createdAt, updatedAt,
	), nil
}

func (r *BookingRepository) ConfirmIfPending(ctx context.Context, tx infra.DBTX, id uuid.UUID, confirmedAt time.Time) (bool, error) {
	const query = `
		UPDATE bookings
		SET status = 'confirmed', confirmed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'pending'`

	tag, err := tx.Exec(ctx, query, id, confirmedAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to confirm booking", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET status = $2, confirmed_at = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, b.ID(), b.Status().String(), b.ConfirmedAt(), b.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
