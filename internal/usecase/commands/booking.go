package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sensea-booking/internal/domain/booking"
	"sensea-booking/internal/infra"
	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/pkg/errs"
	"sensea-booking/internal/usecase/queries"
	"sensea-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func isTxClosed(err error) bool {
	return errors.Is(err, pgx.ErrTxClosed)
}

// BookingRepository is the write-side persistence port.
type BookingRepository interface {
	Create(ctx context.Context, tx infra.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByToken(ctx context.Context, token string) (*booking.Booking, error)
	// ConfirmIfPending flips pending → confirmed in a single guarded UPDATE and
	// reports whether a row changed, so two concurrent confirmations cannot
	// both win.
	ConfirmIfPending(ctx context.Context, tx infra.DBTX, id uuid.UUID, confirmedAt time.Time) (bool, error)
	UpdateStatus(ctx context.Context, b *booking.Booking) error
}

type CreateBookingInput struct {
	SessionStart time.Time
	DurationType booking.DurationType
	Client       booking.Client
}

type CreateBookingResult struct {
	Booking           *queries.BookingView
	ConfirmationToken string
	// AutoConfirmed is true when email confirmation is disabled and the
	// booking was persisted directly as confirmed.
	AutoConfirmed bool
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
	ConfirmByToken(ctx context.Context, token string) (*queries.BookingView, error)
	CancelByToken(ctx context.Context, token string) (*queries.BookingView, error)
	Cancel(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	Complete(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	repo         BookingRepository
	readStore    queries.BookingReadStore
	availability queries.AvailabilityQueries
	settings     *shared.Settings
	db           *pgxpool.Pool
	clock        clock.Clock
	loc          *time.Location
}

func NewBookingUseCase(
	repo BookingRepository,
	readStore queries.BookingReadStore,
	availability queries.AvailabilityQueries,
	settings *shared.Settings,
	db *pgxpool.Pool,
	clk clock.Clock,
	loc *time.Location,
) BookingCommands {
	return &bookingUseCaseImpl{
		repo:         repo,
		readStore:    readStore,
		availability: availability,
		settings:     settings,
		db:           db,
		clock:        clk,
		loc:          loc,
	}
}

func (u *bookingUseCaseImpl) now() time.Time {
	return u.clock.Now().In(u.loc)
}

func (u *bookingUseCaseImpl) Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	now := u.now()

	if err := u.checkAbuseLimits(ctx, in.Client, now); err != nil {
		return nil, err
	}

	start := in.SessionStart.In(u.loc)
	if err := u.availability.ValidateSlot(ctx, start, in.DurationType, nil); err != nil {
		return nil, err
	}

	cfg, err := u.settings.ScheduleConfig(ctx)
	if err != nil {
		return nil, err
	}
	durations := cfg.DurationsFor(in.DurationType)

	entity, err := booking.NewBooking(start, in.DurationType, durations.DisplayMinutes, durations.PauseMinutes, in.Client, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	emailRequired, err := u.settings.EmailConfirmationRequired(ctx)
	if err != nil {
		return nil, err
	}
	if !emailRequired {
		if err := entity.Confirm(now); err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
	}

	if err := u.insertBooking(ctx, entity); err != nil {
		return nil, err
	}

	return &CreateBookingResult{
		Booking:           viewOf(entity),
		ConfirmationToken: entity.ConfirmationToken(),
		AutoConfirmed:     !emailRequired,
	}, nil
}

func (u *bookingUseCaseImpl) checkAbuseLimits(ctx context.Context, client booking.Client, now time.Time) error {
	maxPerEmail, err := u.settings.MaxUpcomingPerEmail(ctx)
	if err != nil {
		return err
	}
	byEmail, err := u.readStore.CountUpcomingByEmail(ctx, client.Email, now)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if byEmail >= int64(maxPerEmail) {
		return errs.ErrTooManyUpcoming
	}

	maxPerIP, err := u.settings.MaxUpcomingPerIP(ctx)
	if err != nil {
		return err
	}
	if client.IP == "" {
		return nil
	}
	byIP, err := u.readStore.CountUpcomingByIP(ctx, client.IP, now)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if byIP >= int64(maxPerIP) {
		return errs.ErrTooManyUpcoming
	}
	return nil
}

// insertBooking persists inside a transaction so the exclusion constraint on
// the blocked interval is the final arbiter under concurrent requests.
func (u *bookingUseCaseImpl) insertBooking(ctx context.Context, entity *booking.Booking) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !isTxClosed(rollbackErr) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := u.repo.Create(ctx, tx, entity); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.Mark(err, errs.ErrSlotTaken)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *bookingUseCaseImpl) ConfirmByToken(ctx context.Context, token string) (*queries.BookingView, error) {
	entity, err := u.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch entity.Status() {
	case booking.StatusPending:
		// fall through to confirmation
	case booking.StatusConfirmed:
		return nil, booking.ErrAlreadyConfirmed
	default:
		return nil, booking.ErrInvalidTransition
	}

	// The slot may have been taken or blocked since the booking was created;
	// the booking itself is excluded so it never collides with its own row.
	// On failure the booking stays pending.
	id := entity.ID()
	if err := u.availability.ValidateSlot(ctx, entity.SessionStart(), entity.DurationType(), &id); err != nil {
		return nil, err
	}

	now := u.now()
	confirmed, err := u.repo.ConfirmIfPending(ctx, u.db, id, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !confirmed {
		// Lost the race: someone else moved the status first.
		current, err := u.repo.FindByID(ctx, id)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if current.Status() == booking.StatusConfirmed {
			return nil, booking.ErrAlreadyConfirmed
		}
		return nil, booking.ErrInvalidTransition
	}

	if err := entity.Confirm(now); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return viewOf(entity), nil
}

func (u *bookingUseCaseImpl) CancelByToken(ctx context.Context, token string) (*queries.BookingView, error) {
	entity, err := u.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return u.applyTransition(ctx, entity, (*booking.Booking).Cancel)
}

func (u *bookingUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return u.transitionByID(ctx, id, (*booking.Booking).Cancel)
}

func (u *bookingUseCaseImpl) Complete(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return u.transitionByID(ctx, id, (*booking.Booking).Complete)
}

func (u *bookingUseCaseImpl) MarkNoShow(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return u.transitionByID(ctx, id, (*booking.Booking).MarkNoShow)
}

func (u *bookingUseCaseImpl) transitionByID(ctx context.Context, id uuid.UUID, apply func(*booking.Booking, time.Time) error) (*queries.BookingView, error) {
	entity, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return u.applyTransition(ctx, entity, apply)
}

func (u *bookingUseCaseImpl) applyTransition(ctx context.Context, entity *booking.Booking, apply func(*booking.Booking, time.Time) error) (*queries.BookingView, error) {
	if err := apply(entity, u.now()); err != nil {
		return nil, err
	}
	if err := u.repo.UpdateStatus(ctx, entity); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return viewOf(entity), nil
}

func (u *bookingUseCaseImpl) findByToken(ctx context.Context, token string) (*booking.Booking, error) {
	entity, err := u.repo.FindByToken(ctx, token)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return entity, nil
}

func viewOf(b *booking.Booking) *queries.BookingView {
	client := b.Client()
	view := &queries.BookingView{
		ID:                b.ID(),
		SessionStart:      b.SessionStart(),
		DurationType:      b.DurationType().String(),
		DisplayMinutes:    b.DisplayMinutes(),
		BlockedMinutes:    b.BlockedMinutes(),
		Status:            b.Status().String(),
		ConfirmationToken: b.ConfirmationToken(),
		ClientEmail:       client.Email,
		ClientFirstName:   client.FirstName,
		ClientLastName:    client.LastName,
		PersonFirstName:   client.PersonFirstName,
		PersonLastName:    client.PersonLastName,
		ConfirmedAt:       b.ConfirmedAt(),
		CreatedAt:         b.CreatedAt(),
		UpdatedAt:         b.UpdatedAt(),
	}
	if client.Phone != "" {
		phone := client.Phone
		view.ClientPhone = &phone
	}
	return view
}
