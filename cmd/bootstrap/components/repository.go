package components

import (
	"sensea-booking/internal/infra/calendar"
	"sensea-booking/internal/infra/readstore"
	"sensea-booking/internal/infra/repository"
	"sensea-booking/internal/usecase/commands"
	"sensea-booking/internal/usecase/queries"
	"sensea-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repository.NewSettingsRepository,
			fx.As(new(shared.SettingsReader)),
			fx.As(new(shared.SettingsWriter)),
		),
		fx.Annotate(
			repository.NewCalendarCacheRepository,
			fx.As(new(calendar.CacheStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
	),
)
