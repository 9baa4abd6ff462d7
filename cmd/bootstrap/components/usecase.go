package components

import (
	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/usecase/commands"
	"sensea-booking/internal/usecase/queries"
	"sensea-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	shared.NewSettings,
	func(s *shared.Settings) queries.SettingsSource {
		return s
	},
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
		queries.NewSettingsQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthUseCase,
		commands.NewBookingUseCase,
		commands.NewSettingsUseCase,
	),
)
