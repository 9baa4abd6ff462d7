package bootstrap

import (
	"sensea-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.RepositoryModule,
	components.CalendarModule,
	components.UseCaseModule,
	components.HandlerModule,
)
