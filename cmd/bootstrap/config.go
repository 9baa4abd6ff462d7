package bootstrap

import (
	"time"

	"sensea-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewLocation,
		func(cfg config.Config) config.AdminConfig {
			return cfg.Admin
		},
	),
)

func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.App.Location()
}
