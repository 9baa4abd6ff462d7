package components

import (
	"time"

	"sensea-booking/internal/handler/api"
	"sensea-booking/internal/infra/calendar"
	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/pkg/config"
	"sensea-booking/internal/usecase/queries"
	"sensea-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var CalendarModule = fx.Module("calendar",
	fx.Provide(
		func(cfg config.Config) calendar.Feed {
			return calendar.NewHTTPFeed(cfg.Calendar)
		},
		func(s *shared.Settings) calendar.TTLSource {
			return s
		},
		NewCalendarSync,
		func(c *calendar.SyncCache) queries.BusyCalendar {
			return c
		},
		func(c *calendar.SyncCache) api.CalendarRefresher {
			return c
		},
	),
)

func NewCalendarSync(
	feed calendar.Feed,
	store calendar.CacheStore,
	ttl calendar.TTLSource,
	clk clock.Clock,
	loc *time.Location,
	cfg config.Config,
) *calendar.SyncCache {
	return calendar.NewSyncCache(feed, store, ttl, clk, loc, cfg.Calendar.FeedURL != "")
}
