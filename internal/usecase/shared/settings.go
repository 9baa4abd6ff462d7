package shared

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"sensea-booking/internal/domain/schedule"
)

// Setting keys managed by the administrator. Values are read at call time so
// changes apply without a redeploy; defaults below mirror schedule.DefaultConfig.
const (
	KeyBusinessHours             = "business_hours"
	KeyDiscoveryDisplayMinutes   = "session_discovery_display_minutes"
	KeyDiscoveryPauseMinutes     = "session_discovery_pause_minutes"
	KeyRegularDisplayMinutes     = "session_regular_display_minutes"
	KeyRegularPauseMinutes       = "session_regular_pause_minutes"
	KeyLunchBreakStart           = "lunch_break_start"
	KeyLunchBreakEnd             = "lunch_break_end"
	KeyFirstSlotTime             = "first_slot_time"
	KeyCalendarCacheTTL          = "calendar_cache_ttl"
	KeyDayCutoffHour             = "day_cutoff_hour"
	KeyEmailConfirmationRequired = "booking_email_confirmation_required"
	KeyMaxUpcomingPerEmail       = "booking_max_per_email"
	KeyMaxUpcomingPerIP          = "booking_max_per_ip"
)

const (
	defaultCalendarCacheTTL = 300 * time.Second
	defaultMaxUpcoming      = 4
)

// SettingsReader is the persistence port for the typed key/value store.
// A missing key is not an error; it just falls back to the code default.
type SettingsReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
	All(ctx context.Context) (map[string]string, error)
}

type SettingsWriter interface {
	Set(ctx context.Context, key, value string) error
}

// Settings turns raw setting rows into the typed configuration the engine
// consumes. It is the injected replacement for the original's process-wide
// settings cache: no hidden state, every read goes through the reader.
type Settings struct {
	reader SettingsReader
}

func NewSettings(reader SettingsReader) *Settings {
	return &Settings{reader: reader}
}

func (s *Settings) str(ctx context.Context, key, fallback string) (string, error) {
	v, ok, err := s.reader.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}

func (s *Settings) integer(ctx context.Context, key string, fallback int) (int, error) {
	v, ok, err := s.reader.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil {
		return fallback, nil
	}
	return n, nil
}

func (s *Settings) boolean(ctx context.Context, key string, fallback bool) (bool, error) {
	v, ok, err := s.reader.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return fallback, nil
	}
	b, convErr := strconv.ParseBool(v)
	if convErr != nil {
		return fallback, nil
	}
	return b, nil
}

func (s *Settings) timeOfDay(ctx context.Context, key string, fallback schedule.TimeOfDay) (schedule.TimeOfDay, error) {
	v, ok, err := s.reader.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	t, parseErr := schedule.ParseTimeOfDay(v)
	if parseErr != nil {
		return fallback, nil
	}
	return t, nil
}

type businessHoursJSON map[string]*struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// ScheduleConfig assembles the full schedule snapshot for one request.
func (s *Settings) ScheduleConfig(ctx context.Context) (schedule.Config, error) {
	cfg := schedule.DefaultConfig()

	if raw, ok, err := s.reader.Get(ctx, KeyBusinessHours); err != nil {
		return schedule.Config{}, err
	} else if ok && raw != "" {
		var parsed businessHoursJSON
		if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr == nil {
			var week [7]*schedule.DayHours
			for day, hours := range parsed {
				idx, convErr := strconv.Atoi(day)
				if convErr != nil || idx < 0 || idx > 6 {
					continue
				}
				if hours == nil {
					continue // closed day
				}
				open, openErr := schedule.ParseTimeOfDay(hours.Open)
				closeAt, closeErr := schedule.ParseTimeOfDay(hours.Close)
				if openErr != nil || closeErr != nil {
					continue
				}
				week[idx] = &schedule.DayHours{Open: open, Close: closeAt}
			}
			cfg.Week = week
		}
	}

	var err error
	if cfg.Discovery.DisplayMinutes, err = s.integer(ctx, KeyDiscoveryDisplayMinutes, cfg.Discovery.DisplayMinutes); err != nil {
		return schedule.Config{}, err
	}
	if cfg.Discovery.PauseMinutes, err = s.integer(ctx, KeyDiscoveryPauseMinutes, cfg.Discovery.PauseMinutes); err != nil {
		return schedule.Config{}, err
	}
	if cfg.Regular.DisplayMinutes, err = s.integer(ctx, KeyRegularDisplayMinutes, cfg.Regular.DisplayMinutes); err != nil {
		return schedule.Config{}, err
	}
	if cfg.Regular.PauseMinutes, err = s.integer(ctx, KeyRegularPauseMinutes, cfg.Regular.PauseMinutes); err != nil {
		return schedule.Config{}, err
	}
	if cfg.LunchStart, err = s.timeOfDay(ctx, KeyLunchBreakStart, cfg.LunchStart); err != nil {
		return schedule.Config{}, err
	}
	if cfg.LunchEnd, err = s.timeOfDay(ctx, KeyLunchBreakEnd, cfg.LunchEnd); err != nil {
		return schedule.Config{}, err
	}
	if cfg.FirstSlot, err = s.timeOfDay(ctx, KeyFirstSlotTime, cfg.FirstSlot); err != nil {
		return schedule.Config{}, err
	}
	if cfg.DayCutoffHour, err = s.integer(ctx, KeyDayCutoffHour, cfg.DayCutoffHour); err != nil {
		return schedule.Config{}, err
	}

	return cfg, nil
}

func (s *Settings) CalendarCacheTTL(ctx context.Context) time.Duration {
	secs, err := s.integer(ctx, KeyCalendarCacheTTL, int(defaultCalendarCacheTTL/time.Second))
	if err != nil || secs <= 0 {
		return defaultCalendarCacheTTL
	}
	return time.Duration(secs) * time.Second
}

func (s *Settings) EmailConfirmationRequired(ctx context.Context) (bool, error) {
	return s.boolean(ctx, KeyEmailConfirmationRequired, false)
}

func (s *Settings) MaxUpcomingPerEmail(ctx context.Context) (int, error) {
	return s.integer(ctx, KeyMaxUpcomingPerEmail, defaultMaxUpcoming)
}

func (s *Settings) MaxUpcomingPerIP(ctx context.Context) (int, error) {
	return s.integer(ctx, KeyMaxUpcomingPerIP, defaultMaxUpcoming)
}
