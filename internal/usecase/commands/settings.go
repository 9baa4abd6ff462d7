package commands

import (
	"context"
	"encoding/json"
	"strconv"

	"sensea-booking/internal/domain/schedule"
	"sensea-booking/internal/pkg/errs"
	"sensea-booking/internal/usecase/shared"
)

var (
	ErrUnknownSettingKey   = errs.New("unknown setting key")
	ErrInvalidSettingValue = errs.New("invalid setting value")
)

type SettingsCommands interface {
	Update(ctx context.Context, values map[string]string) error
}

type settingsUseCaseImpl struct {
	writer shared.SettingsWriter
}

func NewSettingsUseCase(writer shared.SettingsWriter) SettingsCommands {
	return &settingsUseCaseImpl{writer: writer}
}

// Update validates then persists each provided key. Validation runs over the
// whole payload first so a bad value never leaves a partial write behind.
func (u *settingsUseCaseImpl) Update(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		if err := validateSetting(key, value); err != nil {
			return err
		}
	}
	for key, value := range values {
		if err := u.writer.Set(ctx, key, value); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return nil
}

func validateSetting(key, value string) error {
	switch key {
	case shared.KeyBusinessHours:
		var parsed map[string]*struct {
			Open  string `json:"open"`
			Close string `json:"close"`
		}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return errs.Mark(err, ErrInvalidSettingValue)
		}
		for day, hours := range parsed {
			idx, err := strconv.Atoi(day)
			if err != nil || idx < 0 || idx > 6 {
				return ErrInvalidSettingValue
			}
			if hours == nil {
				continue
			}
			open, openErr := schedule.ParseTimeOfDay(hours.Open)
			closeAt, closeErr := schedule.ParseTimeOfDay(hours.Close)
			if openErr != nil || closeErr != nil || open >= closeAt {
				return ErrInvalidSettingValue
			}
		}
		return nil

	case shared.KeyLunchBreakStart, shared.KeyLunchBreakEnd, shared.KeyFirstSlotTime:
		if _, err := schedule.ParseTimeOfDay(value); err != nil {
			return errs.Mark(err, ErrInvalidSettingValue)
		}
		return nil

	case shared.KeyDiscoveryDisplayMinutes, shared.KeyDiscoveryPauseMinutes,
		shared.KeyRegularDisplayMinutes, shared.KeyRegularPauseMinutes,
		shared.KeyCalendarCacheTTL, shared.KeyDayCutoffHour,
		shared.KeyMaxUpcomingPerEmail, shared.KeyMaxUpcomingPerIP:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return ErrInvalidSettingValue
		}
		return nil

	case shared.KeyEmailConfirmationRequired:
		if _, err := strconv.ParseBool(value); err != nil {
			return errs.Mark(err, ErrInvalidSettingValue)
		}
		return nil

	default:
		return ErrUnknownSettingKey
	}
}
