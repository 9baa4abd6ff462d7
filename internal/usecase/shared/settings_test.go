//go:build unit

package shared_test

import (
	"context"
	"testing"
	"time"

	"sensea-booking/internal/domain/schedule"
	"sensea-booking/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string]string

func (m mapReader) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapReader) All(_ context.Context) (map[string]string, error) {
	return m, nil
}

func TestScheduleConfigDefaults(t *testing.T) {
	s := shared.NewSettings(mapReader{})

	cfg, err := s.ScheduleConfig(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(schedule.DefaultConfig(), cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduleConfigOverrides(t *testing.T) {
	s := shared.NewSettings(mapReader{
		shared.KeyBusinessHours:           `{"1":{"open":"08:00","close":"20:00"},"2":null,"6":{"open":"10:00","close":"14:00"}}`,
		shared.KeyRegularDisplayMinutes:   "60",
		shared.KeyRegularPauseMinutes:     "30",
		shared.KeyLunchBreakStart:         "12:00",
		shared.KeyLunchBreakEnd:           "14:00",
		shared.KeyFirstSlotTime:           "08:30",
		shared.KeyDayCutoffHour:           "22",
	})

	cfg, err := s.ScheduleConfig(context.Background())
	require.NoError(t, err)

	require.NotNil(t, cfg.Week[time.Monday])
	assert.Equal(t, schedule.MustTimeOfDay("08:00"), cfg.Week[time.Monday].Open)
	assert.Equal(t, schedule.MustTimeOfDay("20:00"), cfg.Week[time.Monday].Close)
	assert.Nil(t, cfg.Week[time.Tuesday], "null means closed")
	assert.Nil(t, cfg.Week[time.Sunday], "days absent from the override are closed")

	assert.Equal(t, 60, cfg.Regular.DisplayMinutes)
	assert.Equal(t, 90, cfg.Regular.BlockedMinutes())
	assert.Equal(t, schedule.MustTimeOfDay("12:00"), cfg.LunchStart)
	assert.Equal(t, schedule.MustTimeOfDay("08:30"), cfg.FirstSlot)
	assert.Equal(t, 22, cfg.DayCutoffHour)
}

func TestScheduleConfigIgnoresGarbageValues(t *testing.T) {
	s := shared.NewSettings(mapReader{
		shared.KeyBusinessHours:         `not json`,
		shared.KeyRegularDisplayMinutes: "abc",
		shared.KeyFirstSlotTime:         "25:99",
	})

	cfg, err := s.ScheduleConfig(context.Background())
	require.NoError(t, err)

	// Unparseable rows fall back to defaults instead of failing the request.
	if diff := cmp.Diff(schedule.DefaultConfig(), cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
}

func TestCalendarCacheTTL(t *testing.T) {
	assert.Equal(t, 300*time.Second, shared.NewSettings(mapReader{}).CalendarCacheTTL(context.Background()))
	assert.Equal(t, 60*time.Second,
		shared.NewSettings(mapReader{shared.KeyCalendarCacheTTL: "60"}).CalendarCacheTTL(context.Background()))
	assert.Equal(t, 300*time.Second,
		shared.NewSettings(mapReader{shared.KeyCalendarCacheTTL: "-5"}).CalendarCacheTTL(context.Background()),
		"non-positive TTL falls back to the default")
}

func TestBookingPolicySettings(t *testing.T) {
	s := shared.NewSettings(mapReader{
		shared.KeyEmailConfirmationRequired: "true",
		shared.KeyMaxUpcomingPerEmail:       "2",
	})

	required, err := s.EmailConfirmationRequired(context.Background())
	require.NoError(t, err)
	assert.True(t, required)

	perEmail, err := s.MaxUpcomingPerEmail(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, perEmail)

	perIP, err := s.MaxUpcomingPerIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, perIP, "unset limit keeps the default")
}
