//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"sensea-booking/internal/domain/booking"
	"sensea-booking/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func timesOf(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format("15:04"))
	}
	return out
}

func TestSlotsFor(t *testing.T) {
	cfg := schedule.DefaultConfig()

	tests := []struct {
		name string
		date string
		dt   booking.DurationType
		want []string
	}{
		{
			name: "regular weekday steps by 65 minutes and jumps the lunch break",
			date: "2026-09-07", // Monday
			dt:   booking.TypeRegular,
			want: []string{"09:00", "10:05", "11:10", "13:30", "14:35", "15:40", "16:45"},
		},
		{
			name: "discovery weekday steps by 90 minutes",
			date: "2026-09-07",
			dt:   booking.TypeDiscovery,
			want: []string{"09:00", "10:30", "13:30", "15:00", "16:30"},
		},
		{
			name: "saturday starts at the later opening time",
			date: "2026-09-12",
			dt:   booking.TypeRegular,
			want: []string{"10:00", "11:05", "13:30", "14:35", "15:40"},
		},
		{
			name: "sunday is closed",
			date: "2026-09-06",
			dt:   booking.TypeRegular,
			want: nil,
		},
		{
			name: "thursday is closed",
			date: "2026-09-10",
			dt:   booking.TypeDiscovery,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := cfg.SlotsFor(day(t, tt.date), tt.dt)
			if tt.want == nil {
				assert.Empty(t, slots)
				return
			}
			assert.Equal(t, tt.want, timesOf(slots))
		})
	}
}

func TestSlotsForLastSlotMayEndExactlyAtClosing(t *testing.T) {
	cfg := schedule.DefaultConfig()

	// Discovery on a weekday: 16:30 + 90min lands exactly on the 18:00 close.
	slots := cfg.SlotsFor(day(t, "2026-09-07"), booking.TypeDiscovery)
	require.NotEmpty(t, slots)
	last := slots[len(slots)-1]
	assert.Equal(t, "16:30", last.Format("15:04"))
}

func TestSlotsForNoSlotOverlapsLunch(t *testing.T) {
	cfg := schedule.DefaultConfig()
	date := day(t, "2026-09-07")
	lunchStart := cfg.LunchStart.At(date)
	lunchEnd := cfg.LunchEnd.At(date)

	for _, dt := range booking.DurationTypes() {
		blocked := cfg.DurationsFor(dt).Blocked()
		for _, s := range cfg.SlotsFor(date, dt) {
			end := s.Add(blocked)
			overlaps := s.Before(lunchEnd) && end.After(lunchStart)
			assert.Falsef(t, overlaps, "slot %s (%s) overlaps lunch", s.Format("15:04"), dt)
		}
	}
}

func TestSlotsForCustomFirstSlotAfterOpening(t *testing.T) {
	cfg := schedule.DefaultConfig()
	cfg.FirstSlot = schedule.MustTimeOfDay("10:30")

	slots := cfg.SlotsFor(day(t, "2026-09-07"), booking.TypeRegular)
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:30", slots[0].Format("15:04"))
}

func TestContainsSlot(t *testing.T) {
	cfg := schedule.DefaultConfig()
	date := day(t, "2026-09-07")

	onGrid := cfg.FirstSlot.At(date)
	assert.True(t, cfg.ContainsSlot(onGrid, booking.TypeRegular))

	offGrid := onGrid.Add(10 * time.Minute)
	assert.False(t, cfg.ContainsSlot(offGrid, booking.TypeRegular))

	// A regular grid time is not automatically a discovery grid time.
	assert.False(t, cfg.ContainsSlot(onGrid.Add(65*time.Minute), booking.TypeDiscovery))
}
