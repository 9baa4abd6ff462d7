//go:build unit

package commands_test

import (
	"context"
	"testing"

	"sensea-booking/internal/usecase/commands"
	"sensea-booking/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsWriter struct {
	written map[string]string
	fail    bool
}

func (f *fakeSettingsWriter) Set(_ context.Context, key, value string) error {
	if f.fail {
		return assert.AnError
	}
	if f.written == nil {
		f.written = make(map[string]string)
	}
	f.written[key] = value
	return nil
}

func TestUpdateSettings(t *testing.T) {
	writer := &fakeSettingsWriter{}
	uc := commands.NewSettingsUseCase(writer)

	err := uc.Update(context.Background(), map[string]string{
		shared.KeyRegularDisplayMinutes:     "60",
		shared.KeyLunchBreakStart:           "12:00",
		shared.KeyEmailConfirmationRequired: "true",
		shared.KeyBusinessHours:             `{"1":{"open":"09:00","close":"18:00"},"0":null}`,
	})
	require.NoError(t, err)
	assert.Len(t, writer.written, 4)
	assert.Equal(t, "60", writer.written[shared.KeyRegularDisplayMinutes])
}

func TestUpdateSettingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		wantErr error
	}{
		{
			name:    "unknown key",
			values:  map[string]string{"nonsense": "1"},
			wantErr: commands.ErrUnknownSettingKey,
		},
		{
			name:    "non-numeric minutes",
			values:  map[string]string{shared.KeyDiscoveryPauseMinutes: "soon"},
			wantErr: commands.ErrInvalidSettingValue,
		},
		{
			name:    "negative minutes",
			values:  map[string]string{shared.KeyRegularPauseMinutes: "-10"},
			wantErr: commands.ErrInvalidSettingValue,
		},
		{
			name:    "bad time of day",
			values:  map[string]string{shared.KeyFirstSlotTime: "9h00"},
			wantErr: commands.ErrInvalidSettingValue,
		},
		{
			name:    "bad boolean",
			values:  map[string]string{shared.KeyEmailConfirmationRequired: "oui"},
			wantErr: commands.ErrInvalidSettingValue,
		},
		{
			name:    "business hours not JSON",
			values:  map[string]string{shared.KeyBusinessHours: "monday 9-6"},
			wantErr: commands.ErrInvalidSettingValue,
		},
		{
			name:    "business hours close before open",
			values:  map[string]string{shared.KeyBusinessHours: `{"1":{"open":"18:00","close":"09:00"}}`},
			wantErr: commands.ErrInvalidSettingValue,
		},
		{
			name:    "business hours day out of range",
			values:  map[string]string{shared.KeyBusinessHours: `{"7":{"open":"09:00","close":"18:00"}}`},
			wantErr: commands.ErrInvalidSettingValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeSettingsWriter{}
			err := commands.NewSettingsUseCase(writer).Update(context.Background(), tt.values)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, writer.written, "validation failure must not write anything")
		})
	}
}

func TestUpdateSettingsAtomicValidation(t *testing.T) {
	writer := &fakeSettingsWriter{}
	uc := commands.NewSettingsUseCase(writer)

	err := uc.Update(context.Background(), map[string]string{
		shared.KeyRegularDisplayMinutes: "60",
		shared.KeyFirstSlotTime:         "nonsense",
	})
	assert.ErrorIs(t, err, commands.ErrInvalidSettingValue)
	assert.Empty(t, writer.written, "one bad value rejects the whole payload")
}
