package util_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-generation/internal/model"
	"token-generation/internal/util"
)

func TestDaysAndMinutes(t *testing.T) {
	maxDays := int(util.MaxTTL / (24 * time.Hour))
	maxMinutes := int(util.MaxTTL / time.Minute)

	tests := []struct {
		name     string
		convert  func(int) (time.Duration, error)
		value    int
		expected time.Duration
		wantErr  bool
	}{
		{name: "7 суток", convert: util.Days, value: 7, expected: 7 * 24 * time.Hour},
		{name: "15 минут", convert: util.Minutes, value: 15, expected: 15 * time.Minute},
		{name: "максимум суток", convert: util.Days, value: maxDays, expected: util.MaxTTL},
		{name: "максимум минут", convert: util.Minutes, value: maxMinutes, expected: util.MaxTTL},
		{name: "0 суток", convert: util.Days, value: 0, wantErr: true},
		{name: "отрицательные минуты", convert: util.Minutes, value: -1, wantErr: true},
		{name: "сверх максимума суток", convert: util.Days, value: maxDays + 1, wantErr: true},
		{name: "переполнение суток", convert: util.Days, value: 213504, wantErr: true},
		{name: "сверх максимума минут", convert: util.Minutes, value: maxMinutes + 1, wantErr: true},
		{name: "переполнение минут", convert: util.Minutes, value: 153722867280912931, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ttl, err := tt.convert(tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidArgument)
				assert.Zero(t, ttl)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ttl)
		})
	}
}

func TestCheckTTL(t *testing.T) {
	assert.NoError(t, util.CheckTTL(time.Millisecond))
	assert.NoError(t, util.CheckTTL(util.MaxTTL))
	assert.ErrorIs(t, util.CheckTTL(0), model.ErrInvalidArgument)
	assert.ErrorIs(t, util.CheckTTL(-time.Hour), model.ErrInvalidArgument)
	assert.ErrorIs(t, util.CheckTTL(util.MaxTTL+time.Nanosecond), model.ErrInvalidArgument)
}

func TestExpiresIn_TruncatesToMilliseconds(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	expiresAt := util.ExpiresIn(clock, time.Hour)

	assert.Equal(t, time.Date(2025, 3, 1, 13, 0, 0, 123000000, time.UTC), expiresAt)
	assert.Equal(t, time.UTC, expiresAt.Location())
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	assert.False(t, util.IsExpired(clock, now.Add(time.Millisecond)))
	assert.False(t, util.IsExpired(clock, now), "истекает строго после момента expires")
	assert.True(t, util.IsExpired(clock, now.Add(-time.Millisecond)))
}

func TestFromUnixMilli_RoundTrip(t *testing.T) {
	at := time.Date(2030, 1, 2, 3, 4, 5, 6000000, time.UTC)
	assert.Equal(t, at, util.FromUnixMilli(at.UnixMilli()))
}
