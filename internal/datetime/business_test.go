package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinBusinessHours(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2025-01-16 09:00:00", true},
		{"2025-01-16 14:00:00", true},
		{"2025-01-16 17:00:00", true},
		{"2025-01-16 17:00:01", false},
		{"2025-01-16 08:59:59", false},
		{"13:30:00", true},
		{"not a time", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinBusinessHours(tt.value, "09:00", "17:00"))
		})
	}
	assert.False(t, WithinBusinessHours("10:00", "nine", "17:00"))
}

func TestIsFuture(t *testing.T) {
	now := time.Date(2025, time.January, 15, 18, 0, 0, 0, time.UTC) // 10:00 PST

	assert.True(t, IsFuture("2025-01-15 11:00:00", "America/Los_Angeles", now))
	assert.False(t, IsFuture("2025-01-15 09:00:00", "America/Los_Angeles", now))
	assert.False(t, IsFuture("garbage", "UTC", now))
}

func TestParseLocal(t *testing.T) {
	got, err := ParseLocal("2025-07-01 09:30:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 1, 13, 30, 0, 0, time.UTC), got.UTC())

	_, err = ParseLocal("07/01/2025", "UTC")
	assert.Error(t, err)
}
