package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

func mondayHours(t *testing.T) *OpeningHours {
	t.Helper()
	open, err := types.NewTimeStringFromString("11:00")
	require.NoError(t, err)
	close, err := types.NewTimeStringFromString("23:00")
	require.NoError(t, err)
	return &OpeningHours{Weekday: time.Monday, OpenTime: open, CloseTime: close}
}

func TestOpeningHours_Window(t *testing.T) {
	hours := mondayHours(t)
	date := time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC) // a Monday

	open, close, err := hours.Window(date, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.March, 16, 11, 0, 0, 0, time.UTC), open)
	assert.Equal(t, time.Date(2026, time.March, 16, 23, 0, 0, 0, time.UTC), close)
}

func TestOpeningHours_Contains(t *testing.T) {
	hours := mondayHours(t)

	at := func(hour, min int) time.Time {
		return time.Date(2026, time.March, 16, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{name: "at opening", start: at(11, 0), want: true},
		{name: "mid-evening", start: at(19, 15), want: true},
		{name: "last slot that fits", start: at(21, 30), want: true},
		{name: "would run past closing", start: at(21, 45), want: false},
		{name: "before opening", start: at(10, 45), want: false},
		{name: "after closing", start: at(23, 15), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hours.Contains(tt.start, tt.start.Add(SlotDuration), time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
