package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlot(t *testing.T) {
	_, err := ParseSlot("09:30")
	assert.NoError(t, err)

	for _, bad := range []string{"", "9:3", "25:00", "half past nine", "09:30:00"} {
		_, err := ParseSlot(bad)
		assert.Error(t, err, "label %q", bad)
	}
}

func TestSlotInstant(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	got, err := SlotInstant(date, "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 14, 14, 30, 0, 0, time.UTC), got)

	_, err = SlotInstant(date, "later")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 9, 14, 13, 37, 12, 0, time.UTC)
	start, end := DayBounds(at)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 14, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.After(at))
}

func TestExpandSlots(t *testing.T) {
	slots, err := ExpandSlots("09:00", "10:30", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slots)

	// a slot that would overrun the window is dropped
	slots, err = ExpandSlots("09:00", "10:15", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, slots)

	slots, err = ExpandSlots("09:00", "09:00", 30)
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = ExpandSlots("09:00", "17:00", 0)
	assert.Error(t, err)

	_, err = ExpandSlots("nine", "17:00", 30)
	assert.Error(t, err)
}
