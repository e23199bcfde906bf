package utils

import (
	"fmt"
	"time"
)

const slotLayout = "15:04"

// ParseSlot validates an "HH:MM" slot label.
func ParseSlot(label string) (time.Time, error) {
	t, err := time.Parse(slotLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q, expected HH:MM", label)
	}
	return t, nil
}

// SlotInstant combines a stored calendar date with a slot label into a single
// point in time, in the date's location.
func SlotInstant(date time.Time, label string) (time.Time, error) {
	slot, err := ParseSlot(label)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		slot.Hour(), slot.Minute(), 0, 0, date.Location()), nil
}

// DayBounds returns the first and last instant of the day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// ExpandSlots lists the slot labels between a working-hours start and end at
// the given step, e.g. ("09:00", "10:30", 30) -> ["09:00" "09:30" "10:00"].
// A slot whose period would run past the end of the window is not included.
func ExpandSlots(start, end string, slotMinutes int) ([]string, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("invalid slot duration %d", slotMinutes)
	}
	from, err := ParseSlot(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseSlot(end)
	if err != nil {
		return nil, err
	}

	step := time.Duration(slotMinutes) * time.Minute
	var slots []string
	for cursor := from; !cursor.Add(step).After(to); cursor = cursor.Add(step) {
		slots = append(slots, cursor.Format(slotLayout))
	}
	return slots, nil
}
