package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// timeRegex accepts a one-or-two-digit hour and an exactly two-digit minute.
var timeRegex = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})$`)

const minutesPerDay = 24 * 60

// FormatError reports a time string that is not a valid "HH:MM" value.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time format: %q", e.Value)
}

// ToMinutes converts an "HH:MM" string to the minute of the day.
func ToMinutes(t string) (int, error) {
	matches := timeRegex.FindStringSubmatch(t)
	if matches == nil {
		return 0, &FormatError{Value: t}
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])

	if hour > 23 || minute > 59 {
		return 0, &FormatError{Value: t}
	}

	return hour*60 + minute, nil
}

// FromMinutes converts a minute of the day back to a zero-padded "HH:MM" string.
func FromMinutes(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Normalize zero-pads an "HH:MM" string. Idempotent for well-formed input.
func Normalize(t string) (string, error) {
	minutes, err := ToMinutes(t)
	if err != nil {
		return "", err
	}
	return FromMinutes(minutes), nil
}

// AddMinutes shifts a time of day by delta minutes, wrapping within a single
// day. Slots never cross midnight, so the wrap only matters for display math.
func AddMinutes(t string, delta int) (string, error) {
	minutes, err := ToMinutes(t)
	if err != nil {
		return "", err
	}
	return FromMinutes(minutes + delta), nil
}

// WeekdayKeys lists the seven weekday identifiers in schedule order,
// Sunday first.
var WeekdayKeys = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// WeekdayLabels maps a weekday key to its display label.
var WeekdayLabels = map[string]string{
	"sunday":    "Sunday",
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
}

// DayKey returns the weekday key for a calendar date.
func DayKey(t time.Time) string {
	return WeekdayKeys[int(t.Weekday())]
}

// DayLabel returns the display label for a calendar date.
func DayLabel(t time.Time) string {
	return WeekdayLabels[DayKey(t)]
}
