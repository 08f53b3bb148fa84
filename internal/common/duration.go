package common

import (
	"fmt"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
)

// ParseDuration accepts either a Go duration string ("30s") or an ISO 8601
// duration ("PT30S").
func ParseDuration(duration string) (time.Duration, error) {

	duration = strings.TrimSpace(duration)

	if parsedDuration, err := time.ParseDuration(duration); err == nil {
		return parsedDuration, nil
	} else if isoDuration, err := iso8601.ParseISO8601(duration); err == nil {
		referenceTime := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		shiftedTime := isoDuration.Shift(referenceTime)
		return shiftedTime.Sub(referenceTime), nil
	}

	return 0, fmt.Errorf("invalid duration format: %s. Expect ISO 8601 or duration string", duration)
}

// FormatDurationRemaining formats a duration in human readable format
// (1 day, 2 hours, 3 minutes, 4 seconds).
func FormatDurationRemaining(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	parts = appendUnit(parts, days, "day")
	parts = appendUnit(parts, hours, "hour")
	parts = appendUnit(parts, minutes, "minute")
	parts = appendUnit(parts, seconds, "second")

	return strings.Join(parts, ", ")
}

func appendUnit(parts []string, value int, unit string) []string {
	switch {
	case value == 1:
		return append(parts, "1 "+unit)
	case value > 1:
		return append(parts, fmt.Sprintf("%d %ss", value, unit))
	}
	return parts
}
