// Package timeutil holds the calendar arithmetic shared by the schedule
// store and its derived views.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatError reports a clock string that could not be parsed.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed clock time %q, want HH:MM", e.Input)
}

// ParseClock converts an "HH:MM" string to fractional hours (14:30 ->
// 14.5). The empty string parses to 0. Anything else malformed fails
// with a FormatError rather than propagating garbage.
func ParseClock(hhmm string) (float64, error) {
	if hhmm == "" {
		return 0, nil
	}
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: hhmm}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &FormatError{Input: hhmm}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &FormatError{Input: hhmm}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, &FormatError{Input: hhmm}
	}
	return float64(h) + float64(m)/60, nil
}

// DaysInMonth returns the day count of a month. month0 is zero-based
// (0=January), matching the persisted month keys.
func DaysInMonth(year, month0 int) int {
	return time.Date(year, time.Month(month0+1)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayOfWeek returns 0=Sunday..6=Saturday for a calendar day. month0 is
// zero-based.
func DayOfWeek(year, month0, day int) int {
	return int(time.Date(year, time.Month(month0+1), day, 0, 0, 0, 0, time.UTC).Weekday())
}

// IsWeekend reports whether the calendar day falls on Saturday or Sunday.
func IsWeekend(year, month0, day int) bool {
	dow := DayOfWeek(year, month0, day)
	return dow == 0 || dow == 6
}

// MonthKey builds the "{year}-{month0}" key used by the schedule store
// and persisted blobs.
func MonthKey(year, month0 int) string {
	return fmt.Sprintf("%d-%d", year, month0)
}

// Clock12 formats an "HH:MM" string as a 12-hour label ("13:00" ->
// "1:00 PM"). Malformed input fails like ParseClock.
func Clock12(hhmm string) (string, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return "", &FormatError{Input: hhmm}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", &FormatError{Input: hhmm}
	}
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%s %s", h12, parts[1], ampm), nil
}

// HourOfDay returns the fractional hour of t (13:30 -> 13.5).
func HourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
