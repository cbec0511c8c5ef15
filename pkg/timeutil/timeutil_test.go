package timeutil

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"05:00", 5},
		{"13:00", 13},
		{"11:30", 11.5},
		{"00:00", 0},
		{"23:45", 23.75},
		{"", 0},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if err != nil {
			t.Errorf("ParseClock(%q) returned error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseClock(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseClockMalformed(t *testing.T) {
	for _, in := range []string{"0500", "5", "ab:cd", "24:00", "12:60", "12:00:00"} {
		_, err := ParseClock(in)
		if err == nil {
			t.Errorf("ParseClock(%q) succeeded, want FormatError", in)
			continue
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("ParseClock(%q) error = %T, want *FormatError", in, err)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year, month0, want int
	}{
		{2024, 1, 29}, // leap February
		{2023, 1, 28},
		{2000, 1, 29}, // divisible by 400
		{1900, 1, 28}, // divisible by 100 but not 400
		{2024, 0, 31},
		{2024, 3, 30},
		{2024, 11, 31},
	}
	for _, c := range cases {
		if got := DaysInMonth(c.year, c.month0); got != c.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", c.year, c.month0, got, c.want)
		}
	}
}

func TestDayOfWeek(t *testing.T) {
	// June 3 2024 was a Monday, June 9 a Sunday.
	if got := DayOfWeek(2024, 5, 3); got != 1 {
		t.Errorf("DayOfWeek(2024, 5, 3) = %d, want 1", got)
	}
	if got := DayOfWeek(2024, 5, 9); got != 0 {
		t.Errorf("DayOfWeek(2024, 5, 9) = %d, want 0", got)
	}
	if got := DayOfWeek(2024, 5, 8); got != 6 {
		t.Errorf("DayOfWeek(2024, 5, 8) = %d, want 6", got)
	}
}

func TestIsWeekend(t *testing.T) {
	if IsWeekend(2024, 5, 3) {
		t.Error("Mon Jun 3 2024 flagged as weekend")
	}
	if !IsWeekend(2024, 5, 8) || !IsWeekend(2024, 5, 9) {
		t.Error("Sat/Sun Jun 8-9 2024 not flagged as weekend")
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(2024, 0); got != "2024-0" {
		t.Errorf("MonthKey(2024, 0) = %q, want 2024-0", got)
	}
	if got := MonthKey(2025, 11); got != "2025-11" {
		t.Errorf("MonthKey(2025, 11) = %q, want 2025-11", got)
	}
}

func TestClock12(t *testing.T) {
	cases := []struct{ in, want string }{
		{"05:00", "5:00 AM"},
		{"13:00", "1:00 PM"},
		{"00:15", "12:15 AM"},
		{"12:00", "12:00 PM"},
		{"20:30", "8:30 PM"},
	}
	for _, c := range cases {
		got, err := Clock12(c.in)
		if err != nil {
			t.Errorf("Clock12(%q) returned error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Clock12(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
