package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/julianstephens/lifeplan/internal/constants"
)

// clockPattern matches 12-hour journal times such as 09:30AM or 12:45PM.
var clockPattern = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9](AM|PM)$`)

// legacyTimestampLayouts are accepted when reading timestamps written by older versions.
// Fractional seconds are optional on input for every layout.
var legacyTimestampLayouts = []string{
	constants.TimestampFormat,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// Today returns the current local date string (YYYY-MM-DD).
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight UTC.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, strings.TrimSpace(dateStr))
}

// FormatDate formats the date component of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// WeekStart returns the Monday on or before t's calendar date, at midnight UTC.
// Local midnight does not exist on some DST-change days.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NormalizeWeekStart parses a date string and returns its week's Monday (YYYY-MM-DD).
func NormalizeWeekStart(dateStr string) (string, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return FormatDate(WeekStart(d)), nil
}

// WeekDates returns the seven dates of the week containing t, Monday first.
func WeekDates(t time.Time) [7]time.Time {
	var days [7]time.Time
	monday := WeekStart(t)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// ShiftWeek moves a week start by n whole weeks and returns the new Monday.
func ShiftWeek(weekStart string, n int) (string, error) {
	d, err := ParseDate(weekStart)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", weekStart, err)
	}
	return FormatDate(WeekStart(d).AddDate(0, 0, 7*n)), nil
}

// NormalizeClock trims and upper-cases a journal time and checks it against HH:MMAM/PM.
func NormalizeClock(clock string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(clock))
	if !clockPattern.MatchString(c) {
		return "", fmt.Errorf("invalid time %q (expected HH:MMAM or HH:MMPM, e.g. 09:30AM)", clock)
	}
	return c, nil
}

// FormatClock formats t in the 12-hour journal format.
func FormatClock(t time.Time) string {
	return t.Format(constants.ClockFormat)
}

// CombineDateAndClock combines a date (YYYY-MM-DD) and a 12-hour clock (HH:MMAM)
// into a local timestamp.
func CombineDateAndClock(dateStr, clock string) (time.Time, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	c, err := NormalizeClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := time.Parse(constants.ClockFormat, c)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, time.Local), nil
}

// FormatTimestamp formats t in the fixed-width storage layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(constants.TimestampFormat)
}

// ParseTimestamp parses a stored timestamp, accepting the layouts written by
// earlier versions of the application.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range legacyTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatEntryKey formats a journal timestamp as its storage key.
func FormatEntryKey(t time.Time) string {
	return t.Format(constants.EntryFormat)
}

// ParseEntryKey parses a journal storage key.
func ParseEntryKey(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(constants.EntryFormat, s, time.Local); err == nil {
		return t, nil
	}
	return ParseTimestamp(s)
}
