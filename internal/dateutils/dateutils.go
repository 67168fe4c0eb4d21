// Package dateutils provides the day-first date handling used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layout constants. Sheet dates are always read day-first.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutDayFirst = "02-01-2006"
	DateLayoutMonth    = "2006-01"
)

// DayFirstFormats is the ordered list of layouts accepted for sheet dates.
// Month-first and year-first orders are never tried.
var DayFirstFormats = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2-1-2006 15:04",
	"2/1/2006 15:04",
	"2.1.2006 15:04",
	"2-1-2006 15:04:05",
	"2/1/2006 15:04:05",
	"2.1.2006 15:04:05",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDayFirst parses a day-first date such as "15-01-2024", "15/1/2024" or
// "15.01.2024 10:30" and returns it as a calendar date at midnight UTC.
// Any time-of-day component is discarded.
func ParseDayFirst(dateStr string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range DayFirstFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return Truncate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q as DD-MM-YYYY", dateStr)
}

// CleanDateString trims a date string and collapses inner whitespace
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// Truncate drops the time-of-day and location, keeping the wall-clock calendar date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatDayFirst formats a date as DD-MM-YYYY, the form sheets are read in.
func FormatDayFirst(date time.Time) string {
	return date.Format(DateLayoutDayFirst)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// StartOfYear returns January 1st of the date's year.
func StartOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
}

// DaysInclusive returns the number of calendar days in [start, end], or 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	s, e := Truncate(start), Truncate(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// CompareDates compares two calendar dates, ignoring time-of-day.
// Returns -1 if date1 is before date2, 0 if equal, 1 if date1 is after date2
func CompareDates(date1, date2 time.Time) int {
	d1, d2 := Truncate(date1), Truncate(date2)
	switch {
	case d1.Before(d2):
		return -1
	case d1.After(d2):
		return 1
	default:
		return 0
	}
}
