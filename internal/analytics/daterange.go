package analytics

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/ledger"
)

// DateRange is an inclusive window of calendar dates.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// NewDateRange truncates start and end to calendar dates.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: dateutils.Truncate(start), End: dateutils.Truncate(end)}
}

// Days is the number of calendar days in the range, both ends included.
func (r DateRange) Days() int {
	return dateutils.DaysInclusive(r.Start, r.End)
}

// Validate rejects ranges whose end precedes their start.
func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("end date %s is before start date %s",
			dateutils.FormatDayFirst(r.End), dateutils.FormatDayFirst(r.Start))
	}
	return nil
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return dateutils.CompareDates(t, r.Start) >= 0 && dateutils.CompareDates(t, r.End) <= 0
}

// Previous returns the window of the same length ending the day before Start.
// An inverted range has no days, so its previous window is empty too: it
// ends the day before Start and begins on Start.
func (r DateRange) Previous() DateRange {
	days := r.Days()
	end := r.Start.AddDate(0, 0, -1)
	if days == 0 {
		return DateRange{Start: r.Start, End: end}
	}
	return DateRange{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

func (r DateRange) String() string {
	return dateutils.FormatDayFirst(r.Start) + " to " + dateutils.FormatDayFirst(r.End)
}

// Preset names a relative date window.
type Preset string

// Supported presets.
const (
	PresetThisMonth   Preset = "this-month"
	PresetLast3Months Preset = "last-3-months"
	PresetYearToDate  Preset = "year-to-date"
	PresetAll         Preset = "all"
	PresetCustom      Preset = "custom"
)

// Presets lists every preset in display order.
var Presets = []Preset{PresetThisMonth, PresetLast3Months, PresetYearToDate, PresetAll, PresetCustom}

// ParsePreset accepts a preset name case-insensitively.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown date preset %q", s)
}

// LedgerBounds is the ledger's first-to-last date range, or today alone for an empty ledger.
func LedgerBounds(l ledger.Ledger, today time.Time) DateRange {
	first, last, ok := l.Bounds()
	if !ok {
		return NewDateRange(today, today)
	}
	return NewDateRange(first, last)
}

// ResolvePreset turns a preset into a concrete window relative to today.
// PresetAll and PresetCustom both resolve to bounds; callers overriding a
// custom window replace either end afterwards.
func ResolvePreset(p Preset, today time.Time, bounds DateRange) (DateRange, error) {
	today = dateutils.Truncate(today)
	switch p {
	case PresetThisMonth:
		return DateRange{Start: dateutils.StartOfMonth(today), End: today}, nil
	case PresetLast3Months:
		return DateRange{Start: subtractMonths(today, 3), End: today}, nil
	case PresetYearToDate:
		return DateRange{Start: dateutils.StartOfYear(today), End: today}, nil
	case PresetAll, PresetCustom:
		return bounds, nil
	default:
		return DateRange{}, fmt.Errorf("unknown date preset %q", string(p))
	}
}

// subtractMonths moves back n calendar months, clamping the day to the
// target month's length (31 May minus 3 months is 29 Feb in a leap year).
func subtractMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -n, 0)
	last := dateutils.EndOfMonth(first).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
