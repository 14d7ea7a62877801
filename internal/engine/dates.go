package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
)

// ErrLocalInput reports text that does not match config.LayoutLocalInput.
var ErrLocalInput = errors.New(config.ErrLocalInput)

// Locale carries the vocabulary used to render dates for humans.
// The UI builds one from its translation bundle; DefaultLocale is English.
type Locale struct {
	// TimeLayout is a Go reference layout such as "3:04 PM" or "15:04".
	TimeLayout string

	// FullDateFormat is a fmt pattern receiving weekday (%[1]s), month (%[2]s) and day (%[3]d).
	FullDateFormat string

	Weekdays      [7]string // Sunday first
	ShortWeekdays [7]string
	Months        [12]string // January first
}

// DefaultLocale returns the English vocabulary with a 12-hour clock.
func DefaultLocale() Locale {
	return Locale{
		TimeLayout:     config.LayoutTime12h,
		FullDateFormat: config.FormatFullDateEN,
		Weekdays: [7]string{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
		ShortWeekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		Months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	}
}

// MonthName returns the name of a zero-based month, normalizing overflow.
func (l Locale) MonthName(month int) string {
	_, m := NormalizeMonth(0, month)
	return l.Months[m]
}

// NormalizeMonth folds an out-of-range zero-based month into the adjacent years.
// (2024, 12) becomes (2025, 0) and (2024, -1) becomes (2023, 11).
func NormalizeMonth(year, month int) (int, int) {
	t := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), int(t.Month()) - 1
}

// MonthStart returns midnight of the 1st of a zero-based month in loc.
func MonthStart(year, month int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return Midnight(year, time.Month(month+1), 1, loc)
}

// Midnight returns the first instant of the calendar date (year, month, day)
// in loc. Overflowing months and days normalize like time.Date. Where the
// clock skips midnight the day starts at the end of the gap, so the result
// always carries the requested date.
func Midnight(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()

	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if t.Day() == d {
		return t
	}

	// time.Date resolved the gap with the offset in force before it.
	// Shift by the offset change to land on the first instant of the day.
	_, before := t.Zone()
	_, after := time.Date(y, m, d, 12, 0, 0, 0, loc).Zone()
	if shifted := t.Add(time.Duration(after-before) * time.Second); shifted.Day() == d {
		return shifted
	}
	return time.Date(y, m, d, 12, 0, 0, 0, loc)
}

// ZeroBasedMonth returns t's month in the 0-11 convention used by the grid.
func ZeroBasedMonth(t time.Time) int {
	return int(t.Month()) - 1
}

// DaysInMonth returns the number of days of a zero-based month.
// Out-of-range months normalize by calendar overflow and never panic.
func DaysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st, 0 = Sunday through 6 = Saturday.
func FirstWeekdayOfMonth(year, month int) int {
	return int(MonthStart(year, month, time.UTC).Weekday())
}

// IsSameCalendarDay compares the local calendar dates of a and b.
// b is viewed in a's location so two instants are never compared raw.
func IsSameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns the first instant of t's local calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return Midnight(y, m, d, t.Location())
}

// AtClock returns day's date at the given hour and minute.
// A wall-clock time skipped by a transition resolves within the same date.
func AtClock(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	t := time.Date(y, m, d, hour, minute, 0, 0, day.Location())
	if t.Day() != d {
		return Midnight(y, m, d, day.Location())
	}
	return t
}

// FormatTimeOfDay renders the time portion of t ("10:00 AM", "15:30").
func FormatTimeOfDay(t time.Time, l Locale) string {
	layout := l.TimeLayout
	if layout == "" {
		layout = config.LayoutTime12h
	}
	return t.Format(layout)
}

// FormatFullDate renders weekday, month name and day without the year.
func FormatFullDate(t time.Time, l Locale) string {
	pattern := l.FullDateFormat
	if pattern == "" {
		pattern = config.FormatFullDateEN
	}
	return fmt.Sprintf(pattern, l.Weekdays[t.Weekday()], l.Months[t.Month()-1], t.Day())
}

// FormatForLocalInput renders t as YYYY-MM-DDTHH:MM on the wall clock of zone.
// A nil zone means time.Local.
func FormatForLocalInput(t time.Time, zone *time.Location) string {
	if zone == nil {
		zone = time.Local
	}
	return t.In(zone).Format(config.LayoutLocalInput)
}

// ParseLocalInput is the inverse of FormatForLocalInput.
func ParseLocalInput(s string, zone *time.Location) (time.Time, error) {
	if zone == nil {
		zone = time.Local
	}
	t, err := time.ParseInLocation(config.LayoutLocalInput, strings.TrimSpace(s), zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrLocalInput, err)
	}
	return t, nil
}
