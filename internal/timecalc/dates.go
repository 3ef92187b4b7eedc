package timecalc

import (
	"fmt"
	"regexp"
	"time"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ValidDate reports whether s is a real calendar day in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// FormatDate formats t as YYYY-MM-DD in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the calendar day of now.
func Today(now time.Time) string {
	return FormatDate(now)
}

// AddDays shifts a YYYY-MM-DD date by n days. Invalid input is returned unchanged.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	monday, _ := WeekRange(t)
	return FormatDate(monday)
}

// MonthStart returns the first day of date's month.
func MonthStart(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
}

// MonthEnd returns the last day of date's month.
func MonthEnd(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC))
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDays lists every day of date's month in order.
func MonthDays(date string) []string {
	t, err := ParseDate(date)
	if err != nil {
		return nil
	}
	n := DaysInMonth(t.Year(), t.Month())
	days := make([]string, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, FormatDate(time.Date(t.Year(), t.Month(), d, 0, 0, 0, 0, time.UTC)))
	}
	return days
}

// DaysBetween lists every day from from to to inclusive. It returns nil when
// either date is invalid or to precedes from.
func DaysBetween(from, to string) []string {
	if !ValidDate(from) || !ValidDate(to) || to < from {
		return nil
	}
	var days []string
	for d := from; d <= to; d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// IsBetween reports whether date lies in [from, to]. YYYY-MM-DD strings order
// lexicographically, so no parsing is needed.
func IsBetween(date, from, to string) bool {
	return date >= from && date <= to
}

// DaysDifference returns the absolute number of days between two dates.
func DaysDifference(a, b string) int {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	if errA != nil || errB != nil {
		return 0
	}
	d := tb.Sub(ta)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// Weekday returns the weekday of a YYYY-MM-DD date.
func Weekday(date string) time.Weekday {
	t, err := ParseDate(date)
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}
