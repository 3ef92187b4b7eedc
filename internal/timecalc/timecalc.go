package timecalc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-day format used for entry dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format used for entry start and end times.
	ClockLayout = "15:04"

	minutesPerDay = 24 * 60
)

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a well-formed HH:MM (or H:MM) time.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ParseClock converts an HH:MM string into minutes after midnight.
func ParseClock(s string) (int, error) {
	if !ValidClock(s) {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, m, _ := strings.Cut(s, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes, nil
}

// CalculateHours returns the hours worked between start and end, minus the
// break in minutes. An end before the start wraps past midnight. The result is
// never negative; unparseable times yield 0.
func CalculateHours(start, end string, breakMinutes int) float64 {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0
	}

	total := endMin - startMin
	if total < 0 {
		total += minutesPerDay
	}

	work := total - breakMinutes
	if work < 0 {
		return 0
	}
	return float64(work) / 60
}

// CompareClock returns a negative number when a is before b, zero when equal
// and a positive number otherwise. Invalid times compare as midnight.
func CompareClock(a, b string) int {
	am, _ := ParseClock(a)
	bm, _ := ParseClock(b)
	return am - bm
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// NowMillis returns t as Unix milliseconds, the timestamp unit stored on records.
func NowMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
