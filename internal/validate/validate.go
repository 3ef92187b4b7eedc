// Package validate checks user input before it reaches the tracker.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

// Limits on free-text fields, counted in characters after trimming.
const (
	MaxDescription = 500
	MaxProjectName = 100
	MaxBreak       = 1440
)

// Error lists every problem found in a form.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Date reports whether s is a real YYYY-MM-DD date.
func Date(s string) bool { return timecalc.ValidDate(s) }

// Time reports whether s is a valid H:MM or HH:MM clock time.
func Time(s string) bool { return timecalc.ValidClock(s) }

// Description reports whether desc has 1 to MaxDescription characters after trimming.
func Description(desc string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(desc))
	return n > 0 && n <= MaxDescription
}

// ProjectName reports whether name has 1 to MaxProjectName characters after trimming.
func ProjectName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n > 0 && n <= MaxProjectName
}

// BreakTime reports whether minutes lies in [0, MaxBreak).
func BreakTime(minutes int) bool {
	return minutes >= 0 && minutes < MaxBreak
}

// Entry checks every field of f and returns an *Error naming all problems,
// or nil.
func Entry(f model.EntryForm) error {
	var problems []string
	if !Date(f.Date) {
		problems = append(problems, "Invalid date format")
	}
	if !Time(f.StartTime) {
		problems = append(problems, "Invalid start time format")
	}
	if !Time(f.EndTime) {
		problems = append(problems, "Invalid end time format")
	}
	if !Description(f.Description) {
		problems = append(problems, "Description must be between 1 and 500 characters")
	}
	if !BreakTime(f.BreakTime) {
		problems = append(problems, "Break time must be between 0 and 1440 minutes")
	}
	if f.Category != "" && !f.Category.Valid() {
		problems = append(problems, "Category must be work, overtime or vacation")
	}
	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}

// Project checks a project name and colour.
func Project(name, color string) error {
	var problems []string
	if !ProjectName(name) {
		problems = append(problems, "Project name must be between 1 and 100 characters")
	}
	if color != "" && !Color(color) {
		problems = append(problems, "Color must be a hex value like #22C55E")
	}
	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}

// Color reports whether c is a #RRGGBB hex colour.
func Color(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
