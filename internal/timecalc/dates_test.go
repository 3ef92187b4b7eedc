package timecalc_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

func TestValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2026-02-27", true},
		{"2024-02-29", true},
		{"2026-02-29", false},
		{"2026-13-01", false},
		{"2026-2-7", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := timecalc.ValidDate(tt.in); got != tt.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want string
	}{
		{"2026-02-27", 1, "2026-02-28"},
		{"2026-02-28", 1, "2026-03-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2025-12-31", 1, "2026-01-01"},
		{"garbage", 1, "garbage"},
	}
	for _, tt := range tests {
		if got := timecalc.AddDays(tt.date, tt.n); got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date, want string
	}{
		{"2026-02-27", "2026-02-23"}, // Friday
		{"2026-02-23", "2026-02-23"}, // Monday
		{"2026-03-01", "2026-02-23"}, // Sunday belongs to the previous week
	}
	for _, tt := range tests {
		if got := timecalc.WeekStart(tt.date); got != tt.want {
			t.Errorf("WeekStart(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	if got := timecalc.MonthStart("2026-02-17"); got != "2026-02-01" {
		t.Errorf("MonthStart = %q", got)
	}
	if got := timecalc.MonthEnd("2026-02-17"); got != "2026-02-28" {
		t.Errorf("MonthEnd = %q", got)
	}
	if got := timecalc.MonthEnd("2024-02-17"); got != "2024-02-29" {
		t.Errorf("MonthEnd leap = %q", got)
	}
	if got := timecalc.DaysInMonth(2026, time.April); got != 30 {
		t.Errorf("DaysInMonth(April) = %d", got)
	}
	days := timecalc.MonthDays("2026-02-10")
	if len(days) != 28 || days[0] != "2026-02-01" || days[27] != "2026-02-28" {
		t.Errorf("MonthDays = %v", days)
	}
}

func TestDaysBetween(t *testing.T) {
	got := timecalc.DaysBetween("2026-02-27", "2026-03-02")
	want := []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DaysBetween = %v, want %v", got, want)
	}
	if got := timecalc.DaysBetween("2026-03-02", "2026-02-27"); got != nil {
		t.Errorf("DaysBetween reversed = %v, want nil", got)
	}
}

func TestIsBetweenAndDifference(t *testing.T) {
	if !timecalc.IsBetween("2026-02-27", "2026-02-27", "2026-02-28") {
		t.Error("IsBetween should include the lower bound")
	}
	if timecalc.IsBetween("2026-03-01", "2026-02-27", "2026-02-28") {
		t.Error("IsBetween should exclude dates after the upper bound")
	}
	if got := timecalc.DaysDifference("2026-03-01", "2026-02-27"); got != 2 {
		t.Errorf("DaysDifference = %d, want 2", got)
	}
}
