package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

func TestCalculateHours(t *testing.T) {
	tests := []struct {
		start, end string
		breakMin   int
		want       float64
	}{
		{"09:00", "17:00", 30, 7.5},
		{"22:00", "06:00", 0, 8},
		{"08:15", "12:45", 0, 4.5},
		{"09:00", "09:00", 0, 0},
		{"09:00", "10:00", 90, 0},
		{"23:30", "00:15", 15, 0.5},
		{"9:00", "17:00", 0, 8},
		{"bad", "17:00", 0, 0},
		{"09:00", "24:00", 0, 0},
	}
	for _, tt := range tests {
		got := timecalc.CalculateHours(tt.start, tt.end, tt.breakMin)
		if got != tt.want {
			t.Errorf("CalculateHours(%q, %q, %d) = %v, want %v", tt.start, tt.end, tt.breakMin, got, tt.want)
		}
	}
}

// Every valid pair must satisfy hours = max(0, (wrap(end-start)-break)/60).
func TestCalculateHoursProperty(t *testing.T) {
	for start := 0; start < 24*60; start += 37 {
		for end := 0; end < 24*60; end += 41 {
			for _, brk := range []int{0, 15, 45, 600} {
				s := clock(start)
				e := clock(end)
				diff := end - start
				if diff < 0 {
					diff += 24 * 60
				}
				want := float64(diff-brk) / 60
				if want < 0 {
					want = 0
				}
				if got := timecalc.CalculateHours(s, e, brk); got != want {
					t.Fatalf("CalculateHours(%s, %s, %d) = %v, want %v", s, e, brk, got, want)
				}
			}
		}
	}
}

func clock(minutes int) string {
	return time.Date(2026, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format(timecalc.ClockLayout)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:05", 425, false},
		{"7:05", 425, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"1200", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCompareClock(t *testing.T) {
	if timecalc.CompareClock("08:00", "09:30") >= 0 {
		t.Error("08:00 should compare before 09:30")
	}
	if timecalc.CompareClock("10:00", "10:00") != 0 {
		t.Error("equal clocks should compare equal")
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 0, 0, 1, 0, time.UTC)
	if !timecalc.SameDay(a, time.Date(2026, 2, 27, 23, 59, 0, 0, time.UTC)) {
		t.Error("SameDay should be true within one day")
	}
	if timecalc.SameDay(a, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Error("SameDay should be false across midnight")
	}
}
