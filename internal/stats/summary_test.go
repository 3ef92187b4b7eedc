package stats_test

import (
	"math"
	"testing"
	"time"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/stats"
)

func TestWeekChart(t *testing.T) {
	chart := stats.WeekChart(sample(), "2026-02-23")
	if len(chart) != 7 {
		t.Fatalf("WeekChart len = %d, want 7", len(chart))
	}
	if chart[0].Weekday != time.Monday || chart[0].Hours != 8 {
		t.Errorf("Monday = %+v", chart[0])
	}
	if chart[1].Hours != 9.5 {
		t.Errorf("Tuesday hours = %v, want 9.5", chart[1].Hours)
	}
	if chart[6].Date != "2026-03-01" || chart[6].Weekday != time.Sunday {
		t.Errorf("Sunday = %+v", chart[6])
	}
}

func TestDailyTotals(t *testing.T) {
	totals := stats.DailyTotals(stats.SortEntries(sample(), stats.SortByDate, true))
	if len(totals) != 4 {
		t.Fatalf("DailyTotals len = %d, want 4", len(totals))
	}
	if totals[0].Date != "2026-02-23" || totals[1].EntryCount != 2 || totals[1].Hours != 9.5 {
		t.Errorf("DailyTotals = %+v", totals)
	}
}

func TestCategorySharesPercent(t *testing.T) {
	shares := stats.CategoryShares(sample())
	if len(shares) != 3 {
		t.Fatalf("CategoryShares len = %d, want 3", len(shares))
	}
	if shares[0].Key != "work" || shares[1].Key != "overtime" || shares[2].Key != "vacation" {
		t.Errorf("order = %s,%s,%s", shares[0].Key, shares[1].Key, shares[2].Key)
	}
	var pct float64
	for _, s := range shares {
		pct += s.Percent
	}
	if math.Abs(pct-100) > 1e-9 {
		t.Errorf("percent sum = %v, want 100", pct)
	}
}

func TestCategorySharesUnknownCategory(t *testing.T) {
	entries := []model.Entry{{Date: "2026-01-01", Hours: 1, Category: "sick"}, {Date: "2026-01-01", Hours: 1, Category: model.CategoryWork}}
	shares := stats.CategoryShares(entries)
	if len(shares) != 2 || shares[1].Key != "sick" {
		t.Errorf("shares = %+v", shares)
	}
}

func TestProjectSharesZeroTotal(t *testing.T) {
	shares := stats.ProjectShares([]model.Project{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})
	for _, s := range shares {
		if s.Percent != 0 {
			t.Errorf("percent with zero total = %v, want 0", s.Percent)
		}
	}
	shares = stats.ProjectShares([]model.Project{{ID: "a", TotalHours: 3}, {ID: "b", TotalHours: 1}})
	if shares[0].Percent != 75 || shares[1].Percent != 25 {
		t.Errorf("percents = %v/%v, want 75/25", shares[0].Percent, shares[1].Percent)
	}
}

func TestSummarize(t *testing.T) {
	o := stats.Summarize(sample(), "2026-02-27")
	if o.WeekStart != "2026-02-23" {
		t.Errorf("WeekStart = %q", o.WeekStart)
	}
	if o.TotalHours != 29.5 || o.WeeklyHours != 25.5 || o.EntryCount != 5 || o.TotalBreaks != 45 {
		t.Errorf("Overview = %+v", o)
	}
	if o.FirstDate != "2026-02-23" || o.LastDate != "2026-03-02" {
		t.Errorf("range = %s..%s", o.FirstDate, o.LastDate)
	}
}
