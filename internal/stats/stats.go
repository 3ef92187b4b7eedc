// Package stats aggregates hours over a snapshot of entries. Every function is
// pure: callers pass the slice they want summarised and nothing is retained.
package stats

import (
	"slices"
	"time"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

// TotalHours sums the hours of all entries.
func TotalHours(entries []model.Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Hours
	}
	return sum
}

// TotalBreaks sums the break minutes of all entries.
func TotalBreaks(entries []model.Entry) int {
	var sum int
	for _, e := range entries {
		sum += e.BreakTime
	}
	return sum
}

// DailyTotal sums the hours logged on date.
func DailyTotal(entries []model.Entry, date string) float64 {
	var sum float64
	for _, e := range entries {
		if e.Date == date {
			sum += e.Hours
		}
	}
	return sum
}

// WeeklyTotal sums the hours in the seven days starting at weekStart.
func WeeklyTotal(entries []model.Entry, weekStart string) float64 {
	end := timecalc.AddDays(weekStart, 7)
	var sum float64
	for _, e := range entries {
		if e.Date >= weekStart && e.Date < end {
			sum += e.Hours
		}
	}
	return sum
}

// MonthlyTotal sums the hours logged in the given month.
func MonthlyTotal(entries []model.Entry, year int, month time.Month) float64 {
	var sum float64
	for _, e := range entries {
		d, err := timecalc.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Year() == year && d.Month() == month {
			sum += e.Hours
		}
	}
	return sum
}

// ProjectTotals are the denormalised numbers stored on a project.
type ProjectTotals struct {
	TotalHours float64
	EntryCount int
}

// ProjectStats totals the entries referencing projectID.
func ProjectStats(entries []model.Entry, projectID string) ProjectTotals {
	var pt ProjectTotals
	for _, e := range entries {
		if e.InProject(projectID) {
			pt.TotalHours += e.Hours
			pt.EntryCount++
		}
	}
	return pt
}

// CategoryBreakdown sums hours per category. The values add up to TotalHours.
func CategoryBreakdown(entries []model.Entry) map[model.Category]float64 {
	breakdown := map[model.Category]float64{}
	for _, e := range entries {
		breakdown[e.Category] += e.Hours
	}
	return breakdown
}

// AverageDaily divides the total hours by the number of distinct dates.
func AverageDaily(entries []model.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	dates := map[string]struct{}{}
	for _, e := range entries {
		dates[e.Date] = struct{}{}
	}
	return TotalHours(entries) / float64(len(dates))
}

// DateRange returns the earliest and latest entry dates. ok is false when
// entries is empty.
func DateRange(entries []model.Entry) (first, last string, ok bool) {
	if len(entries) == 0 {
		return "", "", false
	}
	first, last = entries[0].Date, entries[0].Date
	for _, e := range entries[1:] {
		if e.Date < first {
			first = e.Date
		}
		if e.Date > last {
			last = e.Date
		}
	}
	return first, last, true
}

// FilterByDateRange keeps entries dated within [from, to].
func FilterByDateRange(entries []model.Entry, from, to string) []model.Entry {
	return filter(entries, func(e model.Entry) bool {
		return timecalc.IsBetween(e.Date, from, to)
	})
}

// FilterByProject keeps entries referencing projectID.
func FilterByProject(entries []model.Entry, projectID string) []model.Entry {
	return filter(entries, func(e model.Entry) bool {
		return e.InProject(projectID)
	})
}

// FilterByCategory keeps entries of the given category.
func FilterByCategory(entries []model.Entry, category model.Category) []model.Entry {
	return filter(entries, func(e model.Entry) bool {
		return e.Category == category
	})
}

// FilterByDate keeps entries logged on date.
func FilterByDate(entries []model.Entry, date string) []model.Entry {
	return filter(entries, func(e model.Entry) bool {
		return e.Date == date
	})
}

func filter(entries []model.Entry, keep func(model.Entry) bool) []model.Entry {
	out := []model.Entry{}
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortKey selects the field entries are ordered by.
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByHours SortKey = "hours"
)

// SortEntries returns a sorted copy of entries. Equal keys keep their order.
func SortEntries(entries []model.Entry, by SortKey, descending bool) []model.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b model.Entry) int {
		var c int
		switch by {
		case SortByHours:
			switch {
			case a.Hours < b.Hours:
				c = -1
			case a.Hours > b.Hours:
				c = 1
			}
		default:
			switch {
			case a.Date < b.Date:
				c = -1
			case a.Date > b.Date:
				c = 1
			}
		}
		if descending {
			return -c
		}
		return c
	})
	return sorted
}
