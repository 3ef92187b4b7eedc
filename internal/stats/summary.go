package stats

import (
	"sort"
	"time"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

// DayHours is one bar of the weekly chart.
type DayHours struct {
	Date    string
	Weekday time.Weekday
	Hours   float64
}

// WeekChart returns the daily totals for the seven days from weekStart.
func WeekChart(entries []model.Entry, weekStart string) []DayHours {
	days := make([]DayHours, 0, 7)
	for i := 0; i < 7; i++ {
		date := timecalc.AddDays(weekStart, i)
		days = append(days, DayHours{
			Date:    date,
			Weekday: timecalc.Weekday(date),
			Hours:   DailyTotal(entries, date),
		})
	}
	return days
}

// DayTotal aggregates a single calendar day.
type DayTotal struct {
	Date       string
	Hours      float64
	EntryCount int
}

// DailyTotals groups entries per date, ordered by date ascending.
func DailyTotals(entries []model.Entry) []DayTotal {
	byDate := map[string]*DayTotal{}
	var order []string
	for _, e := range entries {
		dt, ok := byDate[e.Date]
		if !ok {
			dt = &DayTotal{Date: e.Date}
			byDate[e.Date] = dt
			order = append(order, e.Date)
		}
		dt.Hours += e.Hours
		dt.EntryCount++
	}
	sort.Strings(order)

	totals := make([]DayTotal, 0, len(order))
	for _, d := range order {
		totals = append(totals, *byDate[d])
	}
	return totals
}

// Share is a slice of a breakdown with its percentage of the whole.
type Share struct {
	Key     string
	Name    string
	Color   string
	Hours   float64
	Percent float64
}

// CategoryShares turns CategoryBreakdown into ordered shares. Categories with
// no entries are omitted.
func CategoryShares(entries []model.Entry) []Share {
	breakdown := CategoryBreakdown(entries)
	var total float64
	for _, h := range breakdown {
		total += h
	}

	var shares []Share
	seen := map[model.Category]bool{}
	for _, c := range model.Categories {
		h, ok := breakdown[c]
		if !ok {
			continue
		}
		seen[c] = true
		shares = append(shares, Share{Key: string(c), Name: string(c), Hours: h, Percent: percent(h, total)})
	}

	// Unknown categories from imported data go last, alphabetically.
	var extra []string
	for c := range breakdown {
		if !seen[c] {
			extra = append(extra, string(c))
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		h := breakdown[model.Category(c)]
		shares = append(shares, Share{Key: c, Name: c, Hours: h, Percent: percent(h, total)})
	}
	return shares
}

// ProjectShares reports each project's stored total as a share of all projects.
func ProjectShares(projects []model.Project) []Share {
	var total float64
	for _, p := range projects {
		total += p.TotalHours
	}
	shares := make([]Share, 0, len(projects))
	for _, p := range projects {
		shares = append(shares, Share{
			Key:     p.ID,
			Name:    p.Name,
			Color:   p.Color,
			Hours:   p.TotalHours,
			Percent: percent(p.TotalHours, total),
		})
	}
	return shares
}

func percent(part, total float64) float64 {
	if total == 0 {
		total = 1
	}
	return part / total * 100
}

// Overview is the headline block of the overview screen.
type Overview struct {
	TotalHours   float64
	WeeklyHours  float64
	AverageDaily float64
	TotalBreaks  int
	EntryCount   int
	WeekStart    string
	FirstDate    string
	LastDate     string
}

// Summarize computes the overview for entries relative to today.
func Summarize(entries []model.Entry, today string) Overview {
	weekStart := timecalc.WeekStart(today)
	first, last, _ := DateRange(entries)
	return Overview{
		TotalHours:   TotalHours(entries),
		WeeklyHours:  WeeklyTotal(entries, weekStart),
		AverageDaily: AverageDaily(entries),
		TotalBreaks:  TotalBreaks(entries),
		EntryCount:   len(entries),
		WeekStart:    weekStart,
		FirstDate:    first,
		LastDate:     last,
	}
}
