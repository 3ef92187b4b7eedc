package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/i18n"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/render"
	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

var (
	reportWeek   bool
	reportMonth  bool
	reportAll    bool
	reportFrom   string
	reportTo     string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show hours by category and project for a period",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().BoolVar(&reportMonth, "month", false, "Report for this month")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "Report over every entry")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "First date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "Last date (YYYY-MM-DD); defaults to today")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type reportRow struct {
	Name    string  `json:"name"`
	Hours   float64 `json:"hours"`
	Percent float64 `json:"percent"`
}

type reportDay struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Entries int     `json:"entries"`
}

type report struct {
	Label      string      `json:"label"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	TotalHours float64     `json:"totalHours"`
	Entries    int         `json:"entries"`
	Categories []reportRow `json:"categories"`
	Projects   []reportRow `json:"projects"`
	Days       []reportDay `json:"days"`
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// reportPeriod picks the date window from the report flags.
func reportPeriod(now time.Time, entries []model.Entry) (from, to, label string, err error) {
	day := timecalc.Today(now)
	switch {
	case reportFrom != "" || reportTo != "":
		from, to, err = dateRange(reportFrom, reportTo, day)
		if err != nil {
			return "", "", "", err
		}
		if reportFrom == "" {
			return from, to, "until " + to, nil
		}
		return from, to, from + " – " + to, nil
	case reportMonth:
		return timecalc.MonthStart(day), timecalc.MonthEnd(day), now.Format("2006-01"), nil
	case reportAll:
		first, last, ok := stats.DateRange(entries)
		if !ok {
			first, last = day, day
		}
		return first, last, "all", nil
	default:
		start := timecalc.WeekStart(day)
		return start, timecalc.AddDays(start, 6), timecalc.ISOWeekLabel(now), nil
	}
}

// buildReport aggregates entries in [from, to]. Project hours come from the
// entries in range, not from the stored project totals.
func buildReport(entries []model.Entry, projects []model.Project, from, to, label string, lb i18n.Labels) report {
	inRange := stats.FilterByDateRange(entries, from, to)
	r := report{
		Label:      label,
		From:       from,
		To:         to,
		TotalHours: round2(stats.TotalHours(inRange)),
		Entries:    len(inRange),
		Categories: []reportRow{},
		Projects:   []reportRow{},
		Days:       []reportDay{},
	}

	for _, s := range categoryShares(inRange, lb) {
		r.Categories = append(r.Categories, reportRow{Name: s.Name, Hours: round2(s.Hours), Percent: round2(s.Percent)})
	}

	ranged := make([]model.Project, 0, len(projects)+1)
	for _, p := range projects {
		pt := stats.ProjectStats(inRange, p.ID)
		if pt.EntryCount == 0 {
			continue
		}
		p.TotalHours = pt.TotalHours
		ranged = append(ranged, p)
	}
	if loose := filterNoProject(inRange); len(loose) > 0 {
		ranged = append(ranged, model.Project{Name: lb.NoProject, TotalHours: stats.TotalHours(loose)})
	}
	for _, s := range stats.ProjectShares(ranged) {
		r.Projects = append(r.Projects, reportRow{Name: s.Name, Hours: round2(s.Hours), Percent: round2(s.Percent)})
	}

	for _, d := range stats.DailyTotals(inRange) {
		r.Days = append(r.Days, reportDay{Date: d.Date, Hours: round2(d.Hours), Entries: d.EntryCount})
	}
	return r
}

func runReport(cmd *cobra.Command, _ []string) error {
	entries := trk.Entries()
	from, to, label, err := reportPeriod(clock(), entries)
	if err != nil {
		return err
	}
	lb := labels()
	r := buildReport(entries, trk.Projects(), from, to, label, lb)

	w := cmd.OutOrStdout()
	switch reportFormat {
	case "csv":
		return writeReportCSV(w, r)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "md", "":
		writeReportText(w, r, styles(), lb)
		return nil
	default:
		return fmt.Errorf("unknown --format %q: use md, csv or json", reportFormat)
	}
}

func writeReportCSV(w io.Writer, r report) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"group", "name", "hours", "percent"})
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	for _, row := range r.Categories {
		cw.Write([]string{"category", row.Name, f(row.Hours), f(row.Percent)})
	}
	for _, row := range r.Projects {
		cw.Write([]string{"project", row.Name, f(row.Hours), f(row.Percent)})
	}
	cw.Write([]string{"total", "", f(r.TotalHours), "100.00"})
	cw.Flush()
	return cw.Error()
}

func writeReportText(w io.Writer, r report, st render.Styles, lb i18n.Labels) {
	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("%s %s", lb.ReportTitle, r.Label)))
	fmt.Fprintln(w, st.Muted.Render(r.From+" – "+r.To))
	fmt.Fprintln(w, "--------------------------------")
	if r.Entries == 0 {
		fmt.Fprintln(w, lb.NoEntries)
		return
	}

	section := func(title string, rows []reportRow) {
		fmt.Fprintln(w, st.Heading.Render(title))
		for _, row := range rows {
			fmt.Fprintf(w, "%-20s%-9s%5.1f%%\n", row.Name, timecalc.FormatHours(row.Hours), row.Percent)
		}
	}
	section(lb.ByCategory, r.Categories)
	fmt.Fprintln(w)
	section(lb.ByProject, r.Projects)
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%-20s%s (%s)\n", lb.Total, timecalc.FormatHours(r.TotalHours), lb.EntryCount(r.Entries))
}
