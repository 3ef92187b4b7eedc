package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/i18n"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/render"
	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

const (
	labelWidth = 18
	barWidth   = 30
)

var overviewCmd = &cobra.Command{
	Use:     "overview",
	Aliases: []string{"stats"},
	Short:   "Show totals, this week's chart and breakdowns",
	Args:    cobra.NoArgs,
	RunE:    runOverview,
}

func runOverview(cmd *cobra.Command, _ []string) error {
	printOverview(cmd.OutOrStdout(), trk.Entries(), trk.Projects(), today(), styles(), labels())
	return nil
}

func printOverview(w io.Writer, entries []model.Entry, projects []model.Project, day string, st render.Styles, lb i18n.Labels) {
	ov := stats.Summarize(entries, day)

	fmt.Fprintln(w, st.Title.Render(lb.OverviewTitle))
	if ov.FirstDate != "" {
		span := timecalc.DaysDifference(ov.FirstDate, ov.LastDate) + 1
		fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("%s – %s (%s)",
			ov.FirstDate, ov.LastDate, lb.DayCount(span))))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.KeyValue(lb.TotalHours, timecalc.FormatHours(ov.TotalHours), labelWidth))
	fmt.Fprintln(w, st.KeyValue(lb.ThisWeek, timecalc.FormatHours(ov.WeeklyHours), labelWidth))
	fmt.Fprintln(w, st.KeyValue(lb.ThisMonth, timecalc.FormatHours(monthHours(entries, day)), labelWidth))
	fmt.Fprintln(w, st.KeyValue(lb.AverageDaily, timecalc.FormatHours(ov.AverageDaily), labelWidth))
	fmt.Fprintln(w, st.KeyValue(lb.TotalBreaks, timecalc.FormatMinutes(ov.TotalBreaks), labelWidth))
	fmt.Fprintln(w, st.KeyValue(lb.Entries, fmt.Sprint(ov.EntryCount), labelWidth))

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Heading.Render(lb.WeeklyChart))
	chart := stats.WeekChart(entries, ov.WeekStart)
	var peak float64
	for _, d := range chart {
		peak = max(peak, d.Hours)
	}
	for _, d := range chart {
		fmt.Fprintf(w, "%-4s %s %s\n", lb.Weekday(d.Weekday), st.HBar(d.Hours, peak, barWidth), timecalc.FormatHours(d.Hours))
	}

	if len(entries) > 0 {
		fmt.Fprintln(w)
		printShares(w, lb.ByCategory, categoryShares(entries, lb), st)
	}
	if len(projects) > 0 {
		fmt.Fprintln(w)
		printShares(w, lb.ByProject, stats.ProjectShares(projects), st)
	}
}

// categoryShares translates the category names of the breakdown.
func categoryShares(entries []model.Entry, lb i18n.Labels) []stats.Share {
	shares := stats.CategoryShares(entries)
	for i := range shares {
		shares[i].Name = lb.Category(model.Category(shares[i].Key))
	}
	return shares
}

func printShares(w io.Writer, title string, shares []stats.Share, st render.Styles) {
	fmt.Fprintln(w, st.Heading.Render(title))
	nameWidth := 0
	for _, s := range shares {
		nameWidth = max(nameWidth, len([]rune(s.Name)))
	}
	for _, s := range shares {
		prefix := ""
		if s.Color != "" {
			prefix = st.Swatch(s.Color) + " "
		}
		fmt.Fprintf(w, "%s%-*s %s %8s %5.1f%%\n",
			prefix, nameWidth, s.Name, st.HBar(s.Percent, 100, barWidth), timecalc.FormatHours(s.Hours), s.Percent)
	}
}

func monthHours(entries []model.Entry, day string) float64 {
	t, err := timecalc.ParseDate(day)
	if err != nil {
		return 0
	}
	return stats.MonthlyTotal(entries, t.Year(), t.Month())
}
