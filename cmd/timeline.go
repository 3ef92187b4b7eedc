package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

var (
	timelineFrom    string
	timelineTo      string
	timelineMonth   bool
	timelineEntries bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline [date]",
	Short: "Show the entries of a day, or daily totals for a range",
	Example: `  shiftbase timeline
  shiftbase timeline 2024-01-15
  shiftbase timeline --from 2024-01-01 --to 2024-01-31
  shiftbase timeline --month --entries`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTimeline,
}

func init() {
	timelineCmd.Flags().StringVar(&timelineFrom, "from", "", "First date (YYYY-MM-DD)")
	timelineCmd.Flags().StringVar(&timelineTo, "to", "", "Last date (YYYY-MM-DD); defaults to today")
	timelineCmd.Flags().BoolVar(&timelineMonth, "month", false, "Every day of the current month")
	timelineCmd.Flags().BoolVar(&timelineEntries, "entries", false, "List entries under each day of a range")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	st, lb := styles(), labels()
	entries := trk.Entries()
	projects := trk.Projects()
	day := today()

	var days []string
	switch {
	case len(args) == 1:
		if !timecalc.ValidDate(args[0]) {
			return fmt.Errorf("invalid date %q", args[0])
		}
		days = []string{args[0]}
	case timelineFrom != "" || timelineTo != "":
		if timelineFrom == "" {
			return fmt.Errorf("--from is required when --to is specified")
		}
		from, to, err := dateRange(timelineFrom, timelineTo, day)
		if err != nil {
			return err
		}
		days = timecalc.DaysBetween(from, to)
	case timelineMonth:
		days = timecalc.MonthDays(day)
	default:
		days = []string{day}
	}

	if len(days) == 0 {
		return fmt.Errorf("empty date range")
	}
	fmt.Fprintln(w, st.Title.Render(lb.Timeline))

	if len(days) == 1 {
		dayEntries := trk.EntriesByDate(days[0])
		slices.SortStableFunc(dayEntries, func(a, b model.Entry) int {
			return timecalc.CompareClock(a.StartTime, b.StartTime)
		})
		printEntries(w, dayEntries, projects, st, lb)
		fmt.Fprintf(w, "\n%s: %s\n", lb.Total, timecalc.FormatHours(stats.TotalHours(dayEntries)))
		return nil
	}

	inRange := stats.FilterByDateRange(entries, days[0], days[len(days)-1])
	var peak float64
	for _, d := range days {
		peak = max(peak, stats.DailyTotal(inRange, d))
	}
	idx := projectIndex(projects)
	for _, d := range days {
		hours := stats.DailyTotal(inRange, d)
		fmt.Fprintf(w, "%-4s %s %s %s\n", lb.Weekday(timecalc.Weekday(d)), d, st.HBar(hours, peak, barWidth), timecalc.FormatHours(hours))
		if timelineEntries {
			for _, e := range stats.FilterByDate(inRange, d) {
				fmt.Fprintln(w, "   "+entryLine(e, idx, st, lb))
			}
		}
	}
	fmt.Fprintf(w, "\n%s: %s\n", lb.Total, timecalc.FormatHours(stats.TotalHours(inRange)))
	return nil
}
