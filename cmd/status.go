package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's and this week's logged time",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	st, lb := styles(), labels()
	entries := trk.Entries()
	day := today()

	todays := stats.FilterByDate(entries, day)
	fmt.Fprintf(w, "Today: %s logged in %s.\n",
		timecalc.FormatHours(stats.TotalHours(todays)), lb.EntryCount(len(todays)))
	fmt.Fprintf(w, "%s: %s\n", lb.ThisWeek,
		timecalc.FormatHours(stats.WeeklyTotal(entries, timecalc.WeekStart(day))))
	fmt.Fprintf(w, "%s: %s\n", lb.ThisMonth, timecalc.FormatHours(monthHours(entries, day)))

	last := lb.Never
	if t, ok := trk.LastSync(cmd.Context()); ok {
		now := clock()
		layout := "2006-01-02 15:04"
		if timecalc.SameDay(t.Local(), now.Local()) {
			layout = "15:04"
		}
		ago := max(int64(now.Sub(t).Seconds()), 0)
		last = fmt.Sprintf("%s (%s ago)", t.Local().Format(layout), timecalc.FormatDuration(ago))
	}
	fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("%s: %s · %s", lb.LastSync, last, cfg.Store)))
	return nil
}
