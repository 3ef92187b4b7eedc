package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

// entryFlags holds the per-field flags shared by entry add and entry edit.
type entryFlags struct {
	date         string
	start        string
	end          string
	breakMinutes int
	description  string
	project      string
	category     string
	location     string
	notes        string
}

func (f *entryFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.date, "date", "", "Date (YYYY-MM-DD); defaults to today")
	c.Flags().StringVar(&f.start, "start", "", "Start time (HH:MM)")
	c.Flags().StringVar(&f.end, "end", "", "End time (HH:MM); earlier than start means past midnight")
	c.Flags().IntVar(&f.breakMinutes, "break", 0, "Break in minutes; defaults to the configured default break")
	c.Flags().StringVarP(&f.description, "description", "m", "", "What was worked on")
	c.Flags().StringVarP(&f.project, "project", "p", "", "Project name or ID; \"none\" clears it")
	c.Flags().StringVarP(&f.category, "category", "c", "", "work, overtime or vacation")
	c.Flags().StringVar(&f.location, "location", "", "Where the work happened")
	c.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
}

// apply copies every flag set on c into form.
func (f *entryFlags) apply(c *cobra.Command, form *model.EntryForm) error {
	fs := c.Flags()
	if fs.Changed("date") {
		form.Date = f.date
	}
	if fs.Changed("start") {
		form.StartTime = f.start
	}
	if fs.Changed("end") {
		form.EndTime = f.end
	}
	if fs.Changed("break") {
		form.BreakTime = f.breakMinutes
	}
	if fs.Changed("description") {
		form.Description = f.description
	}
	if fs.Changed("category") {
		form.Category = model.Category(strings.ToLower(strings.TrimSpace(f.category)))
	}
	if fs.Changed("location") {
		form.Location = f.location
	}
	if fs.Changed("notes") {
		form.Notes = f.notes
	}
	if fs.Changed("project") {
		id, err := projectRef(f.project)
		if err != nil {
			return err
		}
		form.ProjectID = id
	}
	return nil
}

var (
	entryAddFlags     entryFlags
	entryAddInteract  bool
	entryEditFlags    entryFlags
	entryEditInteract bool
	entryDeleteYes    bool

	entryListToday    bool
	entryListWeek     bool
	entryListDate     string
	entryListFrom     string
	entryListTo       string
	entryListProject  string
	entryListCategory string
	entryListSort     string
	entryListAsc      bool
	entryListLimit    int
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"entries", "e"},
	Short:   "Add, edit, delete and list work entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a work entry",
	Example: `  shiftbase entry add --start 09:00 --end 17:00 --break 30 -m "Sprint work" -p Acme
  shiftbase entry add --start 22:00 --end 06:00 -m "Night shift" -c overtime
  shiftbase entry add --interactive`,
	Args: cobra.NoArgs,
	RunE: runEntryAdd,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryEdit,
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runEntryDelete,
}

var entryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List entries, grouped by day",
	Args:    cobra.NoArgs,
	RunE:    runEntryList,
}

var entryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show every field of an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryShow,
}

func init() {
	entryAddFlags.bind(entryAddCmd)
	entryAddCmd.Flags().BoolVarP(&entryAddInteract, "interactive", "i", false, "Fill in the entry with a form")

	entryEditFlags.bind(entryEditCmd)
	entryEditCmd.Flags().BoolVarP(&entryEditInteract, "interactive", "i", false, "Edit the entry with a form")

	entryDeleteCmd.Flags().BoolVarP(&entryDeleteYes, "yes", "y", false, "Do not ask for confirmation")

	entryListCmd.Flags().BoolVar(&entryListToday, "today", false, "Only today's entries")
	entryListCmd.Flags().BoolVar(&entryListWeek, "week", false, "Only this week's entries")
	entryListCmd.Flags().StringVar(&entryListDate, "date", "", "Only entries on this date (YYYY-MM-DD)")
	entryListCmd.Flags().StringVar(&entryListFrom, "from", "", "Earliest date (YYYY-MM-DD)")
	entryListCmd.Flags().StringVar(&entryListTo, "to", "", "Latest date (YYYY-MM-DD)")
	entryListCmd.Flags().StringVarP(&entryListProject, "project", "p", "", "Only entries of this project (name or ID)")
	entryListCmd.Flags().StringVarP(&entryListCategory, "category", "c", "", "Only entries of this category")
	entryListCmd.Flags().StringVar(&entryListSort, "sort", string(stats.SortByDate), "Sort by date or hours")
	entryListCmd.Flags().BoolVar(&entryListAsc, "asc", false, "Sort ascending instead of newest/longest first")
	entryListCmd.Flags().IntVarP(&entryListLimit, "limit", "n", 0, "Show at most n entries (0 = all)")

	entryCmd.AddCommand(entryAddCmd, entryEditCmd, entryDeleteCmd, entryListCmd, entryShowCmd)
}

func runEntryAdd(cmd *cobra.Command, _ []string) error {
	settings := trk.Settings()
	form := model.EntryForm{
		Date:      today(),
		BreakTime: settings.DefaultBreakTime,
		Category:  settings.DefaultCategory,
	}
	if err := entryAddFlags.apply(cmd, &form); err != nil {
		return err
	}
	if entryAddInteract {
		if err := runEntryForm(cmd, &form); err != nil {
			return err
		}
	}

	e, err := trk.AddEntry(cmd.Context(), form)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added entry %s: %s %s (%s)\n",
		shortID(e.ID), e.Date, timecalc.FormatTimeRange(e.StartTime, e.EndTime), timecalc.FormatHours(e.Hours))
	return nil
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	existing, err := resolveEntry(args[0])
	if err != nil {
		return err
	}
	form := existing.Form()
	if err := entryEditFlags.apply(cmd, &form); err != nil {
		return err
	}
	if entryEditInteract {
		if err := runEntryForm(cmd, &form); err != nil {
			return err
		}
	}

	e, err := trk.UpdateEntry(cmd.Context(), existing.ID, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s: %s %s (%s)\n",
		shortID(e.ID), e.Date, timecalc.FormatTimeRange(e.StartTime, e.EndTime), timecalc.FormatHours(e.Hours))
	return nil
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	e, err := resolveEntry(args[0])
	if err != nil {
		return err
	}
	ok, err := confirm(cmd, fmt.Sprintf("Delete entry %q on %s?", timecalc.Truncate(e.Description, 40), e.Date), entryDeleteYes)
	if err != nil || !ok {
		return err
	}
	if err := trk.DeleteEntry(cmd.Context(), e.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s.\n", shortID(e.ID))
	return nil
}

func runEntryShow(cmd *cobra.Command, args []string) error {
	e, err := resolveEntry(args[0])
	if err != nil {
		return err
	}
	printEntryDetail(cmd.OutOrStdout(), e, trk.Projects(), styles(), labels())
	return nil
}

func runEntryList(cmd *cobra.Command, _ []string) error {
	entries, err := filterEntries(trk.Entries(), today())
	if err != nil {
		return err
	}

	key := stats.SortKey(entryListSort)
	if key != stats.SortByDate && key != stats.SortByHours {
		return fmt.Errorf("unknown --sort %q: use date or hours", entryListSort)
	}
	entries = stats.SortEntries(entries, key, !entryListAsc)
	if entryListLimit > 0 && len(entries) > entryListLimit {
		entries = entries[:entryListLimit]
	}

	w := cmd.OutOrStdout()
	lb := labels()
	printEntries(w, entries, trk.Projects(), styles(), lb)
	if len(entries) > 0 {
		fmt.Fprintf(w, "\n%s, %s\n", lb.EntryCount(len(entries)),
			timecalc.FormatHours(stats.TotalHours(entries)))
	}
	return nil
}

// filterEntries applies the entry list flags.
func filterEntries(entries []model.Entry, today string) ([]model.Entry, error) {
	switch {
	case entryListToday:
		entries = stats.FilterByDate(entries, today)
	case entryListWeek:
		start := timecalc.WeekStart(today)
		entries = stats.FilterByDateRange(entries, start, timecalc.AddDays(start, 6))
	case entryListDate != "":
		if !timecalc.ValidDate(entryListDate) {
			return nil, fmt.Errorf("invalid --date %q", entryListDate)
		}
		entries = stats.FilterByDate(entries, entryListDate)
	case entryListFrom != "" || entryListTo != "":
		from, to, err := dateRange(entryListFrom, entryListTo, today)
		if err != nil {
			return nil, err
		}
		entries = stats.FilterByDateRange(entries, from, to)
	}

	if entryListProject != "" {
		if strings.EqualFold(entryListProject, "none") {
			entries = filterNoProject(entries)
		} else {
			p, err := resolveProject(entryListProject)
			if err != nil {
				return nil, err
			}
			entries = stats.FilterByProject(entries, p.ID)
		}
	}
	if entryListCategory != "" {
		c := model.Category(strings.ToLower(entryListCategory))
		if !c.Valid() {
			return nil, fmt.Errorf("unknown --category %q", entryListCategory)
		}
		entries = stats.FilterByCategory(entries, c)
	}
	return entries, nil
}

func filterNoProject(entries []model.Entry) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if e.ProjectID == nil {
			out = append(out, e)
		}
	}
	return out
}

// dateRange validates --from/--to. A missing --from starts at the earliest
// possible date and a missing --to ends today.
func dateRange(from, to, today string) (string, string, error) {
	if from != "" && !timecalc.ValidDate(from) {
		return "", "", fmt.Errorf("invalid --from %q", from)
	}
	if to == "" {
		to = today
	} else if !timecalc.ValidDate(to) {
		return "", "", fmt.Errorf("invalid --to %q", to)
	}
	if from == "" {
		from = "0000-01-01"
	}
	if from > to {
		return "", "", fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return from, to, nil
}
