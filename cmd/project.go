package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

var (
	projectAddColor  string
	projectEditName  string
	projectEditColor string
	projectDeleteYes bool
	projectShowLimit int
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProjectAdd,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <name|id>",
	Short: "Rename or recolour a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectEdit,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a project; its entries are kept without a project",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects with their totals",
	Args:    cobra.NoArgs,
	RunE:    runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <name|id>",
	Short: "Show a project and its latest entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

func init() {
	palette := strings.Join(model.ProjectColors, ", ")
	projectAddCmd.Flags().StringVar(&projectAddColor, "color", model.DefaultProjectColor, "Hex colour, e.g. one of "+palette)
	projectEditCmd.Flags().StringVar(&projectEditName, "name", "", "New name")
	projectEditCmd.Flags().StringVar(&projectEditColor, "color", "", "New hex colour")
	projectDeleteCmd.Flags().BoolVarP(&projectDeleteYes, "yes", "y", false, "Do not ask for confirmation")
	projectShowCmd.Flags().IntVarP(&projectShowLimit, "limit", "n", 10, "Number of recent entries to show")

	projectCmd.AddCommand(projectAddCmd, projectEditCmd, projectDeleteCmd, projectListCmd, projectShowCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	p, err := trk.AddProject(cmd.Context(), strings.Join(args, " "), projectAddColor)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s (%s).\n", styles().Swatch(p.Color), p.Name, shortID(p.ID))
	return nil
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	name := p.Name
	if cmd.Flags().Changed("name") {
		name = projectEditName
	}
	p, err = trk.UpdateProject(cmd.Context(), p.ID, name, projectEditColor)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s %s.\n", styles().Swatch(p.Color), p.Name)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Delete project %q? Its %s stay without a project.",
		p.Name, labels().EntryCount(p.EntryCount))
	ok, err := confirm(cmd, title, projectDeleteYes)
	if err != nil || !ok {
		return err
	}
	if err := trk.DeleteProject(cmd.Context(), p.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s.\n", p.Name)
	return nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	st, lb := styles(), labels()
	projects := trk.Projects()
	if len(projects) == 0 {
		fmt.Fprintln(w, lb.NoProjects)
		return nil
	}

	nameWidth := 0
	for _, p := range projects {
		nameWidth = max(nameWidth, len([]rune(p.Name)))
	}
	for _, p := range projects {
		last := lb.Never
		if p.LastUsed != nil {
			last = timecalc.FormatDate(time.UnixMilli(*p.LastUsed))
		}
		fmt.Fprintf(w, "%s %s  %-*s  %8s  %-14s  %s\n",
			st.Swatch(p.Color), st.Muted.Render(shortID(p.ID)),
			nameWidth, p.Name,
			timecalc.FormatHours(p.TotalHours),
			lb.EntryCount(p.EntryCount),
			st.Muted.Render(last))
	}
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	st, lb := styles(), labels()
	const width = 14

	fmt.Fprintln(w, st.Title.Render(st.Swatch(p.Color)+" "+p.Name))
	fmt.Fprintln(w, st.KeyValue("ID", p.ID, width))
	fmt.Fprintln(w, st.KeyValue("Color", p.Color, width))
	fmt.Fprintln(w, st.KeyValue(lb.TotalHours, timecalc.FormatHours(p.TotalHours), width))
	fmt.Fprintln(w, st.KeyValue(lb.Entries, fmt.Sprint(p.EntryCount), width))

	entries := stats.SortEntries(stats.FilterByProject(trk.Entries(), p.ID), stats.SortByDate, true)
	if projectShowLimit > 0 && len(entries) > projectShowLimit {
		entries = entries[:projectShowLimit]
	}
	fmt.Fprintln(w)
	printEntries(w, entries, []model.Project{p}, st, lb)
	return nil
}
