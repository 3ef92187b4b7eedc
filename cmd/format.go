package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tiliavir/shiftbase/internal/i18n"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/msgraph"
	"github.com/Tiliavir/shiftbase/internal/render"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

const shortIDLen = 8

// shortID is the prefix shown in listings; commands accept any unique prefix.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func projectIndex(projects []model.Project) map[string]model.Project {
	idx := make(map[string]model.Project, len(projects))
	for _, p := range projects {
		idx[p.ID] = p
	}
	return idx
}

// projectCell renders the swatch and name of the project an entry points at.
func projectCell(st render.Styles, idx map[string]model.Project, id *string, none string) string {
	if id == nil {
		return st.Swatch("") + " " + st.Muted.Render(none)
	}
	p, ok := idx[*id]
	if !ok {
		return st.Swatch("") + " " + st.Muted.Render(none)
	}
	return st.Swatch(p.Color) + " " + p.Name
}

// printEntries groups entries by date and prints them.
func printEntries(w io.Writer, entries []model.Entry, projects []model.Project, st render.Styles, lb i18n.Labels) {
	if len(entries) == 0 {
		fmt.Fprintln(w, lb.NoEntries)
		return
	}

	idx := projectIndex(projects)
	var currentDay string
	for _, e := range entries {
		if e.Date != currentDay {
			if currentDay != "" {
				fmt.Fprintln(w)
			}
			day := fmt.Sprintf("%s %s", lb.Weekday(timecalc.Weekday(e.Date)), e.Date)
			fmt.Fprintln(w, st.Heading.Render(day))
			currentDay = e.Date
		}
		fmt.Fprintln(w, entryLine(e, idx, st, lb))
	}
}

func entryLine(e model.Entry, idx map[string]model.Project, st render.Styles, lb i18n.Labels) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s  %s–%s  %-7s  %s",
		st.Muted.Render(shortID(e.ID)),
		e.StartTime, e.EndTime,
		timecalc.FormatHours(e.Hours),
		projectCell(st, idx, e.ProjectID, lb.NoProject))
	if e.Description != "" {
		b.WriteString("  " + timecalc.Truncate(e.Description, 60))
	}

	var tags []string
	if e.Category != model.CategoryWork {
		tags = append(tags, lb.Category(e.Category))
	}
	if e.BreakTime > 0 {
		tags = append(tags, timecalc.FormatMinutes(e.BreakTime)+" break")
	}
	if e.Source == model.SourceOutlook {
		tags = append(tags, "outlook")
	}
	if len(tags) > 0 {
		b.WriteString("  " + st.Muted.Render("("+strings.Join(tags, ", ")+")"))
	}
	return b.String()
}

// printEntryDetail prints every field of a single entry.
func printEntryDetail(w io.Writer, e model.Entry, projects []model.Project, st render.Styles, lb i18n.Labels) {
	const width = 14
	idx := projectIndex(projects)
	rows := [][2]string{
		{"ID", e.ID},
		{"Date", e.Date},
		{"Time", timecalc.FormatTimeRange(e.StartTime, e.EndTime)},
		{"Break", timecalc.FormatMinutes(e.BreakTime)},
		{"Hours", fmt.Sprintf("%.2f", e.Hours)},
		{"Project", projectCell(st, idx, e.ProjectID, lb.NoProject)},
		{"Category", lb.Category(e.Category)},
		{"Description", e.Description},
	}
	if e.Location != "" {
		rows = append(rows, [2]string{"Location", e.Location})
	}
	if e.Notes != "" {
		rows = append(rows, [2]string{"Notes", e.Notes})
	}
	if e.Source != "" {
		rows = append(rows, [2]string{"Source", e.Source})
	}
	for _, r := range rows {
		fmt.Fprintln(w, st.KeyValue(r[0], r[1], width))
	}
}

func printSyncResult(w io.Writer, r msgraph.SyncResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d imported\n", r.Imported)
	fmt.Fprintf(w, "  %d skipped\n", r.Skipped)
	fmt.Fprintf(w, "  %d updated\n", r.Updated)
	if r.Filtered > 0 {
		fmt.Fprintf(w, "  %d filtered\n", r.Filtered)
	}
	if r.Errors > 0 {
		fmt.Fprintf(w, "  %d errors\n", r.Errors)
	}
}
