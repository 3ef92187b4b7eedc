package export

import (
	"io"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/stats"
)

// SummaryDays is how many of the most recent dates the summary lists.
const SummaryDays = 7

const summaryText = `📊 *Work Time Report*

📅 Export Date: {{.ExportDate}}

*Summary*
Total Hours: *{{hours .TotalHours}}h*
Entries: *{{.EntryCount}}*

{{range .Days}}*{{.Date}}*
{{range .Lines}}• {{.Start}}-{{.End}}: {{.Description}}{{with .Project}} ({{.}}){{end}} - {{hours .Hours}}h
{{end}}_Total: {{hours .Total}}h_

{{end}}`

var summaryTmpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"hours": func(h float64) string { return strconv.FormatFloat(h, 'f', 2, 64) },
}).Parse(summaryText))

type summaryLine struct {
	Start, End, Description, Project string
	Hours                            float64
}

type summaryDay struct {
	Date  string
	Lines []summaryLine
	Total float64
}

type summaryData struct {
	ExportDate string
	TotalHours float64
	EntryCount int
	Days       []summaryDay
}

// Summary writes a chat-friendly report: overall totals followed by the
// SummaryDays most recent dates, newest first.
func Summary(w io.Writer, entries []model.Entry, projects []model.Project, now time.Time) error {
	names := projectNames(projects)

	byDate := map[string][]model.Entry{}
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	slices.Reverse(dates)
	if len(dates) > SummaryDays {
		dates = dates[:SummaryDays]
	}

	data := summaryData{
		ExportDate: now.Format("2006-01-02"),
		TotalHours: stats.TotalHours(entries),
		EntryCount: len(entries),
	}
	for _, d := range dates {
		day := summaryDay{Date: d, Total: stats.TotalHours(byDate[d])}
		for _, e := range byDate[d] {
			line := summaryLine{Start: e.StartTime, End: e.EndTime, Description: e.Description, Hours: e.Hours}
			if e.ProjectID != nil {
				line.Project = names[*e.ProjectID]
			}
			day.Lines = append(day.Lines, line)
		}
		data.Days = append(data.Days, day)
	}
	return summaryTmpl.Execute(w, data)
}

// SummaryString is Summary into a string.
func SummaryString(entries []model.Entry, projects []model.Project, now time.Time) (string, error) {
	var b strings.Builder
	if err := Summary(&b, entries, projects, now); err != nil {
		return "", err
	}
	return b.String(), nil
}

// GlamourStyle picks the glamour style matching a theme.
func GlamourStyle(theme model.Theme) string {
	if theme == model.ThemeLight {
		return "light"
	}
	return "dark"
}

// RenderMarkdown renders md for the terminal. On failure md is returned as is.
func RenderMarkdown(md string, theme model.Theme) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, GlamourStyle(theme))
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
