// Package export writes tracker data as JSON, CSV or a plain-text summary
// message, and reads JSON exports back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/storage"
)

// Format names accepted by the CLI.
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Date", "Start", "End", "Hours", "Description", "Project", "Category", "Break", "Location", "Notes"}

// JSON writes data as indented JSON.
func JSON(w io.Writer, data model.ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ParseJSON reads an export produced by JSON (or by the mobile app).
func ParseJSON(r io.Reader) (model.ExportData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return model.ExportData{}, fmt.Errorf("reading import: %w", err)
	}
	return storage.ParseImport(raw)
}

// projectNames maps project IDs to names.
func projectNames(projects []model.Project) map[string]string {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

// CSV writes one row per entry. Unknown or missing projects are written as "-".
func CSV(w io.Writer, entries []model.Entry, projects []model.Project) error {
	names := projectNames(projects)
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		project := "-"
		if e.ProjectID != nil {
			if n, ok := names[*e.ProjectID]; ok && n != "" {
				project = n
			}
		}
		row := []string{
			e.Date,
			e.StartTime,
			e.EndTime,
			strconv.FormatFloat(e.Hours, 'f', 2, 64),
			e.Description,
			project,
			string(e.Category),
			strconv.Itoa(e.BreakTime),
			e.Location,
			e.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
