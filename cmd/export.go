package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/export"
	"github.com/Tiliavir/shiftbase/internal/stats"
)

var (
	exportFormat string
	exportOutput string
	exportRender bool
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data as JSON, entries as CSV, or a weekly summary message",
	Example: `  shiftbase export --output backup.json
  shiftbase export --format csv --from 2024-01-01 --to 2024-01-31 > january.csv
  shiftbase export --format summary --render`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatJSON, "Output format: json, csv, summary")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().BoolVar(&exportRender, "render", false, "Render the summary as styled markdown")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "CSV only: first date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "CSV only: last date (YYYY-MM-DD)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	var buf bytes.Buffer
	switch exportFormat {
	case export.FormatJSON:
		if err := export.JSON(&buf, trk.Export()); err != nil {
			return err
		}
	case export.FormatCSV:
		entries := trk.Entries()
		if exportFrom != "" || exportTo != "" {
			from, to, err := dateRange(exportFrom, exportTo, today())
			if err != nil {
				return err
			}
			entries = stats.FilterByDateRange(entries, from, to)
		}
		if err := export.CSV(&buf, entries, trk.Projects()); err != nil {
			return err
		}
	case export.FormatSummary:
		msg, err := export.SummaryString(trk.Entries(), trk.Projects(), clock())
		if err != nil {
			return err
		}
		if exportRender && exportOutput == "" {
			msg = export.RenderMarkdown(msg, trk.Settings().Theme)
		}
		buf.WriteString(msg)
		if msg != "" && msg[len(msg)-1] != '\n' {
			buf.WriteByte('\n')
		}
	default:
		return fmt.Errorf("unknown --format %q: use json, csv or summary", exportFormat)
	}

	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(exportOutput, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s.\n", exportFormat, exportOutput)
	return nil
}
