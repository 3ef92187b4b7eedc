package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/export"
	"github.com/Tiliavir/shiftbase/internal/logger"
)

var (
	importYes      bool
	importNoBackup bool
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace all data with a JSON export",
	Long: `import reads a file written by "shiftbase export" and replaces every
entry, project and the settings with its contents. A backup of the current
data is written first unless --no-backup is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Do not ask for confirmation")
	importCmd.Flags().BoolVar(&importNoBackup, "no-backup", false, "Skip the backup of the current data")
}

func runImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	data, err := export.ParseJSON(r)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	current := trk.Export()
	title := fmt.Sprintf("Replace %d entries and %d projects with %d entries and %d projects?",
		len(current.Entries), len(current.Projects), len(data.Entries), len(data.Projects))
	ok, err := confirm(cmd, title, importYes)
	if err != nil || !ok {
		return err
	}

	if !importNoBackup && (len(current.Entries) > 0 || len(current.Projects) > 0) {
		path, err := backups().Create(current)
		if err != nil {
			return fmt.Errorf("backing up current data: %w", err)
		}
		logger.Info("pre-import backup written", "path", path)
		fmt.Fprintf(cmd.ErrOrStderr(), "Current data saved to %s.\n", path)
	}

	if err := trk.Import(cmd.Context(), data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries and %d projects.\n", len(data.Entries), len(data.Projects))
	return nil
}
