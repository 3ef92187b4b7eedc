package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resetYes      bool
	resetNoBackup bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every entry and project and restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().BoolVar(&resetNoBackup, "no-backup", false, "Skip the backup of the current data")
}

func runReset(cmd *cobra.Command, _ []string) error {
	current := trk.Export()
	title := fmt.Sprintf("Delete %d entries and %d projects? This cannot be undone.", len(current.Entries), len(current.Projects))
	ok, err := confirm(cmd, title, resetYes)
	if err != nil || !ok {
		return err
	}

	if !resetNoBackup && (len(current.Entries) > 0 || len(current.Projects) > 0) {
		path, err := backups().Create(current)
		if err != nil {
			return fmt.Errorf("backing up current data: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Current data saved to %s.\n", path)
	}

	if err := trk.Reset(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
	return nil
}
