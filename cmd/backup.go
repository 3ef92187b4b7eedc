package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	backupRestoreYes bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list and restore snapshots of all data",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a snapshot now",
	Args:  cobra.NoArgs,
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List snapshots, newest first",
	Args:    cobra.NoArgs,
	RunE:    runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Replace all data with a snapshot (the newest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupRestore,
}

func init() {
	backupRestoreCmd.Flags().BoolVarP(&backupRestoreYes, "yes", "y", false, "Do not ask for confirmation")
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)
}

func runBackupCreate(cmd *cobra.Command, _ []string) error {
	path, err := backups().Create(trk.Export())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s.\n", path)
	return nil
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	st := styles()
	m := backups()
	infos, err := m.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(w, "No backups in %s.\n", m.Dir())
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s  %s  %8s  %s\n",
			info.Name,
			info.Created.Format("2006-01-02 15:04:05"),
			humanize.Bytes(uint64(info.Size)),
			st.Muted.Render(humanize.Time(info.Created)))
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	m := backups()
	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		latest, ok, err := m.Latest()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no backups in %s", m.Dir())
		}
		name = latest.Name
	}

	data, err := m.Restore(name)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Replace current data with %s (%d entries, %d projects)?", name, len(data.Entries), len(data.Projects))
	ok, err := confirm(cmd, title, backupRestoreYes)
	if err != nil || !ok {
		return err
	}
	if err := trk.Import(cmd.Context(), data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s.\n", name)
	return nil
}
