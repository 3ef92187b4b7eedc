package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/keyring"
)

var keyringStdin bool

var keyringCmd = &cobra.Command{
	Use:         "keyring",
	Short:       "Manage the PostgreSQL password kept in the OS keyring",
	Annotations: map[string]string{annotationNoStore: "true"},
}

var keyringSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the PostgreSQL password",
	Args:  cobra.NoArgs,
	RunE:  runKeyringSet,
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored PostgreSQL password",
	Args:  cobra.NoArgs,
	RunE:  runKeyringDelete,
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the keyring is usable and holds a password",
	Args:  cobra.NoArgs,
	RunE:  runKeyringStatus,
}

func init() {
	keyringSetCmd.Flags().BoolVar(&keyringStdin, "stdin", false, "Read the password from the first line of stdin")
	keyringCmd.AddCommand(keyringSetCmd, keyringDeleteCmd, keyringStatusCmd)
}

func runKeyringSet(cmd *cobra.Command, _ []string) error {
	var password string
	if keyringStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	} else {
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("PostgreSQL password").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		).WithInput(cmd.InOrStdin()).WithOutput(cmd.OutOrStdout()).Run()
		if err != nil {
			return err
		}
	}

	if err := keyring.Set(keyring.PostgresPasswordAccount, password); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Password stored in the OS keyring.")
	return nil
}

func runKeyringDelete(cmd *cobra.Command, _ []string) error {
	if err := keyring.Delete(keyring.PostgresPasswordAccount); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no password stored in keyring")
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Password removed from the OS keyring.")
	return nil
}

func runKeyringStatus(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	if !keyring.IsAvailable() {
		fmt.Fprintln(w, "Keyring: unavailable")
		return nil
	}
	fmt.Fprintln(w, "Keyring: available")
	pw, err := keyring.PostgresPassword()
	if err != nil {
		return err
	}
	if pw == "" {
		fmt.Fprintln(w, "PostgreSQL password: not stored")
	} else {
		fmt.Fprintln(w, "PostgreSQL password: stored")
	}
	return nil
}
