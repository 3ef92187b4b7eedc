package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Keys: theme (light, dark, onyx), language (en, pl, nl),
defaultCategory (work, overtime, vacation), defaultBreakTime (minutes),
soundEnabled, hapticEnabled, autoBackup (true/false),
backupFrequency (daily, weekly, monthly).`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}

// settingKey normalises "default-break-time", "default_break_time" and
// "defaultBreakTime" to the same key.
func settingKey(key string) string {
	key = strings.NewReplacer("-", "", "_", "").Replace(key)
	return strings.ToLower(key)
}

// applySetting parses value and stores it in s under key.
func applySetting(s *model.Settings, key, value string) error {
	value = strings.TrimSpace(value)
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s: %q is not true or false", key, value)
		}
		return b, nil
	}

	var err error
	switch settingKey(key) {
	case "theme":
		s.Theme = model.Theme(strings.ToLower(value))
	case "language", "lang":
		s.Language = model.Language(strings.ToLower(value))
	case "defaultcategory":
		s.DefaultCategory = model.Category(strings.ToLower(value))
	case "defaultbreaktime", "defaultbreak":
		s.DefaultBreakTime, err = strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number of minutes", key, value)
		}
	case "soundenabled", "sound":
		s.SoundEnabled, err = parseBool()
	case "hapticenabled", "haptic":
		s.HapticEnabled, err = parseBool()
	case "autobackup":
		s.AutoBackup, err = parseBool()
	case "backupfrequency":
		s.BackupFrequency = model.BackupFrequency(strings.ToLower(value))
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return err
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	st := styles()
	s := trk.Settings()
	const width = 18
	rows := [][2]string{
		{"theme", string(s.Theme)},
		{"language", string(s.Language)},
		{"defaultCategory", string(s.DefaultCategory)},
		{"defaultBreakTime", strconv.Itoa(s.DefaultBreakTime)},
		{"soundEnabled", strconv.FormatBool(s.SoundEnabled)},
		{"hapticEnabled", strconv.FormatBool(s.HapticEnabled)},
		{"autoBackup", strconv.FormatBool(s.AutoBackup)},
		{"backupFrequency", string(s.BackupFrequency)},
	}
	for _, r := range rows {
		fmt.Fprintln(w, st.KeyValue(r[0], r[1], width))
	}
	fmt.Fprintln(w, st.KeyValue("store", cfg.Store, width))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s := trk.Settings()
	if err := applySetting(&s, args[0], args[1]); err != nil {
		return err
	}
	var err error
	switch settingKey(args[0]) {
	case "theme":
		err = trk.SetTheme(cmd.Context(), s.Theme)
	case "language", "lang":
		err = trk.SetLanguage(cmd.Context(), s.Language)
	default:
		_, err = trk.SaveSettings(cmd.Context(), s)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s.\n", args[0], args[1])
	return nil
}
