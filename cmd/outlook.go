package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/msgraph"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

type outlookFlags struct {
	from, to, date string
	today, dryRun  bool
	project        string
	timezone       string
}

var syncFlags outlookFlags

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as entries",
	Long: `Import events from the signed-in Outlook calendar.

Cancelled, all-day, private and free events are left out. Events imported
before are updated in place when they changed in Outlook.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	f := outlookSyncCmd.Flags()
	f.StringVar(&syncFlags.from, "from", "", "First day to sync (YYYY-MM-DD); required with --to")
	f.StringVar(&syncFlags.to, "to", "", "Last day to sync (YYYY-MM-DD); defaults to today")
	f.StringVar(&syncFlags.date, "date", "", "Sync a single day (YYYY-MM-DD)")
	f.BoolVar(&syncFlags.today, "today", false, "Sync today only (default)")
	f.BoolVar(&syncFlags.dryRun, "dry-run", false, "Show what would change without saving")
	f.StringVar(&syncFlags.project, "project", "", "Project for imported entries (default from config)")
	f.StringVar(&syncFlags.timezone, "timezone", "", "IANA zone for event times, e.g. Europe/Berlin (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// dates returns the inclusive day window the flags select.
func (o outlookFlags) dates(today string) (string, string, error) {
	if o.date != "" {
		return o.date, o.date, nil
	}
	if o.from == "" && o.to == "" {
		return today, today, nil
	}
	if o.from == "" {
		return "", "", errors.New("--from is required when --to is specified")
	}
	to := o.to
	if to == "" {
		to = today
	}
	return o.from, to, nil
}

func (o outlookFlags) zone() (string, *time.Location, error) {
	name := cfg.Outlook.Timezone
	if o.timezone != "" {
		name = o.timezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return "", nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return name, loc, nil
}

func runOutlookSync(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	ctx := cmd.Context()

	tz, loc, err := syncFlags.zone()
	if err != nil {
		return err
	}
	project := cfg.Outlook.DefaultProject
	if cmd.Flags().Changed("project") {
		project = syncFlags.project
	}

	first, last, err := syncFlags.dates(timecalc.Today(clock().In(loc)))
	if err != nil {
		return err
	}
	from, to, err := msgraph.FetchRange(first, last, loc)
	if err != nil {
		return err
	}

	mode := ""
	if syncFlags.dryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "Outlook %s → %s%s\n\n", first, last, mode)

	tokens := msgraph.DefaultTokenStore(cfg.DataDir)
	tok, oauthCfg, err := msgraph.Authenticate(ctx, cfg.Outlook.TenantID, cfg.Outlook.ClientID, tokens, w)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("sign-in: %w", err)}
	}
	events, err := msgraph.NewClient(ctx, tok, oauthCfg, tokens).GetCalendarView(ctx, from, to, tz)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	result, err := msgraph.SyncEvents(ctx, trk, events, msgraph.SyncOptions{
		DryRun:  syncFlags.dryRun,
		Project: project,
		Out:     w,
	}, tz)
	if err != nil {
		return err
	}

	printSyncResult(w, result)
	if result.Errors > 0 {
		return &exitError{code: 2, err: fmt.Errorf("%d of %d events could not be saved", result.Errors, len(events))}
	}
	return nil
}
