package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/backup"
	"github.com/Tiliavir/shiftbase/internal/config"
	"github.com/Tiliavir/shiftbase/internal/i18n"
	"github.com/Tiliavir/shiftbase/internal/keyring"
	"github.com/Tiliavir/shiftbase/internal/kv"
	"github.com/Tiliavir/shiftbase/internal/logger"
	"github.com/Tiliavir/shiftbase/internal/render"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
	"github.com/Tiliavir/shiftbase/internal/tracker"
)

// annotationNoStore marks commands that run without opening the store.
const annotationNoStore = "shiftbase/no-store"

var (
	configPath string
	storeFlag  string
	debugFlag  bool

	cfg config.Config
	trk *tracker.Tracker

	// clock is replaced in tests.
	clock = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "shiftbase",
	Short: "shiftbase – log working hours, projects and breaks from the terminal",
	Long: `shiftbase records work entries with start/end times and breaks, groups them
into projects and reports daily, weekly and monthly totals.
Data lives in ~/.shiftbase/ unless --store points elsewhere.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  openTracker,
	PersistentPostRunE: closeTracker,
}

// exitError carries a process exit code other than 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeTracker(nil, nil)
	if err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		stop()
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.shiftbase/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Storage location: directory, sqlite://file.db, postgres://…, host=… dbname=… or memory://")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log debug output to stderr")

	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(keyringCmd)
}

func skipsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoStore] == "true" {
			return true
		}
	}
	return cmd.Name() == "help" || cmd.Name() == "completion" ||
		(cmd.HasParent() && cmd.Parent().Name() == "completion")
}

// openTracker loads config, starts logging and opens the configured store.
func openTracker(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if storeFlag != "" {
		cfg.Store = storeFlag
	}
	if debugFlag {
		cfg.Debug = true
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir, Stderr: cmd.ErrOrStderr()}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
	}
	logger.Debug("command started", "cmd", cmd.CommandPath(), "store", cfg.Store)

	if skipsStore(cmd) {
		return nil
	}

	ctx := cmd.Context()
	store, err := kv.Open(ctx, cfg.Store, kv.Options{PostgresPassword: keyring.PostgresPassword})
	if err != nil {
		return fmt.Errorf("opening store %s: %w", cfg.Store, err)
	}
	trk, err = tracker.Open(ctx, store,
		tracker.WithClock(clock),
		tracker.WithBackups(backups()))
	if err != nil {
		store.Close()
		return err
	}
	return nil
}

func closeTracker(_ *cobra.Command, _ []string) error {
	if trk == nil {
		return nil
	}
	err := trk.Close()
	trk = nil
	return err
}

// styles returns the lipgloss styles for the stored theme.
func styles() render.Styles {
	return render.New(trk.Settings().Theme)
}

// labels returns the translated labels for the stored language.
func labels() i18n.Labels {
	return i18n.For(trk.Settings().Language)
}

func today() string {
	return timecalc.Today(clock())
}

func backups() *backup.Manager {
	return backup.New(filepath.Join(cfg.DataDir, "backups"),
		backup.WithKeep(cfg.BackupKeep), backup.WithClock(clock))
}
