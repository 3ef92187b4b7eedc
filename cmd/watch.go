package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/logger"
	"github.com/Tiliavir/shiftbase/internal/watch"
)

var watchClear bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the overview on screen and redraw it when the data changes",
	Long: `watch prints the overview and redraws it whenever another shiftbase
process writes to the same store. It works with directory and SQLite stores.
Stop it with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchClear, "clear", false, "Clear the screen before each redraw")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	path, err := watch.PathOf(trk.Storage().KV())
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Store, err)
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	draw := func() {
		if watchClear {
			fmt.Fprint(w, "\033[H\033[2J")
		}
		printOverview(w, trk.Entries(), trk.Projects(), today(), styles(), labels())
		fmt.Fprintln(w, styles().Muted.Render(fmt.Sprintf("\nwatching %s – updated %s", path, clock().Format("15:04:05"))))
	}
	draw()

	return watch.Run(ctx, path, watch.DefaultDebounce, func() {
		trk.Reload(ctx)
		logger.Debug("store changed, redrawing")
		if !watchClear {
			fmt.Fprintln(w)
		}
		draw()
	})
}
