package cli

import (
	"os"

	"github.com/simartin/geoleaderboard/internal/logger"
	"github.com/simartin/geoleaderboard/internal/ui"
	"github.com/spf13/cobra"
)

var viewNoTUI bool

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [source]",
		Short: "Browse the leaderboard interactively",
		Long: `Open the leaderboard in an interactive table.

The first page is shown as soon as the snapshot is loaded. Scrolling to the
bottom releases the next page, / searches usernames across the whole
snapshot, and 1-8 or s sort a column (press again to reverse).

When stdout is not a terminal, or with --no-tui, the first page is printed
as a text export instead.

Examples:
  geoleaderboard view
  geoleaderboard view ./leaderboard.csv.gz
  geoleaderboard view --no-tui | less -R`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	cmd.Flags().BoolVar(&viewNoTUI, "no-tui", false, "disable terminal UI, output to stdout")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	source := resolveSource(args, cfg)

	if !shouldUseTUIMode(isTerminal(os.Stdout)) {
		return exportSnapshot(cmd.Context(), cmd.OutOrStdout(), cfg, exportOptions{
			source: source,
			format: getOutputFormat(),
			pages:  1,
		})
	}

	// stderr would draw over the alternate screen
	log := logger.Discard()
	p, err := newPipeline(cfg, source, log)
	if err != nil {
		return err
	}

	return ui.Run(p, ui.Options{
		Context:  cmd.Context(),
		PageSize: cfg.Display.PageSize,
		Locale:   cfg.LocaleTag(),
		Logger:   log,
	})
}

// shouldUseTUIMode reports whether view runs interactively
func shouldUseTUIMode(stdoutIsTerminal bool) bool {
	return !viewNoTUI && stdoutIsTerminal && getOutputFormat() == "text" && !isVerbose()
}
