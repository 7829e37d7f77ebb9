package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/simartin/geoleaderboard/internal/config"
	"github.com/simartin/geoleaderboard/internal/emoji"
	"github.com/simartin/geoleaderboard/internal/formatter"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"github.com/simartin/geoleaderboard/internal/logger"
	"github.com/spf13/cobra"
)

var (
	watchFormat     string
	watchOutputFile string
	watchDebounce   time.Duration
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reload a local snapshot whenever it changes",
		Long: `Watch a local snapshot file and reload it on every change.

Each reload prints the snapshot summary. With --output-file the export is
rewritten as well, so a spreadsheet or JSON document stays in sync with the
snapshot. Press Ctrl+C to stop watching.

Examples:
  geoleaderboard watch leaderboard.csv.gz
  geoleaderboard watch leaderboard.csv.gz --format xlsx --output-file leaderboard.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchFormat, "format", "f", "", "export format used with --output-file")
	cmd.Flags().StringVar(&watchOutputFile, "output-file", "", "rewrite this export on every reload")
	cmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "delay between a change and the reload (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	filename := args[0]

	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	debounce := cfg.Watch.Debounce
	if cmd.Flag("debounce").Changed {
		debounce = watchDebounce
	}

	log := newLogger("watch")
	p, err := newPipeline(cfg, filename, log)
	if err != nil {
		return err
	}

	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	reload := newReloader(ctx, out, cfg, p, exportOptions{
		source:     filename,
		format:     watchFormat,
		pages:      0,
		outputFile: watchOutputFile,
	})

	log.Info("watching %s, press Ctrl+C to stop", filename)
	if err := reload(); err != nil {
		log.Warn("initial load failed: %v", err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case <-signals:
			log.Info("received interrupt signal, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runWatchLoop(ctx, watcher, filename, debounce, reload, log)
}

// newReloader returns the action run after each change: load the snapshot,
// print its summary and rewrite the export if one is configured
func newReloader(ctx context.Context, out io.Writer, cfg *config.Config, p *pipeline, opts exportOptions) func() error {
	return func() error {
		start := time.Now()
		snap, err := p.Snapshot(ctx)
		if err != nil {
			return err
		}
		printReloadSummary(out, snap.Summary, time.Since(start))

		if opts.outputFile == "" {
			return nil
		}
		format := opts.format
		if format == "" {
			format = getOutputFormat()
		}
		f, err := formatter.New(format, false)
		if err != nil {
			return err
		}
		report, err := buildReport(cfg, snap, opts)
		if err != nil {
			return err
		}
		data, err := f.Format(report)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return handleOutputDestination(out, data, opts.outputFile)
	}
}

func printReloadSummary(out io.Writer, summary leaderboard.Summary, elapsed time.Duration) {
	updated := "unknown"
	if summary.UpdatedAt != "" {
		updated = summary.UpdatedAt + " UTC"
	}
	fmt.Fprintf(out, "[%s] %s Total Players on Leaderboard: %d, Data Updated: %s (%s)\n",
		time.Now().Format("15:04:05"), emoji.GetEmoji("trophy"), summary.TotalRows, updated,
		elapsed.Round(time.Millisecond))
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Debug("failed to close watcher: %v", err)
	}
}

// createWatcher watches the directory holding filename, so that editors
// and downloaders that replace the file by renaming are seen too
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filepath.Clean(filename))); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// runWatchLoop reloads after changes to target settle for debounce, until
// ctx is cancelled
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, debounce time.Duration, reload func() error, log *logger.Logger) error {
	target = filepath.Clean(target)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isSnapshotChange(event, target) {
				continue
			}
			log.Debug("%s: %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := reload(); err != nil {
				log.Warn("reload failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

// isSnapshotChange reports whether event wrote or recreated target
func isSnapshotChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	// Check for empty path
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	// Clean the path to resolve . and .. elements
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// For watch operations, ensure the file exists and is a regular file
	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
