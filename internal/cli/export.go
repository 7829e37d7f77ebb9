package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simartin/geoleaderboard/internal/config"
	"github.com/simartin/geoleaderboard/internal/formatter"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"github.com/spf13/cobra"
)

var (
	exportFormat     string
	exportSort       string
	exportDesc       bool
	exportSearch     string
	exportPages      int
	exportOutputFile string
)

// exportOptions describes the view an export is taken from
type exportOptions struct {
	source     string
	format     string
	sort       string
	desc       bool
	search     string
	pages      int
	outputFile string
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [source]",
		Short: "Export the leaderboard to a file or stdout",
		Long: `Load a snapshot, apply paging, search and sort exactly as the interactive
view would, and write the resulting rows.

The source is an http(s) URL, a file:// URL or a local path. Without one the
configured source.url is used.

Examples:
  geoleaderboard export
  geoleaderboard export --sort Rating --desc --format json
  geoleaderboard export --search alice --format markdown
  geoleaderboard export --pages 0 --format xlsx --output-file leaderboard.xlsx
  geoleaderboard export ./leaderboard.csv.gz --pages 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format (text, json, markdown, csv, xlsx); defaults to --output")
	cmd.Flags().StringVar(&exportSort, "sort", "", "column label to sort by, e.g. Rating")
	cmd.Flags().BoolVar(&exportDesc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&exportSearch, "search", "", "only rows whose username contains this text")
	cmd.Flags().IntVar(&exportPages, "pages", 1, "pages to release before exporting (0 for all)")
	cmd.Flags().StringVar(&exportOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	format := exportFormat
	if format == "" {
		format = getOutputFormat()
	}

	return exportSnapshot(cmd.Context(), cmd.OutOrStdout(), cfg, exportOptions{
		source:     resolveSource(args, cfg),
		format:     format,
		sort:       exportSort,
		desc:       exportDesc,
		search:     exportSearch,
		pages:      exportPages,
		outputFile: exportOutputFile,
	})
}

// exportSnapshot loads the source, builds the view and writes it to out or
// to opts.outputFile
func exportSnapshot(ctx context.Context, out io.Writer, cfg *config.Config, opts exportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.desc && opts.sort == "" {
		return fmt.Errorf("--desc needs --sort")
	}

	f, err := formatter.New(opts.format, opts.outputFile == "" && useColor())
	if err != nil {
		return err
	}
	if isBinaryFormat(opts.format) && opts.outputFile == "" && out == os.Stdout && isTerminal(os.Stdout) {
		return fmt.Errorf("%s output is binary; use --output-file", opts.format)
	}

	log := newLogger("cli")
	p, err := newPipeline(cfg, opts.source, log)
	if err != nil {
		return err
	}

	snap, err := p.Snapshot(ctx)
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

// buildReport replays the export options as events against a fresh view
func buildReport(cfg *config.Config, snap *leaderboard.Snapshot, opts exportOptions) (*formatter.Report, error) {
	controller, buf := newView(cfg, snap.Columns, newLogger("controller"))
	controller.Install(snap)

	releasePages(controller, buf, opts.pages)

	if opts.search != "" {
		if err := controller.Dispatch(leaderboard.QueryEvent{Query: opts.search}); err != nil {
			return nil, err
		}
	}

	if opts.sort != "" {
		label, err := resolveColumn(snap.Columns, opts.sort)
		if err != nil {
			return nil, err
		}
		// the first sort on a column is ascending, the second descending
		sorts := 1
		if opts.desc {
			sorts = 2
		}
		for i := 0; i < sorts; i++ {
			if err := controller.Dispatch(leaderboard.SortEvent{Label: label}); err != nil {
				return nil, err
			}
		}
	}

	report := formatter.NewReport(controller.Store(), buf, snap.Columns)
	report.Locale = cfg.LocaleTag()
	return report, nil
}

// releasePages scrolls to the bottom until pages pages are displayed or
// nothing is left. pages <= 0 releases everything.
func releasePages(controller *leaderboard.Controller, buf *leaderboard.Buffer, pages int) {
	store := controller.Store()
	for released := 1; pages <= 0 || released < pages; released++ {
		before := store.Offset()
		bottom := leaderboard.ScrollPosition{ViewportTop: len(buf.Rows), ContentHeight: len(buf.Rows)}
		if err := controller.Dispatch(leaderboard.ScrollEvent{Position: bottom}); err != nil || store.Offset() == before {
			return
		}
	}
}

// resolveColumn matches a column label case-insensitively
func resolveColumn(columns []leaderboard.Column, name string) (string, error) {
	for _, c := range columns {
		if strings.EqualFold(c.Label, strings.TrimSpace(name)) {
			return c.Label, nil
		}
	}
	return "", fmt.Errorf("%w: %s (must be one of: %s)", leaderboard.ErrUnknownColumn, name,
		strings.Join(leaderboard.Labels(columns), ", "))
}

func isBinaryFormat(format string) bool {
	switch strings.ToLower(format) {
	case "xlsx", "excel":
		return true
	}
	return false
}

// handleOutputDestination writes output to a file or to out
func handleOutputDestination(out io.Writer, output []byte, outputFile string) error {
	if outputFile == "" {
		_, err := out.Write(output)
		return err
	}

	if err := validateOutputFilePath(outputFile); err != nil {
		return fmt.Errorf("invalid output file path: %w", err)
	}
	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", outputFile)
	}
	return nil
}

func validateOutputFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}
	info, err := os.Stat(filepath.Clean(path))
	if err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - path is validated by caller
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
