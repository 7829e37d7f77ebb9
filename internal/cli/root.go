package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/simartin/geoleaderboard/internal/config"
	"github.com/simartin/geoleaderboard/internal/emoji"
	"github.com/simartin/geoleaderboard/internal/logger"
	"github.com/simartin/geoleaderboard/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config
)

// skipConfigAnnotation marks commands that run without loading the
// configuration, so a broken config file can still be inspected or replaced
const skipConfigAnnotation = "geoleaderboard/skip-config"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geoleaderboard",
		Short: "Terminal viewer for the GeoGuessr duels leaderboard",
		Long: `geoleaderboard downloads the compressed leaderboard snapshot, shows it in an
interactive table that releases rows page by page as you scroll, and lets you
sort any column and search usernames.

Snapshots can also be exported to text, JSON, Markdown, CSV or Excel, and a
local snapshot can be watched for changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			if skipsConfig(cmd) {
				return nil
			}
			return loadGlobalConfig()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv, xlsx)")

	// Add subcommands
	rootCmd.AddCommand(newViewCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        "Display version number, build commit, date, and runtime information",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "geoleaderboard %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

// loadGlobalConfig loads the configuration and applies the settings that
// are process-wide: emoji, theme and verbosity
func loadGlobalConfig() error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	globalConfig = cfg

	if cfg.Display.NoEmoji {
		noEmoji = true
		emoji.SetEmojiDisabled(true)
	}
	if cfg.Output.Verbose {
		verbose = true
	}
	if !ui.SetThemeByName(cfg.Display.Theme) {
		return fmt.Errorf("unknown theme: %s", cfg.Display.Theme)
	}
	return nil
}

// GetGlobalConfig returns the loaded configuration, or the defaults when
// none was loaded
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose
}

// getOutputFormat returns the --output flag, falling back to the configured default
func getOutputFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	return GetGlobalConfig().Output.DefaultFormat
}

// useColor decides whether text output is colored
func useColor() bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// newLogger creates a stderr logger gated on --verbose
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}
