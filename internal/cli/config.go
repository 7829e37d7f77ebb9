package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/simartin/geoleaderboard/internal/config"
	"github.com/simartin/geoleaderboard/internal/emoji"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configSections = []string{"source", "display", "output", "watch"}

// newConfigCommand groups the config subcommands. None of them load the
// global config, so a broken file can still be inspected and replaced.
func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect and check the geoleaderboard config file",
		Long: `Create, inspect and check the geoleaderboard config file.

Settings come from the first config file found on the search path, then
GEOLEADERBOARD_* environment variables, for example
GEOLEADERBOARD_DISPLAY_PAGE_SIZE=500 or GEOLEADERBOARD_SOURCE_URL=./snap.csv.gz.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigValidateCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

type configInitOptions struct {
	output  string
	source  string
	minimal bool
	force   bool
}

func newConfigInitCommand() *cobra.Command {
	var opts configInitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a starter config file with the default snapshot source, a page
size of 2500 rows and the default theme.

The full file documents every setting. --minimal writes only the source,
the page size and the default output format.`,
		Example: `  geoleaderboard config init
  geoleaderboard config init --minimal --source ./leaderboard.csv.gz
  geoleaderboard config init --output ~/.config/geoleaderboard/config.yaml --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".geoleaderboard.yaml", "where to write the config file")
	cmd.Flags().StringVar(&opts.source, "source", "", "snapshot URL or path to store as source.url")
	cmd.Flags().BoolVarP(&opts.minimal, "minimal", "m", false, "write only the essential settings")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "replace an existing file")

	return cmd
}

func runConfigInit(out io.Writer, opts configInitOptions) error {
	if !opts.force && fileExists(opts.output) {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", opts.output)
	}

	content := config.SampleConfig()
	if opts.minimal {
		content = config.MinimalSampleConfig()
	}
	if opts.source != "" {
		quoted := fmt.Sprintf("url: %q", config.DefaultConfig().Source.URL)
		content = strings.Replace(content, quoted, fmt.Sprintf("url: %q", opts.source), 1)
	}

	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(opts.output, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	kind := "full"
	if opts.minimal {
		kind = "minimal"
	}
	fmt.Fprintf(out, "%s Wrote %s config to %s\n", emoji.GetEmoji("success"), kind, opts.output)
	if opts.source != "" {
		fmt.Fprintf(out, "%s Snapshot source: %s\n", emoji.GetEmoji("config"), opts.source)
	}
	return nil
}

func newConfigShowCommand() *cobra.Command {
	var format, file, section string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file and environment
overrides are merged. --section limits the output to one of source,
display, output or watch.`,
		Example: `  geoleaderboard config show
  geoleaderboard config show --section display --format json
  geoleaderboard config show --file ./team.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(configPathOrGlobal(file))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			value, err := configSection(cfg, section)
			if err != nil {
				return err
			}
			return writeConfigValue(cmd.OutOrStdout(), value, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	cmd.Flags().StringVar(&file, "file", "", "config file to read (default: --config or the search path)")
	cmd.Flags().StringVar(&section, "section", "", "only print this section ("+strings.Join(configSections, ", ")+")")

	return cmd
}

// configSection returns the whole config, or one of its sections by yaml key
func configSection(cfg *config.Config, name string) (any, error) {
	switch strings.ToLower(name) {
	case "":
		return cfg, nil
	case "source":
		return cfg.Source, nil
	case "display":
		return cfg.Display, nil
	case "output":
		return cfg.Output, nil
	case "watch":
		return cfg.Watch, nil
	}
	return nil, fmt.Errorf("unknown section: %s (must be one of: %s)", name, strings.Join(configSections, ", "))
}

func writeConfigValue(out io.Writer, value any, format string) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		_, err = out.Write(data)
		return err
	case "json":
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
}

func newConfigValidateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a config file and summarize what it selects",
		Long: `Load a config file with the environment overrides applied and check
every section: the source must be set and its compression known, the page
size positive, the theme and locale known, and durations non-negative.

On success the settings that shape the leaderboard are summarized, with a
sample profile link built from display.profile_url.`,
		Example: `  geoleaderboard config validate
  geoleaderboard config validate --file ./team.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.NewLoader().LoadConfig(configPathOrGlobal(file))
			if err != nil {
				fmt.Fprintf(out, "%s Invalid configuration: %v\n", emoji.GetEmoji("error"), err)
				return err
			}
			fmt.Fprintf(out, "%s Configuration is valid\n\n", emoji.GetEmoji("success"))
			printConfigSummary(out, cfg)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "config file to check (default: --config or the search path)")

	return cmd
}

func printConfigSummary(out io.Writer, cfg *config.Config) {
	timeout := "none"
	if cfg.Source.Timeout > 0 {
		timeout = cfg.Source.Timeout.String()
	}

	fmt.Fprintln(out, "Source")
	fmt.Fprintf(out, "   Snapshot: %s\n", cfg.Source.URL)
	fmt.Fprintf(out, "   Compression: %s, Timeout: %s\n", cfg.Source.Compression, timeout)
	fmt.Fprintln(out, "Display")
	fmt.Fprintf(out, "   Page Size: %d\n", cfg.Display.PageSize)
	fmt.Fprintf(out, "   Theme: %s, Locale: %s\n", cfg.Display.Theme, cfg.LocaleTag())
	fmt.Fprintf(out, "   Profile Link: %s\n", leaderboard.ProfileLink(cfg.Display.ProfileURL, "player one", "id"))
	fmt.Fprintln(out, "Output")
	fmt.Fprintf(out, "   Format: %s, Color: %s\n", cfg.Output.DefaultFormat, cfg.Output.ColorMode)
	fmt.Fprintln(out, "Watch")
	fmt.Fprintf(out, "   Debounce: %s\n", cfg.Watch.Debounce)
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List where the config file is looked for",
		Long: `List the config file search path in priority order, mark the file that
is in use, and show the GEOLEADERBOARD_* variables currently overriding it.`,
		Run: func(cmd *cobra.Command, args []string) {
			printConfigPaths(cmd.OutOrStdout(), os.Environ())
		},
	}
}

func printConfigPaths(out io.Writer, environ []string) {
	current, found := config.FindConfigFile()
	if cfgFile != "" {
		current, found = cfgFile, true
	}

	fmt.Fprintf(out, "%s Search path, first match wins:\n", emoji.GetEmoji("folder"))
	for i, path := range config.GetConfigPaths() {
		marker := "   "
		switch {
		case found && path == current:
			marker = " * "
		case fileExists(path):
			marker = " + "
		}
		fmt.Fprintf(out, "%s%d. %s\n", marker, i+1, path)
	}

	switch {
	case cfgFile != "":
		fmt.Fprintf(out, "%s Using --config %s\n", emoji.GetEmoji("target"), cfgFile)
	case found:
		fmt.Fprintf(out, "%s Using %s\n", emoji.GetEmoji("target"), current)
	default:
		fmt.Fprintf(out, "%s No config file found, using defaults\n", emoji.GetEmoji("info"))
	}

	overrides := envOverrides(environ)
	if len(overrides) == 0 {
		fmt.Fprintf(out, "%s No %s* overrides set\n", emoji.GetEmoji("tip"), config.EnvPrefix)
		return
	}
	fmt.Fprintf(out, "%s Environment overrides:\n", emoji.GetEmoji("tip"))
	for _, kv := range overrides {
		fmt.Fprintf(out, "   %s\n", kv)
	}
}

// envOverrides returns the KEY=value pairs that carry the config prefix, sorted
func envOverrides(environ []string) []string {
	var overrides []string
	for _, kv := range environ {
		if strings.HasPrefix(kv, config.EnvPrefix) {
			overrides = append(overrides, kv)
		}
	}
	sort.Strings(overrides)
	return overrides
}

// configPathOrGlobal prefers the subcommand's --file, then the global --config
func configPathOrGlobal(path string) string {
	if path != "" {
		return path
	}
	return cfgFile
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
