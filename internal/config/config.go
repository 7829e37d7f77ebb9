package config

import (
	"fmt"
	"time"

	"github.com/simartin/geoleaderboard/internal/fetch"
	"golang.org/x/text/language"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Source  SourceConfig  `yaml:"source" json:"source"`
	Display DisplayConfig `yaml:"display" json:"display"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// SourceConfig configures where the snapshot is fetched from
type SourceConfig struct {
	URL         string        `yaml:"url" json:"url"`                 // http(s) URL, file:// URL or local path
	Compression string        `yaml:"compression" json:"compression"` // auto|none|gzip|zstd|xz|lz4|bzip2
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`         // 0 disables the deadline
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
}

// DisplayConfig configures the table view
type DisplayConfig struct {
	PageSize   int    `yaml:"page_size" json:"page_size"`     // rows released per page
	Theme      string `yaml:"theme" json:"theme"`             // default|high-contrast|minimal
	Locale     string `yaml:"locale" json:"locale"`           // BCP 47 tag used for collation
	ProfileURL string `yaml:"profile_url" json:"profile_url"` // base of username links
	NoEmoji    bool   `yaml:"no_emoji" json:"no_emoji"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv|xlsx
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
}

// WatchConfig configures the watch command
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// Defaults shared with the CLI flags
const (
	DefaultPageSize   = 2500
	DefaultProfileURL = "profile.html"
	DefaultUserAgent  = "geoleaderboard"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Source: SourceConfig{
			URL:         fetch.DefaultSnapshotURL,
			Compression: string(fetch.CompressionAuto),
			Timeout:     0,
			UserAgent:   DefaultUserAgent,
		},
		Display: DisplayConfig{
			PageSize:   DefaultPageSize,
			Theme:      "default",
			Locale:     "en",
			ProfileURL: DefaultProfileURL,
			NoEmoji:    false,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateSourceConfig(); err != nil {
		return err
	}
	if err := c.validateDisplayConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateWatchConfig(); err != nil {
		return err
	}
	return nil
}

// LocaleTag returns the parsed collation locale, falling back to English
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Display.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// validateSourceConfig validates source-related configuration
func (c *Config) validateSourceConfig() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source url must not be empty")
	}
	if c.Source.Compression != "" {
		if _, err := fetch.ParseCompression(c.Source.Compression); err != nil {
			return fmt.Errorf("invalid compression: %s (must be one of: auto, none, gzip, zstd, xz, lz4, bzip2)", c.Source.Compression)
		}
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

// validateDisplayConfig validates display-related configuration
func (c *Config) validateDisplayConfig() error {
	if c.Display.PageSize < 1 {
		return fmt.Errorf("page_size must be greater than 0")
	}
	if c.Display.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Display.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Display.Theme)
		}
	}
	if c.Display.Locale != "" {
		if _, err := language.Parse(c.Display.Locale); err != nil {
			return fmt.Errorf("invalid locale %q: %w", c.Display.Locale, err)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
			"xlsx":     true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv, xlsx)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateWatchConfig validates watch-related configuration
func (c *Config) validateWatchConfig() error {
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative")
	}
	return nil
}
