package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.geoleaderboard.yaml",               // Project-specific config (highest priority)
	"~/.config/geoleaderboard/config.yaml", // User config
	"/etc/geoleaderboard/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "GEOLEADERBOARD_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.geoleaderboard.yaml
// 4. ~/.config/geoleaderboard/config.yaml
// 5. /etc/geoleaderboard/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// booleans cannot be told apart from unset after Unmarshal, so look
	// at the raw document for them
	var doc map[string]interface{}
	_ = yaml.Unmarshal(data, &doc)

	raw := make(map[string]map[string]interface{}, len(doc))
	for name, value := range doc {
		if section, ok := value.(map[string]interface{}); ok {
			raw[name] = section
		}
	}

	mergeConfigs(config, &fileConfig, raw)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Source Config
		"SOURCE_URL":         func(v string) error { config.Source.URL = v; return nil },
		"SOURCE_COMPRESSION": func(v string) error { config.Source.Compression = v; return nil },
		"SOURCE_TIMEOUT":     func(v string) error { return parseDuration(v, &config.Source.Timeout) },
		"SOURCE_USER_AGENT":  func(v string) error { config.Source.UserAgent = v; return nil },

		// Display Config
		"DISPLAY_PAGE_SIZE":   func(v string) error { return parseInt(v, &config.Display.PageSize) },
		"DISPLAY_THEME":       func(v string) error { config.Display.Theme = v; return nil },
		"DISPLAY_LOCALE":      func(v string) error { config.Display.Locale = v; return nil },
		"DISPLAY_PROFILE_URL": func(v string) error { config.Display.ProfileURL = v; return nil },
		"DISPLAY_NO_EMOJI":    func(v string) error { return parseBool(v, &config.Display.NoEmoji) },

		// Output Config
		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// Watch Config
		"WATCH_DEBOUNCE": func(v string) error { return parseDuration(v, &config.Watch.Debounce) },
	}

	for suffix, setter := range envMappings {
		envVar := EnvPrefix + suffix
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination; booleans are
// merged when the raw document sets them.
func mergeConfigs(dst, src *Config, raw map[string]map[string]interface{}) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeSourceConfig(&dst.Source, &src.Source)
	mergeDisplayConfig(&dst.Display, &src.Display, raw["display"])
	mergeOutputConfig(&dst.Output, &src.Output, raw["output"])
	mergeWatchConfig(&dst.Watch, &src.Watch)
}

// mergeSourceConfig merges source configuration
func mergeSourceConfig(dst, src *SourceConfig) {
	if src.URL != "" {
		dst.URL = src.URL
	}
	if src.Compression != "" {
		dst.Compression = src.Compression
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
}

// mergeDisplayConfig merges display configuration
func mergeDisplayConfig(dst, src *DisplayConfig, raw map[string]interface{}) {
	if src.PageSize != 0 {
		dst.PageSize = src.PageSize
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.Locale != "" {
		dst.Locale = src.Locale
	}
	if src.ProfileURL != "" {
		dst.ProfileURL = src.ProfileURL
	}
	mergeIfSet(&dst.NoEmoji, src.NoEmoji, raw, "no_emoji")
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig, raw map[string]interface{}) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	mergeIfSet(&dst.Verbose, src.Verbose, raw, "verbose")
}

// mergeWatchConfig merges watch configuration
func mergeWatchConfig(dst, src *WatchConfig) {
	if src.Debounce != 0 {
		dst.Debounce = src.Debounce
	}
}

// mergeIfSet merges a boolean only when key is present in the section
func mergeIfSet(dst *bool, src bool, section map[string]interface{}, key string) {
	if _, ok := section[key]; ok {
		*dst = src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
