package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/simartin/geoleaderboard/internal/ui/components"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	// Primary colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	// UI colors
	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Link     lipgloss.AdaptiveColor
	Progress lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
}

// palette lists light/dark pairs in Theme field order
type palette struct {
	primary, secondary, accent    [2]string
	success, warning, errorColor  [2]string
	border, muted, link, progress [2]string
	selected                      [2]string
}

func adaptive(c [2]string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: c[0], Dark: c[1]}
}

// buildTheme creates a theme with the given colors
func buildTheme(name string, p palette) Theme {
	return Theme{
		Name:      name,
		Primary:   adaptive(p.primary),
		Secondary: adaptive(p.secondary),
		Accent:    adaptive(p.accent),
		Success:   adaptive(p.success),
		Warning:   adaptive(p.warning),
		Error:     adaptive(p.errorColor),
		Border:    adaptive(p.border),
		Muted:     adaptive(p.muted),
		Link:      adaptive(p.link),
		Progress:  adaptive(p.progress),
		Selected:  adaptive(p.selected),
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default", palette{
		primary: [2]string{"#1E40AF", "#3B82F6"}, secondary: [2]string{"#6B7280", "#9CA3AF"}, accent: [2]string{"#B45309", "#FBBF24"},
		success: [2]string{"#059669", "#10B981"}, warning: [2]string{"#D97706", "#F59E0B"}, errorColor: [2]string{"#DC2626", "#EF4444"},
		border: [2]string{"#D1D5DB", "#374151"}, muted: [2]string{"#6B7280", "#9CA3AF"}, link: [2]string{"#0891B2", "#06B6D4"},
		progress: [2]string{"#059669", "#10B981"}, selected: [2]string{"#DBEAFE", "#1E3A8A"},
	})

	HighContrastTheme = buildTheme("high-contrast", palette{
		primary: [2]string{"#000000", "#FFFFFF"}, secondary: [2]string{"#666666", "#BBBBBB"}, accent: [2]string{"#000080", "#FFFF00"},
		success: [2]string{"#006600", "#00FF00"}, warning: [2]string{"#CC6600", "#FFAA00"}, errorColor: [2]string{"#CC0000", "#FF4444"},
		border: [2]string{"#000000", "#FFFFFF"}, muted: [2]string{"#666666", "#BBBBBB"}, link: [2]string{"#0066CC", "#4499FF"},
		progress: [2]string{"#006600", "#00FF00"}, selected: [2]string{"#CCCCCC", "#333333"},
	})

	MinimalTheme = buildTheme("minimal", palette{
		primary: [2]string{"#2D3748", "#E2E8F0"}, secondary: [2]string{"#718096", "#A0AEC0"}, accent: [2]string{"#4A5568", "#CBD5E0"},
		success: [2]string{"#2F855A", "#68D391"}, warning: [2]string{"#C05621", "#F6AD55"}, errorColor: [2]string{"#C53030", "#FC8181"},
		border: [2]string{"#E2E8F0", "#2D3748"}, muted: [2]string{"#A0AEC0", "#718096"}, link: [2]string{"#2B6CB0", "#63B3ED"},
		progress: [2]string{"#2F855A", "#68D391"}, selected: [2]string{"#EDF2F7", "#2D3748"},
	})
)

// Current active theme
var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Summary lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Prompt  lipgloss.Style
	Link    lipgloss.Style

	Table components.TableStyles
}

// GetStyles builds the styles of the current theme. With NO_COLOR set only
// weight and reverse video are used.
func GetStyles() *Styles {
	theme := GetTheme()

	if IsColorDisabled() {
		return &Styles{
			Theme:   theme,
			Title:   lipgloss.NewStyle().Bold(true),
			Summary: lipgloss.NewStyle(),
			Muted:   lipgloss.NewStyle(),
			Error:   lipgloss.NewStyle().Bold(true),
			Prompt:  lipgloss.NewStyle().Bold(true),
			Link:    lipgloss.NewStyle().Underline(true),
			Table:   components.DefaultTableStyles(),
		}
	}

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Summary: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Link: lipgloss.NewStyle().
			Foreground(theme.Link).
			Underline(true),

		Table: components.TableStyles{
			Header: lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true),
			HeaderSelected: lipgloss.NewStyle().
				Foreground(theme.Accent).
				Bold(true).
				Underline(true),
			Cell: lipgloss.NewStyle(),
			RowSelected: lipgloss.NewStyle().
				Background(theme.Selected).
				Foreground(theme.Primary).
				Bold(true),
			Muted: lipgloss.NewStyle().
				Foreground(theme.Muted),
		},
	}
}
