package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames are the animation frames of a Spinner
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ProgressBar shows how much of the leaderboard has been released
type ProgressBar struct {
	Width   int
	Current int
	Total   int
	Label   string
	Style   lipgloss.Style
	Muted   lipgloss.Style
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) *ProgressBar {
	return &ProgressBar{
		Width: width,
		Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
}

// SetProgress updates the progress
func (p *ProgressBar) SetProgress(current, total int) {
	p.Current = current
	p.Total = total
}

// Ratio returns the filled fraction in [0, 1]. An empty total counts as full.
func (p *ProgressBar) Ratio() float64 {
	if p.Total <= 0 {
		return 1
	}
	return min(max(float64(p.Current)/float64(p.Total), 0), 1)
}

// Render renders the bar followed by the percentage
func (p *ProgressBar) Render() string {
	filledWidth := int(float64(p.Width) * p.Ratio())
	emptyWidth := max(p.Width-filledWidth, 0)

	bar := p.Style.Render(strings.Repeat("█", filledWidth)) + p.Muted.Render(strings.Repeat("░", emptyWidth))
	result := fmt.Sprintf("[%s] %.0f%%", bar, p.Ratio()*100)

	if p.Label != "" {
		result = p.Label + " " + result
	}
	return result
}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame     int
	StartTime time.Time
	Label     string
	Style     lipgloss.Style
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		StartTime: time.Now(),
		Style:     lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Reset restarts the animation and the elapsed clock
func (s *Spinner) Reset() {
	s.Frame = 0
	s.StartTime = time.Now()
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(SpinnerFrames)
}

// Elapsed returns the time since the spinner started
func (s *Spinner) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	char := s.Style.Render(SpinnerFrames[s.Frame])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", char, s.Label)
	}
	return char
}
