package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
)

// Source produces a materialized snapshot. The CLI backs it with the fetch
// loader and a materializer.
type Source interface {
	Snapshot(ctx context.Context) (*leaderboard.Snapshot, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (*leaderboard.Snapshot, error)

// Snapshot implements Source
func (f SourceFunc) Snapshot(ctx context.Context) (*leaderboard.Snapshot, error) {
	return f(ctx)
}

type loadCompleteMsg struct {
	snapshot *leaderboard.Snapshot
	elapsed  time.Duration
}

type loadErrorMsg struct {
	err error
}

type tickMsg time.Time

// tick drives the spinner while a load is running
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// CreateLoadCommand creates a tea command that loads a snapshot from source
func CreateLoadCommand(ctx context.Context, source Source) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		snap, err := source.Snapshot(ctx)
		if err != nil {
			return loadErrorMsg{err: err}
		}
		return loadCompleteMsg{snapshot: snap, elapsed: time.Since(start)}
	}
}
