package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simartin/geoleaderboard/internal/emoji"
	"github.com/simartin/geoleaderboard/internal/fetch"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"github.com/simartin/geoleaderboard/internal/logger"
	"github.com/simartin/geoleaderboard/internal/ui/components"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// chromeLines is the height taken by everything but the table body:
	// title, summary, status, table header, profile link and help.
	chromeLines   = 6
	defaultHeight = 24
	meterWidth    = 20
)

// Options configures a Model
type Options struct {
	Context  context.Context
	Columns  []leaderboard.Column
	PageSize int
	Locale   language.Tag
	Keys     *KeyMap
	Logger   *logger.Logger
}

// Model is the interactive leaderboard. It is the Renderer of its own
// Store, so rows only change through Controller events.
type Model struct {
	ctx    context.Context
	source Source
	log    *logger.Logger

	controller *leaderboard.Controller
	store      *leaderboard.Store
	columns    []leaderboard.Column

	keys    KeyMap
	help    help.Model
	search  textinput.Model
	styles  *Styles
	printer *message.Printer

	// Rendered state
	rows      []*leaderboard.Row
	widths    []int
	summary   *leaderboard.Summary
	indicator *leaderboard.SortIndicator

	// Viewport
	width  int
	height int
	top    int
	cursor int
	column int

	loading bool
	loaded  bool
	err     error
	spinner *components.Spinner
	meter   *components.ProgressBar
}

// NewModel creates a leaderboard model that loads from source
func NewModel(source Source, opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	columns := opts.Columns
	if len(columns) == 0 {
		columns = leaderboard.DefaultColumns
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	search := textinput.New()
	search.Prompt = emoji.GetEmoji("search") + " "
	search.Placeholder = "search username"
	search.CharLimit = 64

	styles := GetStyles()
	search.PromptStyle = styles.Prompt

	spinner := components.NewSpinner()
	spinner.SetLabel("Loading leaderboard...")
	meter := components.NewProgressBar(meterWidth)
	meter.Style = styles.Table.Header
	meter.Muted = styles.Muted

	m := &Model{
		ctx:     ctx,
		source:  source,
		log:     log.WithComponent("ui"),
		columns: columns,
		keys:    keys,
		help:    help.New(),
		search:  search,
		styles:  styles,
		printer: message.NewPrinter(locale),
		cursor:  -1,
		spinner: spinner,
		meter:   meter,
	}

	sorter := leaderboard.NewSorter(leaderboard.SorterOptions{Columns: columns, Locale: locale})
	m.store = leaderboard.NewStore(m, leaderboard.StoreOptions{PageSize: opts.PageSize, Sorter: sorter})
	m.controller = leaderboard.NewController(m.store, log)
	return m
}

// Init starts the first load
func (m *Model) Init() tea.Cmd {
	return m.startLoad()
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case loadCompleteMsg:
		return m.handleLoadComplete(msg)
	case loadErrorMsg:
		return m.handleLoadError(msg)
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Render implements leaderboard.Renderer
func (m *Model) Render(rows []*leaderboard.Row) {
	m.rows = append(m.rows[:0:0], rows...)
	m.widths = components.MeasureWidths(nil, rowTexts(rows))
	m.top = 0
	m.cursor = 0
	if len(m.rows) == 0 {
		m.cursor = -1
	}
}

// Append implements leaderboard.Renderer
func (m *Model) Append(rows []*leaderboard.Row) {
	m.rows = append(m.rows, rows...)
	m.widths = components.MeasureWidths(m.widths, rowTexts(rows))
	if m.cursor < 0 && len(m.rows) > 0 {
		m.cursor = 0
	}
}

// ShowSummary implements leaderboard.Renderer
func (m *Model) ShowSummary(summary leaderboard.Summary) {
	s := summary
	m.summary = &s
}

// SetSortIndicator implements leaderboard.Renderer
func (m *Model) SetSortIndicator(label string, dir leaderboard.Direction) {
	m.indicator = &leaderboard.SortIndicator{Label: label, Direction: dir}
}

// Store returns the store behind the model
func (m *Model) Store() *leaderboard.Store {
	return m.store
}

// Rows returns the rendered rows
func (m *Model) Rows() []*leaderboard.Row {
	return m.rows
}

// Selected returns the row under the cursor, or nil
func (m *Model) Selected() *leaderboard.Row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

// Err returns the last load error
func (m *Model) Err() error {
	return m.err
}

func (m *Model) startLoad() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	m.err = nil
	m.spinner.Reset()
	return tea.Batch(CreateLoadCommand(m.ctx, m.source), tick())
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.search.Width = max(msg.Width-meterWidth-30, 10)
	m.scrollTo(m.cursor)
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.loading {
		return m, nil
	}
	m.spinner.Tick()
	return m, tick()
}

func (m *Model) handleLoadComplete(msg loadCompleteMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.loaded = true
	m.columns = msg.snapshot.Columns
	m.indicator = nil

	m.controller.Install(msg.snapshot)
	m.log.Debug("snapshot installed in %s", msg.elapsed)

	// a reload keeps the search the user typed
	if q := m.search.Value(); q != "" {
		m.dispatch(leaderboard.QueryEvent{Query: q})
	}
	m.column = min(m.column, len(m.columns)-1)
	return m, nil
}

func (m *Model) handleLoadError(msg loadErrorMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if errors.Is(msg.err, fetch.ErrLoadInProgress) {
		return m, nil
	}
	m.err = msg.err
	m.log.Error("load failed: %v", msg.err)
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad()
	case !m.loaded:
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.bodyHeight())
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.rows))
	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.rows))
	case key.Matches(msg, m.keys.PrevColumn):
		m.column = max(m.column-1, 0)
	case key.Matches(msg, m.keys.NextColumn):
		m.column = min(m.column+1, len(m.columns)-1)
	case key.Matches(msg, m.keys.Sort):
		m.sortColumn(m.column)
	case key.Matches(msg, m.keys.SortColumn):
		m.sortColumn(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		m.clearSearch()
	}
	return m, nil
}

// handleSearchKey routes keys to the search box and dispatches a query
// event whenever its value changes
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.ClearSearch):
		m.search.Blur()
		m.clearSearch()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.loaded && m.search.Value() != before {
		m.dispatch(leaderboard.QueryEvent{Query: m.search.Value()})
	}
	return m, cmd
}

func (m *Model) clearSearch() {
	if m.search.Value() == "" && m.store.Query() == "" {
		return
	}
	m.search.SetValue("")
	if m.loaded {
		m.dispatch(leaderboard.QueryEvent{Query: ""})
	}
}

func (m *Model) sortColumn(i int) {
	if i < 0 || i >= len(m.columns) {
		return
	}
	m.column = i
	m.dispatch(leaderboard.SortEvent{Label: m.columns[i].Label})
}

// moveCursor moves the selection by delta rows, keeps it visible and
// reports the new viewport position, which may release the next page
func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.scrollTo(min(max(m.cursor+delta, 0), len(m.rows)-1))
	m.dispatch(leaderboard.ScrollEvent{Position: m.ScrollPosition()})
}

func (m *Model) scrollTo(cursor int) {
	if cursor < 0 {
		return
	}
	m.cursor = cursor
	height := m.bodyHeight()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+height {
		m.top = m.cursor - height + 1
	}
	m.top = max(min(m.top, len(m.rows)-height), 0)
}

// ScrollPosition returns the visible window over the rendered rows
func (m *Model) ScrollPosition() leaderboard.ScrollPosition {
	return leaderboard.ScrollPosition{
		ViewportTop:    m.top,
		ViewportHeight: m.bodyHeight(),
		ContentHeight:  len(m.rows),
	}
}

func (m *Model) bodyHeight() int {
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	return max(height-chromeLines, 1)
}

func (m *Model) dispatch(ev leaderboard.Event) {
	if err := m.controller.Dispatch(ev); err != nil {
		m.err = err
		return
	}
	m.err = nil
}

// View renders the model
func (m *Model) View() string {
	if !m.loaded {
		if m.err != nil {
			return m.place(m.renderError())
		}
		return m.place(m.spinner.Render())
	}

	sections := []string{
		m.renderTitle(),
		m.renderSummary(),
		m.renderStatus(),
		m.renderTable(),
		m.renderSelection(),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderError() string {
	text := m.styles.Error.Render(emoji.GetEmoji("error") + " Failed to load leaderboard")
	return text + "\n" + m.styles.Muted.Render(m.err.Error()) + "\n\n" +
		m.styles.Muted.Render("press r to retry, q to quit")
}

func (m *Model) renderTitle() string {
	title := m.styles.Title.Render(emoji.GetEmoji("trophy") + " Geo Leaderboard")
	if m.loading {
		title += "  " + m.spinner.Render()
	}
	return title
}

func (m *Model) renderSummary() string {
	if m.summary == nil {
		return ""
	}
	updated := "unknown"
	if m.summary.UpdatedAt != "" {
		updated = m.summary.UpdatedAt + " UTC"
	}
	text := m.printer.Sprintf("Total Players on Leaderboard: %d", m.summary.TotalRows) +
		fmt.Sprintf("  ·  Data Updated: %s (Updates Every 24 Hours)", updated)
	return m.styles.Summary.Render(text)
}

// renderStatus shows the search box and either the match count or how
// much of the leaderboard has been released
func (m *Model) renderStatus() string {
	var parts []string
	if m.search.Focused() || m.search.Value() != "" {
		parts = append(parts, m.search.View())
	}

	if m.store.Mode() == leaderboard.ModeSearching {
		parts = append(parts, m.styles.Muted.Render(m.printer.Sprintf("%d matches", len(m.rows))))
	} else {
		m.meter.SetProgress(m.store.Offset(), m.store.Len())
		m.meter.Label = m.printer.Sprintf("%d/%d", m.store.Offset(), m.store.Len())
		parts = append(parts, m.meter.Render())
	}

	if m.err != nil {
		parts = append(parts, m.styles.Error.Render(m.err.Error()))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderTable() string {
	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		headers[i] = c.Label
		if m.indicator != nil && m.indicator.Label == c.Label {
			headers[i] += " " + m.indicator.Direction.Symbol()
		}
	}

	// only the visible window is laid out; widths were measured as rows arrived
	top := min(m.top, len(m.rows))
	end := min(top+m.bodyHeight(), len(m.rows))

	table := components.NewTable(headers)
	table.Rows = rowTexts(m.rows[top:end])
	table.Widths = m.widths
	table.Styles = m.styles.Table
	table.Width = m.width
	table.Cursor = m.cursor - top
	table.SelectedColumn = m.column

	out := table.Render()
	if len(m.rows) == 0 {
		out += "\n" + m.styles.Muted.Render("No players to show")
	}
	return out
}

func rowTexts(rows []*leaderboard.Row) [][]string {
	texts := make([][]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Texts()
	}
	return texts
}

func (m *Model) renderSelection() string {
	row := m.Selected()
	if row == nil || row.ProfileLink() == "" {
		return ""
	}
	return m.styles.Muted.Render(emoji.GetEmoji("link")+" ") + m.styles.Link.Render(row.ProfileLink())
}

// Run starts the interactive viewer in the alternate screen
func Run(source Source, opts Options) error {
	model := NewModel(source, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
