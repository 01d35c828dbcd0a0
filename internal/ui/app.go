package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/catalog"
	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/listsync"
	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/prefs"
	"github.com/five82/reel/internal/state"
)

// Catalog is the controller the UI drives.
type Catalog interface {
	Refresh(ctx context.Context, done func(ok bool))
	Search(ctx context.Context, text string)
	OpenDetail(drama linetv.Drama, renderer listsync.Renderer) *catalog.Detail
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Catalog   Catalog
	Bridge    *Bridge
	Status    *state.Store
	Log       logrus.FieldLogger
	LogPath   string
	PrefsPath string
	Prefs     prefs.Prefs
	Keyword   string // restored search text shown in the search box
	Refresh   bool   // fetch once on start
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   Catalog
	bridge    *Bridge
	status    *state.Store
	log       logrus.FieldLogger
	logPath   string
	prefsPath string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// List state
	list       screen
	cursor     int
	selected   listsync.ItemKey
	search     textinput.Model
	searching  bool
	spinner    spinner.Model
	refreshing bool
	alert      string

	// Detail state
	detail    *detailView
	detailSeq int

	// Status
	statusSnap state.Snapshot

	// Log pane
	showLogs    bool
	logLines    []string
	logViewport viewport.Model

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = NewBridge()
	}
	status := opts.Status
	if status == nil {
		status = &state.Store{}
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search by name"
	search.CharLimit = 120
	search.SetValue(opts.Keyword)

	return Model{
		ctx:        ctx,
		catalog:    opts.Catalog,
		bridge:     bridge,
		status:     status,
		log:        logging.OrDiscard(opts.Log).WithField("component", "ui"),
		logPath:    opts.LogPath,
		prefsPath:  opts.PrefsPath,
		theme:      GetTheme(opts.Prefs.Theme),
		keys:       DefaultKeyMap(),
		search:     search,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		refreshing: opts.Refresh && opts.Catalog != nil,
		showLogs:   opts.Prefs.ShowLogs,
		statusSnap: status.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
	if m.refreshing {
		cmds = append(cmds, m.spinner.Tick, func() tea.Msg {
			m.requestRefresh()
			return nil
		})
	}
	if m.showLogs {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.search.Width = max(10, m.width-8)
		m.resize()
		return m, nil

	case applyMsg:
		m.handleApply(msg)
		return m, nil

	case emptyMsg:
		switch {
		case msg.screen == listScreen:
			m.list.empty = msg.empty
		case m.detail != nil && msg.screen == m.detail.id:
			m.detail.screen.empty = msg.empty
		}
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		m.statusSnap = m.status.Snapshot()
		if !msg.ok {
			m.alert = alertText(m.statusSnap.LastError)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		m.statusSnap = m.status.Snapshot()
		cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
		if m.showLogs {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case logLinesMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Debug("log tail failed")
			return m, nil
		}
		m.logLines = msg.lines
		m.updateLogViewport()
		return m, nil
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.alert != "" {
		return m.renderAlert()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. An open alert swallows everything but
// its dismiss keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.alert != "" {
		if msg.String() == "enter" || key.Matches(msg, m.keys.Back) {
			m.alert = ""
		}
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.savePrefs()
		m.resize()
		if m.showLogs {
			return m, readLogsCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing || m.catalog == nil {
			return m, nil
		}
		m.refreshing = true
		m.requestRefresh()
		return m, m.spinner.Tick

	case key.Matches(msg, m.keys.Back):
		if m.detail != nil {
			m.closeDetail()
		} else if m.showLogs {
			m.showLogs = false
			m.savePrefs()
			m.resize()
		}
		return m, nil
	}

	if m.detail != nil {
		var cmd tea.Cmd
		m.detail.viewport, cmd = m.detail.viewport.Update(msg)
		return m, cmd
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before && m.catalog != nil {
		m.catalog.Search(m.ctx, after)
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := contentItems(m.list.rows)
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(items) {
			if drama, ok := listsync.Selection(items[m.cursor]); ok {
				m.openDetail(drama)
			}
		}
		return m, nil
	}

	if len(items) == 0 {
		return m, nil
	}
	page := max(1, m.listHeight()-1)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(items) - 1
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += page
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= page
	default:
		return m, nil
	}
	m.cursor = clamp(m.cursor, 0, len(items)-1)
	m.selected = items[m.cursor].Key()
	return m, nil
}

func (m Model) requestRefresh() {
	bridge := m.bridge
	m.catalog.Refresh(m.ctx, func(ok bool) {
		bridge.forward(refreshDoneMsg{ok: ok})
	})
}

func (m *Model) handleApply(msg applyMsg) {
	switch {
	case msg.screen == listScreen:
		m.list.apply(msg, m.log)
		m.restoreCursor()
	case m.detail != nil && msg.screen == m.detail.id:
		m.detail.screen.apply(msg, m.log)
		m.updateDetailViewport()
	}
}

// restoreCursor keeps the selected drama under the cursor across changes.
func (m *Model) restoreCursor() {
	items := contentItems(m.list.rows)
	if len(items) == 0 {
		m.cursor = 0
		return
	}
	for i, it := range items {
		if it.Key() == m.selected {
			m.cursor = i
			return
		}
	}
	m.cursor = clamp(m.cursor, 0, len(items)-1)
	m.selected = items[m.cursor].Key()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ShowLogs: m.showLogs}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.WithError(err).Warn("save prefs failed")
	}
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	m.updateDetailViewport()
	m.updateLogViewport()
}

// renderMain renders header, command bar, search box, body and log pane.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	if m.detail != nil {
		b.WriteString(m.renderDetail())
	} else {
		b.WriteString(m.renderSearch())
		b.WriteString("\n")
		b.WriteString(m.renderList(m.listHeight()))
	}
	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}
	return b.String()
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	line := m.search.View()
	if !m.searching && m.search.Value() == "" {
		line = styles.FaintText.Render("/ to search by name")
	}
	return styles.SurfaceAlt.Width(m.width).Render(line)
}

func (m Model) renderAlert() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Refresh failed"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(m.alert))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("enter to dismiss"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(min(60, max(20, m.width-4)))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// Messages

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. The bridge
// is attached before the program starts.
func Run(opts Options) error {
	p := NewProgram(opts)
	_, err := p.Run()
	return err
}

// NewProgram builds the program and attaches opts.Bridge to it.
func NewProgram(opts Options) *tea.Program {
	if opts.Bridge == nil {
		opts.Bridge = NewBridge()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	opts.Bridge.Attach(p.Send)
	return p
}
