package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/reviewdeck/reviewdeck/internal/backend"
	"github.com/reviewdeck/reviewdeck/internal/ops"
	"github.com/reviewdeck/reviewdeck/internal/prefs"
	"github.com/reviewdeck/reviewdeck/internal/state"
)

const (
	defaultTick       = time.Second
	defaultTopicWords = 5
)

// pane identifies which side has keyboard focus.
type pane int

const (
	paneRoster pane = iota
	paneDetail
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Ops        *ops.Controller
	Roster     *state.Roster
	Detail     *state.Detail
	Logger     *log.Logger
	ThemeName  string
	PrefsPath  string
	TopicWords int
	Tick       time.Duration
	APIBase    string
	RestoreApp string // reopened in the background at startup
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Wiring
	ctx        context.Context
	ops        *ops.Controller
	roster     *state.Roster
	detail     *state.Detail
	log        *log.Logger
	prefsPath  string
	topicWords int
	tick       time.Duration
	apiBase    string

	// Startup selection restore
	restoreApp   string
	restoreToken state.Token

	// UI state
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	theme   Theme
	width   int
	height  int
	ready   bool
	focused pane

	// Data state
	rosterSnap state.RosterSnapshot
	detailSnap state.DetailSnapshot
	note       ops.Notification
	cursor     int

	// Detail pane
	detailViewport viewport.Model
	detailAppID    string
	pointFocus     int

	// Modes
	inputActive   bool
	confirmDelete string
	showHelp      bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	words := opts.TopicWords
	if words <= 0 {
		words = defaultTopicWords
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = ThemeNames()[0]
	}

	input := textinput.New()
	input.Placeholder = "com.example.app"
	input.Prompt = "App ID: "
	input.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:        ctx,
		ops:        opts.Ops,
		roster:     opts.Roster,
		detail:     opts.Detail,
		log:        logger,
		prefsPath:  opts.PrefsPath,
		topicWords: words,
		tick:       tick,
		apiBase:    opts.APIBase,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    spin,
		input:      input,
		theme:      GetTheme(themeName),

		detailViewport: viewport.New(0, 0),
		pointFocus:     noFocus,
	}
	if appID := strings.TrimSpace(opts.RestoreApp); appID != "" && m.detail != nil {
		m.restoreApp = appID
		m.restoreToken = m.detail.Begin(appID)
	}
	m.syncSnapshots()
	return m
}

// Init implements tea.Model. The first roster refresh and the restore of the
// last selected app run as commands, so the first frame never waits on the
// backend.
func (m Model) Init() tea.Cmd {
	cmds := append(m.startupCmds(), tickCmd(m.tick), m.spinner.Tick)
	return tea.Batch(cmds...)
}

func (m Model) startupCmds() []tea.Cmd {
	var cmds []tea.Cmd
	if m.roster != nil {
		cmds = append(cmds, refreshRosterCmd(m.ctx, m.roster))
	}
	if m.restoreApp != "" {
		cmds = append(cmds, restoreSelectionCmd(m.ctx, m.detail, m.restoreToken, m.restoreApp))
	}
	return cmds
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
		m.layoutDetail()
		return m, nil

	case tickMsg:
		m.syncSnapshots()
		return m, tickCmd(m.tick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opSettledMsg:
		return m.handleSettled(ops.Result(msg)), nil

	case selectionMsg:
		switch {
		case msg.restored:
			m.handleRestored(msg)
		case msg.accepted:
			m.savePrefs(func(p *prefs.Prefs) { p.LastApp = msg.appID })
		}
		m.syncSnapshots()
		return m, nil

	case rosterMsg:
		if msg.err != nil {
			m.log.Warn("roster refresh failed", "err", msg.err)
		}
		m.syncSnapshots()
		return m, nil
	}

	if m.inputActive {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
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
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.inputActive {
		return m.handleInputKey(msg)
	}
	if m.confirmDelete != "" {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs(func(p *prefs.Prefs) { p.Theme = m.theme.Name })
		m.layoutDetail()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focused == paneRoster {
			m.focused = paneDetail
		} else {
			m.focused = paneRoster
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.focused = paneRoster
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshRosterCmd(m.ctx, m.roster)

	case key.Matches(msg, m.keys.Ingest):
		m.inputActive = true
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Analyze):
		return m.startOnSelection(ops.Analyze)

	case key.Matches(msg, m.keys.TopicModel):
		return m.startOnSelection(ops.TopicModel)

	case key.Matches(msg, m.keys.Delete):
		if appID := m.detailSnap.AppID(); appID != "" && !m.ops.Busy(appID) {
			m.confirmDelete = appID
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPoint):
		m.stepPoint(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevPoint):
		m.stepPoint(-1)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.ops.Deselect()
		m.savePrefs(func(p *prefs.Prefs) { p.LastApp = "" })
		m.syncSnapshots()
		return m, nil
	}

	if m.focused == paneDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleRosterKey(msg)
}

func (m Model) handleRosterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	apps := m.rosterSnap.Apps
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(apps)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(0, len(apps)-1)
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(apps) {
			appID := apps[m.cursor].AppID
			tok := m.ops.BeginSelect(appID)
			m.syncSnapshots()
			return m, loadSelectionCmd(m.ctx, m.ops, tok, appID)
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.detailViewport.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.detailViewport.PageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfPageDown()
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.inputActive = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		op, err := m.ops.Begin(ops.Ingest, m.input.Value())
		m.syncSnapshots()
		if err != nil {
			// Validation failures keep the input open; busy means the trigger
			// is not available right now.
			if errors.Is(err, ops.ErrBusy) {
				m.log.Debug("ingest ignored while busy", "app", m.input.Value())
			}
			return m, nil
		}
		m.inputActive = false
		m.input.Blur()
		return m, runOpCmd(m.ctx, op)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	appID := m.confirmDelete
	m.confirmDelete = ""
	if !key.Matches(msg, m.keys.Confirm) {
		return m, nil
	}
	op, err := m.ops.Begin(ops.Delete, appID)
	m.syncSnapshots()
	if err != nil {
		return m, nil
	}
	return m, runOpCmd(m.ctx, op)
}

func (m Model) startOnSelection(kind ops.Kind) (tea.Model, tea.Cmd) {
	appID := m.detailSnap.AppID()
	if appID == "" || m.ops.Busy(appID) {
		return m, nil
	}
	op, err := m.ops.Begin(kind, appID)
	m.syncSnapshots()
	if err != nil {
		return m, nil
	}
	return m, runOpCmd(m.ctx, op)
}

func (m Model) handleSettled(res ops.Result) Model {
	if res.OK() {
		switch res.Kind {
		case ops.Ingest:
			m.input.Reset()
			m.savePrefs(func(p *prefs.Prefs) { p.LastApp = res.AppID })
		case ops.Delete:
			m.savePrefs(func(p *prefs.Prefs) {
				if p.LastApp == res.AppID {
					p.LastApp = ""
				}
			})
		}
	}
	m.syncSnapshots()
	return m
}

// handleRestored settles the startup restore. It never raises a banner; an app
// that no longer exists is forgotten.
func (m *Model) handleRestored(msg selectionMsg) {
	switch {
	case msg.accepted:
		m.log.Debug("restored last selection", "app", msg.appID)
	case backend.IsNotFound(msg.err):
		m.log.Info("last selected app no longer exists", "app", msg.appID)
		m.savePrefs(func(p *prefs.Prefs) {
			if p.LastApp == msg.appID {
				p.LastApp = ""
			}
		})
	case msg.err != nil && !errors.Is(msg.err, context.Canceled):
		m.log.Warn("restore last selection failed", "app", msg.appID, "err", msg.err)
	}
}

// syncSnapshots copies the stores into the model and refits the detail pane
// when its content changed.
func (m *Model) syncSnapshots() {
	if m.roster != nil {
		m.rosterSnap = m.roster.Snapshot()
	}
	if m.detail != nil {
		m.detailSnap = m.detail.Snapshot()
	}
	if m.ops != nil {
		m.note = m.ops.Notification()
	}
	if n := len(m.rosterSnap.Apps); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if appID := m.detailSnap.AppID(); appID != m.detailAppID {
		m.detailAppID = appID
		m.detailViewport.GotoTop()
		m.pointFocus = noFocus
	}
	if m.pointFocus >= m.pointCount() {
		m.pointFocus = noFocus
	}
	m.layoutDetail()
}

func (m *Model) savePrefs(fn func(*prefs.Prefs)) {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Update(m.prefsPath, fn); err != nil {
		m.log.Warn("save prefs failed", "err", err)
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(opts Options) error {
	if opts.Ops == nil || opts.Roster == nil || opts.Detail == nil {
		return fmt.Errorf("ui requires the operation controller and both stores")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
