package ui

import (
	"context"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/aurad/internal/config"
	"github.com/five82/aurad/internal/dashboard"
	"github.com/five82/aurad/internal/logfeed"
	"github.com/five82/aurad/internal/prefs"
	"github.com/five82/aurad/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewLogs
	ViewArchitecture
	ViewGovernance
)

var viewNames = []string{"Dashboard", "Logs", "Architecture", "Governance"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "Unknown"
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *dashboard.Controller
	Store      *state.Store
	Config     *config.Config
	Logger     zerolog.Logger
	PrefsPath  string
	DarkMode   bool
	DiagPath   string
	UITick     time.Duration

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// boundary records that a panic escaped Update or View. It is shared between
// copies of a Model so View can trip it.
type boundary struct {
	tripped atomic.Bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	opts Options

	ctx        context.Context
	controller *dashboard.Controller
	store      *state.Store
	config     *config.Config
	log        zerolog.Logger
	prefsPath  string
	diagPath   string
	uiTick     time.Duration
	clipboard  func(string) error

	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool

	snapshot state.Snapshot
	spinner  spinner.Model

	logViewport viewport.Model
	logState    logState

	arch archState
	gov  govState

	modal    Modal
	showHelp bool
	diag     diagState

	boundary *boundary
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	uiTick := opts.UITick
	if uiTick <= 0 {
		uiTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	store := opts.Store
	if store == nil && opts.Controller != nil {
		store = opts.Controller.Store()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		opts:        opts,
		ctx:         ctx,
		controller:  opts.Controller,
		store:       store,
		config:      opts.Config,
		log:         opts.Logger,
		prefsPath:   prefsPath,
		diagPath:    opts.DiagPath,
		uiTick:      uiTick,
		clipboard:   copyFn,
		theme:       ThemeFor(opts.DarkMode),
		keys:        DefaultKeyMap(),
		currentView: ViewDashboard,
		spinner:     sp,
		logState:    newLogState(),
		gov:         newGovState(),
		boundary:    &boundary{},
	}
	if store != nil {
		m.snapshot = store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.uiTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. A panic while handling a message switches the
// model to the recovery screen instead of tearing down the terminal.
func (m Model) Update(msg tea.Msg) (result tea.Model, cmd tea.Cmd) {
	if m.boundary.tripped.Load() {
		return m.updateCrashed(msg)
	}
	defer func() {
		if r := recover(); r != nil {
			m.logPanic("update", r)
			m.boundary.tripped.Store(true)
			result, cmd = m, nil
		}
	}()
	return m.update(msg)
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, fetchSnapshotCmd(m.store)

	case copyDoneMsg:
		m.handleCopyDone(msg)
		return m, fetchSnapshotCmd(m.store)

	case diagLoadedMsg:
		m.applyDiag(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() (out string) {
	if m.boundary.tripped.Load() {
		return m.renderCrash()
	}
	defer func() {
		if r := recover(); r != nil {
			m.logPanic("view", r)
			m.boundary.tripped.Store(true)
			out = m.renderCrash()
		}
	}()

	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.diag.visible {
		return m.renderDiagnostics()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays and focused inputs see keys
// before the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.diag.visible {
		return m.handleDiagKey(msg)
	}

	if m.logState.searching {
		return m.handleLogSearchInput(msg)
	}

	if m.gov.editing {
		return m.handleGovernanceInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, fetchSnapshotCmd(m.store)

	case key.Matches(msg, m.keys.Tab):
		return m.switchView((m.currentView + 1) % View(len(viewNames)))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView((m.currentView + View(len(viewNames)) - 1) % View(len(viewNames)))

	case key.Matches(msg, m.keys.Escape):
		return m.switchView(ViewDashboard)

	case key.Matches(msg, m.keys.ViewDashboard):
		return m.switchView(ViewDashboard)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.ViewArchitecture):
		return m.switchView(ViewArchitecture)

	case key.Matches(msg, m.keys.ViewGovernance):
		return m.switchView(ViewGovernance)

	case key.Matches(msg, m.keys.Diagnostics):
		m.diag.visible = true
		return m, m.loadDiagCmd()

	case key.Matches(msg, m.keys.DismissBanner):
		if m.store != nil {
			m.store.DismissBanner()
		}
		return m, fetchSnapshotCmd(m.store)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.actionCmd(actionRefresh, m.refreshFn())

	// Disabled controls still go to the controller, which rejects them with
	// a warning banner.
	case key.Matches(msg, m.keys.Update):
		return m, m.actionCmd(actionUpdate, m.controllerFn((*dashboard.Controller).TriggerUpdate))

	case key.Matches(msg, m.keys.StartCycle):
		return m, m.actionCmd(actionStartCycle, m.controllerFn((*dashboard.Controller).StartCycle))

	case key.Matches(msg, m.keys.StopCycle):
		return m, m.actionCmd(actionStopCycle, m.controllerFn((*dashboard.Controller).StopCycle))

	case key.Matches(msg, m.keys.APIKey):
		m.modal = newAPIKeyModal(m.submitAPIKey)
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	case ViewArchitecture:
		return m.handleArchitectureKey(msg)
	case ViewGovernance:
		return m.handleGovernanceKey(msg)
	}
	return m, nil
}

// switchView activates v and triggers any loading it needs.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	switch v {
	case ViewLogs:
		m.updateLogViewport()
	case ViewGovernance:
		if !m.snapshot.HasThreshold {
			return m, m.actionCmd(actionLoadThreshold, m.controllerFn((*dashboard.Controller).LoadThreshold))
		}
	}
	return m, nil
}

// toggleTheme flips between dark and light and persists the choice.
func (m *Model) toggleTheme() {
	next := !m.theme.Dark
	saved, err := prefs.ToggleDarkMode(m.prefsPath)
	if err == nil {
		next = saved.DarkMode
	} else {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save theme preference failed")
		m.notice(state.BannerWarning, "Failed to save theme preference")
	}
	m.theme = ThemeFor(next)
	m.opts.DarkMode = next
	m.logState.dirty = true
	m.updateLogViewport()
}

// controlsEnabled mirrors the controller's guard so the controls panel can
// render update and cycle buttons as disabled.
func (m Model) controlsEnabled() bool {
	return m.snapshot.Connected && !m.snapshot.Busy
}

// handleTick processes the UI refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.uiTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.syncLogs()
}

func (m *Model) resize() {
	m.updateLogViewport()
	m.resizeDiag()
	m.gov.resize(m.width)
}

func (m Model) contentHeight() int {
	return maxInt(m.height-chromeTop-chromeBottom, 3)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBanner())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.renderDashboard()
	case ViewLogs:
		return m.renderLogs()
	case ViewArchitecture:
		return m.renderArchitecture()
	case ViewGovernance:
		return m.renderGovernance()
	default:
		return ""
	}
}

func (m Model) logPanic(where string, r any) {
	m.log.Error().
		Str("where", where).
		Interface("panic", r).
		Bytes("stack", debug.Stack()).
		Msg("ui panic recovered")
}

// updateCrashed handles input on the recovery screen. Reload rebuilds the
// model from its options, keeping only the terminal size and theme.
func (m Model) updateCrashed(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "e":
			return m, tea.Quit
		case "r":
			opts := m.opts
			opts.DarkMode = m.theme.Dark
			fresh := New(opts)
			fresh.width, fresh.height, fresh.ready = m.width, m.height, m.ready
			fresh.resize()
			return fresh, tea.Batch(fresh.Init(), fresh.actionCmd(actionRefresh, fresh.refreshFn()))
		}
	}
	return m, nil
}

// Action plumbing

type actionName string

const (
	actionRefresh       actionName = "refresh"
	actionUpdate        actionName = "update"
	actionStartCycle    actionName = "start-cycle"
	actionStopCycle     actionName = "stop-cycle"
	actionClearLogs     actionName = "clear-logs"
	actionSetAPIKey     actionName = "set-api-key"
	actionLoadThreshold actionName = "load-threshold"
	actionSetThreshold  actionName = "set-threshold"
	actionSimulate      actionName = "simulate"
)

// actionCmd runs fn off the UI goroutine and reports back with actionDoneMsg.
func (m Model) actionCmd(name actionName, fn func(context.Context) error) tea.Cmd {
	if fn == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		return actionDoneMsg{name: name, err: fn(cctx)}
	}
}

// controllerFn binds a controller method, or returns nil without a controller.
func (m Model) controllerFn(method func(*dashboard.Controller, context.Context) error) func(context.Context) error {
	if m.controller == nil {
		return nil
	}
	c := m.controller
	return func(ctx context.Context) error {
		return method(c, ctx)
	}
}

func (m Model) refreshFn() func(context.Context) error {
	return m.controllerFn((*dashboard.Controller).Refresh)
}

func (m Model) submitAPIKey(value string) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	c := m.controller
	return m.actionCmd(actionSetAPIKey, func(ctx context.Context) error {
		return c.SetAPIKey(ctx, value)
	})
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Debug().Err(msg.err).Str("action", string(msg.name)).Msg("action finished with error")
	}
	switch msg.name {
	case actionSetThreshold:
		if msg.err == nil {
			m.gov.clear(fieldThreshold)
		}
	case actionClearLogs:
		m.logState.dirty = true
	}
	return m, fetchSnapshotCmd(m.store)
}

// notice posts a UI-originated banner through the controller.
func (m *Model) notice(kind state.BannerKind, message string) {
	if m.controller != nil {
		m.controller.Notice(kind, message)
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type actionDoneMsg struct {
	name actionName
	err  error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

type copyDoneMsg struct {
	count int
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func exportCmd(dir string, entries []logfeed.Entry) tea.Cmd {
	return func() tea.Msg {
		path, err := logfeed.Export(dir, entries, time.Now())
		return exportDoneMsg{path: path, count: len(entries), err: err}
	}
}

func copyCmd(write func(string) error, entries []logfeed.Entry) tea.Cmd {
	return func() tea.Msg {
		err := write(logfeed.JoinRaw(entries))
		return copyDoneMsg{count: len(entries), err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && !isContextDone(m.ctx) {
		return err
	}
	return nil
}

func isContextDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
