package tui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/analytics"
	"github.com/studiowebux/appclient/internal/app"
	"github.com/studiowebux/appclient/internal/dom"
	"github.com/studiowebux/appclient/internal/history"
	"github.com/studiowebux/appclient/internal/keybinds"
	"github.com/studiowebux/appclient/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
	ModeHistory
)

type focusKind int

const (
	focusInput focusKind = iota
	focusButton
	focusTarget
)

// focusItem is one stop of the tab ring
type focusItem struct {
	kind focusKind
	id   string
}

// Options configures the TUI
type Options struct {
	BaseURL       string
	Client        *http.Client
	History       *history.Manager
	Logger        *zerolog.Logger
	SurfaceErrors bool
}

// Model represents the TUI state
type Model struct {
	page     *dom.Page
	bound    *app.BoundApp
	keybinds *keybinds.Registry
	history  *history.Manager
	log      zerolog.Logger
	baseURL  string
	mode     Mode

	// surfaceErrors shows failed calls in the status bar; otherwise they
	// are only logged
	surfaceErrors bool

	inputs map[string]textinput.Model
	panes  map[string]viewport.Model
	ring   []focusItem
	focus  int

	changes  chan string
	outcomes chan types.Outcome
	done     chan struct{}

	last     *types.Outcome
	inFlight int
	entries  []types.HistoryEntry
	stats    []analytics.Stats

	statusMsg string
	errorMsg  string

	width  int
	height int
}

// Custom message types
type pageChangedMsg struct {
	id string
}

type outcomeMsg struct {
	outcome types.Outcome
}

type historyLoadedMsg struct {
	entries []types.HistoryEntry
	stats   []analytics.Stats
	err     error
}

type clearStatusMsg struct{}

// New builds the page, binds it and returns a model ready to run
func New(opts Options) (*Model, error) {
	m := &Model{
		page:     dom.NewPage(actions.ElementIDs()...),
		keybinds: keybinds.NewDefaultRegistry(),
		history:  opts.History,
		log:      zerolog.Nop(),
		baseURL:  opts.BaseURL,
		inputs:   make(map[string]textinput.Model),
		panes:    make(map[string]viewport.Model),
		changes:  make(chan string, ChangeBuffer),
		outcomes: make(chan types.Outcome, OutcomeBuffer),
		done:     make(chan struct{}),
	}
	if opts.Logger != nil {
		m.log = *opts.Logger
	}
	if m.baseURL == "" {
		m.baseURL = app.DefaultBaseURL
	}
	m.surfaceErrors = opts.SurfaceErrors
	if err := m.keybinds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keybindings: %w", err)
	}

	m.page.OnChange(m.notifyChange)

	record := history.Recorder(opts.History, opts.Logger)
	bound, err := app.Initialize(m.page, app.Options{
		BaseURL:       m.baseURL,
		Client:        opts.Client,
		Logger:        opts.Logger,
		SurfaceErrors: opts.SurfaceErrors,
		OnOutcome: func(out types.Outcome) {
			if record != nil {
				record(out)
			}
			m.deliver(out)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bind page: %w", err)
	}
	m.bound = bound

	m.buildRing()
	m.applyFocus()
	return m, nil
}

// buildRing lays out inputs, buttons and panes in display order and creates
// their widgets.
func (m *Model) buildRing() {
	for _, act := range actions.All() {
		for _, id := range act.Inputs {
			ti := textinput.New()
			ti.Prompt = id + ": "
			ti.Placeholder = placeholder(id)
			ti.CharLimit = InputCharLimit
			ti.Width = InputWidth
			m.inputs[id] = ti
			m.ring = append(m.ring, focusItem{kind: focusInput, id: id})
		}
		m.ring = append(m.ring, focusItem{kind: focusButton, id: act.Control})

		m.panes[act.Target] = viewport.New(PaneMinWidth, PaneMinHeight)
		m.ring = append(m.ring, focusItem{kind: focusTarget, id: act.Target})
	}
}

func placeholder(id string) string {
	switch id {
	case actions.InputA, actions.InputB:
		return "0"
	default:
		return "name"
	}
}

// notifyChange runs on whichever goroutine changed the page. A full buffer
// already guarantees a pending refresh, so the send never blocks.
func (m *Model) notifyChange(id string) {
	select {
	case m.changes <- id:
	default:
	}
}

// deliver hands an outcome to the UI loop, giving up once the UI is gone
func (m *Model) deliver(out types.Outcome) {
	select {
	case m.outcomes <- out:
	case <-m.done:
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		return pageChangedMsg{id: <-m.changes}
	}
}

func (m *Model) waitForOutcome() tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: <-m.outcomes}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange(), m.waitForOutcome())
}

// Cleanup unbinds the page and waits for calls still in flight
func (m *Model) Cleanup() {
	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}
	if m.bound != nil {
		m.bound.Close()
	}
}

// Update handles incoming messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()

	case pageChangedMsg:
		m.refreshPanes()
		cmd = m.waitForChange()

	case outcomeMsg:
		cmd = tea.Batch(m.recordOutcome(msg.outcome), m.waitForOutcome())

	case historyLoadedMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage(fmt.Sprintf("History unavailable: %v", msg.err))
			break
		}
		m.entries = msg.entries
		m.stats = msg.stats
		m.mode = ModeHistory

	case clearStatusMsg:
		m.statusMsg = ""
		m.errorMsg = ""

	default:
		// Cursor blink and friends go to the focused input
		if item := m.focused(); item.kind == focusInput {
			ti := m.inputs[item.id]
			ti, cmd = ti.Update(msg)
			m.inputs[item.id] = ti
		}
	}

	return m, cmd
}

// recordOutcome updates the status line for a finished call
func (m *Model) recordOutcome(out types.Outcome) tea.Cmd {
	if m.inFlight > 0 {
		m.inFlight--
	}
	if !out.OK() {
		m.log.Debug().Err(out.Err).Str("request_id", out.ID).Msg("call failed")
		if !m.surfaceErrors {
			return nil
		}
		m.last = &out
		return m.setErrorMessage(fmt.Sprintf("%s failed: %v", out.Control, out.Err))
	}
	m.last = &out
	m.errorMsg = ""
	return nil
}

// refreshPanes copies every target's text into its viewport
func (m *Model) refreshPanes() {
	for id, vp := range m.panes {
		vp.SetContent(m.page.Text(id))
		m.panes[id] = vp
	}
}

// resizePanes splits the screen into a two by two grid of sections
func (m *Model) resizePanes() {
	w, h := m.paneSize()
	for id, vp := range m.panes {
		vp.Width = w
		vp.Height = h
		m.panes[id] = vp
	}
	m.refreshPanes()
}

func (m *Model) paneSize() (int, int) {
	w := max(PaneMinWidth, m.width/2-SectionChrome)
	h := max(PaneMinHeight, (m.height-MainViewHeightOffset)/2-SectionHeaderLines-SectionChrome)
	return w, h
}

func (m *Model) focused() focusItem {
	if len(m.ring) == 0 {
		return focusItem{}
	}
	return m.ring[m.focus]
}

// context returns the keybinding context for the focused item
func (m *Model) context() keybinds.Context {
	if m.focused().kind == focusInput {
		return keybinds.ContextInput
	}
	return keybinds.ContextNormal
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	n := len(m.ring)
	m.focus = ((m.focus+delta)%n + n) % n
	return m.applyFocus()
}

// applyFocus focuses the text input under the cursor and blurs the rest
func (m *Model) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	current := m.focused()
	for id, ti := range m.inputs {
		if current.kind == focusInput && current.id == id {
			cmd = ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[id] = ti
	}
	return cmd
}

// click fires a control through the page, as a mouse click would
func (m *Model) click(control string) tea.Cmd {
	act, ok := actions.Lookup(control)
	if !ok {
		return nil
	}
	if err := m.page.Click(control); err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.inFlight++
	return m.setStatusMessage(fmt.Sprintf("%s requested", act.Label))
}

// setInput mirrors a text input into the page
func (m *Model) setInput(id, value string) {
	if err := m.page.SetValue(id, value); err != nil {
		m.log.Warn().Err(err).Str("input", id).Msg("failed to set input")
	}
}

func (m *Model) loadHistory() tea.Cmd {
	mgr := m.history
	return func() tea.Msg {
		if mgr == nil {
			return historyLoadedMsg{err: fmt.Errorf("history is disabled")}
		}
		entries, err := mgr.Recent(HistoryLimit)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		stats, err := analytics.PerControl(mgr)
		return historyLoadedMsg{entries: entries, stats: stats, err: err}
	}
}

// Helper methods for setting messages with a timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = truncate(msg, StatusMaxLen)
	return tea.Tick(MessageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.errorMsg = truncate(msg, StatusMaxLen)
	return tea.Tick(MessageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// truncate shortens s to n terminal cells without splitting a rune
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "...")
}
