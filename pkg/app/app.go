package app

import (
	"log/slog"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/prefs"
)

// Config holds application-level settings for the root model.
type Config struct {
	// RefreshInterval is the period of the UI tick that drives stale-data
	// checks and redraws.
	RefreshInterval time.Duration

	// Updates, when non-nil, is the collector runner's output channel. The
	// model keeps a listen command armed against it.
	Updates <-chan collectors.Update

	// Prefs is the initial display preference state.
	Prefs prefs.Preferences

	// PrefsStore, when non-nil, persists preference toggles to disk.
	PrefsStore *prefs.Store
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: time.Second,
		Prefs:           prefs.DefaultPreferences(),
	}
}

// AppModel is the root bubbletea model. It owns the widget registry, focus
// and expansion state, and the shared data store that collector results
// land in.
type AppModel struct {
	cfg Config

	widgets     map[string]Widget
	widgetOrder []string

	focusedWidget  string
	expandedWidget string

	width  int
	height int

	layoutDirty bool
	quitting    bool
	helpVisible bool

	prefs prefs.Preferences

	statusMsg string

	dataStore map[string]interface{}
}

// NewAppModel creates the root model with the given widgets. Widget order
// determines Tab-cycling order and layout position. Focus starts on the
// first widget.
func NewAppModel(cfg Config, widgets ...Widget) AppModel {
	m := AppModel{
		cfg:         cfg,
		widgets:     make(map[string]Widget, len(widgets)),
		widgetOrder: make([]string, 0, len(widgets)),
		layoutDirty: true,
		prefs:       cfg.Prefs,
		dataStore:   make(map[string]interface{}),
	}

	for _, w := range widgets {
		m.widgets[w.ID()] = w
		m.widgetOrder = append(m.widgetOrder, w.ID())
	}

	if len(m.widgetOrder) > 0 {
		m.focusedWidget = m.widgetOrder[0]
	}

	return m
}

// Width returns the current terminal width.
func (m AppModel) Width() int { return m.width }

// Height returns the current terminal height.
func (m AppModel) Height() int { return m.height }

// LayoutDirty reports whether the layout needs recomputation.
func (m AppModel) LayoutDirty() bool { return m.layoutDirty }

// FocusedWidgetID returns the ID of the focused widget, or "" if none.
func (m AppModel) FocusedWidgetID() string { return m.focusedWidget }

// ExpandedWidgetID returns the ID of the expanded widget, or "" if none.
func (m AppModel) ExpandedWidgetID() string { return m.expandedWidget }

// Quitting reports whether the application is shutting down.
func (m AppModel) Quitting() bool { return m.quitting }

// HelpVisible reports whether the help overlay is showing.
func (m AppModel) HelpVisible() bool { return m.helpVisible }

// Prefs returns the current display preference state.
func (m AppModel) Prefs() prefs.Preferences { return m.prefs }

// DataStore returns the map of collector results keyed by source name.
func (m AppModel) DataStore() map[string]interface{} { return m.dataStore }

// Init starts the refresh ticker and, when an update channel is configured,
// the collector listener.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(m.cfg.RefreshInterval)}
	if m.cfg.Updates != nil {
		cmds = append(cmds, ListenCmd(m.cfg.Updates))
	}
	return tea.Batch(cmds...)
}

// Update is the central message dispatcher.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutDirty = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, tea.Batch(m.broadcast(msg)...)

	case TickEvent:
		cmds := m.broadcast(msg)
		cmds = append(cmds, TickCmd(m.cfg.RefreshInterval))
		return m, tea.Batch(cmds...)

	case TrackTickEvent:
		return m, tea.Batch(m.broadcast(msg)...)

	case DataUpdateEvent:
		if msg.Err == nil {
			m.dataStore[msg.Source] = msg.Data
			m.statusMsg = ""
		} else {
			m.statusMsg = msg.Source + ": " + msg.Err.Error()
		}
		cmds := m.broadcast(msg)
		if m.cfg.Updates != nil {
			cmds = append(cmds, ListenCmd(m.cfg.Updates))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.moveFocus(1)
		return m, nil

	case "shift+tab":
		m.moveFocus(-1)
		return m, nil

	case "enter":
		m.toggleExpand()
		m.layoutDirty = true
		return m, nil

	case "esc":
		if m.expandedWidget != "" {
			m.expandedWidget = ""
			m.layoutDirty = true
		}
		return m, nil

	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil

	case "c":
		m.prefs.CursorEnabled = !m.prefs.CursorEnabled
		return m.prefsChanged()

	case "n":
		m.prefs.AnimationEnabled = !m.prefs.AnimationEnabled
		return m.prefsChanged()
	}

	if w, ok := m.widgets[m.focusedWidget]; ok {
		return m, w.HandleKey(msg)
	}
	return m, nil
}

// prefsChanged broadcasts the new preference state to widgets and saves it
// in the background.
func (m AppModel) prefsChanged() (tea.Model, tea.Cmd) {
	cmds := m.broadcast(PrefsChangedEvent{Prefs: m.prefs})
	if m.cfg.PrefsStore != nil {
		store, p := m.cfg.PrefsStore, m.prefs
		cmds = append(cmds, func() tea.Msg {
			if err := store.Save(p); err != nil {
				slog.Warn("failed to save preferences", "error", err)
			}
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

// moveFocus shifts focus by step through the widget order, wrapping at
// both ends.
func (m *AppModel) moveFocus(step int) {
	n := len(m.widgetOrder)
	if n == 0 {
		return
	}
	idx := slices.Index(m.widgetOrder, m.focusedWidget)
	if idx < 0 {
		idx = 0
	}
	m.focusedWidget = m.widgetOrder[((idx+step)%n+n)%n]
}

// toggleExpand flips the focused widget between column and fullscreen
// layout. Expanding while another widget is fullscreen moves the
// expansion to the focused one.
func (m *AppModel) toggleExpand() {
	switch {
	case m.focusedWidget == "":
	case m.expandedWidget == m.focusedWidget:
		m.expandedWidget = ""
	default:
		m.expandedWidget = m.focusedWidget
	}
}

// broadcast forwards msg to every widget in order and collects their
// follow-up commands.
func (m AppModel) broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.widgetOrder {
		if cmd := m.widgets[id].Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// View renders the full frame: the widget column (or a single expanded
// widget), and a status bar on the bottom row.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	contentH := m.height - 1
	if contentH < 1 {
		contentH = 1
	}

	var body string
	switch {
	case m.helpVisible:
		body = renderHelp(m.width, contentH)
	case m.expandedWidget != "":
		body = renderExpanded(m.widgets[m.expandedWidget], m.width, contentH)
	default:
		body = m.renderColumn(m.width, contentH)
	}

	// Resolve mouse zones marked by widgets before handing the frame to
	// bubbletea.
	return zone.Scan(body + "\n" + renderStatusBar(m.statusMsg, m.width))
}
