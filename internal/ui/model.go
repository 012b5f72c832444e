package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rkmax/keyboard-mate/internal/indicator"
	"github.com/rkmax/keyboard-mate/internal/monitor"
)

// Source is polled on every tick. *monitor.Monitor satisfies it.
type Source interface {
	DrainAll() []bool
	State() monitor.Lifecycle
	Err() error
	Device() string
}

// HistoryEntry is one drained state and the tick that received it.
type HistoryEntry struct {
	On bool
	At time.Time
}

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	src        Source
	kind       indicator.Kind
	interval   time.Duration
	historyLen int

	// State
	known     bool
	on        bool
	lifecycle monitor.Lifecycle
	err       error
	device    string
	history   []HistoryEntry
	showHelp  bool

	helpOverlay *HelpOverlay
}

// NewModel creates a model that drains src every interval.
func NewModel(src Source, kind indicator.Kind, interval time.Duration, historyLen int) *Model {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Model{
		src:         src,
		kind:        kind,
		interval:    interval,
		historyLen:  historyLen,
		helpOverlay: NewHelpOverlay(),
	}
}

// tickMsg fires on every presenter tick
type tickMsg time.Time

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.poll(time.Time(msg))
		return m, m.tick()
	}

	return m, nil
}

// poll drains the source and applies the newest state.
func (m *Model) poll(now time.Time) {
	states := m.src.DrainAll()
	for _, on := range states {
		m.history = append(m.history, HistoryEntry{On: on, At: now})
	}
	if over := len(m.history) - m.historyLen; over > 0 {
		m.history = m.history[over:]
	}
	if len(states) > 0 {
		m.known = true
		m.on = states[len(states)-1]
	}

	m.lifecycle = m.src.State()
	m.err = m.src.Err()
	m.device = m.src.Device()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		m.showHelp = false
	case "c":
		m.history = nil
	}
	return m, nil
}

// On reports the state currently shown and whether any state arrived yet.
func (m *Model) On() (on, known bool) {
	return m.on, m.known
}

// History returns the retained states, oldest first.
func (m *Model) History() []HistoryEntry {
	return append([]HistoryEntry(nil), m.history...)
}

// View renders the UI
func (m *Model) View() string {
	if m.showHelp {
		return m.helpOverlay.View()
	}

	sections := []string{
		HeaderStyle.Render("kbmate " + DimStyle.Render(m.kind.String()+" lock")),
		m.renderBadge(),
		m.renderStatus(),
	}
	if h := m.renderHistory(); h != "" {
		sections = append(sections, h)
	}
	sections = append(sections, FooterStyle.Render(
		KeyHintStyle.Render("?")+" help  "+KeyHintStyle.Render("q")+" quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderBadge() string {
	label := m.kind.Label()
	switch {
	case !m.known:
		return BadgeWaitingStyle.Render(label + " " + StatusWaiting)
	case m.on:
		return BadgeOnStyle.Render(label + " ON")
	default:
		return BadgeOffStyle.Render(label + " OFF")
	}
}

func (m *Model) renderStatus() string {
	device := m.device
	if device == "" {
		device = "searching..."
	}

	lines := []string{
		DimStyle.Render("device ") + device,
		DimStyle.Render("state  ") + m.renderLifecycle(),
	}
	if m.err != nil {
		lines = append(lines, ErrorStyle.Render("error  "+m.err.Error()))
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderLifecycle() string {
	s := m.lifecycle.String()
	switch m.lifecycle {
	case monitor.Running:
		return SuccessStyle.Render(s)
	case monitor.Stopped:
		if m.err != nil {
			return ErrorStyle.Render(s)
		}
		return DimStyle.Render(s)
	default:
		return WarningStyle.Render(s)
	}
}

func (m *Model) renderHistory() string {
	if len(m.history) == 0 {
		return ""
	}
	lines := []string{TitleStyle.Render("History")}
	for i := len(m.history) - 1; i >= 0; i-- {
		e := m.history[i]
		mark, style := StatusOff, DimStyle
		if e.On {
			mark, style = StatusOn, SuccessStyle
		}
		lines = append(lines, style.Render(mark)+" "+DimStyle.Render(e.At.Format("15:04:05")))
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}
