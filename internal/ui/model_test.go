package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rkmax/keyboard-mate/internal/indicator"
	"github.com/rkmax/keyboard-mate/internal/monitor"
)

type fakeSource struct {
	pending []bool
	state   monitor.Lifecycle
	err     error
	device  string
	drains  int
}

func (f *fakeSource) DrainAll() []bool {
	f.drains++
	p := f.pending
	f.pending = nil
	return p
}

func (f *fakeSource) State() monitor.Lifecycle { return f.state }
func (f *fakeSource) Err() error               { return f.err }
func (f *fakeSource) Device() string           { return f.device }

func TestModel_TickAppliesLastState(t *testing.T) {
	src := &fakeSource{state: monitor.Running, device: "/dev/input/event3"}
	m := NewModel(src, indicator.Caps, time.Second, 8)

	if _, known := m.On(); known {
		t.Fatal("state should be unknown before the first tick")
	}
	if !strings.Contains(m.View(), StatusWaiting) {
		t.Error("view should show waiting badge before the first state")
	}

	src.pending = []bool{false, true, false, true}
	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	on, known := m.On()
	if !known || !on {
		t.Errorf("On() = %v, %v, want true, true", on, known)
	}
	if got := len(m.History()); got != 4 {
		t.Errorf("history has %d entries, want 4", got)
	}

	view := m.View()
	if !strings.Contains(view, "CAPS ON") {
		t.Errorf("view missing CAPS ON badge:\n%s", view)
	}
	if !strings.Contains(view, "/dev/input/event3") {
		t.Errorf("view missing device path:\n%s", view)
	}
}

func TestModel_EmptyTickKeepsState(t *testing.T) {
	src := &fakeSource{state: monitor.Running}
	m := NewModel(src, indicator.Num, time.Second, 8)

	src.pending = []bool{true}
	m.Update(tickMsg(time.Now()))
	m.Update(tickMsg(time.Now()))

	if on, _ := m.On(); !on {
		t.Error("empty drain should not change the shown state")
	}
	if src.drains != 2 {
		t.Errorf("drained %d times, want 2", src.drains)
	}
	if !strings.Contains(m.View(), "NUM ON") {
		t.Error("view missing NUM ON badge")
	}
}

func TestModel_HistoryBounded(t *testing.T) {
	src := &fakeSource{}
	m := NewModel(src, indicator.Caps, time.Second, 3)

	src.pending = []bool{true, false, true, false, true}
	m.Update(tickMsg(time.Now()))

	h := m.History()
	if len(h) != 3 {
		t.Fatalf("history has %d entries, want 3", len(h))
	}
	if !h[0].On || h[1].On || !h[2].On {
		t.Errorf("history kept %v, want the newest three", h)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if len(m.History()) != 0 {
		t.Error("c should clear history")
	}
}

func TestModel_ShowsError(t *testing.T) {
	src := &fakeSource{state: monitor.Stopped, err: errors.New("no input device with LED capability")}
	m := NewModel(src, indicator.Caps, time.Second, 8)

	m.Update(tickMsg(time.Now()))

	view := m.View()
	if !strings.Contains(view, "no input device") {
		t.Errorf("view missing error:\n%s", view)
	}
	if !strings.Contains(view, "stopped") {
		t.Errorf("view missing lifecycle:\n%s", view)
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(&fakeSource{}, indicator.Caps, time.Second, 8)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := NewModel(&fakeSource{}, indicator.Caps, time.Second, 8)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !strings.Contains(m.View(), "KEYBINDINGS") {
		t.Error("? should show help")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "KEYBINDINGS") {
		t.Error("esc should close help")
	}
}
