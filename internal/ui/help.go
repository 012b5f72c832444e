package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders the help screen
type HelpOverlay struct {
	width  int
	height int
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{}
}

// SetSize sets overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	content := h.buildContent()

	boxWidth := 40
	if h.width > 0 && boxWidth > h.width-10 {
		boxWidth = h.width - 10
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPurple).
		Padding(1, 2).
		Width(boxWidth)

	box := boxStyle.Render(content)

	topPadding := (h.height - lipgloss.Height(box)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	leftPadding := (h.width - boxWidth - 4) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var lines []string
	for i := 0; i < topPadding; i++ {
		lines = append(lines, "")
	}
	for _, line := range strings.Split(box, "\n") {
		lines = append(lines, strings.Repeat(" ", leftPadding)+line)
	}

	return strings.Join(lines, "\n")
}

func (h *HelpOverlay) buildContent() string {
	lines := []string{
		TitleStyle.Render("KEYBINDINGS"),
		"",
		h.keyLine("c", "Clear history"),
		h.keyLine("?", "Toggle this help"),
		h.keyLine("Esc", "Close help"),
		h.keyLine("q", "Quit"),
	}
	return strings.Join(lines, "\n")
}

func (h *HelpOverlay) keyLine(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(ColorCyan).
		Width(10)
	return keyStyle.Render(key) + desc
}
