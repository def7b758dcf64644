package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/executor"
	"github.com/studiowebux/appclient/internal/keybinds"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleButton = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorBlue)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	default:
		return m.renderMain()
	}
}

// renderMain lays the four sections out in a two by two grid
func (m *Model) renderMain() string {
	title := styleTitle.Render("appclient") + "  " + styleSubtle.Render(m.baseURL)

	var sections []string
	for _, act := range actions.All() {
		sections = append(sections, m.renderSection(act))
	}

	grid := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sections[0], sections[1]),
		lipgloss.JoinHorizontal(lipgloss.Top, sections[2], sections[3]),
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, grid, m.renderStatusBar())
}

// renderSection draws one control: its inputs, its button and its response
func (m *Model) renderSection(act actions.Action) string {
	current := m.focused()

	var row []string
	for _, id := range act.Inputs {
		ti := m.inputs[id]
		row = append(row, ti.View())
	}
	inputs := strings.Join(row, "  ")
	if inputs == "" {
		inputs = styleSubtle.Render("(no input)")
	}

	button := styleButton.Render("[ " + act.Label + " ]")
	if current.kind == focusButton && current.id == act.Control {
		button = styleSelected.Render("[ " + act.Label + " ]")
	}

	border := colorGray
	if current.kind == focusTarget && current.id == act.Target {
		border = colorGreen
	}
	vp := m.panes[act.Target]
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(vp.Width).
		Render(vp.View())

	return lipgloss.JoinVertical(lipgloss.Left, inputs, button, pane)
}

// renderStatusBar shows the last outcome, in-flight calls and messages
func (m *Model) renderStatusBar() string {
	var parts []string

	if m.last != nil {
		out := m.last
		status := fmt.Sprintf("%d", out.Status)
		style := styleSuccess
		switch {
		case out.Status == 0:
			status = "ERR"
			style = styleError
		case !executor.IsSuccessStatus(out.Status):
			style = styleError
		}
		parts = append(parts, fmt.Sprintf("%s %s %s %s",
			style.Render(status),
			out.Control,
			executor.FormatDuration(out.Duration),
			executor.FormatSize(out.Size),
		))
	}

	if m.inFlight > 0 {
		parts = append(parts, styleWarning.Render(fmt.Sprintf("%d in flight", m.inFlight)))
	}

	if m.errorMsg != "" {
		parts = append(parts, styleError.Render(m.errorMsg))
	} else if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	hint := fmt.Sprintf("%s focus | 1-4 run | %s copy | %s help | %s quit",
		m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionFocusNext),
		m.keybinds.GetBindingString(keybinds.ContextNormal, keybinds.ActionCopy),
		m.keybinds.GetBindingString(keybinds.ContextNormal, keybinds.ActionHelp),
		m.keybinds.GetBindingString(keybinds.ContextNormal, keybinds.ActionQuit),
	)
	parts = append(parts, styleSubtle.Render(hint))

	return strings.Join(parts, "  ")
}

// renderHelp lists the bindings of the current context
func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Keybindings"))
	b.WriteString("\n\n")
	for _, binding := range m.keybinds.ListBindings(keybinds.ContextNormal) {
		key := binding.Key
		if key == " " {
			key = "space"
		}
		fmt.Fprintf(&b, "  %-10s %s\n", key, binding.Action)
	}
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Padding(1, 2).
		Render(b.String())
}

// renderHistory lists the most recent calls
func (m *Model) renderHistory() string {
	var b strings.Builder
	if len(m.stats) > 0 {
		b.WriteString(styleTitle.Render("Per control"))
		b.WriteString("\n\n")
		for _, s := range m.stats {
			fmt.Fprintf(&b, "  %-14s %4d calls  %5.1f%% ok  avg %.0fms\n",
				s.Control, s.TotalCalls, s.SuccessRate(), s.AvgDurationMs)
		}
		b.WriteString("\n")
	}

	b.WriteString(styleTitle.Render("Recent calls"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(styleSubtle.Render("No history yet"))
		b.WriteString("\n")
	}
	for _, e := range m.entries {
		status := styleSuccess.Render(fmt.Sprintf("%d", e.Status))
		if e.Error != "" {
			status = styleError.Render("ERR")
		}
		fmt.Fprintf(&b, "  %s  %-4s %s  %s  %dms\n", e.Timestamp, e.Method, status, e.URL, e.Duration)
	}
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Padding(1, 2).
		Render(b.String())
}
