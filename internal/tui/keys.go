package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/keybinds"
)

// triggers maps the direct trigger actions to their controls
var triggers = map[keybinds.Action]string{
	keybinds.ActionTriggerHello: actions.ControlHelloGet,
	keybinds.ActionTriggerPost:  actions.ControlHelloPost,
	keybinds.ActionTriggerTime:  actions.ControlTime,
	keybinds.ActionTriggerSum:   actions.ControlSum,
}

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch m.mode {
	case ModeHelp, ModeHistory:
		return m.handleOverlayKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleOverlayKeys closes the help and history overlays
func (m *Model) handleOverlayKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "?", "h", "enter":
		m.mode = ModeNormal
	}
	return nil
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	item := m.focused()

	action, ok := m.keybinds.Match(m.context(), msg.String())
	if !ok {
		if item.kind == focusInput {
			return m.updateInput(item.id, msg)
		}
		return nil
	}

	if control, ok := triggers[action]; ok {
		return m.click(control)
	}

	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionFocusNext:
		return m.moveFocus(1)

	case keybinds.ActionFocusPrev:
		return m.moveFocus(-1)

	case keybinds.ActionActivate:
		if item.kind == focusButton {
			return m.click(item.id)
		}

	case keybinds.ActionScrollUp, keybinds.ActionScrollDown:
		if item.kind != focusTarget {
			return nil
		}
		vp := m.panes[item.id]
		if action == keybinds.ActionScrollUp {
			vp.ScrollUp(vp.Height / 2)
		} else {
			vp.ScrollDown(vp.Height / 2)
		}
		m.panes[item.id] = vp

	case keybinds.ActionCopy:
		return m.copyFocused()

	case keybinds.ActionHelp:
		m.mode = ModeHelp

	case keybinds.ActionHistory:
		return m.loadHistory()
	}

	return nil
}

// updateInput forwards a key to a text input and mirrors the new value
// into the page.
func (m *Model) updateInput(id string, msg tea.KeyMsg) tea.Cmd {
	ti := m.inputs[id]
	before := ti.Value()

	var cmd tea.Cmd
	ti, cmd = ti.Update(msg)
	m.inputs[id] = ti

	if ti.Value() != before {
		m.setInput(id, ti.Value())
	}
	return cmd
}

// copyFocused copies the focused response pane to the clipboard
func (m *Model) copyFocused() tea.Cmd {
	item := m.focused()
	if item.kind != focusTarget {
		return m.setErrorMessage("Focus a response to copy it")
	}

	text := m.page.Text(item.id)
	if text == "" {
		return m.setErrorMessage("Nothing to copy")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return m.setErrorMessage("Failed to copy: " + err.Error())
	}
	return m.setStatusMessage("Copied " + item.id + " to clipboard")
}
