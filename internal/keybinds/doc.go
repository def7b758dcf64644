/*
Package keybinds maps terminal keys to TUI actions.

Bindings live in a Registry keyed by context. Match looks up the specific
context first and falls back to ContextGlobal:

	registry := keybinds.NewDefaultRegistry()
	action, ok := registry.Match(keybinds.ContextNormal, "3") // ActionTriggerTime

Contexts:
  - ContextGlobal: focus movement and ctrl+c, active everywhere
  - ContextNormal: a button or response pane has focus
  - ContextInput: a text input has focus; printable keys stay unbound

Digit keys 1-4 trigger the four controls directly, the same way a click
on the focused button does.
*/
package keybinds
