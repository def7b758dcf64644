/*
Package tui implements the terminal user interface.

# Architecture

The TUI follows the Bubble Tea Model-Update-View pattern over an in-memory
page. New creates a dom.Page holding every input, control and response
target, and binds it with app.Initialize, so the TUI drives exactly the same
handlers the headless CLI does:

  - text inputs mirror their value into the page on every edit
  - activating a button clicks the control on the page
  - responses arrive on handler goroutines and change target text
  - page changes and finished calls reach Update as messages

# Files

  - model.go: state, focus ring and message plumbing
  - keys.go: key routing through the keybinds registry
  - render.go: layout, status bar and overlays

# Usage

	err := tui.Run(tui.Options{
		BaseURL: cfg.BaseURL,
		Client:  client,
		History: historyMgr,
		Logger:  &logger,
	})
*/
package tui
