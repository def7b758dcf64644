package tui

import "time"

// UI Layout Constants
const (
	MainViewHeightOffset = 3 // Title line + status bar + spacing
	SectionHeaderLines   = 2 // Inputs row + button row
	SectionChrome        = 2 // Border on each side
	PaneMinWidth         = 20
	PaneMinHeight        = 3

	InputWidth     = 16
	InputCharLimit = 256

	StatusMaxLen = 100 // Footer truncation
)

// Buffer sizes
const (
	ChangeBuffer  = 64 // Page change notifications
	OutcomeBuffer = 16 // Finished calls waiting for the UI loop
)

const (
	HistoryLimit   = 20
	MessageTimeout = 5 * time.Second
)
