package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal Context = "global" // Available everywhere
	ContextNormal Context = "normal" // A button or response pane has focus
	ContextInput  Context = "input"  // A text input has focus
)

const (
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Focus
	ActionFocusNext Action = "focus_next"
	ActionFocusPrev Action = "focus_prev"

	// Controls
	ActionActivate     Action = "activate"      // Click the focused button
	ActionTriggerHello Action = "trigger_hello" // btnHelloGet
	ActionTriggerPost  Action = "trigger_post"  // btnHelloPost
	ActionTriggerTime  Action = "trigger_time"  // btnTime
	ActionTriggerSum   Action = "trigger_sum"   // btnSum

	// Response panes
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
	ActionCopy       Action = "copy" // Copy focused pane to clipboard
	ActionHelp       Action = "help"
	ActionHistory    Action = "history" // Toggle recent history
)
