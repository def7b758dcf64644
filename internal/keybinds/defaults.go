package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalModeBindings(r)
	registerInputBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "tab", ActionFocusNext)
	r.Register(ContextGlobal, "shift+tab", ActionFocusPrev)
}

// registerNormalModeBindings covers buttons and response panes
func registerNormalModeBindings(r *Registry) {
	r.RegisterMultiple(ContextNormal, []string{"q", "esc"}, ActionQuit)
	r.RegisterMultiple(ContextNormal, []string{"enter", " "}, ActionActivate)
	r.Register(ContextNormal, "1", ActionTriggerHello)
	r.Register(ContextNormal, "2", ActionTriggerPost)
	r.Register(ContextNormal, "3", ActionTriggerTime)
	r.Register(ContextNormal, "4", ActionTriggerSum)
	r.RegisterMultiple(ContextNormal, []string{"down", "j"}, ActionFocusNext)
	r.RegisterMultiple(ContextNormal, []string{"up", "k"}, ActionFocusPrev)
	r.Register(ContextNormal, "pgup", ActionScrollUp)
	r.Register(ContextNormal, "pgdown", ActionScrollDown)
	r.Register(ContextNormal, "y", ActionCopy)
	r.Register(ContextNormal, "?", ActionHelp)
	r.Register(ContextNormal, "h", ActionHistory)
}

// registerInputBindings covers text inputs. Printable keys are not bound so
// they reach the input.
func registerInputBindings(r *Registry) {
	r.Register(ContextInput, "enter", ActionFocusNext)
	r.Register(ContextInput, "down", ActionFocusNext)
	r.Register(ContextInput, "up", ActionFocusPrev)
}
