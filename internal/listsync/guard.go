package listsync

// Guard suppresses reconciliation while it is held. Run restores the
// previous state on return, so guards nest.
type Guard struct {
	active bool
}

// Active reports whether a Run is in progress.
func (g *Guard) Active() bool {
	return g.active
}

// Run executes fn with the guard held.
func (g *Guard) Run(fn func()) {
	prev := g.active
	g.active = true
	defer func() { g.active = prev }()
	fn()
}
