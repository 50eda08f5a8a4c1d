package sim

// HookPos defines where in the event loop a hook is invoked.
type HookPos int

const (
	// HookPosBeforeEvent fires after the clock advanced, before the event executes.
	HookPosBeforeEvent HookPos = iota
	// HookPosAfterEvent fires once the resumed process suspended or finished.
	HookPosAfterEvent
)

// HookCtx is what a hook receives on every invocation.
type HookCtx struct {
	Domain *Simulator
	Pos    HookPos
	Event  Event
	Now    SimTime
}

// Hook is a short piece of program invoked by the simulator around each event.
// Hooks observe; they must not schedule events or touch pools.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// AcceptHook registers a hook.
func (s *Simulator) AcceptHook(hook Hook) {
	s.hooks = append(s.hooks, hook)
}

func (s *Simulator) invokeHooks(ev Event, pos HookPos) {
	if len(s.hooks) == 0 {
		return
	}
	ctx := HookCtx{Domain: s, Pos: pos, Event: ev, Now: s.Clock}
	for _, h := range s.hooks {
		h.Func(ctx)
	}
}
