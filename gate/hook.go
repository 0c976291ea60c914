package gate

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosGateFire is the hook position that triggers when a gate fires,
// after the last-fire time is stamped and before the action runs.
var HookPosGateFire = &HookPos{Name: "GateFire"}

// HookCtx carries the information about the site where a hook is triggered.
type HookCtx struct {
	Gate *Gate
	Pos  *HookPos
	Now  Ticks
}

// Hook is a short piece of program that a gate invokes at a hook position.
type Hook interface {
	// Func determines what to do when the hook is invoked.
	Func(ctx HookCtx)
}

// Hookable defines an object that accepts Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// HookableBase provides the common logic for types that implement the
// Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
