package gate

import (
	"log"
)

// FireLogger is a hook that writes a line to a logger every time the gate it
// is attached to fires.
type FireLogger struct {
	*log.Logger
}

// NewFireLogger returns a FireLogger that writes into the given logger.
func NewFireLogger(logger *log.Logger) *FireLogger {
	h := new(FireLogger)
	h.Logger = logger

	return h
}

// Func writes the gate ID and the fire time into the logger.
func (h *FireLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosGateFire {
		return
	}

	h.Printf("%d, gate %s fired", ctx.Now, ctx.Gate.ID)
}
