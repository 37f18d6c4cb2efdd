package hooking

import (
	"fmt"
	"log"
	"strings"
)

// LogHook prints every hook invocation it receives to a logger. A nil filter
// accepts all positions.
type LogHook struct {
	*log.Logger

	positions map[*HookPos]bool
}

// NewLogHook creates a LogHook that writes to logger. If positions are given,
// only those positions are printed.
func NewLogHook(logger *log.Logger, positions ...*HookPos) *LogHook {
	h := &LogHook{Logger: logger}

	if len(positions) > 0 {
		h.positions = make(map[*HookPos]bool, len(positions))
		for _, p := range positions {
			h.positions[p] = true
		}
	}

	return h
}

// Func logs the hook position, item, and detail.
func (h *LogHook) Func(ctx HookCtx) {
	if h.positions != nil && !h.positions[ctx.Pos] {
		return
	}

	var b strings.Builder

	b.WriteString(ctx.Pos.Name)

	if ctx.Item != nil {
		fmt.Fprintf(&b, " item=%v", ctx.Item)
	}

	if ctx.Detail != nil {
		fmt.Fprintf(&b, " detail=%v", ctx.Detail)
	}

	h.Print(b.String())
}
