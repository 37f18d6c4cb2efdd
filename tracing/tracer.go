// Package tracing provides hooks that observe cooldown resolutions.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/cooldown/hooking"
)

// A TickTeller reports how many ticks the host has completed.
type TickTeller interface {
	TickCount() uint64
}

// CollectTrace attaches a tracer to a domain. It panics if the tracer is
// already attached.
func CollectTrace(domain hooking.Hookable, tracer hooking.Hook) {
	for _, hook := range domain.Hooks() {
		if _, isFunc := hook.(hooking.HookFunc); isFunc {
			continue
		}

		if hook == tracer {
			panic(fmt.Sprintf("domain already has tracer %s",
				reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(tracer)
}
