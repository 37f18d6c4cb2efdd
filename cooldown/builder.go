package cooldown

import (
	"runtime"

	"github.com/sarchlab/cooldown/hooking"
)

// Builder can be used to build a Resolver.
type Builder struct {
	parallelism int
	shards      int
	minChunk    int
	hooks       []hooking.Hook
}

// MakeBuilder creates a builder with one worker per GOMAXPROCS, 64 map shards,
// and chunks of at least 256 records.
func MakeBuilder() Builder {
	return Builder{
		parallelism: runtime.GOMAXPROCS(0),
		shards:      64,
		minChunk:    256,
	}
}

// WithParallelism sets the maximum number of workers per stage. 1 runs every
// stage on the calling goroutine.
func (b Builder) WithParallelism(n int) Builder {
	b.parallelism = n
	return b
}

// WithShards sets the number of duration map shards. It is rounded up to a
// power of two.
func (b Builder) WithShards(n int) Builder {
	b.shards = n
	return b
}

// WithMinChunkSize sets the smallest number of records handed to one worker.
func (b Builder) WithMinChunkSize(n int) Builder {
	b.minChunk = n
	return b
}

// WithHook registers a hook on the built resolver.
func (b Builder) WithHook(h hooking.Hook) Builder {
	hooks := make([]hooking.Hook, len(b.hooks), len(b.hooks)+1)
	copy(hooks, b.hooks)
	b.hooks = append(hooks, h)

	return b
}

func (b Builder) parametersMustBeValid() {
	if b.parallelism < 1 {
		panic("cooldown: parallelism must be at least 1")
	}

	if b.shards < 1 {
		panic("cooldown: shard count must be at least 1")
	}

	if b.minChunk < 1 {
		panic("cooldown: minimum chunk size must be at least 1")
	}
}

// Build creates the Resolver.
func (b Builder) Build() *Resolver {
	b.parametersMustBeValid()

	r := &Resolver{
		HookableBase: hooking.NewHookableBase(),
		pool: workPool{
			workers:  b.parallelism,
			minChunk: b.minChunk,
		},
		shards: b.shards,
	}

	for _, h := range b.hooks {
		r.AcceptHook(h)
	}

	return r
}
