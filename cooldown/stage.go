package cooldown

import (
	"fmt"
	"sync"
)

// Stage names one step of a resolution.
type Stage string

// The stages of a resolution. Collect and Seed may run concurrently; Reduce
// starts after both are joined.
const (
	StageCollect Stage = "collect"
	StageSeed    Stage = "seed"
	StageReduce  Stage = "reduce"
)

// A Completion is a handle on the workers started for one stage.
type Completion struct {
	stage Stage
	wg    sync.WaitGroup

	panicLock sync.Mutex
	panicVal  any
}

// Stage returns the stage the completion belongs to.
func (c *Completion) Stage() Stage {
	return c.stage
}

// Wait blocks until every worker of the stage has returned. If a worker
// panicked, Wait re-panics on the calling goroutine after all workers are
// done.
func (c *Completion) Wait() {
	Join(c)
}

func (c *Completion) recovered() any {
	c.panicLock.Lock()
	defer c.panicLock.Unlock()

	return c.panicVal
}

func (c *Completion) work(fn func(lo, hi int), lo, hi int) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.panicLock.Lock()
			if c.panicVal == nil {
				c.panicVal = fmt.Errorf("cooldown: %s worker [%d, %d): %v",
					c.stage, lo, hi, r)
			}
			c.panicLock.Unlock()
		}
	}()

	fn(lo, hi)
}

// Join waits for all the completions. Every worker of every stage has returned
// when Join returns or panics.
func Join(completions ...*Completion) {
	for _, c := range completions {
		c.wg.Wait()
	}

	for _, c := range completions {
		if p := c.recovered(); p != nil {
			panic(p)
		}
	}
}

// workPool splits index ranges into chunks and runs each chunk on its own
// goroutine.
type workPool struct {
	workers  int
	minChunk int
}

func (p workPool) numChunks(n int) int {
	chunks := p.workers
	if maxChunks := (n + p.minChunk - 1) / p.minChunk; chunks > maxChunks {
		chunks = maxChunks
	}

	if chunks < 1 {
		chunks = 1
	}

	return chunks
}

// run calls fn over [0, n) split into contiguous chunks. A single chunk runs
// on the calling goroutine.
func (p workPool) run(stage Stage, n int, fn func(lo, hi int)) *Completion {
	c := &Completion{stage: stage}
	if n == 0 {
		return c
	}

	chunks := p.numChunks(n)
	if chunks == 1 {
		c.wg.Add(1)
		c.work(fn, 0, n)
		return c
	}

	size := n / chunks
	extra := n % chunks
	lo := 0

	c.wg.Add(chunks)
	for i := 0; i < chunks; i++ {
		hi := lo + size
		if i < extra {
			hi++
		}

		go c.work(fn, lo, hi)
		lo = hi
	}

	return c
}
