// Package idgen provides sequential ID generators for actors and effects.
package idgen

import "sync/atomic"

// ID is a unique identifier represented as a uint64. The zero ID is never
// generated and can be used as "no id".
type ID uint64

// Generator produces unique identifiers.
type Generator interface {
	Generate() ID
}

// New returns a sequential generator whose first emitted ID is "1". It is
// safe for concurrent use.
func New() Generator {
	return &sequentialGenerator{}
}

type sequentialGenerator struct {
	next atomic.Uint64
}

func (g *sequentialGenerator) Generate() ID {
	return ID(g.next.Add(1))
}
