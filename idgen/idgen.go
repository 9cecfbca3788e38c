// Package idgen issues surrogate keys for fact rows.
//
// The contract matches a distributed monotonically-increasing id generator:
// ids are unique within a run, 64-bit, non-contiguous, carry no ordering
// guarantee and are not reproducible across reruns. Nothing downstream may
// assume density or order.
package idgen

import (
	"math/rand"
	"sync/atomic"
)

// counterBits is the width of the per-run row counter; the run nonce
// occupies the bits above it
const counterBits = 33

// Generator allocates surrogate ids: a random per-run nonce in the high bits
// plus an atomic row counter in the low bits
type Generator struct {
	base int64
	next atomic.Int64
}

func New() *Generator {
	return &Generator{
		base: rand.Int63n(1<<30) << counterBits,
	}
}

// Next returns the next surrogate id
func (g *Generator) Next() int64 {
	return g.base + g.next.Add(1) - 1
}
