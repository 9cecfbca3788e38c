package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIsUniqueWithinRun(t *testing.T) {
	gen := New()
	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		id := gen.Next()
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestNextIsUniqueUnderConcurrency(t *testing.T) {
	gen := New()

	const workers = 8
	const perWorker = 1000

	ids := make([][]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids[w] = append(ids[w], gen.Next())
			}
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool, workers*perWorker)
	for _, worker := range ids {
		for _, id := range worker {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
	}
}

func TestNextIsNonNegative(t *testing.T) {
	gen := New()
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, gen.Next(), int64(0))
	}
}
