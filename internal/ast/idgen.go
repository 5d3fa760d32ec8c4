package ast

import (
	"fmt"
	"sync"
)

// IDGenerator mints opaque, monotonically increasing node identifiers of the
// form "<category>:<counter>". The counter is reset per compilation; a fresh
// generator must be created for every Compile call so identifiers are
// reproducible given identical input (see registration idempotence, spec §8).
type IDGenerator struct {
	mu      sync.Mutex
	counter map[IDCategory]int
}

// NewIDGenerator constructs a generator with all counters at zero.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{counter: make(map[IDCategory]int)}
}

// Next returns the next identifier in the given category.
func (g *IDGenerator) Next(category IDCategory) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter[category]++
	return fmt.Sprintf("%s:%d", category, g.counter[category])
}
