package tui

import (
	"sync"

	"github.com/javiermolinar/tock/internal/block"
)

// dayCache keeps the last fetched list per day so moving between days
// renders immediately while the fresh list loads.
type dayCache struct {
	mu   sync.Mutex
	days map[int64][]block.Block
}

func newDayCache() *dayCache {
	return &dayCache{days: make(map[int64][]block.Block)}
}

func cacheKey(q block.Query) int64 {
	return q.From.Unix()
}

func (c *dayCache) get(q block.Query) ([]block.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	blocks, ok := c.days[cacheKey(q)]
	return block.Clone(blocks), ok
}

func (c *dayCache) put(q block.Query, blocks []block.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days[cacheKey(q)] = block.Clone(blocks)
}

// invalidate drops the cached list for q.
func (c *dayCache) invalidate(q block.Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.days, cacheKey(q))
}
