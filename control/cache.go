package control

import "termchess-local/types"

// cacheDepth is the number of ply entries kept alive.
const cacheDepth = 2

// BoardsCache holds, per ply, every board reachable by one legal move from
// the position at that ply. Only the two most recently generated plies are
// retained.
type BoardsCache struct {
	entries map[int][]types.Board
	recent  []int // oldest first
}

// NewBoardsCache returns an empty cache.
func NewBoardsCache() *BoardsCache {
	return &BoardsCache{entries: make(map[int][]types.Board)}
}

// Store records the boards for ply, dropping the oldest entry when the
// cache is full. An empty slice is a valid entry.
func (c *BoardsCache) Store(ply int, boards []types.Board) {
	if boards == nil {
		boards = []types.Board{}
	}
	c.forgetKey(ply)
	if len(c.recent) == cacheDepth {
		delete(c.entries, c.recent[0])
		c.recent = c.recent[1:]
	}
	c.entries[ply] = boards
	c.recent = append(c.recent, ply)
}

// Get returns the boards stored for ply.
func (c *BoardsCache) Get(ply int) ([]types.Board, bool) {
	b, ok := c.entries[ply]
	return b, ok
}

// Evict removes the entry for ply if present.
func (c *BoardsCache) Evict(ply int) {
	if _, ok := c.entries[ply]; !ok {
		return
	}
	delete(c.entries, ply)
	c.forgetKey(ply)
}

// Len returns the number of live entries.
func (c *BoardsCache) Len() int {
	return len(c.entries)
}

// Plies returns the live keys, oldest first.
func (c *BoardsCache) Plies() []int {
	return append([]int(nil), c.recent...)
}

func (c *BoardsCache) forgetKey(ply int) {
	for i, k := range c.recent {
		if k == ply {
			c.recent = append(c.recent[:i], c.recent[i+1:]...)
			return
		}
	}
}
