package projection

import (
	"sync"
	"time"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// PlanSource is the part of the plan model the cache reads.
type PlanSource interface {
	Version() uint64
	Document() models.ReadingPlan
}

type pageKey struct {
	version uint64
	page    int
	size    int
	anchor  string
}

// PageCache memoizes page projections by document version and view
// state. Any mutation bumps the version, so stale pages are never
// returned.
type PageCache struct {
	mu      sync.Mutex
	limit   int
	entries map[pageKey][]DayCell
	hits    int
	misses  int
}

func NewPageCache(limit int) *PageCache {
	if limit < 1 {
		limit = 16
	}
	return &PageCache{limit: limit, entries: make(map[pageKey][]DayCell)}
}

// Page returns the cells of page, with overlay labels when overlay is set.
// The cells are shared with later callers and must not be modified.
func (c *PageCache) Page(src PlanSource, page, size int, anchor time.Time, overlay bool) []DayCell {
	key := pageKey{version: src.Version(), page: page, size: size}
	if overlay {
		key.anchor = anchor.Format(time.DateOnly)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cells, ok := c.entries[key]; ok {
		c.hits++
		return cells
	}
	c.misses++

	cells := PageDays(src.Document(), page, size)
	if overlay {
		for i := range cells {
			cells[i].Label = DateLabel(anchor, cells[i].Day)
		}
	}
	if len(c.entries) >= c.limit {
		for k := range c.entries {
			if k.version != key.version {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= c.limit {
			clear(c.entries)
		}
	}
	c.entries[key] = cells
	return cells
}

// Stats reports cache hits and misses.
func (c *PageCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
