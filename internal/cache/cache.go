package cache

import (
	"container/list"
	"sync"

	"github.com/pagelens/pagelens/internal/model"
)

// ResultCache memoizes finished reports by analysis target within a process
// lifetime. The orchestrator consults it once at the very start of a run; a
// hit short-circuits every phase and returns the stored report unchanged,
// even if it is stale. Staleness is the caller's problem: Invalidate (or a
// bounded eviction policy) is the only way entries leave.
type ResultCache interface {
	Get(target model.AnalysisTarget) (*model.AnalysisReport, bool)
	Put(target model.AnalysisTarget, report *model.AnalysisReport)
	Invalidate(target model.AnalysisTarget)
	Len() int
}

// Policy decides which entry to evict when the cache is asked to make room.
// Returning false means "evict nothing" (unbounded growth).
type Policy interface {
	// Admit is called on Put with the current size; when it returns a target
	// and true, that entry is evicted before the new one is stored.
	Admit(size int, order []model.AnalysisTarget) (model.AnalysisTarget, bool)
}

// KeepAll never evicts. This matches the original observed behavior; pair it
// with explicit Invalidate calls when deployments re-audit targets.
type KeepAll struct{}

func (KeepAll) Admit(int, []model.AnalysisTarget) (model.AnalysisTarget, bool) {
	return "", false
}

// LRU evicts the least-recently-used entry once the cache holds MaxEntries.
type LRU struct {
	MaxEntries int
}

func (p LRU) Admit(size int, order []model.AnalysisTarget) (model.AnalysisTarget, bool) {
	if p.MaxEntries <= 0 || size < p.MaxEntries || len(order) == 0 {
		return "", false
	}
	return order[0], true
}

// MemoryCache is the process-local ResultCache. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[model.AnalysisTarget]*list.Element
	// recency is ordered least- to most-recently used.
	recency *list.List
	policy  Policy
}

type entry struct {
	target model.AnalysisTarget
	report *model.AnalysisReport
}

// NewMemoryCache builds a cache with the given eviction policy; nil means
// KeepAll.
func NewMemoryCache(policy Policy) *MemoryCache {
	if policy == nil {
		policy = KeepAll{}
	}
	return &MemoryCache{
		entries: make(map[model.AnalysisTarget]*list.Element),
		recency: list.New(),
		policy:  policy,
	}
}

func (c *MemoryCache) Get(target model.AnalysisTarget) (*model.AnalysisReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[target]
	if !ok {
		return nil, false
	}
	c.recency.MoveToBack(el)
	return el.Value.(*entry).report, true
}

func (c *MemoryCache) Put(target model.AnalysisTarget, report *model.AnalysisReport) {
	if target.IsZero() || report == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[target]; ok {
		el.Value.(*entry).report = report
		c.recency.MoveToBack(el)
		return
	}

	if victim, evict := c.policy.Admit(len(c.entries), c.orderLocked()); evict {
		c.removeLocked(victim)
	}
	el := c.recency.PushBack(&entry{target: target, report: report})
	c.entries[target] = el
}

func (c *MemoryCache) Invalidate(target model.AnalysisTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(target)
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) removeLocked(target model.AnalysisTarget) {
	if el, ok := c.entries[target]; ok {
		c.recency.Remove(el)
		delete(c.entries, target)
	}
}

func (c *MemoryCache) orderLocked() []model.AnalysisTarget {
	out := make([]model.AnalysisTarget, 0, len(c.entries))
	for el := c.recency.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry).target)
	}
	return out
}
