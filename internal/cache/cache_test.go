package cache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pagelens/pagelens/internal/cache"
	"github.com/pagelens/pagelens/internal/model"
)

func report(target string) *model.AnalysisReport {
	return &model.AnalysisReport{Success: true, Target: model.AnalysisTarget(target)}
}

func TestMemoryCache_PutGetInvalidate(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache(nil)
	target := model.AnalysisTarget("https://example.com")

	if _, ok := c.Get(target); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	r := report("https://example.com")
	c.Put(target, r)

	got, ok := c.Get(target)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got != r {
		t.Error("Get returned a different report pointer; entries must come back unchanged")
	}

	c.Invalidate(target)
	if _, ok := c.Get(target); ok {
		t.Fatal("hit after Invalidate")
	}
}

func TestMemoryCache_ZeroTargetAndNilReportIgnored(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache(nil)
	c.Put("", report("x"))
	c.Put("https://example.com", nil)
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestMemoryCache_KeepAllNeverEvicts(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache(cache.KeepAll{})
	for i := 0; i < 100; i++ {
		target := model.AnalysisTarget(fmt.Sprintf("https://example.com/%d", i))
		c.Put(target, report(string(target)))
	}
	if c.Len() != 100 {
		t.Errorf("Len = %d, want 100", c.Len())
	}
}

func TestMemoryCache_LRUEvictsOldest(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache(cache.LRU{MaxEntries: 2})
	c.Put("a", report("a"))
	c.Put("b", report("b"))

	// Touch "a" so "b" becomes the least recently used.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	c.Put("c", report("c"))
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache(cache.LRU{MaxEntries: 8})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := model.AnalysisTarget(fmt.Sprintf("https://example.com/%d", i%4))
			for j := 0; j < 50; j++ {
				c.Put(target, report(string(target)))
				c.Get(target)
			}
		}(i)
	}
	wg.Wait()
}
