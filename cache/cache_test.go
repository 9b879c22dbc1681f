package cache

import (
	"errors"
	"sync"
	"testing"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if s := c.Stats(); s.Evicts != 1 || s.Size != 2 {
		t.Errorf("Stats() = %+v; want 1 evict, size 2", s)
	}
}

func TestCacheReplace(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("a", 5)
	if v, _ := c.Get("a"); v != 5 || c.Len() != 1 {
		t.Errorf("replace failed: v=%d len=%d", v, c.Len())
	}
	c.Delete("a")
	if c.Len() != 0 {
		t.Error("Delete() did not remove the entry")
	}
}

func TestGetOrLoad(t *testing.T) {
	c := New[string, string](0)
	calls := 0
	load := func() (string, error) {
		calls++
		return "compiled", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("expr", load)
		if err != nil || v != "compiled" {
			t.Fatalf("GetOrLoad() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times; want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad("bad", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad() error = %v; want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed loads must not be cached")
	}

	s := c.Stats()
	if s.Capacity != DefaultCapacity || s.Loads != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.HitRate() <= 0 {
		t.Errorf("HitRate() = %v; want > 0", s.HitRate())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Set(i%32, g)
				c.Get(i % 32)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New[string, int](4)
	c.Set("a", 1)
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear() left entries")
	}
	if (Stats{}).HitRate() != 0 {
		t.Error("empty stats should have zero hit rate")
	}
}
