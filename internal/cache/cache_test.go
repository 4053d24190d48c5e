// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10, nil)

	c.Set("key1", 42)
	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v, want 42, true", val, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a value")
	}
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Len != 1 || s.Capacity != 10 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[string, int](2, func(k string, _ int) { evicted = append(evicted, k) })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("evicted = %v, want [b]", evicted)
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry a was evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheReplaceEvictsOldValue(t *testing.T) {
	var got []int
	c := New[string, int](0, func(_ string, v int) { got = append(got, v) })
	c.Set("k", 1)
	c.Set("k", 2)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("evicted values = %v, want [1]", got)
	}
	if v, _ := c.Get("k"); v != 2 {
		t.Errorf("Get(k) = %d, want 2", v)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10, nil)
	calls := 0
	create := func() (int, error) {
		calls++
		return 100, nil
	}

	for range 3 {
		v, err := c.GetOrCreate("key", create)
		if err != nil || v != 100 {
			t.Fatalf("GetOrCreate() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	errBoom := errors.New("boom")
	if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, errBoom }); !errors.Is(err, errBoom) {
		t.Errorf("GetOrCreate(failing) error = %v", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed create was cached")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	evicted := 0
	c := New[int, string](0, func(int, string) { evicted++ })
	for i := range 5 {
		c.Set(i, strconv.Itoa(i))
	}
	if !c.Delete(3) || c.Delete(3) {
		t.Error("Delete(3) should succeed once")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if evicted != 5 {
		t.Errorf("evicted = %d, want 5", evicted)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](64, nil)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := (g*200 + i) % 100
				_, _ = c.GetOrCreate(key, func() (int, error) { return key * 2, nil })
			}
		}()
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len() = %d exceeds capacity 64", c.Len())
	}
}
