package cmap

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func intOf(v int) func() int {
	return func() int { return v }
}

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{4, 4},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[int](tt.input)
			if got := len(m.shards); got != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetOrCreate(t *testing.T) {
	m := New[int]()

	v, created := m.GetOrCreate("k", intOf(7))
	if !created || v != 7 {
		t.Errorf("first GetOrCreate = (%d, %v), want (7, true)", v, created)
	}

	v, created = m.GetOrCreate("k", intOf(9))
	if created || v != 7 {
		t.Errorf("second GetOrCreate = (%d, %v), want (7, false)", v, created)
	}

	m.GetOrCreate("other", intOf(1))
	if got := m.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	m := New[*int]()
	var calls atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.GetOrCreate("shared", func() *int {
				calls.Add(1)
				return new(int)
			})
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("create called %d times, want 1", got)
	}
}

func TestDeleteFunc(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 100; i++ {
		m.GetOrCreate(fmt.Sprintf("key-%d", i), intOf(i))
	}

	removed := m.DeleteFunc(func(_ string, v int) bool { return v%2 == 0 })
	if removed != 50 {
		t.Errorf("DeleteFunc removed %d, want 50", removed)
	}
	if got := m.Count(); got != 50 {
		t.Errorf("Count() = %d, want 50", got)
	}

	// A removed key is created again; a kept one is not.
	if _, created := m.GetOrCreate("key-2", intOf(-1)); !created {
		t.Error("key-2 should have been removed")
	}
	if v, created := m.GetOrCreate("key-3", intOf(-1)); created || v != 3 {
		t.Errorf("key-3 = (%d, %v), want (3, false)", v, created)
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				m.GetOrCreate(fmt.Sprintf("g%d-%d", g, i), intOf(i))
				if i%50 == 0 {
					m.DeleteFunc(func(string, int) bool { return false })
				}
			}
		}(g)
	}
	wg.Wait()

	if got := m.Count(); got != 1600 {
		t.Errorf("Count() = %d, want 1600", got)
	}
}
