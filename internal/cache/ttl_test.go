package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestTTLCache_GetWithinTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[string](DefaultTTL, 0).WithClock(clock.Now)

	stored := c.Set("a", "ledger-a")
	assert.Equal(t, clock.Now(), stored.FetchedAt)

	tests := []struct {
		name    string
		advance time.Duration
		wantHit bool
	}{
		{name: "fresh", advance: 0, wantHit: true},
		{name: "just before expiry", advance: 59 * time.Second, wantHit: true},
		{name: "at expiry", advance: time.Second, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.Advance(tt.advance)
			entry, ok := c.Get("a")
			assert.Equal(t, tt.wantHit, ok)
			if ok {
				assert.Equal(t, "ledger-a", entry.Value)
			}
		})
	}

	assert.Equal(t, 0, c.Size(), "expired entry is dropped on read")
}

func TestTTLCache_Expired(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[int](time.Minute, 0).WithClock(clock.Now)
	e := c.Set("k", 1)

	assert.False(t, c.Expired(e, clock.Now().Add(30*time.Second)))
	assert.True(t, c.Expired(e, clock.Now().Add(time.Minute)))
	assert.Equal(t, 30*time.Second, e.Age(clock.Now().Add(30*time.Second)))
}

func TestTTLCache_ZeroTTLNeverHits(t *testing.T) {
	c := NewTTLCache[int](0, 0)
	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_SetReplacesAndRestamps(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[int](time.Minute, 0).WithClock(clock.Now)

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	entry, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Value)
	assert.Equal(t, 1, c.Size())
}

func TestTTLCache_InvalidateAndClear(t *testing.T) {
	c := NewTTLCache[int](time.Minute, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	assert.True(t, c.Invalidate("a"))
	assert.False(t, c.Invalidate("a"))
	_, ok := c.Get("a")
	assert.False(t, ok)

	assert.Equal(t, 2, c.Clear())
	assert.Equal(t, 0, c.Size())

	c.Set("d", 4)
	_, ok = c.Get("d")
	assert.True(t, ok, "cache is usable after Clear")
}

func TestTTLCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTTLCache[int](time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	_, okC := c.Get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestTTLCache_CleanExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[int](time.Minute, 0).WithClock(clock.Now)

	c.Set("old", 1)
	clock.Advance(45 * time.Second)
	c.Set("new", 2)
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c := NewTTLCache[int](time.Minute, 8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%4))
			c.Set(key, i)
			_, _ = c.Get(key)
			if i%5 == 0 {
				c.Invalidate(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), 4)
}
