package collection

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// newestFirst orders records newest-first with ID as tiebreaker, the
// ordering used for albums, posts and sponsors.
func newestFirst(a, b record) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func newTestCache() *Cache[record] {
	return New(func(r record) int64 { return r.ID }, newestFirst)
}

func TestLoadSortsSnapshot(t *testing.T) {
	c := newTestCache()
	base := time.Now()

	c.Load([]record{
		{ID: 1, Title: "oldest", CreatedAt: base},
		{ID: 3, Title: "newest", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Title: "middle", CreatedAt: base.Add(time.Minute)},
	})

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int64{3, 2, 1}, ids(items))
	assert.True(t, c.Loaded())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := newTestCache()
	c.Load([]record{{ID: 1, Title: "a", CreatedAt: time.Now()}})

	items := c.Items()
	items[0].Title = "mutated"

	again := c.Items()
	assert.Equal(t, "a", again[0].Title)
}

func TestApplyInsertKeepsOrder(t *testing.T) {
	c := newTestCache()
	base := time.Now()
	c.Load([]record{
		{ID: 1, CreatedAt: base},
		{ID: 3, CreatedAt: base.Add(2 * time.Minute)},
	})

	c.ApplyInsert(record{ID: 2, CreatedAt: base.Add(time.Minute)})

	assert.Equal(t, []int64{3, 2, 1}, ids(c.Items()))
}

func TestApplyInsertIdempotent(t *testing.T) {
	c := newTestCache()
	c.Load(nil)

	r := record{ID: 1, Title: "once", CreatedAt: time.Now()}
	c.ApplyInsert(r)
	c.ApplyInsert(r)

	require.Equal(t, 1, c.Len())
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "once", got.Title)
}

func TestApplyUpdateResorts(t *testing.T) {
	c := newTestCache()
	base := time.Now()
	c.Load([]record{
		{ID: 1, CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(time.Minute)},
	})

	// Bump record 1 to the front by moving its sort key forward.
	c.ApplyUpdate(record{ID: 1, Title: "bumped", CreatedAt: base.Add(2 * time.Minute)})

	items := c.Items()
	assert.Equal(t, []int64{1, 2}, ids(items))
	assert.Equal(t, "bumped", items[0].Title)
}

func TestApplyUpdateAfterDeleteStaysDeleted(t *testing.T) {
	c := newTestCache()
	c.Load([]record{{ID: 1, Title: "original", CreatedAt: time.Now()}})

	// An editor's update lands after another editor deleted the record.
	c.ApplyDelete(1)
	c.ApplyUpdate(record{ID: 1, Title: "resurrected", CreatedAt: time.Now()})

	_, ok := c.Get(1)
	assert.False(t, ok, "update of a deleted record must not re-insert it")
	assert.Equal(t, 0, c.Len())
}

func TestApplyDelete(t *testing.T) {
	c := newTestCache()
	base := time.Now()
	c.Load([]record{
		{ID: 1, CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(time.Minute)},
	})

	c.ApplyDelete(1)
	assert.Equal(t, []int64{2}, ids(c.Items()))

	// Deleting again, or deleting an unknown ID, is a no-op.
	c.ApplyDelete(1)
	c.ApplyDelete(999)
	assert.Equal(t, 1, c.Len())
}

func TestGetMissing(t *testing.T) {
	c := newTestCache()
	c.Load(nil)

	_, ok := c.Get(42)
	assert.False(t, ok)
}

func TestNotLoadedInitially(t *testing.T) {
	c := newTestCache()
	assert.False(t, c.Loaded())
	assert.Empty(t, c.Items())
}

func TestConcurrentMutations(t *testing.T) {
	c := newTestCache()
	c.Load(nil)
	base := time.Now()

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			c.ApplyInsert(record{ID: id, CreatedAt: base.Add(time.Duration(id) * time.Second)})
			c.Items()
			if id%2 == 0 {
				c.ApplyDelete(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, c.Len())
	// Snapshot stays fully ordered.
	items := c.Items()
	for i := 1; i < len(items); i++ {
		assert.True(t, newestFirst(items[i-1], items[i]),
			"items[%d] and items[%d] out of order", i-1, i)
	}
}

func ids(items []record) []int64 {
	out := make([]int64, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}
