package citation

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builder(calls *atomic.Int32) func() (*Facade, error) {
	return func() (*Facade, error) {
		calls.Add(1)
		return NewFacade(sampleLayout(), sampleCitations(), Policy{}), nil
	}
}

func TestCacheMemoizes(t *testing.T) {
	c := NewCache(4)
	var calls atomic.Int32
	key := Key{Source: "a.json", Document: "d1", Citations: "c1"}

	first, err := c.Get(key, builder(&calls))
	require.NoError(t, err)
	second, err := c.Get(key, builder(&calls))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCacheNewCitationsMiss(t *testing.T) {
	c := NewCache(4)
	var calls atomic.Int32

	a, _ := c.Get(Key{Source: "a.json", Document: "d1", Citations: "c1"}, builder(&calls))
	b, _ := c.Get(Key{Source: "a.json", Document: "d1", Citations: "c2"}, builder(&calls))

	assert.NotSame(t, a, b)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(4)
	var calls atomic.Int32
	_, _ = c.Get(Key{Source: "a.json", Citations: "1"}, builder(&calls))
	_, _ = c.Get(Key{Source: "a.json", Citations: "2"}, builder(&calls))
	_, _ = c.Get(Key{Source: "b.json", Citations: "1"}, builder(&calls))

	assert.Equal(t, 2, c.Invalidate("a.json"))
	assert.Equal(t, 1, c.Len())

	_, _ = c.Get(Key{Source: "a.json", Citations: "1"}, builder(&calls))
	assert.Equal(t, int32(4), calls.Load())

	c.Reset()
	assert.Zero(t, c.Len())
}

func TestCacheDropsBuildStaleAfterInvalidate(t *testing.T) {
	c := NewCache(4)
	key := Key{Source: "a.json"}

	_, err := c.Get(key, func() (*Facade, error) {
		c.Invalidate("a.json")
		return NewFacade(nil, nil, Policy{}), nil
	})
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestCacheErrorsNotCached(t *testing.T) {
	c := NewCache(4)
	boom := errors.New("boom")
	key := Key{Source: "a.json"}

	_, err := c.Get(key, func() (*Facade, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())

	var calls atomic.Int32
	_, err = c.Get(key, builder(&calls))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	var calls atomic.Int32
	a, b, d := Key{Source: "a"}, Key{Source: "b"}, Key{Source: "d"}

	_, _ = c.Get(a, builder(&calls))
	_, _ = c.Get(b, builder(&calls))
	_, _ = c.Get(a, builder(&calls))
	_, _ = c.Get(d, builder(&calls))
	assert.Equal(t, int32(3), calls.Load())

	_, _ = c.Get(a, builder(&calls))
	assert.Equal(t, int32(3), calls.Load(), "a was used recently")
	_, _ = c.Get(b, builder(&calls))
	assert.Equal(t, int32(4), calls.Load(), "b was evicted")
}

func TestCacheConcurrentGet(t *testing.T) {
	c := NewCache(0)
	var calls atomic.Int32
	key := Key{Source: "a.json", Document: "d", Citations: "c"}

	var wg sync.WaitGroup
	results := make([]*Facade, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := c.Get(key, builder(&calls))
			assert.NoError(t, err)
			results[i] = f
		}(i)
	}
	wg.Wait()

	for _, f := range results {
		assert.Same(t, results[0], f)
	}
	assert.LessOrEqual(t, calls.Load(), int32(16))
}

func TestCacheGenerationTableBounded(t *testing.T) {
	c := NewCache(2)
	var calls atomic.Int32
	kept := Key{Source: "kept.json"}
	_, err := c.Get(kept, builder(&calls))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		c.Invalidate(fmt.Sprintf("gone-%d.json", i))
	}
	c.mu.Lock()
	n := len(c.generations)
	c.mu.Unlock()
	assert.LessOrEqual(t, n, c.generationLimit())

	// Folding the table leaves facades for untouched sources in place.
	_, err = c.Get(kept, builder(&calls))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	c.Reset()
	c.mu.Lock()
	assert.Empty(t, c.generations)
	c.mu.Unlock()
}

func TestCacheDropsBuildStaleAfterGenerationFold(t *testing.T) {
	c := NewCache(1)
	key := Key{Source: "a.json"}

	_, err := c.Get(key, func() (*Facade, error) {
		for i := 0; i <= c.generationLimit(); i++ {
			c.Invalidate(fmt.Sprintf("other-%d.json", i))
		}
		return NewFacade(nil, nil, Policy{}), nil
	})
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}
