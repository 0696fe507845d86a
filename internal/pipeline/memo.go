package pipeline

import (
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/mediagrid/internal/hasher"
	"github.com/AnyUserName/mediagrid/internal/layout"
	"github.com/AnyUserName/mediagrid/internal/thumbhash"
)

// memo caches pure computations by a 64-bit key. Stored values are shared
// between workers and must be treated as read-only.
type memo[V any] struct {
	mu      sync.Mutex
	entries map[uint64]V
	hits    atomic.Int64
}

func newMemo[V any]() *memo[V] {
	return &memo[V]{entries: make(map[uint64]V)}
}

// get returns the cached value for key, computing it on a miss. Two
// workers missing the same key at once both compute; the first store wins.
func (m *memo[V]) get(key uint64, compute func() V) V {
	m.mu.Lock()
	v, ok := m.entries[key]
	m.mu.Unlock()
	if ok {
		m.hits.Add(1)
		return v
	}

	v = compute()

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.entries[key]; ok {
		return prev
	}
	m.entries[key] = v
	return v
}

func (m *memo[V]) Hits() int {
	return int(m.hits.Load())
}

func (m *memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// placeholder is a decoded hash, or the reason it could not be decoded.
type placeholder struct {
	raster *thumbhash.Raster
	avg    color.NRGBA
	err    error
}

// caches groups the per-run memo tables.
type caches struct {
	layouts      *memo[layout.Result]
	placeholders *memo[placeholder]
}

func newCaches() *caches {
	return &caches{
		layouts:      newMemo[layout.Result](),
		placeholders: newMemo[placeholder](),
	}
}

func (c *caches) layout(items []layout.Dimensions, cfg layout.Config) layout.Result {
	return c.layouts.get(hasher.LayoutKey(items, cfg), func() layout.Result {
		return layout.Compute(items, cfg)
	})
}

func (c *caches) placeholder(hash string) placeholder {
	return c.placeholders.get(hasher.StringKey(hash), func() placeholder {
		raw, err := thumbhash.ParseString(hash)
		if err != nil {
			return placeholder{err: err}
		}
		r, err := thumbhash.Decode(raw)
		if err != nil {
			return placeholder{err: err}
		}
		avg, _ := thumbhash.AverageColor(raw)
		return placeholder{raster: r, avg: avg}
	})
}
