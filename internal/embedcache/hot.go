package embedcache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultHotCapacity bounds the in-memory tier.
const DefaultHotCapacity = 1000

// HotStore is the bounded in-memory tier. Eviction is least-recently-used,
// so which entries survive at capacity is deterministic.
type HotStore struct {
	cache *lru.Cache[uint64, []float32]
}

// NewHotStore creates a hot store with the given capacity. Non-positive
// capacities fall back to DefaultHotCapacity.
func NewHotStore(capacity int) *HotStore {
	if capacity <= 0 {
		capacity = DefaultHotCapacity
	}
	cache, err := lru.New[uint64, []float32](capacity)
	if err != nil {
		// lru.New only fails for non-positive sizes, which the guard
		// above rules out.
		panic(err)
	}
	return &HotStore{cache: cache}
}

// Get returns a copy of the cached embedding so caller mutations cannot
// corrupt the cached value.
func (h *HotStore) Get(key uint64) ([]float32, bool) {
	embedding, ok := h.cache.Get(key)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(embedding))
	copy(out, embedding)
	return out, true
}

// Set stores an embedding, evicting the least recently used entry when at
// capacity.
func (h *HotStore) Set(key uint64, embedding []float32) {
	stored := make([]float32, len(embedding))
	copy(stored, embedding)
	h.cache.Add(key, stored)
}

// Len returns the number of resident entries.
func (h *HotStore) Len() int {
	return h.cache.Len()
}

// Purge empties the store.
func (h *HotStore) Purge() {
	h.cache.Purge()
}
