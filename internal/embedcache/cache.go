package embedcache

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache composes the hot and durable tiers behind the public interface.
type Cache struct {
	hot     *HotStore
	durable *DurableStore

	// now is swappable in tests
	now func() time.Time
}

// New creates a cache rooted at dir with the default hot-tier capacity.
func New(dir string) (*Cache, error) {
	return NewWithCapacity(dir, DefaultHotCapacity)
}

// NewWithCapacity creates a cache rooted at dir with a caller-supplied
// hot-tier capacity.
func NewWithCapacity(dir string, capacity int) (*Cache, error) {
	durable, err := NewDurableStore(dir)
	if err != nil {
		return nil, err
	}
	return &Cache{
		hot:     NewHotStore(capacity),
		durable: durable,
		now:     time.Now,
	}, nil
}

// Get returns the cached embedding for (text, model), or (nil, nil) on a
// miss. The hot tier is checked first; a durable hit populates the hot tier
// on the way out. The cache never calls an embedding provider itself.
func (c *Cache) Get(text, model string) ([]float32, error) {
	key := Key(text, model)

	if embedding, ok := c.hot.Get(key); ok {
		return embedding, nil
	}

	entry, err := c.durable.Read(key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	c.hot.Set(key, entry.Embedding)
	return entry.Embedding, nil
}

// Put stores the embedding in both tiers. The disk copy carries the model
// name and the current unix timestamp and overwrites any prior entry.
func (c *Cache) Put(text, model string, embedding []float32) error {
	key := Key(text, model)

	c.hot.Set(key, embedding)

	return c.durable.Write(Entry{
		TextHash:  key,
		Embedding: embedding,
		Model:     model,
		Timestamp: c.now().Unix(),
	})
}

// ClearOld deletes on-disk entries older than the given number of days and
// returns the number removed. Only the durable tier is pruned: an entry
// already resident in memory keeps being served until process restart.
func (c *Cache) ClearOld(days int) (int, error) {
	cutoff := c.now().Add(-time.Duration(days) * 24 * time.Hour)
	return c.durable.RemoveOlderThan(cutoff)
}

// HotLen returns the number of entries resident in the memory tier.
func (c *Cache) HotLen() int {
	return c.hot.Len()
}

// Dir returns the durable tier's directory.
func (c *Cache) Dir() string {
	return c.durable.Dir()
}

// Key computes the 64-bit content hash for a (text, model) pair.
func Key(text, model string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(text)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(model)
	return h.Sum64()
}
