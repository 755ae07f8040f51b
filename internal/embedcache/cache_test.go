package embedcache

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	text := "Hello, world!"
	model := "test-model"
	embedding := []float32{0.1, 0.2, 0.3}

	got, err := cache.Get(text, model)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Put(text, model, embedding))

	got, err = cache.Get(text, model)
	require.NoError(t, err)
	assert.Equal(t, embedding, got)
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	embedding := []float32{1.0, 2.0, 3.0}

	first, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put("test", "model", embedding))

	// A fresh instance must read the entry back from disk, bit for bit.
	second, err := New(dir)
	require.NoError(t, err)
	got, err := second.Get("test", "model")
	require.NoError(t, err)
	assert.Equal(t, embedding, got)

	// The durable hit populated the hot tier.
	assert.Equal(t, 1, second.HotLen())
}

func TestCacheKeyedByTextAndModel(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cache.Put("same text", "model-a", []float32{1}))
	require.NoError(t, cache.Put("same text", "model-b", []float32{2}))

	a, err := cache.Get("same text", "model-a")
	require.NoError(t, err)
	b, err := cache.Get("same text", "model-b")
	require.NoError(t, err)

	assert.Equal(t, []float32{1}, a)
	assert.Equal(t, []float32{2}, b)
}

func TestPutOverwrites(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cache.Put("text", "model", []float32{1, 1}))
	require.NoError(t, cache.Put("text", "model", []float32{2, 2}))

	got, err := cache.Get("text", "model")
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2}, got)
}

func TestClearOld(t *testing.T) {
	dir := t.TempDir()
	cache, err := New(dir)
	require.NoError(t, err)

	// A stale entry, written directly with a backdated timestamp.
	staleKey := Key("old text", "model")
	durable, err := NewDurableStore(dir)
	require.NoError(t, err)
	require.NoError(t, durable.Write(Entry{
		TextHash:  staleKey,
		Embedding: []float32{0.5},
		Model:     "model",
		Timestamp: time.Now().Add(-10 * 24 * time.Hour).Unix(),
	}))

	// A fresh entry that must survive.
	require.NoError(t, cache.Put("new text", "model", []float32{0.9}))

	removed, err := cache.ClearOld(7)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, 1)

	_, err = os.Stat(filepath.Join(dir, strconv.FormatUint(staleKey, 10)+".json"))
	assert.True(t, os.IsNotExist(err))

	got, err := cache.Get("new text", "model")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.9}, got)
}

func TestClearOldLeavesHotTier(t *testing.T) {
	dir := t.TempDir()
	cache, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, cache.Put("text", "model", []float32{0.3}))

	// Backdate the cache clock so the entry written above looks ancient
	// to the pruner.
	cache.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }

	removed, err := cache.ClearOld(7)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// The hot tier still serves the pruned entry: the two tiers are only
	// reconciled by a process restart.
	got, err := cache.Get("text", "model")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.3}, got)

	// A fresh instance over the same directory misses.
	fresh, err := New(dir)
	require.NoError(t, err)
	got, err = fresh.Get("text", "model")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClearOldSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	cache, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	removed, err := cache.ClearOld(0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestHotTierEvictsLRU(t *testing.T) {
	cache, err := NewWithCapacity(t.TempDir(), 2)
	require.NoError(t, err)

	require.NoError(t, cache.Put("a", "m", []float32{1}))
	require.NoError(t, cache.Put("b", "m", []float32{2}))

	// Touch "a" so "b" becomes least recently used.
	_, err = cache.Get("a", "m")
	require.NoError(t, err)

	require.NoError(t, cache.Put("c", "m", []float32{3}))
	assert.Equal(t, 2, cache.HotLen())

	// "b" was evicted from memory but remains durable, so the next Get
	// reads through from disk.
	got, err := cache.Get("b", "m")
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, got)
}

func TestKeyIsStable(t *testing.T) {
	k1 := Key("text", "model")
	k2 := Key("text", "model")
	assert.Equal(t, k1, k2)

	assert.NotEqual(t, Key("text", "model"), Key("text", "other"))
	assert.NotEqual(t, Key("text", "model"), Key("other", "model"))
}
