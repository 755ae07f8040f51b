package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docindex-mcp/internal/embedcache"
	"github.com/dshills/docindex-mcp/internal/embedder"
	"github.com/dshills/docindex-mcp/internal/indexer"
	"github.com/dshills/docindex-mcp/internal/retriever"
	"github.com/dshills/docindex-mcp/internal/searcher"
	"github.com/dshills/docindex-mcp/internal/vector"
)

// newTestEngine wires up a complete retrieval engine backed by a
// throwaway cache directory and the offline embedder.
func newTestEngine(t *testing.T) *retriever.Engine {
	t.Helper()

	cache, err := embedcache.New(t.TempDir())
	require.NoError(t, err)

	return retriever.New(
		searcher.New(),
		vector.New(),
		cache,
		embedder.NewLocal(64),
	)
}

// writeFixtureTree lays out a small documentation corpus on disk.
func writeFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"README.md":          "Project overview. The indexing pipeline turns documents into search results.",
		"docs/install.md":    "Installation guide: download the binary and run it from your shell.",
		"docs/search.md":     "Search supports keyword queries, vector similarity, and a hybrid mode.",
		"src/engine.go":      "package engine\n\n// Engine coordinates the lexical and vector indexes.",
		".hidden/secret.md":  "this file lives under a hidden directory and must not be indexed",
		"assets/logo.bin":    "\xff\xfe\x00binary-ish payload",
		"notes/.private.txt": "hidden file, not indexed",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestIndexDirectoryThenSearch(t *testing.T) {
	engine := newTestEngine(t)
	root := writeFixtureTree(t)
	ctx := context.Background()

	stats, err := indexer.New(engine).IndexDirectory(ctx, root, nil)
	require.NoError(t, err)

	// README, install, search, engine.go; hidden dir/file and .bin excluded
	assert.Equal(t, 4, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Equal(t, 4, engine.DocCount())
	assert.Equal(t, 4, engine.VectorCount())

	results, err := engine.Search(ctx, "installation guide", 10, retriever.ModeKeyword)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, filepath.Join("docs", "install.md"), results[0].Path)
	assert.Contains(t, results[0].Snippet, "Installation guide")
}

func TestHybridSearchRanksSharedHitsFirst(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	docs := map[string]string{
		"search.md":  "Search supports keyword queries and hybrid retrieval modes.",
		"install.md": "Installation guide for the command line binary.",
		"faq.md":     "Frequently asked questions about configuration.",
	}
	for path, content := range docs {
		require.NoError(t, engine.IndexDocument(ctx, path, content))
	}

	results, err := engine.Search(ctx, "hybrid keyword search", 3, retriever.ModeHybrid)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "search.md", results[0].Path)
	assert.Equal(t, 1, results[0].Rank)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestVectorSearchFindsSemanticDuplicate(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.IndexDocument(ctx, "a.md", "the quick brown fox jumps over the lazy dog"))
	require.NoError(t, engine.IndexDocument(ctx, "b.md", "completely unrelated text about databases"))

	results, err := engine.Search(ctx, "the quick brown fox jumps over the lazy dog", 2, retriever.ModeVector)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.md", results[0].Path)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestEmbeddingCacheSurvivesEngineRestart(t *testing.T) {
	cacheDir := t.TempDir()
	ctx := context.Background()

	build := func(emb embedder.Embedder) *retriever.Engine {
		cache, err := embedcache.New(cacheDir)
		require.NoError(t, err)
		return retriever.New(searcher.New(), vector.New(), cache, emb)
	}

	first := build(embedder.NewLocal(64))
	require.NoError(t, first.IndexDocument(ctx, "doc.md", "cached embedding content"))

	counting := &countingEmbedder{inner: embedder.NewLocal(64)}
	second := build(counting)
	require.NoError(t, second.IndexDocument(ctx, "doc.md", "cached embedding content"))

	// The durable tier already holds this text, so the provider is idle.
	assert.Equal(t, 0, counting.calls)
}

func TestClearIndexLeavesCacheIntact(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.IndexDocument(ctx, "doc.md", "some content to cache"))
	require.Equal(t, 1, engine.DocCount())

	engine.Clear()
	assert.Equal(t, 0, engine.DocCount())
	assert.Equal(t, 0, engine.VectorCount())

	emb, err := engine.Embedding(ctx, "some content to cache")
	require.NoError(t, err)
	assert.NotEmpty(t, emb)
}

func TestPruneCacheKeepsFreshEntries(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.IndexDocument(ctx, "doc.md", "content to keep"))

	removed, err := engine.PruneCache(30)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

// countingEmbedder counts provider calls to verify cache hits.
type countingEmbedder struct {
	inner embedder.Embedder
	calls int
}

func (c *countingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.GenerateEmbedding(ctx, text)
}

func (c *countingEmbedder) Dimension() int { return c.inner.Dimension() }
func (c *countingEmbedder) Model() string  { return c.inner.Model() }
func (c *countingEmbedder) Close() error   { return c.inner.Close() }
