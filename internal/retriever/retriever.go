// Package retriever coordinates the lexical index, the vector index, and
// the embedding cache behind a single session-owned facade.
//
// The core indexes are free of concurrency primitives; this package owns
// the read-write lock that lets concurrent searches overlap while
// serializing writes, which is the synchronization contract the cores
// expect from their host.
package retriever

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/docindex-mcp/internal/embedcache"
	"github.com/dshills/docindex-mcp/internal/embedder"
	"github.com/dshills/docindex-mcp/internal/searcher"
	"github.com/dshills/docindex-mcp/internal/vector"
	"github.com/dshills/docindex-mcp/pkg/types"
)

// Mode selects how a search is performed.
type Mode string

const (
	ModeHybrid  Mode = "hybrid"  // keyword + vector with RRF
	ModeVector  Mode = "vector"  // vector similarity only
	ModeKeyword Mode = "keyword" // BM25 only
)

// DefaultRRFConstant is the standard k for Reciprocal Rank Fusion.
const DefaultRRFConstant = 60.0

// Engine owns one retrieval session: both indexes, the embedding cache,
// and the provider used on cache misses.
type Engine struct {
	mu sync.RWMutex

	lexical  *searcher.Service
	vectors  *vector.Index
	cache    *embedcache.Cache
	embedder embedder.Embedder
}

// New creates an engine around the given components. The embedding cache
// may be nil, in which case every embedding is generated by the provider.
func New(lexical *searcher.Service, vectors *vector.Index, cache *embedcache.Cache, emb embedder.Embedder) *Engine {
	return &Engine{
		lexical:  lexical,
		vectors:  vectors,
		cache:    cache,
		embedder: emb,
	}
}

// IndexDocument adds a document to the lexical index and, when an embedder
// is configured, embeds the content and adds it to the vector index.
func (e *Engine) IndexDocument(ctx context.Context, path, content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.lexical.IndexDocument(path, content); err != nil {
		return err
	}

	if e.embedder == nil {
		return nil
	}

	embedding, err := e.embedding(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", path, err)
	}

	if _, err := e.vectors.AddDocument(path, embedding, snippet(content)); err != nil {
		return fmt.Errorf("failed to add %s to vector index: %w", path, err)
	}
	return nil
}

// Search runs a query in the requested mode and returns fused, ranked
// results. In hybrid mode the vector path is allowed to fail (for example
// when no embedder is configured); the keyword results are returned alone.
func (e *Engine) Search(ctx context.Context, query string, limit int, mode Mode) ([]types.RankedResult, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 10
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	switch mode {
	case ModeKeyword, "":
		keyword, err := e.lexical.Search(query, limit)
		if err != nil {
			return nil, err
		}
		return rankKeyword(keyword), nil

	case ModeVector:
		results, err := e.vectorSearch(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		return rankVector(results), nil

	case ModeHybrid:
		keyword, keywordErr := e.lexical.Search(query, limit*2)
		vectorHits, vectorErr := e.vectorSearch(ctx, query, limit*2)
		if keywordErr != nil && vectorErr != nil {
			return nil, fmt.Errorf("both searches failed: keyword=%w, vector=%v", keywordErr, vectorErr)
		}
		fused := fuseRRF(keyword, vectorHits, DefaultRRFConstant)
		if len(fused) > limit {
			fused = fused[:limit]
		}
		return fused, nil

	default:
		return nil, fmt.Errorf("unsupported search mode: %s", mode)
	}
}

// Embedding resolves the embedding for text through the cache, calling the
// provider only on a miss and writing the result back to both cache tiers.
func (e *Engine) Embedding(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.embedding(ctx, text)
}

// DocCount returns the number of lexically indexed documents.
func (e *Engine) DocCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lexical.DocCount()
}

// VectorCount returns the number of vector-indexed documents.
func (e *Engine) VectorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.vectors.Len()
}

// Clear drops both indexes. The embedding cache is left intact: embeddings
// are content-addressed and stay valid across reindexing.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lexical.Clear()
	e.vectors.Clear()
}

// PruneCache removes on-disk cache entries older than days and returns the
// number removed.
func (e *Engine) PruneCache(days int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache == nil {
		return 0, nil
	}
	return e.cache.ClearOld(days)
}

// embedding implements the cache read-through. Callers hold e.mu in either
// mode; the cache synchronizes its own tiers, so read-through under a read
// lock is safe.
func (e *Engine) embedding(ctx context.Context, text string) ([]float32, error) {
	if e.embedder == nil {
		return nil, embedder.ErrProviderFailed
	}

	if e.cache != nil {
		cached, err := e.cache.Get(text, e.embedder.Model())
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return cached, nil
		}
	}

	generated, err := e.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Put(text, e.embedder.Model(), generated); err != nil {
			return nil, err
		}
	}
	return generated, nil
}

func (e *Engine) vectorSearch(ctx context.Context, query string, limit int) ([]types.VectorSearchResult, error) {
	embedding, err := e.embedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return e.vectors.Search(embedding, limit)
}

// fuseRRF combines the two result lists with Reciprocal Rank Fusion:
// score(d) = sum over lists of 1/(k + rank(d)).
func fuseRRF(keyword []types.SearchResult, vectorHits []types.VectorSearchResult, k float64) []types.RankedResult {
	scores := make(map[string]float64)
	snippets := make(map[string]string)

	for rank, r := range keyword {
		scores[r.Path] += 1.0 / (k + float64(rank+1))
		snippets[r.Path] = r.Snippet
	}
	for rank, r := range vectorHits {
		scores[r.Path] += 1.0 / (k + float64(rank+1))
		if _, ok := snippets[r.Path]; !ok {
			snippets[r.Path] = r.Snippet
		}
	}

	fused := make([]types.RankedResult, 0, len(scores))
	for path, score := range scores {
		fused = append(fused, types.RankedResult{
			Path:    path,
			Score:   score,
			Snippet: snippets[path],
		})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].Path < fused[j].Path
	})

	for i := range fused {
		fused[i].Rank = i + 1
	}
	return fused
}

func rankKeyword(results []types.SearchResult) []types.RankedResult {
	ranked := make([]types.RankedResult, len(results))
	for i, r := range results {
		ranked[i] = types.RankedResult{
			Path:    r.Path,
			Rank:    i + 1,
			Score:   float64(r.Score),
			Snippet: r.Snippet,
		}
	}
	return ranked
}

func rankVector(results []types.VectorSearchResult) []types.RankedResult {
	ranked := make([]types.RankedResult, len(results))
	for i, r := range results {
		ranked[i] = types.RankedResult{
			Path:    r.Path,
			Rank:    i + 1,
			Score:   float64(r.Score),
			Snippet: r.Snippet,
		}
	}
	return ranked
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= searcher.SnippetLength {
		return content
	}
	return string(runes[:searcher.SnippetLength])
}
