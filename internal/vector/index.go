// Package vector implements a flat embedding store with exhaustive
// cosine-similarity search. Embeddings are produced by an external provider;
// this package only stores and ranks them.
package vector

import (
	"math"
	"sort"

	"github.com/dshills/docindex-mcp/pkg/types"
)

// Document is a stored embedding with its source path and snippet.
type Document struct {
	// ID is assigned sequentially starting at 0. IDs are unique within a
	// generation between Clear calls; Clear resets the counter.
	ID        int
	Path      string
	Embedding []float32
	Snippet   string
}

// Index is a flat vector index. Search is a linear scan, O(n*d) per query;
// there is deliberately no approximate nearest-neighbor structure.
//
// All embeddings in a live index share exactly one dimensionality, fixed by
// the first successful insert. Violating inserts and queries are rejected,
// never truncated or padded.
//
// The index performs no internal synchronization; concurrent callers must
// add their own lock.
type Index struct {
	documents  []Document
	dimensions int // 0 means unset
	nextID     int
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// AddDocument appends an embedding and returns its assigned id.
// It fails with types.ErrEmptyEmbedding for a zero-length embedding and
// with a types.DimensionMismatchError when the embedding's length disagrees
// with the index's established dimensionality.
func (idx *Index) AddDocument(path string, embedding []float32, snippet string) (int, error) {
	if len(embedding) == 0 {
		return 0, types.ErrEmptyEmbedding
	}

	if idx.dimensions != 0 && len(embedding) != idx.dimensions {
		return 0, &types.DimensionMismatchError{
			Expected: idx.dimensions,
			Got:      len(embedding),
		}
	}
	if idx.dimensions == 0 {
		idx.dimensions = len(embedding)
	}

	id := idx.nextID
	idx.nextID++

	idx.documents = append(idx.documents, Document{
		ID:        id,
		Path:      path,
		Embedding: embedding,
		Snippet:   snippet,
	})

	return id, nil
}

// Search scans every stored embedding, ranks by cosine similarity
// descending, and returns the top k results. If k exceeds the corpus size,
// all documents are returned. The query is validated under the same rules
// as AddDocument.
func (idx *Index) Search(queryEmbedding []float32, k int) ([]types.VectorSearchResult, error) {
	if len(queryEmbedding) == 0 {
		return nil, types.ErrEmptyEmbedding
	}

	if idx.dimensions != 0 && len(queryEmbedding) != idx.dimensions {
		return nil, &types.DimensionMismatchError{
			Expected: idx.dimensions,
			Got:      len(queryEmbedding),
		}
	}

	scored := make([]types.VectorSearchResult, 0, len(idx.documents))
	for i := range idx.documents {
		doc := &idx.documents[i]
		scored = append(scored, types.VectorSearchResult{
			Path:    doc.Path,
			Score:   float32(CosineSimilarity(doc.Embedding, queryEmbedding)),
			Snippet: doc.Snippet,
		})
	}

	// Score descending, then path ascending so equal scores rank
	// reproducibly across runs.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Path < scored[j].Path
	})

	if k >= 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Len returns the number of stored documents.
func (idx *Index) Len() int {
	return len(idx.documents)
}

// Dimensions returns the established dimensionality, or 0 when no document
// has been inserted yet.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Clear drops all documents, resets the dimensionality to unset, and resets
// the id counter to 0.
func (idx *Index) Clear() {
	idx.documents = nil
	idx.dimensions = 0
	idx.nextID = 0
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|) in float64 for stability.
// It returns 0 when either norm is 0; that is the edge-case policy for
// degenerate vectors, not an error condition.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
