package embedder

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"
)

// DefaultLocalDimension matches common small embedding models.
const DefaultLocalDimension = 384

// LocalEmbedder is a deterministic, offline provider. It hashes token
// features into a fixed-size vector and L2-normalizes the result. The
// embeddings carry no semantic signal beyond token overlap; the provider
// exists so the pipeline runs without network access and so tests get
// reproducible vectors.
type LocalEmbedder struct {
	dimension int
}

// NewLocal creates a local embedder with the given dimensionality.
func NewLocal(dimension int) *LocalEmbedder {
	if dimension <= 0 {
		dimension = DefaultLocalDimension
	}
	return &LocalEmbedder{dimension: dimension}
}

// GenerateEmbedding hashes overlapping character trigrams into the vector.
func (e *LocalEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make([]float32, e.dimension)
	runes := []rune(text)
	for i := 0; i+3 <= len(runes); i++ {
		h := xxhash.Sum64String(string(runes[i : i+3]))
		bucket := int(h % uint64(e.dimension))
		// Alternate sign from a second hash bit to spread mass around
		// zero instead of accumulating only positives.
		if h&(1<<63) != 0 {
			vector[bucket]--
		} else {
			vector[bucket]++
		}
	}

	// Short inputs produce no trigrams; fall back to a single bucket so
	// the vector is never all zeros.
	if len(runes) < 3 {
		vector[int(xxhash.Sum64String(text)%uint64(e.dimension))] = 1
	}

	normalize(vector)
	return vector, nil
}

// Dimension returns the configured dimensionality.
func (e *LocalEmbedder) Dimension() int {
	return e.dimension
}

// Model identifies the provider in cache keys.
func (e *LocalEmbedder) Model() string {
	return "local-trigram"
}

// Close is a no-op for the local provider.
func (e *LocalEmbedder) Close() error {
	return nil
}

func normalize(vector []float32) {
	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return
	}
	inv := 1 / math.Sqrt(norm)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) * inv)
	}
}
