package types

// SearchResult represents a single lexical (BM25) search result
type SearchResult struct {
	// Path is the caller-supplied document key
	Path string

	// Score is the accumulated BM25 relevance score
	Score float32

	// Snippet holds the first 200 characters of the indexed content,
	// or "..." when the original content is no longer available
	Snippet string
}

// VectorSearchResult represents a single vector similarity search result
type VectorSearchResult struct {
	Path string

	// Score is the cosine similarity between the query and the stored
	// embedding, in [-1, 1]
	Score float32

	Snippet string
}

// RankedResult represents a document after hybrid rank fusion
type RankedResult struct {
	Path    string
	Rank    int // Position in result set (1-based)
	Score   float64
	Snippet string
}
