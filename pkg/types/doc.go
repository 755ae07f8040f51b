// Package types provides shared type definitions for the DocIndex MCP server.
//
// This package defines the result and error types exchanged between the
// lexical index, the vector index, and their callers.
//
// # Search Results
//
// SearchResult carries a BM25-ranked hit with its snippet:
//
//	result := types.SearchResult{
//	    Path:    "docs/install.md",
//	    Score:   2.31,
//	    Snippet: "Installation instructions for ...",
//	}
//
// VectorSearchResult is the cosine-similarity analogue. Scores there fall in
// [-1, 1], with 1 meaning identical direction.
//
// # Errors
//
// The vector path has exactly two domain errors: ErrEmptyEmbedding and
// DimensionMismatchError. Both indicate caller mistakes and must not be
// retried:
//
//	_, err := idx.AddDocument("doc.md", embedding, snippet)
//	if types.IsDimensionMismatch(err) {
//	    // regenerate the embedding with the right model
//	}
package types
