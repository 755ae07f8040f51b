package searcher

import (
	"fmt"

	"github.com/dshills/docindex-mcp/internal/bm25"
	"github.com/dshills/docindex-mcp/internal/tokenizer"
	"github.com/dshills/docindex-mcp/pkg/types"
)

// SnippetLength is the snippet size in characters (runes, not bytes).
const SnippetLength = 200

// missingSnippet is returned when a hit's content is no longer stored.
const missingSnippet = "..."

// Service aggregates the BM25 index with a path -> original content map.
type Service struct {
	index *bm25.Index

	// documents holds the raw indexed content for snippet extraction
	documents map[string]string
}

// New creates a search service with default BM25 parameters.
func New() *Service {
	return NewWithConfig(bm25.DefaultParams(), tokenizer.New())
}

// NewWithConfig creates a search service with caller-supplied BM25
// parameters and tokenizer.
func NewWithConfig(params bm25.Params, tok *tokenizer.Tokenizer) *Service {
	return &Service{
		index:     bm25.NewWithConfig(params, tok),
		documents: make(map[string]string),
	}
}

// IndexDocument adds content under path, replacing any prior version, and
// stores the raw content verbatim for snippet extraction.
func (s *Service) IndexDocument(path, content string) error {
	if err := s.index.AddDocument(path, content); err != nil {
		return fmt.Errorf("failed to index %s: %w", path, err)
	}
	s.documents[path] = content
	return nil
}

// Search returns the topK highest-scoring documents for query, each
// enriched with a snippet of its stored content.
func (s *Service) Search(query string, topK int) ([]types.SearchResult, error) {
	hits, err := s.index.Search(query, topK)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, types.SearchResult{
			Path:    hit.DocID,
			Score:   hit.Score,
			Snippet: s.snippet(hit.DocID),
		})
	}
	return results, nil
}

// DocCount returns the number of indexed documents.
func (s *Service) DocCount() int {
	return len(s.documents)
}

// Clear drops the index and the content store.
func (s *Service) Clear() {
	s.index.Clear()
	s.documents = make(map[string]string)
}

// snippet slices the first SnippetLength characters of the stored content,
// falling back to a placeholder when the content is missing.
func (s *Service) snippet(path string) string {
	content, ok := s.documents[path]
	if !ok {
		return missingSnippet
	}

	runes := []rune(content)
	if len(runes) <= SnippetLength {
		return content
	}
	return string(runes[:SnippetLength])
}
