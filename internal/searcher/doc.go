// Package searcher provides the lexical search entry point: a BM25 index
// paired with a verbatim content store for snippet extraction.
//
// # Basic Usage
//
//	s := searcher.New()
//
//	_ = s.IndexDocument("docs/install.md", content)
//
//	results, err := s.Search("install dependencies", 10)
//	for _, r := range results {
//	    fmt.Printf("%s (%.2f): %s\n", r.Path, r.Score, r.Snippet)
//	}
//
// Snippets are the first 200 characters (by rune count, not bytes) of the
// originally indexed content. When the content for a hit is missing, the
// snippet degrades to "..." instead of failing the search.
//
// The service performs no internal synchronization; the owning session
// serializes access (see internal/retriever).
package searcher
