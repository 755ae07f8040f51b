package bm25

import (
	"math"
	"sort"

	"github.com/dshills/docindex-mcp/internal/tokenizer"
)

// Default BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// Params holds the BM25 tuning constants for one index instance.
type Params struct {
	K1 float64 // term-frequency saturation
	B  float64 // length-normalization strength
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// Hit is a single ranked document.
type Hit struct {
	DocID string
	Score float32
}

// Index is an inverted index with BM25 scoring.
type Index struct {
	params    Params
	tokenizer *tokenizer.Tokenizer

	// docID -> normalized term sequence
	documents map[string][]string
	// term -> set of docIDs containing it
	termDocs map[string]map[string]struct{}
	// term -> docID -> raw term frequency
	termFreqs map[string]map[string]int

	avgDocLen float64
}

// New creates an empty index with default parameters and stopwords.
func New() *Index {
	return NewWithConfig(DefaultParams(), tokenizer.New())
}

// NewWithConfig creates an empty index with caller-supplied parameters and
// tokenizer, enabling per-instance tuning.
func NewWithConfig(params Params, tok *tokenizer.Tokenizer) *Index {
	if params.K1 <= 0 {
		params.K1 = DefaultK1
	}
	if params.B <= 0 {
		params.B = DefaultB
	}
	if tok == nil {
		tok = tokenizer.New()
	}
	return &Index{
		params:    params,
		tokenizer: tok,
		documents: make(map[string][]string),
		termDocs:  make(map[string]map[string]struct{}),
		termFreqs: make(map[string]map[string]int),
	}
}

// AddDocument tokenizes content and stores its term statistics under docID,
// replacing any prior entry for that id. The corpus-wide average document
// length is recomputed on every insert, so indexing is O(corpus size) per
// call. The error return exists for forward compatibility with I/O-backed
// storage; tokenization itself cannot fail.
func (idx *Index) AddDocument(docID, content string) error {
	terms := idx.tokenizer.Terms(content)

	// Drop stale postings before replacing the document.
	if _, exists := idx.documents[docID]; exists {
		idx.removePostings(docID)
	}

	idx.documents[docID] = terms

	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++

		docs, ok := idx.termDocs[term]
		if !ok {
			docs = make(map[string]struct{})
			idx.termDocs[term] = docs
		}
		docs[docID] = struct{}{}
	}

	for term, count := range counts {
		freqs, ok := idx.termFreqs[term]
		if !ok {
			freqs = make(map[string]int)
			idx.termFreqs[term] = freqs
		}
		freqs[docID] = count
	}

	idx.recomputeAvgDocLen()
	return nil
}

// Search tokenizes query with the same normalization as documents and
// returns up to topK hits ordered by descending BM25 score. A query that is
// empty after filtering yields an empty result, not an error.
func (idx *Index) Search(query string, topK int) ([]Hit, error) {
	terms := idx.tokenizer.Terms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	// Accumulate per-document score sums across query terms. Only
	// documents containing at least one query term get an entry.
	scores := make(map[string]float64)

	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}

		docs, ok := idx.termDocs[term]
		if !ok {
			continue
		}

		idf := idx.idf(len(docs))
		freqs := idx.termFreqs[term]

		for docID := range docs {
			tf := float64(freqs[docID])
			docLen := float64(len(idx.documents[docID]))
			scores[docID] += idx.termScore(tf, idf, docLen)
		}
	}

	ranked := make([]Hit, 0, len(scores))
	for docID, score := range scores {
		ranked = append(ranked, Hit{DocID: docID, Score: float32(score)})
	}

	// Score descending, then docID ascending so equal scores rank
	// reproducibly across runs.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})

	if topK >= 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

// DocCount returns the number of indexed documents.
func (idx *Index) DocCount() int {
	return len(idx.documents)
}

// AvgDocLen returns the corpus-wide average document length in terms.
func (idx *Index) AvgDocLen() float64 {
	return idx.avgDocLen
}

// Clear drops all documents and postings and resets the average length.
func (idx *Index) Clear() {
	idx.documents = make(map[string][]string)
	idx.termDocs = make(map[string]map[string]struct{})
	idx.termFreqs = make(map[string]map[string]int)
	idx.avgDocLen = 0
}

// idf computes the non-negative "+1" IDF variant for a term present in
// docCount of the indexed documents.
func (idx *Index) idf(docCount int) float64 {
	n := float64(len(idx.documents))
	d := float64(docCount)
	return math.Log((n-d+0.5)/(d+0.5) + 1)
}

// termScore computes the per-document contribution of one query term.
func (idx *Index) termScore(tf, idf, docLen float64) float64 {
	numerator := tf * (idx.params.K1 + 1)
	denominator := tf + idx.params.K1*(1-idx.params.B+idx.params.B*(docLen/idx.avgDocLen))
	return idf * (numerator / denominator)
}

// removePostings deletes every posting and frequency entry for docID.
// Invariant: a term maps to docID in termDocs iff termFreqs holds a nonzero
// entry for the same pair.
func (idx *Index) removePostings(docID string) {
	for term, docs := range idx.termDocs {
		if _, ok := docs[docID]; !ok {
			continue
		}
		delete(docs, docID)
		if len(docs) == 0 {
			delete(idx.termDocs, term)
		}

		if freqs, ok := idx.termFreqs[term]; ok {
			delete(freqs, docID)
			if len(freqs) == 0 {
				delete(idx.termFreqs, term)
			}
		}
	}
}

func (idx *Index) recomputeAvgDocLen() {
	if len(idx.documents) == 0 {
		idx.avgDocLen = 0
		return
	}
	total := 0
	for _, terms := range idx.documents {
		total += len(terms)
	}
	idx.avgDocLen = float64(total) / float64(len(idx.documents))
}
