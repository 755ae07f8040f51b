// Package tokenizer provides text normalization for the BM25 index.
// It lower-cases input, splits on non-alphanumeric boundaries, drops short
// tokens, and filters a small set of English function words.
package tokenizer

import (
	"strings"
	"unicode"
)

// defaultStopwords is the closed set of function words removed by default.
var defaultStopwords = []string{
	"a", "the", "an", "and", "or", "is", "in", "at",
	"to", "for", "of", "on", "with", "by", "from",
}

// Tokenizer normalizes text into a term stream. The zero value is not
// usable; construct with New.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// New creates a Tokenizer with the default English stopword set.
func New() *Tokenizer {
	return NewWithStopwords(defaultStopwords)
}

// NewWithStopwords creates a Tokenizer with a caller-supplied stopword set.
func NewWithStopwords(stopwords []string) *Tokenizer {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: set}
}

// Tokenize breaks text into lowercased terms, splitting on any
// non-alphanumeric boundary and discarding tokens of length <= 2.
// Identical input always yields identical, order-preserving output.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

// IsStopword reports whether word is in the configured stopword set.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// RemoveStopwords filters stopwords from a term slice, preserving order.
func (t *Tokenizer) RemoveStopwords(terms []string) []string {
	filtered := make([]string, 0, len(terms))
	for _, term := range terms {
		if t.IsStopword(term) {
			continue
		}
		filtered = append(filtered, term)
	}
	return filtered
}

// Terms tokenizes and stopword-filters text in one pass. This is the
// normalization applied to both documents and queries.
func (t *Tokenizer) Terms(text string) []string {
	return t.RemoveStopwords(t.Tokenize(text))
}
