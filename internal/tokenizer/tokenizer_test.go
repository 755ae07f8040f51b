package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tok := New()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "lowercases and splits on punctuation",
			input:    "The Quick, Brown-Fox!",
			expected: []string{"the", "quick", "brown", "fox"},
		},
		{
			name:     "drops short tokens",
			input:    "go is ok but golang works",
			expected: []string{"but", "golang", "works"},
		},
		{
			name:     "keeps digits",
			input:    "bm25 scoring v2.1 with utf8",
			expected: []string{"bm25", "scoring", "utf8"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only separators",
			input:    "--- ,,, !!!",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tok.Tokenize(tt.input))
		})
	}
}

func TestRemoveStopwords(t *testing.T) {
	tok := New()

	terms := []string{"the", "quick", "brown", "fox", "and", "for", "jumps"}
	got := tok.RemoveStopwords(terms)
	assert.Equal(t, []string{"quick", "brown", "fox", "jumps"}, got)
}

func TestTermsIsDeterministic(t *testing.T) {
	tok := New()

	input := "The lazy dog sleeps in the sun, for hours on end."
	first := tok.Terms(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, tok.Terms(input))
	}
}

func TestCustomStopwords(t *testing.T) {
	tok := NewWithStopwords([]string{"fox"})

	got := tok.Terms("the quick fox")
	// "the" survives because the custom set replaces the default one.
	assert.Equal(t, []string{"the", "quick"}, got)
}
