// Package embedder defines the boundary to the external embedding provider.
// The retrieval core never talks to a model directly; everything it needs
// is behind the Embedder interface, which keeps providers swappable and the
// core testable offline.
package embedder

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrProviderFailed = errors.New("embedding provider failed")
)

// Embedder generates dense embeddings for text.
type Embedder interface {
	// GenerateEmbedding returns the embedding vector for text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding dimensionality for this provider
	Dimension() int

	// Model returns the model name, used as part of cache keys
	Model() string

	// Close releases any resources held by the embedder
	Close() error
}

// ValidateText checks an embedding request's input.
func ValidateText(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	return nil
}
