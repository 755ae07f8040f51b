package types

import (
	"errors"
	"fmt"
)

// Domain errors for the vector index
var (
	// ErrEmptyEmbedding indicates a zero-length embedding was supplied
	// to an insert or query
	ErrEmptyEmbedding = errors.New("empty embedding")

	// ErrEmptyQuery indicates a search was requested with an empty query
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// DimensionMismatchError indicates an embedding's length disagrees with the
// dimensionality established by the first insert into a vector index.
// This is a caller mistake, not a transient failure; the embedding must be
// fixed before resubmitting.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// IsDimensionMismatch reports whether err is a DimensionMismatchError
func IsDimensionMismatch(err error) bool {
	var dm *DimensionMismatchError
	return errors.As(err, &dm)
}
