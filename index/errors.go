package index

import (
	"errors"
	"fmt"
	"math"

	"github.com/viant/vecbench/vector"
)

var inf = float32(math.Inf(1))

var (
	// ErrEmptyIndex is returned when searching an index with no vectors.
	ErrEmptyIndex = errors.New("index: empty index")

	// ErrInvalidK is returned when k is below 1.
	ErrInvalidK = errors.New("index: k must be at least 1")

	// ErrCorrupt is returned when an encoded index cannot be decoded.
	ErrCorrupt = errors.New("index: corrupt encoding")
)

// SearchError reports a search that could not run, most commonly a query
// width that differs from the index dimension.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string { return fmt.Sprintf("index: search: %v", e.Err) }

func (e *SearchError) Unwrap() error { return e.Err }

// ValidateSearch applies the checks shared by all implementations.
func ValidateSearch(idx Index, queries *vector.Matrix, k int) error {
	switch {
	case k < 1:
		return &SearchError{Err: fmt.Errorf("%w: got %d", ErrInvalidK, k)}
	case idx.Len() == 0:
		return &SearchError{Err: ErrEmptyIndex}
	case queries == nil || queries.Rows() == 0:
		return nil
	case queries.Dim != idx.Dim():
		return &SearchError{Err: fmt.Errorf("%w: query dim %d != index dim %d", vector.ErrDimensionMismatch, queries.Dim, idx.Dim())}
	}
	return nil
}
