package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is returned when rows of different widths are mixed.
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")

	// ErrZeroVector is returned when a zero row is L2-normalized.
	ErrZeroVector = errors.New("vector: zero vector has no unit direction")
)

// ZeroVectorError reports the row that could not be normalized.
type ZeroVectorError struct {
	Row int
}

func (e *ZeroVectorError) Error() string {
	return fmt.Sprintf("vector: row %d has zero magnitude", e.Row)
}

func (e *ZeroVectorError) Unwrap() error { return ErrZeroVector }
