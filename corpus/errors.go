package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFiles is returned when a directory holds no recognised array files.
	ErrNoFiles = errors.New("corpus: no .npy files found")

	// ErrUnsupportedArray is returned for arrays that cannot be read as a
	// float matrix (dtype, rank or memory order).
	ErrUnsupportedArray = errors.New("corpus: unsupported array")
)

// LoadError reports a failure to enumerate or read corpus files.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("corpus: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
