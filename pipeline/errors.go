package pipeline

import (
	"errors"
	"fmt"
)

// ErrMisaligned is returned when the query set does not line up with the
// corpus the index was built from.
var ErrMisaligned = errors.New("pipeline: query set does not align with indexed corpus")

// BuildError reports a corpus that could not be turned into an index.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string { return fmt.Sprintf("pipeline: build: %v", e.Err) }

func (e *BuildError) Unwrap() error { return e.Err }
