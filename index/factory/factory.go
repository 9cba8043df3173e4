// Package factory constructs and decodes index implementations by kind.
package factory

import (
	"fmt"

	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/index/cover"
	"github.com/viant/vecbench/index/flat"
)

// New returns an empty index of the given kind.
func New(kind index.Kind, dim int) (index.Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("factory: invalid dimension %d", dim)
	}
	switch kind {
	case index.KindFlat, "":
		return flat.New(dim), nil
	case index.KindCover:
		return cover.New(dim), nil
	}
	return nil, fmt.Errorf("factory: unknown index kind %q", kind)
}

// Decode restores an index from its encoding, choosing the implementation
// from the encoded kind.
func Decode(data []byte) (index.Index, error) {
	kind, err := index.PeekKind(data)
	if err != nil {
		return nil, err
	}
	var idx index.Index
	switch kind {
	case index.KindCover:
		idx = cover.New(0)
	default:
		idx = flat.New(0)
	}
	if err := idx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return idx, nil
}
