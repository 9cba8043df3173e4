package index

import (
	"context"
	"encoding"
	"fmt"
	"strings"

	"github.com/viant/vecbench/vector"
)

// Kind names an index implementation.
type Kind string

const (
	// KindFlat compares each query against every stored vector.
	KindFlat Kind = "flat"
	// KindCover answers exact kNN queries from a cover tree.
	KindCover Kind = "cover"
)

// ParseKind validates a kind name; empty means flat.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFlat:
		return KindFlat, nil
	case KindCover:
		return KindCover, nil
	default:
		return "", fmt.Errorf("index: unknown kind %q", s)
	}
}

// Index is a Euclidean nearest-neighbour index over fixed-width vectors.
// Identifiers are assigned sequentially from zero in insertion order, so row i
// of the matrices passed to Add is identifier i.
type Index interface {
	// Kind reports the implementation.
	Kind() Kind

	// Dim is the vector width accepted by Add and Search.
	Dim() int

	// Len is the number of stored vectors.
	Len() int

	// Add appends the rows of m.
	Add(m *vector.Matrix) error

	// Search returns the k nearest stored vectors for every query row,
	// ordered by ascending distance and then ascending identifier.
	Search(ctx context.Context, queries *vector.Matrix, k int) (*Result, error)

	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Result holds a batched search outcome in row-major order: query i owns
// IDs[i*K:(i+1)*K] and the matching Distances. When fewer than K vectors are
// stored the tail of each row is padded with ID -1 and distance +Inf.
type Result struct {
	K         int
	IDs       []int64
	Distances []float32
}

// NewResult allocates a result for n queries with every slot padded.
func NewResult(n, k int) *Result {
	r := &Result{K: k, IDs: make([]int64, n*k), Distances: make([]float32, n*k)}
	for i := range r.IDs {
		r.IDs[i] = -1
		r.Distances[i] = inf
	}
	return r
}

// Queries is the number of query rows.
func (r *Result) Queries() int {
	if r.K == 0 {
		return 0
	}
	return len(r.IDs) / r.K
}

// Row returns the identifiers and distances for query i.
func (r *Result) Row(i int) ([]int64, []float32) {
	lo, hi := i*r.K, (i+1)*r.K
	return r.IDs[lo:hi:hi], r.Distances[lo:hi:hi]
}
