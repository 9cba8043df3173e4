package flat

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/viant/vec/search"
	"golang.org/x/sync/errgroup"

	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/vector"
)

// searchChunk is the number of query rows handled by one worker task.
const searchChunk = 64

// Index is a brute-force Euclidean index.
type Index struct {
	dim  int
	vecs vector.Matrix
}

// New creates an empty index for vectors of width dim.
func New(dim int) *Index {
	return &Index{dim: dim, vecs: vector.Matrix{Dim: dim}}
}

func (i *Index) Kind() index.Kind { return index.KindFlat }

func (i *Index) Dim() int { return i.dim }

func (i *Index) Len() int { return i.vecs.Rows() }

// Add appends rows; identifiers continue from Len().
func (i *Index) Add(m *vector.Matrix) error {
	if m == nil || m.Rows() == 0 {
		return nil
	}
	if m.Dim != i.dim {
		return fmt.Errorf("flat: %w: add dim %d != index dim %d", vector.ErrDimensionMismatch, m.Dim, i.dim)
	}
	return i.vecs.Append(m)
}

// Search scans all stored vectors for every query row.
func (i *Index) Search(ctx context.Context, queries *vector.Matrix, k int) (*index.Result, error) {
	if err := index.ValidateSearch(i, queries, k); err != nil {
		return nil, err
	}
	n := queries.Rows()
	res := index.NewResult(n, k)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < n; lo += searchChunk {
		lo, hi := lo, min(lo+searchChunk, n)
		g.Go(func() error {
			top := newTopK(k)
			for q := lo; q < hi; q++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				i.scan(queries.Row(q), top)
				ids, dists := res.Row(q)
				top.drain(ids, dists)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// minFastDistance is the smallest distance the float32 kernel reports
// reliably; below it the squared terms are subnormal or zero.
const minFastDistance = 1e-18

func (i *Index) scan(query []float32, top *topK) {
	q := search.Float32s(query)
	for j := 0; j < i.vecs.Rows(); j++ {
		row := i.vecs.Row(j)
		d := q.EuclideanDistance(row)
		if d < minFastDistance || math.IsInf(float64(d), 0) || math.IsNaN(float64(d)) {
			// float32 accumulation overflowed or underflowed
			d, _ = vector.L2Distance(query, row)
		}
		top.offer(int64(j), d)
	}
}

// MarshalBinary encodes the stored vectors; see index.Encode.
func (i *Index) MarshalBinary() ([]byte, error) {
	return index.Encode(index.KindFlat, &vector.Matrix{Dim: i.dim, Data: i.vecs.Data})
}

// UnmarshalBinary replaces the index contents with the decoded vectors.
func (i *Index) UnmarshalBinary(data []byte) error {
	m, err := index.Decode(index.KindFlat, data)
	if err != nil {
		return err
	}
	i.dim = m.Dim
	i.vecs = *m
	return nil
}

var _ index.Index = (*Index)(nil)
