package cover

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/internal/cover/tree"
	"github.com/viant/vecbench/vector"
)

// Option configures a cover index.
type Option func(*Index)

// WithBase sets the cover-tree expansion base (must be > 1).
func WithBase(base float32) Option {
	return func(i *Index) { i.base = base }
}

// Index implements index.Index with a cover tree.
type Index struct {
	dim  int
	base float32
	vecs vector.Matrix
	tree *tree.Tree
}

// New creates an empty cover index for vectors of width dim.
func New(dim int, opts ...Option) *Index {
	i := &Index{dim: dim, vecs: vector.Matrix{Dim: dim}}
	for _, opt := range opts {
		opt(i)
	}
	i.tree = tree.NewTree(i.base, tree.PreciseDistance)
	return i
}

func (i *Index) Kind() index.Kind { return index.KindCover }

func (i *Index) Dim() int { return i.dim }

func (i *Index) Len() int { return i.vecs.Rows() }

// Add inserts rows into the tree; identifiers continue from Len().
func (i *Index) Add(m *vector.Matrix) error {
	if m == nil || m.Rows() == 0 {
		return nil
	}
	if m.Dim != i.dim {
		return fmt.Errorf("cover: %w: add dim %d != index dim %d", vector.ErrDimensionMismatch, m.Dim, i.dim)
	}
	offset := i.vecs.Rows()
	if err := i.vecs.Append(m); err != nil {
		return err
	}
	for r := offset; r < i.vecs.Rows(); r++ {
		i.tree.Insert(i.vecs.Row(r))
	}
	i.tree.Prepare()
	return nil
}

// Search runs one tree query per row, spread across GOMAXPROCS workers.
func (i *Index) Search(ctx context.Context, queries *vector.Matrix, k int) (*index.Result, error) {
	if err := index.ValidateSearch(i, queries, k); err != nil {
		return nil, err
	}
	n := queries.Rows()
	res := index.NewResult(n, k)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for q := 0; q < n; q++ {
		q := q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ids, dists := res.Row(q)
			for r, nb := range i.tree.KNearestNeighbors(queries.Row(q), k) {
				ids[r] = nb.Point.ID
				dists[r] = nb.Distance
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// MarshalBinary stores the raw vectors; the tree is rebuilt on load.
func (i *Index) MarshalBinary() ([]byte, error) {
	return index.Encode(index.KindCover, &vector.Matrix{Dim: i.dim, Data: i.vecs.Data})
}

// UnmarshalBinary decodes the vectors and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	m, err := index.Decode(index.KindCover, data)
	if err != nil {
		return err
	}
	fresh := New(m.Dim, WithBase(i.base))
	if err := fresh.Add(m); err != nil {
		return err
	}
	*i = *fresh
	return nil
}

var _ index.Index = (*Index)(nil)
