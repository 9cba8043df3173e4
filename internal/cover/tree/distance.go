package tree

import (
	"github.com/viant/vec/search"

	"github.com/viant/vecbench/vector"
)

// DistanceFunc computes the distance between two points. It must be a metric:
// search pruning relies on the triangle inequality.
type DistanceFunc func(p1, p2 *Point) float32

// EuclideanDistance returns the Euclidean distance between two points.
func EuclideanDistance(p1, p2 *Point) float32 {
	return search.Float32s(p1.Vector).EuclideanDistance(p2.Vector)
}

// PreciseDistance is EuclideanDistance accumulated in float64. Points must
// share one width.
func PreciseDistance(p1, p2 *Point) float32 {
	d, _ := vector.L2Distance(p1.Vector, p2.Vector)
	return d
}
