package vector

import (
	"fmt"
	"strings"
)

// Metric selects how vectors are compared. Cosine is realised by normalizing
// rows to unit length and ranking by Euclidean distance.
type Metric string

const (
	Euclidean Metric = "euclidean"
	Cosine    Metric = "cosine"
)

// ParseMetric accepts the canonical names and the common short aliases.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "euclidean", "l2":
		return Euclidean, nil
	case "cosine", "cos":
		return Cosine, nil
	default:
		return "", fmt.Errorf("vector: unknown metric %q", s)
	}
}

// Normalizes reports whether rows must be unit-normalized before indexing.
func (m Metric) Normalizes() bool { return m == Cosine }
