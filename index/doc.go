// Package index defines the similarity-index abstraction used by the build
// and evaluate pipelines: bulk Add of a matrix with sequential zero-based
// identifiers, batched top-k Search, and a compact binary encoding for
// persistence. Implementations live in the flat (exhaustive scan) and cover
// (exact cover tree) subpackages.
package index
