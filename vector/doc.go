// Package vector defines the embedding matrix used across this module and the
// small set of numeric helpers built around it:
//   - Matrix: contiguous row-major float32 storage with a fixed width
//   - Metric: euclidean or cosine (cosine is realised by unit-normalizing rows)
//   - Normalize/NormalizeRows: in-place L2 normalization
//   - Embedding encoding (BLOB) and distance functions
package vector
