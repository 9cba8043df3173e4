// Package corpus loads a directory of per-document NumPy (.npy) embedding
// arrays and stacks them, in ascending filename order, into one contiguous
// matrix. Row positions are load-bearing: evaluation uses them as ground
// truth, so the order must be reproducible between runs.
package corpus
