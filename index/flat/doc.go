// Package flat provides an exhaustive Euclidean index: every query is
// compared against every stored vector, so results are exact. Batched
// searches are spread across query rows; stored vectors are never mutated by
// Search, so concurrent searches are safe once adding has finished.
package flat
