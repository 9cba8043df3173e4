// Package cover provides an exact Euclidean kNN index backed by a cover tree.
// It persists in the same vector encoding as the flat index and rebuilds the
// tree on load, so callers can switch implementations without migrating data.
package cover
