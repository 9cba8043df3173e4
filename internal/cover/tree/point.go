package tree

// Point is a stored vector and the identifier assigned on insert.
type Point struct {
	ID     int64
	Vector []float32
}
