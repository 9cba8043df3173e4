package vector

import "math"

// Norm returns the Euclidean norm of v. Squares are summed in float64, which
// holds the square of any finite float32 without overflow or underflow.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// Normalize scales v in place to unit Euclidean norm. Only a vector whose
// components are all exactly zero is rejected.
func Normalize(v []float32) error {
	mag := Norm(v)
	if mag == 0 {
		return ErrZeroVector
	}
	inv := 1 / mag
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return nil
}

// NormalizeRows normalizes every row of m in place. The first zero row aborts
// the call with a *ZeroVectorError; rows before it are already normalized.
func NormalizeRows(m *Matrix) error {
	for i := 0; i < m.Rows(); i++ {
		if err := Normalize(m.Row(i)); err != nil {
			return &ZeroVectorError{Row: i}
		}
	}
	return nil
}
