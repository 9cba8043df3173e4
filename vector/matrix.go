package vector

import "fmt"

// Matrix is a dense row-major float32 matrix. Every row has Dim columns.
type Matrix struct {
	Dim  int
	Data []float32
}

// NewMatrix wraps data as rows of width dim.
func NewMatrix(dim int, data []float32) (*Matrix, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vector: invalid dimension %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("%w: %d values do not split into rows of %d", ErrDimensionMismatch, len(data), dim)
	}
	return &Matrix{Dim: dim, Data: data}, nil
}

// FromRows copies rows into a new Matrix. All rows must share one width.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	dim := len(rows[0])
	m := &Matrix{Dim: dim, Data: make([]float32, 0, dim*len(rows))}
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), dim)
		}
		m.Data = append(m.Data, row...)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	if m == nil || m.Dim == 0 {
		return 0
	}
	return len(m.Data) / m.Dim
}

// Row returns row i as a sub-slice of the backing array.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Dim : (i+1)*m.Dim : (i+1)*m.Dim]
}

// Append stacks the rows of other below m. An empty m adopts other's width;
// a zero-row other is still checked for width.
func (m *Matrix) Append(other *Matrix) error {
	if other == nil || other.Dim == 0 {
		return nil
	}
	if m.Dim == 0 {
		m.Dim = other.Dim
	}
	if other.Dim != m.Dim {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, other.Dim, m.Dim)
	}
	m.Data = append(m.Data, other.Data...)
	return nil
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{Dim: m.Dim, Data: append([]float32(nil), m.Data...)}
}
