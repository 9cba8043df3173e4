package corpus

import (
	"fmt"
	"math"
	"os"

	"github.com/sbinet/npyio"

	"github.com/viant/vecbench/vector"
)

// Extension is the recognised array-file extension.
const Extension = ".npy"

// ReadFile parses one .npy file into a matrix. A 1-D array is a single row; a
// 2-D array is rows x dim. float32 and float64 payloads are accepted; float64
// is narrowed to float32. NaN, infinities and float64 values beyond the
// float32 range are rejected.
func ReadFile(path string) (*vector.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	descr := r.Header.Descr
	if descr.Fortran {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: fortran order", ErrUnsupportedArray)}
	}
	rows, dim, err := matrixShape(descr.Shape)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var data []float32
	switch descr.Type {
	case "<f4":
		data = make([]float32, rows*dim)
		if err := r.Read(&data); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
	case "<f8":
		wide := make([]float64, rows*dim)
		if err := r.Read(&wide); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		data = make([]float32, len(wide))
		for i, v := range wide {
			data[i] = float32(v)
		}
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: dtype %q", ErrUnsupportedArray, descr.Type)}
	}
	for i, v := range data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: non-finite value %v at row %d column %d", ErrUnsupportedArray, v, i/dim, i%dim)}
		}
	}
	return &vector.Matrix{Dim: dim, Data: data}, nil
}

func matrixShape(shape []int) (rows, dim int, err error) {
	switch len(shape) {
	case 1:
		rows, dim = 1, shape[0]
	case 2:
		rows, dim = shape[0], shape[1]
	default:
		return 0, 0, fmt.Errorf("%w: rank %d", ErrUnsupportedArray, len(shape))
	}
	if dim <= 0 {
		return 0, 0, fmt.Errorf("%w: zero-width rows", ErrUnsupportedArray)
	}
	return rows, dim, nil
}
