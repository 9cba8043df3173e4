// Package testutil holds fixture helpers shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// WriteVector writes v as a 1-D float32 .npy file at dir/name.
func WriteVector(t testing.TB, dir, name string, v []float32) string {
	t.Helper()
	return write(t, filepath.Join(dir, name), v)
}

// WriteMatrix writes rows as a 2-D float64 .npy file at dir/name.
func WriteMatrix(t testing.TB, dir, name string, rows [][]float32) string {
	t.Helper()
	if len(rows) == 0 {
		t.Fatalf("WriteMatrix %s: no rows", name)
	}
	dim := len(rows[0])
	data := make([]float64, 0, len(rows)*dim)
	for _, r := range rows {
		for _, v := range r {
			data = append(data, float64(v))
		}
	}
	return write(t, filepath.Join(dir, name), mat.NewDense(len(rows), dim, data))
}

// WriteCorpus writes one 1-D file per row, named so that lexical order
// matches row order (doc-000.npy, doc-001.npy, ...).
func WriteCorpus(t testing.TB, dir string, rows [][]float32) []string {
	t.Helper()
	paths := make([]string, len(rows))
	for i, r := range rows {
		paths[i] = WriteVector(t, dir, fileName(i), r)
	}
	return paths
}

func fileName(i int) string { return fmt.Sprintf("doc-%03d.npy", i) }

func write(t testing.TB, path string, val interface{}) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := npyio.Write(f, val); err != nil {
		t.Fatalf("npyio.Write %s: %v", path, err)
	}
	return path
}
