package factory

import (
	"errors"
	"testing"

	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/vector"
)

func TestNewAndDecode(t *testing.T) {
	m, _ := vector.FromRows([][]float32{{1, 2}, {3, 4}})
	for _, kind := range []index.Kind{index.KindFlat, index.KindCover} {
		idx, err := New(kind, 2)
		if err != nil {
			t.Fatalf("New(%s): %v", kind, err)
		}
		if err := idx.Add(m); err != nil {
			t.Fatalf("Add(%s): %v", kind, err)
		}
		blob, err := idx.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(%s): %v", kind, err)
		}
		restored, err := Decode(blob)
		if err != nil {
			t.Fatalf("Decode(%s): %v", kind, err)
		}
		if restored.Kind() != kind || restored.Len() != 2 || restored.Dim() != 2 {
			t.Fatalf("restored %s: kind=%s len=%d dim=%d", kind, restored.Kind(), restored.Len(), restored.Dim())
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New("hnsw", 4); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := New(index.KindFlat, 0); err == nil {
		t.Fatalf("expected error for zero dimension")
	}
	if _, err := Decode([]byte("nope")); !errors.Is(err, index.ErrCorrupt) {
		t.Fatalf("Decode(garbage) err = %v, want ErrCorrupt", err)
	}
}
