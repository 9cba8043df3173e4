package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/index/flat"
	"github.com/viant/vecbench/vector"
)

func testEntry(t *testing.T) *Entry {
	t.Helper()
	m, err := vector.FromRows([][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	idx := flat.New(3)
	if err := idx.Add(m); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return &Entry{
		Index:     idx,
		Metric:    vector.Cosine,
		Segments:  []Segment{{Stem: "a", Rows: 2}, {Stem: "b", Rows: 1}},
		BuildID:   "build-1",
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func checkEntry(t *testing.T, want, got *Entry) {
	t.Helper()
	if got.Index.Kind() != want.Index.Kind() || got.Index.Dim() != want.Index.Dim() || got.Index.Len() != want.Index.Len() {
		t.Fatalf("index mismatch: got %s %dx%d", got.Index.Kind(), got.Index.Len(), got.Index.Dim())
	}
	if got.Metric != want.Metric {
		t.Fatalf("metric = %q, want %q", got.Metric, want.Metric)
	}
	if len(got.Segments) != len(want.Segments) {
		t.Fatalf("segments = %v, want %v", got.Segments, want.Segments)
	}
	for i := range want.Segments {
		if got.Segments[i] != want.Segments[i] {
			t.Fatalf("segment %d = %v, want %v", i, got.Segments[i], want.Segments[i])
		}
	}
	if got.BuildID != want.BuildID {
		t.Fatalf("build id = %q, want %q", got.BuildID, want.BuildID)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	q, _ := vector.FromRows([][]float32{{0, 1, 0}})
	res, err := got.Index.Search(context.Background(), q, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ids, _ := res.Row(0); ids[0] != 1 {
		t.Fatalf("nearest = %d, want 1", ids[0])
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "index.bin")
	s := NewFileStore(false)
	want := testEntry(t)
	if err := s.Save(ctx, path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkEntry(t, want, got)

	// no temp files remain next to the entry
	matches, _ := filepath.Glob(path + ".tmp-*")
	if len(matches) != 0 {
		t.Fatalf("leftover temp files: %v", matches)
	}
}

func TestFileStore_SaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(false)
	e := testEntry(t)
	first := filepath.Join(dir, "first.bin")
	if err := s.Save(ctx, first, e); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load(ctx, first)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second := filepath.Join(dir, "second.bin")
	if err := s.Save(ctx, second, loaded); err != nil {
		t.Fatalf("Save: %v", err)
	}
	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if string(a) != string(b) {
		t.Fatalf("re-saved entry differs: %d vs %d bytes", len(a), len(b))
	}
}

func TestFileStore_WriteOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.bin")
	e := testEntry(t)
	if err := NewFileStore(false).Save(ctx, path, e); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err := NewFileStore(false).Save(ctx, path, e)
	var pe *PersistenceError
	if !errors.As(err, &pe) || !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := NewFileStore(true).Save(ctx, path, e); err != nil {
		t.Fatalf("overwrite Save: %v", err)
	}
}

func TestFileStore_LoadErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(false)

	_, err := s.Load(ctx, filepath.Join(dir, "missing.bin"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.bin")
	if err := os.WriteFile(garbage, []byte("not an index"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = s.Load(ctx, garbage)
	var pe *PersistenceError
	if !errors.As(err, &pe) || !errors.Is(err, index.ErrCorrupt) {
		t.Fatalf("garbage: expected corrupt PersistenceError, got %v", err)
	}

	good := filepath.Join(dir, "good.bin")
	if err := s.Save(ctx, good, testEntry(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(good)
	truncated := filepath.Join(dir, "truncated.bin")
	if err := os.WriteFile(truncated, data[:len(data)-5], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, truncated); !errors.As(err, &pe) {
		t.Fatalf("truncated: expected PersistenceError, got %v", err)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "indexes.db")
	s, err := OpenSQLite(ctx, dbPath, false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	want := testEntry(t)
	if err := s.Save(ctx, "docs", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "docs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkEntry(t, want, got)

	if err := s.Save(ctx, "docs", want); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Load(ctx, "other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Save(ctx, "alpha", want); err != nil {
		t.Fatalf("Save alpha: %v", err)
	}
	names, err := s.Names(ctx)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "docs" {
		t.Fatalf("names = %v", names)
	}
}

func TestSQLiteStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:", true)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	e := testEntry(t)
	if err := s.Save(ctx, "docs", e); err != nil {
		t.Fatalf("Save: %v", err)
	}
	e.Metric = vector.Euclidean
	if err := s.Save(ctx, "docs", e); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Load(ctx, "docs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Metric != vector.Euclidean {
		t.Fatalf("metric = %q after overwrite", got.Metric)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{})
	if err != nil {
		t.Fatalf("Open default: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("default backend = %T", s)
	}
	if _, err := Open(ctx, Options{Backend: BackendSQLite}); err == nil {
		t.Fatal("expected error for sqlite without path")
	}
	if _, err := Open(ctx, Options{Backend: "s3"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	s, err = Open(ctx, Options{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	_ = s.Close()
}
