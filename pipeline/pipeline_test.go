package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/viant/vecbench/corpus"
	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/internal/testutil"
	"github.com/viant/vecbench/store"
	"github.com/viant/vecbench/telemetry"
	"github.com/viant/vecbench/vector"
)

var basis = [][]float32{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
}

func build(t *testing.T, rows [][]float32, metric vector.Metric) (string, store.Store) {
	t.Helper()
	dir := t.TempDir()
	corpusDir := filepath.Join(dir, "corpus")
	if err := os.Mkdir(corpusDir, 0o755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteCorpus(t, corpusDir, rows)
	s := store.NewFileStore(false)
	name := filepath.Join(dir, "docs.index")
	report, err := Build(context.Background(), BuildOptions{CorpusDir: corpusDir, Name: name, Metric: metric, Store: s})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Rows != len(rows) || report.Dim != len(rows[0]) || report.Files != len(rows) {
		t.Fatalf("report = %+v", report)
	}
	if report.BuildID == "" {
		t.Fatal("build id not set")
	}
	return name, s
}

func queryDir(t *testing.T, rows [][]float32) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteCorpus(t, dir, rows)
	return dir
}

func TestEvaluate_UnitBasisEuclidean(t *testing.T) {
	name, s := build(t, basis, vector.Euclidean)
	out := filepath.Join(t.TempDir(), "results.json")
	ev, err := Evaluate(context.Background(), EvalOptions{
		Name: name, QueryDir: queryDir(t, basis), OutputPath: out, TopK: 1, Store: s,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for i, r := range ev.Records {
		if len(r.TopKIndices) != 1 || r.TopKIndices[0] != int64(i) {
			t.Fatalf("record %d top = %v", i, r.TopKIndices)
		}
	}
	if ev.Summary.Total != 3 || ev.Summary.Correct != 3 || ev.Summary.Accuracy != 1.0 {
		t.Fatalf("summary = %+v", ev.Summary)
	}
	if ev.Metric != vector.Euclidean {
		t.Fatalf("metric = %q", ev.Metric)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var written []Record
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(written) != 3 || !written[2].IsCorrect || written[2].QueryIdx != 2 {
		t.Fatalf("written = %+v", written)
	}
	if filepath.Base(written[1].File) != "doc-001.npy" {
		t.Fatalf("file = %q", written[1].File)
	}
}

func TestEvaluate_CosineScaledQueries(t *testing.T) {
	name, s := build(t, basis, vector.Cosine)
	scaled := [][]float32{{2, 0, 0, 0}, {0, 5, 0, 0}, {0, 0, 9, 0}}
	ev, err := Evaluate(context.Background(), EvalOptions{
		Name: name, QueryDir: queryDir(t, scaled), TopK: 1, Store: s,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Metric != vector.Cosine {
		t.Fatalf("metric from entry = %q, want cosine", ev.Metric)
	}
	if ev.Summary.Accuracy != 1.0 {
		t.Fatalf("accuracy = %v", ev.Summary.Accuracy)
	}
	for i, r := range ev.Records {
		if r.TopKDistances[0] > 1e-3 {
			t.Fatalf("record %d distance = %v, want ~0", i, r.TopKDistances[0])
		}
	}
}

func TestEvaluate_KLargerThanIndex(t *testing.T) {
	name, s := build(t, basis, vector.Euclidean)
	ev, err := Evaluate(context.Background(), EvalOptions{
		Name: name, QueryDir: queryDir(t, basis), TopK: 10, Store: s,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for _, r := range ev.Records {
		if len(r.TopKIndices) != 3 || len(r.TopKDistances) != 3 {
			t.Fatalf("record = %+v, want 3 real neighbours", r)
		}
	}
}

func TestEvaluate_EmptyQueryFolder(t *testing.T) {
	name, s := build(t, basis, vector.Euclidean)
	_, err := Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: t.TempDir(), Store: s})
	var le *corpus.LoadError
	if !errors.As(err, &le) || !errors.Is(err, corpus.ErrNoFiles) {
		t.Fatalf("expected LoadError(ErrNoFiles), got %v", err)
	}
}

func TestEvaluate_Alignment(t *testing.T) {
	name, s := build(t, basis, vector.Euclidean)

	dir := t.TempDir()
	testutil.WriteMatrix(t, dir, "all.npy", basis)

	_, err := Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: dir, Store: s})
	var le *corpus.LoadError
	if !errors.As(err, &le) || !errors.Is(err, ErrMisaligned) {
		t.Fatalf("strict: expected ErrMisaligned, got %v", err)
	}

	ev, err := Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: dir, Alignment: AlignRows, Store: s})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if ev.Summary.Accuracy != 1.0 {
		t.Fatalf("rows accuracy = %v", ev.Summary.Accuracy)
	}

	short := t.TempDir()
	testutil.WriteMatrix(t, short, "two.npy", basis[:2])
	if _, err := Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: short, Alignment: AlignRows, Store: s}); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("rows short: expected ErrMisaligned, got %v", err)
	}
	ev, err = Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: short, Alignment: AlignOff, Store: s})
	if err != nil {
		t.Fatalf("off: %v", err)
	}
	if ev.Summary.Total != 2 {
		t.Fatalf("off total = %d", ev.Summary.Total)
	}
}

func TestEvaluate_DimensionMismatch(t *testing.T) {
	name, s := build(t, basis, vector.Euclidean)
	wide := [][]float32{{1, 0, 0, 0, 0}, {0, 1, 0, 0, 0}, {0, 0, 1, 0, 0}}
	_, err := Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: queryDir(t, wide), Alignment: AlignOff, Store: s})
	var se *index.SearchError
	if !errors.As(err, &se) || !errors.Is(err, vector.ErrDimensionMismatch) {
		t.Fatalf("expected SearchError(dimension), got %v", err)
	}
}

func TestEvaluate_MissingIndex(t *testing.T) {
	_, err := Evaluate(context.Background(), EvalOptions{
		Name: filepath.Join(t.TempDir(), "none.index"), QueryDir: queryDir(t, basis), Store: store.NewFileStore(false),
	})
	var pe *store.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestBuild_ZeroVectorCosine(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCorpus(t, dir, [][]float32{{1, 0}, {0, 0}, {0, 1}})
	_, err := Build(context.Background(), BuildOptions{
		CorpusDir: dir, Name: filepath.Join(t.TempDir(), "x.index"), Metric: vector.Cosine, Store: store.NewFileStore(false),
	})
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected BuildError, got %v", err)
	}
	var ze *vector.ZeroVectorError
	if !errors.As(err, &ze) || ze.Row != 1 {
		t.Fatalf("expected zero row 1, got %v", err)
	}
}

func TestBuild_ZeroVectorEuclideanIsFine(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCorpus(t, dir, [][]float32{{1, 0}, {0, 0}, {0, 1}})
	if _, err := Build(context.Background(), BuildOptions{
		CorpusDir: dir, Name: filepath.Join(t.TempDir(), "x.index"), Store: store.NewFileStore(false),
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuild_EmptyCorpus(t *testing.T) {
	_, err := Build(context.Background(), BuildOptions{
		CorpusDir: t.TempDir(), Name: filepath.Join(t.TempDir(), "x.index"), Store: store.NewFileStore(false),
	})
	if !errors.Is(err, corpus.ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestBuild_CoverKindSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testutil.WriteCorpus(t, dir, basis)
	s, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "idx.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	if _, err := Build(ctx, BuildOptions{CorpusDir: dir, Name: "basis", Kind: index.KindCover, Store: s}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := Build(ctx, BuildOptions{CorpusDir: dir, Name: "basis", Store: s}); !errors.Is(err, store.ErrExists) {
		t.Fatalf("expected ErrExists on rebuild, got %v", err)
	}
	ev, err := Evaluate(ctx, EvalOptions{Name: "basis", QueryDir: queryDir(t, basis), TopK: 2, Store: s})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Summary.Accuracy != 1.0 {
		t.Fatalf("accuracy = %v", ev.Summary.Accuracy)
	}
}

type stepSampler struct{ n int }

func (s *stepSampler) Sample() (telemetry.Sample, error) {
	s.n++
	return telemetry.Sample{RSS: uint64(s.n) * 1024, CPUSeconds: float64(s.n), At: time.Unix(int64(s.n)*2, 0)}, nil
}

func TestEvaluate_Reporter(t *testing.T) {
	name, s := build(t, basis, vector.Euclidean)
	r := telemetry.NewReporter(telemetry.WithSampler(&stepSampler{}))
	ev, err := Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: queryDir(t, basis), Store: s, Reporter: r})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Summary.MemoryDeltaBytes != 1024 {
		t.Fatalf("memory delta = %d", ev.Summary.MemoryDeltaBytes)
	}
	if ev.Summary.CPUPercent < 49.9 || ev.Summary.CPUPercent > 50.1 {
		t.Fatalf("cpu = %v", ev.Summary.CPUPercent)
	}
	if ev.Summary.RunID == "" {
		t.Fatal("run id not set")
	}
}

func TestParseAlignment(t *testing.T) {
	for in, want := range map[string]Alignment{"": AlignStrict, "STRICT": AlignStrict, "rows": AlignRows, "off": AlignOff} {
		got, err := ParseAlignment(in)
		if err != nil || got != want {
			t.Fatalf("ParseAlignment(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseAlignment("loose"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEvaluate_NonFiniteQuery(t *testing.T) {
	name, s := build(t, basis, vector.Euclidean)
	bad := [][]float32{{1, 0, 0, 0}, {float32(math.NaN()), 1, 0, 0}, {0, 0, 1, 0}}
	out := filepath.Join(t.TempDir(), "results.json")
	_, err := Evaluate(context.Background(), EvalOptions{Name: name, QueryDir: queryDir(t, bad), OutputPath: out, Store: s})
	var le *corpus.LoadError
	if !errors.As(err, &le) || !errors.Is(err, corpus.ErrUnsupportedArray) {
		t.Fatalf("expected LoadError(ErrUnsupportedArray), got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("results file should not exist, stat err = %v", statErr)
	}
}
