package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/viant/vecbench/corpus"
	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/internal/logger"
	"github.com/viant/vecbench/store"
	"github.com/viant/vecbench/telemetry"
	"github.com/viant/vecbench/vector"
)

// DefaultTopK is the number of neighbours returned per query.
const DefaultTopK = 5

// EvalOptions configures Evaluate.
type EvalOptions struct {
	// Name is the index path for the file store or the entry name for SQLite.
	Name     string
	QueryDir string
	// OutputPath receives the per-query records as indented JSON; empty skips
	// writing.
	OutputPath string
	TopK       int
	// Metric empty means the metric recorded at build time.
	Metric    vector.Metric
	Alignment Alignment
	Store     store.Store
	Reporter  *telemetry.Reporter
	Logger    *slog.Logger
}

// Record is the outcome for one query row. Slots beyond the index size are
// omitted, so TopKIndices may be shorter than k.
type Record struct {
	File          string    `json:"file"`
	QueryIdx      int       `json:"query_idx"`
	TopKIndices   []int64   `json:"top_k_indices"`
	TopKDistances []float32 `json:"top_k_distances"`
	IsCorrect     bool      `json:"is_correct"`
}

// Summary aggregates an evaluation run.
type Summary struct {
	RunID            string  `json:"run_id"`
	Total            int     `json:"total"`
	Correct          int     `json:"correct"`
	Accuracy         float64 `json:"accuracy"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	MemoryDeltaBytes int64   `json:"memory_delta_bytes"`
	CPUPercent       float64 `json:"cpu_percent"`
}

// Evaluation is the full result of Evaluate.
type Evaluation struct {
	Summary Summary
	Records []Record
	Metric  vector.Metric
	Usage   telemetry.Usage
}

// Evaluate searches the saved index with every query row and scores top-1
// self-retrieval.
func Evaluate(ctx context.Context, opts EvalOptions) (*Evaluation, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Store == nil {
		return nil, errors.New("pipeline: evaluate: no store")
	}
	k := opts.TopK
	if k == 0 {
		k = DefaultTopK
	}
	policy, err := ParseAlignment(string(opts.Alignment))
	if err != nil {
		return nil, err
	}
	var metric vector.Metric
	if opts.Metric != "" {
		if metric, err = vector.ParseMetric(string(opts.Metric)); err != nil {
			return nil, err
		}
	}

	ev := &Evaluation{Summary: Summary{RunID: uuid.NewString()}}
	run := func(ctx context.Context) error {
		entry, err := opts.Store.Load(ctx, opts.Name)
		if err != nil {
			return err
		}
		log.Info("index loaded", "name", opts.Name, "kind", entry.Index.Kind(), "dim", entry.Index.Dim(), "rows", entry.Index.Len())
		if metric == "" {
			metric = entry.Metric
		} else if entry.Metric != "" && entry.Metric != metric {
			log.Warn("evaluation metric differs from build metric", "build", entry.Metric, "evaluate", metric)
		}
		ev.Metric = metric

		queries, err := corpus.Load(ctx, opts.QueryDir, corpus.WithLogger(log))
		if err != nil {
			return err
		}
		if err := checkAlignment(policy, entry.Segments, entry.Index.Len(), queries); err != nil {
			return &corpus.LoadError{Path: opts.QueryDir, Err: err}
		}
		if metric.Normalizes() {
			if err := vector.NormalizeRows(queries.Matrix); err != nil {
				return &index.SearchError{Err: describeRow(queries, err)}
			}
		}

		log.Info("searching", "queries", queries.Rows(), "k", k)
		res, err := entry.Index.Search(ctx, queries.Matrix, k)
		if err != nil {
			return err
		}
		ev.Records = score(queries, res)
		return nil
	}

	if opts.Reporter == nil {
		start := time.Now()
		err = run(ctx)
		ev.Usage.Elapsed = time.Since(start)
	} else {
		ev.Usage, err = opts.Reporter.Measure(ctx, "evaluate", run)
	}
	if err != nil {
		return nil, err
	}

	s := &ev.Summary
	s.Total = len(ev.Records)
	for _, r := range ev.Records {
		if r.IsCorrect {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Total)
	}
	s.ElapsedSeconds = ev.Usage.Elapsed.Seconds()
	s.MemoryDeltaBytes = ev.Usage.MemoryDeltaBytes
	s.CPUPercent = ev.Usage.CPUPercent

	if opts.OutputPath != "" {
		if err := WriteRecords(opts.OutputPath, ev.Records); err != nil {
			return nil, err
		}
		log.Info("results written", "path", opts.OutputPath, "records", len(ev.Records))
	}
	return ev, nil
}

func score(queries *corpus.Corpus, res *index.Result) []Record {
	records := make([]Record, res.Queries())
	for i := range records {
		ids, dists := res.Row(i)
		n := len(ids)
		for n > 0 && ids[n-1] < 0 {
			n--
		}
		r := Record{
			QueryIdx:      i,
			TopKIndices:   append([]int64(nil), ids[:n]...),
			TopKDistances: append([]float32(nil), dists[:n]...),
			IsCorrect:     n > 0 && ids[0] == int64(i),
		}
		if src, ok := queries.SourceOf(i); ok {
			r.File = src.Path
		}
		records[i] = r
	}
	return records
}

// WriteRecords writes records to path as an indented JSON array.
func WriteRecords(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: encode results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pipeline: write results: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("pipeline: write results: %w", err)
	}
	return nil
}
