package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/viant/vecbench/corpus"
	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/index/factory"
	"github.com/viant/vecbench/internal/logger"
	"github.com/viant/vecbench/store"
	"github.com/viant/vecbench/telemetry"
	"github.com/viant/vecbench/vector"
)

// BuildOptions configures Build.
type BuildOptions struct {
	CorpusDir string
	// Name is the index path for the file store or the entry name for SQLite.
	Name   string
	Metric vector.Metric
	Kind   index.Kind
	Store  store.Store
	// Reporter, when set, measures the build.
	Reporter *telemetry.Reporter
	Logger   *slog.Logger
}

// BuildReport describes a saved index.
type BuildReport struct {
	BuildID string
	Name    string
	Kind    index.Kind
	Metric  vector.Metric
	Rows    int
	Dim     int
	Files   int
	Usage   telemetry.Usage
}

// Build indexes every .npy file in opts.CorpusDir and saves the result.
func Build(ctx context.Context, opts BuildOptions) (*BuildReport, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Store == nil {
		return nil, errors.New("pipeline: build: no store")
	}
	metric, err := vector.ParseMetric(string(opts.Metric))
	if err != nil {
		return nil, err
	}
	kind, err := index.ParseKind(string(opts.Kind))
	if err != nil {
		return nil, err
	}

	report := &BuildReport{BuildID: uuid.NewString(), Name: opts.Name, Kind: kind, Metric: metric}
	run := func(ctx context.Context) error {
		c, err := corpus.Load(ctx, opts.CorpusDir, corpus.WithLogger(log))
		if err != nil {
			return err
		}
		if metric.Normalizes() {
			if err := vector.NormalizeRows(c.Matrix); err != nil {
				return &BuildError{Err: describeRow(c, err)}
			}
		}
		idx, err := factory.New(kind, c.Matrix.Dim)
		if err != nil {
			return &BuildError{Err: err}
		}
		if err := idx.Add(c.Matrix); err != nil {
			return &BuildError{Err: err}
		}
		log.Info("index built", "kind", kind, "metric", metric, "rows", idx.Len(), "dim", idx.Dim())

		entry := &store.Entry{
			Index:     idx,
			Metric:    metric,
			Segments:  Segments(c.Sources),
			BuildID:   report.BuildID,
			CreatedAt: time.Now().UTC(),
		}
		if err := opts.Store.Save(ctx, opts.Name, entry); err != nil {
			return err
		}
		report.Rows, report.Dim, report.Files = idx.Len(), idx.Dim(), len(c.Sources)
		log.Info("index saved", "name", opts.Name, "build_id", report.BuildID)
		return nil
	}

	if opts.Reporter == nil {
		start := time.Now()
		err = run(ctx)
		report.Usage.Elapsed = time.Since(start)
	} else {
		report.Usage, err = opts.Reporter.Measure(ctx, "build", run)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// describeRow names the source file of a zero row.
func describeRow(c *corpus.Corpus, err error) error {
	var zerr *vector.ZeroVectorError
	if !errors.As(err, &zerr) {
		return err
	}
	if src, ok := c.SourceOf(zerr.Row); ok {
		return fmt.Errorf("%w (%s row %d)", err, src.Path, zerr.Row-src.Offset)
	}
	return err
}
