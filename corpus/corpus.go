package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/vecbench/internal/logger"
	"github.com/viant/vecbench/vector"
)

// Source records which contiguous row range of the corpus came from a file.
type Source struct {
	Path   string
	Stem   string
	Offset int
	Rows   int
}

// Corpus is the stacked matrix together with its row provenance.
type Corpus struct {
	Matrix  *vector.Matrix
	Sources []Source
}

// Rows returns the total number of rows.
func (c *Corpus) Rows() int { return c.Matrix.Rows() }

// SourceOf returns the source that contributed row, or false when out of range.
func (c *Corpus) SourceOf(row int) (Source, bool) {
	i := sort.Search(len(c.Sources), func(i int) bool {
		s := c.Sources[i]
		return s.Offset+s.Rows > row
	})
	if row < 0 || i == len(c.Sources) || c.Sources[i].Offset > row {
		return Source{}, false
	}
	return c.Sources[i], true
}

// Option configures Load.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes per-file progress to l at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ListFiles returns the .npy files directly under dir, sorted by name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Extension) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, &LoadError{Path: dir, Err: ErrNoFiles}
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every .npy file in dir in ascending name order and stacks the
// rows. Any unreadable file or width disagreement aborts the whole load.
func Load(ctx context.Context, dir string, opts ...Option) (*Corpus, error) {
	o := &options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	o.logger.Info("loading corpus", "dir", dir, "files", len(files))

	c := &Corpus{Matrix: &vector.Matrix{}, Sources: make([]Source, 0, len(files))}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		offset := c.Matrix.Rows()
		if err := c.Matrix.Append(m); err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w (after %d rows)", err, offset)}
		}
		c.Sources = append(c.Sources, Source{
			Path:   path,
			Stem:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Offset: offset,
			Rows:   m.Rows(),
		})
		o.logger.Debug("loaded file", "path", path, "rows", m.Rows(), "dim", m.Dim)
	}
	if c.Rows() == 0 {
		// Files listed, but every one held zero rows.
		return nil, &LoadError{Path: dir, Err: ErrNoFiles}
	}
	o.logger.Info("corpus loaded", "rows", c.Rows(), "dim", c.Matrix.Dim)
	return c, nil
}
