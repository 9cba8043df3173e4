package pipeline

import (
	"fmt"
	"strings"

	"github.com/viant/vecbench/corpus"
	"github.com/viant/vecbench/store"
)

// Alignment selects how strictly query rows must correspond to corpus rows
// before positional accuracy is computed.
type Alignment string

const (
	// AlignStrict requires the same file stems, in the same order, with the
	// same row counts.
	AlignStrict Alignment = "strict"
	// AlignRows requires only equal total row counts.
	AlignRows Alignment = "rows"
	// AlignOff trusts the caller.
	AlignOff Alignment = "off"
)

// ParseAlignment validates a policy name; empty means strict.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(strings.ToLower(strings.TrimSpace(s))) {
	case "", AlignStrict:
		return AlignStrict, nil
	case AlignRows:
		return AlignRows, nil
	case AlignOff:
		return AlignOff, nil
	}
	return "", fmt.Errorf("pipeline: unknown alignment %q", s)
}

// Segments converts corpus sources into the manifest persisted with an index.
func Segments(sources []corpus.Source) []store.Segment {
	out := make([]store.Segment, len(sources))
	for i, s := range sources {
		out[i] = store.Segment{Stem: s.Stem, Rows: s.Rows}
	}
	return out
}

func checkAlignment(policy Alignment, indexed []store.Segment, indexRows int, queries *corpus.Corpus) error {
	switch policy {
	case AlignOff:
		return nil
	case AlignRows:
		if queries.Rows() != indexRows {
			return fmt.Errorf("%w: %d query rows, %d indexed rows", ErrMisaligned, queries.Rows(), indexRows)
		}
		return nil
	}
	got := Segments(queries.Sources)
	if len(got) != len(indexed) {
		return fmt.Errorf("%w: %d query files, %d indexed files", ErrMisaligned, len(got), len(indexed))
	}
	for i := range got {
		if got[i] != indexed[i] {
			return fmt.Errorf("%w: file %d is %s (%d rows), indexed %s (%d rows)",
				ErrMisaligned, i, got[i].Stem, got[i].Rows, indexed[i].Stem, indexed[i].Rows)
		}
	}
	return nil
}
