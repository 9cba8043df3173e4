package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/index/factory"
	"github.com/viant/vecbench/vector"
)

var (
	// ErrNotFound is returned when no entry exists under a name.
	ErrNotFound = errors.New("store: index not found")

	// ErrExists is returned when saving over an entry without Overwrite.
	ErrExists = errors.New("store: index already exists")
)

// PersistenceError reports an unreadable, corrupt or unwritable index entry.
type PersistenceError struct {
	Op   string
	Name string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Segment is one source file's contribution to the indexed rows, in order.
type Segment struct {
	Stem string `json:"stem"`
	Rows int    `json:"rows"`
}

// Entry is a persisted index plus the metadata needed to evaluate it.
type Entry struct {
	Index     index.Index
	Metric    vector.Metric
	Segments  []Segment
	BuildID   string
	CreatedAt time.Time
}

// Store saves and loads entries by name. For the file backend the name is a
// filesystem path.
type Store interface {
	Save(ctx context.Context, name string, e *Entry) error
	Load(ctx context.Context, name string) (*Entry, error)
	Close() error
}

type manifest struct {
	Kind      index.Kind    `json:"kind"`
	Metric    vector.Metric `json:"metric"`
	Dim       int           `json:"dim"`
	Rows      int           `json:"rows"`
	Segments  []Segment     `json:"segments,omitempty"`
	BuildID   string        `json:"build_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func encodeManifest(e *Entry) ([]byte, error) {
	if e == nil || e.Index == nil {
		return nil, errors.New("entry has no index")
	}
	return json.Marshal(manifest{
		Kind:      e.Index.Kind(),
		Metric:    e.Metric,
		Dim:       e.Index.Dim(),
		Rows:      e.Index.Len(),
		Segments:  e.Segments,
		BuildID:   e.BuildID,
		CreatedAt: e.CreatedAt.UTC(),
	})
}

func decodeEntry(manifestData, indexData []byte) (*Entry, error) {
	var m manifest
	if err := json.Unmarshal(manifestData, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	idx, err := factory.Decode(indexData)
	if err != nil {
		return nil, err
	}
	if idx.Kind() != m.Kind || idx.Dim() != m.Dim || idx.Len() != m.Rows {
		return nil, fmt.Errorf("%w: manifest %s %dx%d, index %s %dx%d",
			index.ErrCorrupt, m.Kind, m.Rows, m.Dim, idx.Kind(), idx.Len(), idx.Dim())
	}
	return &Entry{
		Index:     idx,
		Metric:    m.Metric,
		Segments:  m.Segments,
		BuildID:   m.BuildID,
		CreatedAt: m.CreatedAt,
	}, nil
}

// File framing: magic | manifest length u32 | manifest JSON | index encoding.
const fileMagic = "VBENTRY1"

func frame(manifestData, indexData []byte) []byte {
	out := make([]byte, 0, len(fileMagic)+4+len(manifestData)+len(indexData))
	out = append(out, fileMagic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(manifestData)))
	out = append(out, manifestData...)
	return append(out, indexData...)
}

func unframe(data []byte) (manifestData, indexData []byte, err error) {
	if len(data) < len(fileMagic)+4 || string(data[:len(fileMagic)]) != fileMagic {
		return nil, nil, fmt.Errorf("%w: not an index entry", index.ErrCorrupt)
	}
	data = data[len(fileMagic):]
	n := int(binary.LittleEndian.Uint32(data))
	data = data[4:]
	if n > len(data) {
		return nil, nil, fmt.Errorf("%w: truncated manifest", index.ErrCorrupt)
	}
	return data[:n], data[n:], nil
}
