package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each entry in its own file.
type FileStore struct {
	overwrite bool
}

// NewFileStore creates a file-backed store.
func NewFileStore(overwrite bool) *FileStore {
	return &FileStore{overwrite: overwrite}
}

// Save writes the entry to path atomically (temp file + rename).
func (s *FileStore) Save(ctx context.Context, path string, e *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.overwrite {
		if _, err := os.Stat(path); err == nil {
			return &PersistenceError{Op: "save", Name: path, Err: ErrExists}
		}
	}
	manifestData, err := encodeManifest(e)
	if err != nil {
		return &PersistenceError{Op: "save", Name: path, Err: err}
	}
	indexData, err := e.Index.MarshalBinary()
	if err != nil {
		return &PersistenceError{Op: "save", Name: path, Err: err}
	}
	if err := writeAtomic(path, frame(manifestData, indexData)); err != nil {
		return &PersistenceError{Op: "save", Name: path, Err: err}
	}
	return nil
}

// Load reads and decodes the entry at path.
func (s *FileStore) Load(ctx context.Context, path string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, &PersistenceError{Op: "load", Name: path, Err: err}
	}
	manifestData, indexData, err := unframe(data)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Name: path, Err: err}
	}
	e, err := decodeEntry(manifestData, indexData)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Name: path, Err: err}
	}
	return e, nil
}

func (s *FileStore) Close() error { return nil }

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Store = (*FileStore)(nil)
