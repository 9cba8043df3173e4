package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/viant/vecbench/engine"
)

const vectorStorageSchema = `
CREATE TABLE IF NOT EXISTS vector_storage (
    name       TEXT PRIMARY KEY,
    manifest   TEXT NOT NULL,
    "index"    BLOB NOT NULL,
    created_at INTEGER NOT NULL
)`

// SQLiteStore keeps named entries in the vector_storage table of a SQLite
// database.
type SQLiteStore struct {
	db        *sql.DB
	overwrite bool
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// vector_storage schema exists.
func OpenSQLite(ctx context.Context, path string, overwrite bool) (*SQLiteStore, error) {
	db, err := engine.Open(ctx, path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Name: path, Err: err}
	}
	if _, err := db.ExecContext(ctx, vectorStorageSchema); err != nil {
		_ = db.Close()
		return nil, &PersistenceError{Op: "open", Name: path, Err: err}
	}
	return &SQLiteStore{db: db, overwrite: overwrite}, nil
}

// Save stores the entry under name.
func (s *SQLiteStore) Save(ctx context.Context, name string, e *Entry) error {
	manifestData, err := encodeManifest(e)
	if err != nil {
		return &PersistenceError{Op: "save", Name: name, Err: err}
	}
	indexData, err := e.Index.MarshalBinary()
	if err != nil {
		return &PersistenceError{Op: "save", Name: name, Err: err}
	}
	stmt := `INSERT INTO vector_storage(name, manifest, "index", created_at) VALUES (?, ?, ?, ?)`
	if s.overwrite {
		stmt += ` ON CONFLICT(name) DO UPDATE SET manifest = excluded.manifest, "index" = excluded."index", created_at = excluded.created_at`
	} else {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM vector_storage WHERE name = ?`, name).Scan(&exists)
		if err == nil {
			return &PersistenceError{Op: "save", Name: name, Err: ErrExists}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return &PersistenceError{Op: "save", Name: name, Err: err}
		}
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := s.db.ExecContext(ctx, stmt, name, string(manifestData), indexData, created.Unix()); err != nil {
		return &PersistenceError{Op: "save", Name: name, Err: err}
	}
	return nil
}

// Load reads the entry stored under name.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*Entry, error) {
	var manifestData string
	var indexData []byte
	err := s.db.QueryRowContext(ctx, `SELECT manifest, "index" FROM vector_storage WHERE name = ?`, name).Scan(&manifestData, &indexData)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return nil, &PersistenceError{Op: "load", Name: name, Err: err}
	}
	e, err := decodeEntry([]byte(manifestData), indexData)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Name: name, Err: err}
	}
	return e, nil
}

// Names lists stored entry names in ascending order.
func (s *SQLiteStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM vector_storage ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	SQLitePath string
	Overwrite  bool
}

// Open returns the store selected by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Overwrite), nil
	case BackendSQLite:
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("store: sqlite backend requires a database path")
		}
		return OpenSQLite(ctx, opts.SQLitePath, opts.Overwrite)
	}
	return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
}
