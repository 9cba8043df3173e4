package engine

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// pragmas are passed through the DSN so the driver applies them to every
// pooled connection, not only the first one.
var pragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// DSN appends the connection pragmas to dsn, keeping any query parameters it
// already carries.
func DSN(dsn string) string {
	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Open opens a SQLite database using the modernc.org/sqlite driver and
// verifies the connection.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:"; the pool is then pinned to one connection so
// every statement sees the same database.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(dsn))
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
