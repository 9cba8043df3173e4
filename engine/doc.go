// Package engine opens SQLite databases through the pure-Go modernc.org/sqlite
// driver, so other packages share one driver registration and the same
// connection settings.
package engine
