// Package store persists built indexes together with the manifest of source
// files they were built from. Two backends are provided: one file per index,
// and a SQLite database holding many named indexes in a vector_storage table.
// Entries are write-once: saving over an existing name fails unless the store
// was opened with Overwrite.
package store
