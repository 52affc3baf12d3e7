// Package store provides raw persistence: a filesystem blob store for
// record bodies and a SQLite metadata store for counters and the write
// journal.
package store

import "time"

// Store is the raw get/put/delete/list interface over resolved
// locations. It knows nothing about record semantics.
type Store interface {
	// Get returns the bytes at a location, or model.ErrNotFound.
	Get(location string) ([]byte, error)

	// Put atomically replaces the bytes at a location, creating parent
	// directories as needed. Atomicity holds only per location; there
	// is no cross-location atomicity.
	Put(location string, data []byte) error

	// Delete removes the record at a location, or model.ErrNotFound.
	Delete(location string) error

	// List returns all locations under the given prefix, sorted.
	List(prefix string) ([]string, error)

	// ModTime returns the storage modification time of a location,
	// used as the freshness fallback for marker-less records.
	ModTime(location string) (time.Time, error)
}
