// Package storage persists the subscriber registry.
//
// Two drivers share one Store interface: a dependency-free JSON file backend
// and a SQLite backend. Both dedupe on insert and tolerate a reader running
// concurrently with a writer.
package storage
