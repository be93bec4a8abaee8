package storage

import (
	"context"
	"errors"
	"time"
)

var ErrClosed = errors.New("store closed")

// Config configures the subscriber store.
//
// Driver values:
//   - "file" (default): full-set JSON file, atomic rewrite on change
//   - "sqlite": SQLite database file
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the durable subscriber registry.
//
// AddSubscriber has set semantics: adding a known id is a no-op reported as
// added=false and must not rewrite durable state. Subscribers and
// AddSubscriber may be called concurrently from different goroutines
// (broadcast reads vs. subscription events); implementations serialize
// writes and never expose a torn read.
type Store interface {
	Subscribers(ctx context.Context) ([]int64, error)
	AddSubscriber(ctx context.Context, id int64) (added bool, err error)
	Close() error
}
