// Package cache remembers which figures a previous run wrote, so an
// incremental run can leave a figure alone when neither its inputs nor its
// settings changed.
//
// A key is derived from the content hash of the inputs plus the settings
// that shape the figure (see [Key]). An [Entry] lists the files written
// under that key. Lookups report a hit only while every listed file still
// exists, so deleting an output forces it to be redrawn.
//
// Two implementations are provided:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [NullCache]: never hits, used when incremental runs are off
package cache

import (
	"context"
	"time"
)

// Entry records the files one figure wrote.
type Entry struct {
	Key     string    `json:"key"`
	Outputs []string  `json:"outputs"`
	Written time.Time `json:"written"`
}

// Cache stores entries by key.
type Cache interface {
	// Lookup returns the entry for key. A missing, unreadable or stale entry
	// is a miss, not an error.
	Lookup(ctx context.Context, key string) (*Entry, bool, error)

	// Store saves e under e.Key, replacing any previous entry.
	Store(ctx context.Context, e *Entry) error

	// Forget removes the entry for key, if any.
	Forget(ctx context.Context, key string) error

	Close() error
}
