package cache

import "context"

// NullCache never stores anything, so every lookup misses.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() *NullCache {
	return &NullCache{}
}

// Lookup always misses.
func (NullCache) Lookup(ctx context.Context, key string) (*Entry, bool, error) {
	return nil, false, nil
}

// Store does nothing.
func (NullCache) Store(ctx context.Context, e *Entry) error {
	return nil
}

// Forget does nothing.
func (NullCache) Forget(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (NullCache) Close() error {
	return nil
}

var _ Cache = NullCache{}
