package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// DirName is the cache directory created inside the output directory.
const DirName = ".latfig-cache"

// FileCache keeps one JSON file per entry under dir.
type FileCache struct {
	dir string
}

// NewFileCache opens a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Lookup implements Cache. An entry whose outputs are no longer all on disk
// is removed and reported as a miss.
func (c *FileCache) Lookup(ctx context.Context, key string) (*Entry, bool, error) {
	path := c.path(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		return nil, false, c.Forget(ctx, key)
	}
	for _, out := range e.Outputs {
		if _, err := os.Stat(out); err != nil {
			return nil, false, c.Forget(ctx, key)
		}
	}
	return &e, true, nil
}

// Store implements Cache.
func (c *FileCache) Store(ctx context.Context, e *Entry) error {
	if e.Written.IsZero() {
		e.Written = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(e.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Forget implements Cache.
func (c *FileCache) Forget(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Close implements Cache.
func (c *FileCache) Close() error {
	return nil
}

// path spreads entries over subdirectories named by the first two hex
// digits of the key hash.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
