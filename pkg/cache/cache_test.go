package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Store(ctx, &Entry{Key: "k", Outputs: []string{"a.png"}}); err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if _, hit, err := c.Lookup(ctx, "k"); hit || err != nil {
		t.Errorf("Lookup() hit = %v, err = %v; want miss", hit, err)
	}
	if err := c.Forget(ctx, "k"); err != nil {
		t.Errorf("Forget error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestHashFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "1\n0 0 0\n0 1 0\n0 0 0\n")

	h1, err := HashFiles(a, b)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashFiles(a, b)
	if h1 != h2 {
		t.Error("HashFiles should be deterministic")
	}

	writeFile(t, b, "0 0\n")
	h3, _ := HashFiles(a, b)
	if h3 == h1 {
		t.Error("a file appearing should change the hash")
	}

	writeFile(t, a, "1\n0 0 0\n0 2 0\n0 0 0\n")
	h4, _ := HashFiles(a, b)
	if h4 == h3 {
		t.Error("changed content should change the hash")
	}
}

func TestKey(t *testing.T) {
	type settings struct {
		DPI     int
		Formats []string
	}
	k1, err := Key("heatmap", "abc", "log", settings{300, []string{"png"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(k1, "heatmap:") {
		t.Errorf("key %q should start with its kind", k1)
	}
	k2, _ := Key("heatmap", "abc", "log", settings{600, []string{"png"}})
	k3, _ := Key("heatmap", "abd", "log", settings{300, []string{"png"}})
	k4, _ := Key("heatmap", "abc", "raw", settings{300, []string{"png"}})
	if k1 == k2 || k1 == k3 || k1 == k4 {
		t.Error("keys should differ when inputs or settings differ")
	}

	if _, err := Key("heatmap", "abc", func() {}); err == nil {
		t.Error("unencodable settings should be an error")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(filepath.Join(dir, DirName))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	out := filepath.Join(dir, "wall_log.png")
	writeFile(t, out, "png")

	if _, hit, _ := c.Lookup(ctx, "heatmap:1"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Store(ctx, &Entry{Key: "heatmap:1", Outputs: []string{out}}); err != nil {
		t.Fatalf("Store error: %v", err)
	}

	e, hit, err := c.Lookup(ctx, "heatmap:1")
	if err != nil || !hit {
		t.Fatalf("Lookup() hit = %v, err = %v", hit, err)
	}
	if len(e.Outputs) != 1 || e.Outputs[0] != out || e.Written.IsZero() {
		t.Errorf("entry = %+v", e)
	}

	if err := c.Forget(ctx, "heatmap:1"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Lookup(ctx, "heatmap:1"); hit {
		t.Error("forgotten entry should miss")
	}
	if err := c.Forget(ctx, "heatmap:1"); err != nil {
		t.Errorf("forgetting twice should not fail: %v", err)
	}
}

func TestFileCacheMissingOutput(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	out := filepath.Join(dir, "trajectories.png")
	writeFile(t, out, "png")
	_ = c.Store(ctx, &Entry{Key: "overlay:1", Outputs: []string{out}})

	if err := os.Remove(out); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Lookup(ctx, "overlay:1"); hit {
		t.Error("entry whose output was deleted should miss")
	}
	if _, err := os.Stat(c.path("overlay:1")); !os.IsNotExist(err) {
		t.Error("stale entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("heatmap:2")
	writeFile(t, path, "{not json")
	if _, hit, err := c.Lookup(ctx, "heatmap:2"); hit || err != nil {
		t.Errorf("corrupt entry: hit = %v, err = %v; want miss", hit, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
