package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "graph:abc", []byte(`{"nodes":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "graph:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"nodes":[]}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "graph:abc"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "graph:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "graph:abc"); err != nil {
		t.Errorf("Delete of missing entry: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d entries, want 2", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", c.Dir(), dir)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache: %v", err)
	}

	src := []byte("one")
	_ = c.Set(ctx, "a", src, 0)
	src[0] = 'X'
	data, hit, _ := c.Get(ctx, "a")
	if !hit || string(data) != "one" {
		t.Errorf("Get(a) = %q, %v; want stored copy", data, hit)
	}

	_ = c.Set(ctx, "b", []byte("two"), 0)
	_, _, _ = c.Get(ctx, "a") // a is now most recently used
	_ = c.Set(ctx, "c", []byte("three"), 0)

	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("least recently used entry b should be evicted")
	}
	if _, hit, _ := c.Get(ctx, "a"); !hit {
		t.Error("entry a should survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewMemoryCache(0)
	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed, Len() = %d", c.Len())
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	ctx := context.Background()
	c, _ := NewMemoryCache(4)
	_ = c.Close()
	if _, _, err := c.Get(ctx, "k"); err != ErrClosed {
		t.Errorf("Get after Close err = %v, want ErrClosed", err)
	}
	if err := c.Set(ctx, "k", nil, 0); err != ErrClosed {
		t.Errorf("Set after Close err = %v, want ErrClosed", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisCache against a closed port should fail")
	}
	if _, err := NewRedisCache(ctx, RedisConfig{URL: "://bad"}); err == nil {
		t.Error("NewRedisCache with a malformed URL should fail")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("url", "https://example.com/a.json"); got != "http:url:https://example.com/a.json" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}

	gk1 := k.GraphKey("hash123", GraphKeyOpts{Format: "json", MaxDepth: 10})
	gk2 := k.GraphKey("hash123", GraphKeyOpts{Format: "json", MaxDepth: 20})
	gk3 := k.GraphKey("hash123", GraphKeyOpts{Format: "json", MaxDepth: 10, UniqueIDs: true})
	if gk1 == gk2 || gk1 == gk3 {
		t.Error("Different GraphKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(gk1, "graph:") {
		t.Errorf("GraphKey should be prefixed: %s", gk1)
	}
	if gk1 != k.GraphKey("hash123", GraphKeyOpts{Format: "json", MaxDepth: 10}) {
		t.Error("GraphKey should be deterministic")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Detailed: true})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:123:")

	if got := scoped.HTTPKey("url", "x"); got != "tenant:123:http:url:x" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", got)
	}
	if got := scoped.GraphKey("h", GraphKeyOpts{}); !strings.HasPrefix(got, "tenant:123:graph:") {
		t.Errorf("ScopedKeyer GraphKey should be prefixed: %s", got)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "tenant:123:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.HTTPKey("test", "key"); key != "prefix:http:test:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestHashKeySortsMaps(t *testing.T) {
	a := hashKey("p", map[string]int{"x": 1, "y": 2, "z": 3})
	for range 10 {
		if b := hashKey("p", map[string]int{"z": 3, "y": 2, "x": 1}); b != a {
			t.Fatalf("hashKey depends on map iteration order: %s != %s", a, b)
		}
	}
	if hashKey("p", "ab", "c") == hashKey("p", "a", "bc") {
		t.Error("hashKey should keep part boundaries")
	}
	if !strings.HasPrefix(a, "p:") || len(a) != len("p:")+64 {
		t.Errorf("hashKey = %q, want p:<sha256>", a)
	}
}
