package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v, want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, err := Lookup(ctx, c, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Lookup() error = %v, want ErrCacheMiss", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}

	if err := c.Set(ctx, "a", []byte("alpha"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, err := Lookup(ctx, c, "a")
	if err != nil || string(data) != "alpha" {
		t.Errorf("Lookup(a) = %q, %v", data, err)
	}

	if err := c.Set(ctx, "b", []byte("beta"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted entry should be a miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v, want silent miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"x", "y", "z"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, size, err := c.Stats()
	if err != nil || n != 3 || size == 0 {
		t.Errorf("Stats() = %d, %d, %v", n, size, err)
	}
	removed, err := c.Clear()
	if err != nil || removed != 3 {
		t.Errorf("Clear() = %d, %v, want 3", removed, err)
	}
	if n, _, _ := c.Stats(); n != 0 {
		t.Errorf("entries after Clear = %d", n)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
	if HashAll([]byte("ab")) == HashAll([]byte("a"), []byte("b")) {
		t.Error("HashAll should keep input boundaries")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	t1 := k.TOCKey("in", TOCKeyOpts{Root: 1, ConfigHash: "c"})
	t2 := k.TOCKey("in", TOCKeyOpts{Root: 1, Target: 4, ConfigHash: "c"})
	if t1 == t2 {
		t.Error("Different TOCKeyOpts should produce different keys")
	}
	if t1 != k.TOCKey("in", TOCKeyOpts{Root: 1, ConfigHash: "c"}) {
		t.Error("TOCKey should be deterministic")
	}
	if t1[:4] != "toc:" {
		t.Errorf("TOCKey prefix: %s", t1)
	}

	a1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "xml"})
	a2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "json"})
	if a1 == a2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "ws:handbook:")
	want := "ws:handbook:" + NewDefaultKeyer().TOCKey("in", TOCKeyOpts{Root: 2})
	if got := scoped.TOCKey("in", TOCKeyOpts{Root: 2}); got != want {
		t.Errorf("TOCKey() = %s, want %s", got, want)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}); got[:11] != "p:artifact:" {
		t.Errorf("ArtifactKey() with nil inner = %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, false, 1, false},
		{"permanent failure", 5, false, 1, true},
		{"recovers", 1, true, 2, false},
		{"gives up", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(ErrNetwork)
					}
					return ErrCacheMiss
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if IsRetryable(classify(redis.Nil)) {
		t.Error("redis.Nil is a miss, not a retryable failure")
	}
	if !IsRetryable(classify(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))) {
		t.Error("connection refused should be retryable")
	}
	if IsRetryable(classify(errors.New("WRONGTYPE Operation against a key"))) {
		t.Error("server errors should not be retried")
	}
}

func TestRedisClearNeedsPrefix(t *testing.T) {
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "")
	defer c.Close()
	if _, err := c.Clear(context.Background()); err == nil {
		t.Error("Clear() without prefix should fail")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		url     string
		wantErr bool
		check   func(Cache) bool
	}{
		{"none", false, func(c Cache) bool { _, ok := c.(NullCache); return ok }},
		{"file://" + t.TempDir(), false, func(c Cache) bool { _, ok := c.(*FileCache); return ok }},
		{"memcached://localhost", true, nil},
	}
	for _, tt := range tests {
		c, err := Open(ctx, tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Open(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if tt.check != nil && !tt.check(c) {
			t.Errorf("Open(%q) = %T", tt.url, c)
		}
	}

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := Open(ctx, "")
	if err != nil {
		t.Fatalf("Open(\"\") error: %v", err)
	}
	if fc, ok := c.(*FileCache); !ok || filepath.Base(fc.Dir()) != "folio" {
		t.Errorf("Open(\"\") = %T, want file cache in XDG_CACHE_HOME/folio", c)
	}
}
