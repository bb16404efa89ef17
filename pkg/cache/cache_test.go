package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
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

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("dungeon"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "dungeon" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheUsageClearPrune(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	_ = c.Set(ctx, "stale", []byte("s"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	u, err := c.Usage()
	if err != nil {
		t.Fatal(err)
	}
	if u.Entries != 4 || u.Expired != 1 || u.Bytes == 0 {
		t.Errorf("Usage() = %+v", u)
	}

	n, err := c.Prune()
	if err != nil || n != 1 {
		t.Errorf("Prune() = %d, %v; want 1", n, err)
	}

	n, err = c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3", n, err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
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
	p := dungeon.DefaultParams()

	mk1 := k.MapKey(p, 1)
	if !strings.HasPrefix(mk1, "map:") {
		t.Errorf("MapKey unexpected: %s", mk1)
	}
	if mk1 != k.MapKey(p, 1) {
		t.Error("MapKey should be deterministic")
	}
	if mk1 == k.MapKey(p, 2) {
		t.Error("Different seeds should produce different keys")
	}
	q := p
	q.MinRoomSize = 7
	if mk1 == k.MapKey(q, 1) {
		t.Error("Different params should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "plain"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "rooms"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	if k.TreeKey(p, 1, true) == k.TreeKey(p, 1, false) {
		t.Error("TreeKey should include the detail flag")
	}
}

func TestWithPrefix(t *testing.T) {
	inner := NewDefaultKeyer()
	p := dungeon.DefaultParams()

	scoped := WithPrefix(inner, "team-a:")
	if got, want := scoped.MapKey(p, 5), "team-a:"+inner.MapKey(p, 5); got != want {
		t.Errorf("MapKey = %s, want %s", got, want)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "txt"}); !strings.HasPrefix(got, "team-a:artifact:") {
		t.Errorf("ArtifactKey = %s", got)
	}
	if got := WithPrefix(nil, "p:").TreeKey(p, 1, false); !strings.HasPrefix(got, "p:tree:") {
		t.Errorf("TreeKey with nil keyer = %s", got)
	}
	if WithPrefix(inner, "") != inner {
		t.Error("empty prefix should return the keyer unchanged")
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should return nil")
	}
	err := Transient(ErrUnavailable)
	if !IsTransient(err) {
		t.Error("IsTransient should report a marked error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("marked error should unwrap to the cause")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("message changed: %s", err)
	}
	if IsTransient(ErrUnavailable) {
		t.Error("unmarked error reported as transient")
	}
	if !IsTransient(fmt.Errorf("ping: %w", err)) {
		t.Error("IsTransient should see through wrapping")
	}
}

func TestBackoffDo(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Base: time.Millisecond, Max: 2 * time.Millisecond}
	errPermanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int // transient failures before success; -1 fails permanently
		wantCalls int
		wantErr   error
	}{
		{name: "first try", failures: 0, wantCalls: 1},
		{name: "recovers", failures: 2, wantCalls: 3},
		{name: "exhausted", failures: 5, wantCalls: 3, wantErr: ErrUnavailable},
		{name: "permanent", failures: -1, wantCalls: 1, wantErr: errPermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Do(ctx, func(context.Context) error {
				calls++
				switch {
				case tt.failures < 0:
					return errPermanent
				case calls <= tt.failures:
					return Transient(ErrUnavailable)
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Do(context.Background(), func(context.Context) error {
		calls++
		return Transient(ErrUnavailable)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DefaultBackoff.Do(ctx, func(context.Context) error {
		return Transient(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// TestRedisCache runs against a live server when DUNGEONFORGE_TEST_REDIS is set,
// e.g. redis://localhost:6379/15.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("DUNGEONFORGE_TEST_REDIS")
	if url == "" {
		t.Skip("DUNGEONFORGE_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "dungeonforge-test:" + t.Name()
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("grid"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "grid" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url://x"); err == nil {
		t.Error("expected parse error")
	}
}
