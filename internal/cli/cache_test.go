package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dungeonforge/pkg/cache"
	"github.com/matzehuels/dungeonforge/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", dir)
		got, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(dir, appName); got != want {
			t.Errorf("cacheDir() = %q, want %q", got, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		got, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", appName); got != want {
			t.Errorf("cacheDir() = %q, want %q", got, want)
		}
	})

	t.Run("config override", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		c.Config.Cache.Dir = "/srv/dungeons"
		got, err := c.cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if got != "/srv/dungeons" {
			t.Errorf("cacheDir() = %q, want config dir", got)
		}
	})
}

func TestFileCacheRejectsRemoteBackend(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = config.CacheRedis
	if _, err := c.fileCache(); err == nil {
		t.Error("fileCache() with redis backend should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := sandbox(t)
	cacheRoot := filepath.Join(dir, "cache", appName)

	args := []string{"generate", "-W", "20", "-H", "20", "--min-room", "10", "--seed", "7",
		"-f", "json", "-o", filepath.Join(dir, "out.json")}
	if _, err := execute(t, args...); err != nil {
		t.Fatalf("generate: %v", err)
	}

	fc, err := cache.NewFileCache(cacheRoot)
	if err != nil {
		t.Fatal(err)
	}
	usage, err := fc.Usage()
	if err != nil {
		t.Fatal(err)
	}
	if usage.Entries == 0 {
		t.Fatal("generate left no cache entries")
	}

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cacheRoot {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheRoot)
	}

	for _, sub := range []string{"info", "prune", "clear"} {
		if _, err := execute(t, "cache", sub); err != nil {
			t.Fatalf("cache %s: %v", sub, err)
		}
	}
	usage, err = fc.Usage()
	if err != nil {
		t.Fatal(err)
	}
	if usage.Entries != 0 {
		t.Errorf("entries after clear = %d, want 0", usage.Entries)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{5 << 30, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
