// Package config loads the dungeonforge configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/dungeonforge/config.toml
// unless a path is given explicitly. Every key is optional: [Load] starts from
// [Default] and overlays whatever the file sets, then applies environment
// overrides for the connection strings that usually should not be committed.
//
//	seed = 42
//
//	[generation]
//	width = 80
//	height = 40
//	min_room_size = 6
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/render"
)

// AppName names the configuration, cache and data directories.
const AppName = "dungeonforge"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Archive backends.
const (
	ArchiveSQLite = "sqlite"
	ArchiveMemory = "memory"
	ArchiveMongo  = "mongo"
)

// Environment variables consulted by Load after the file is read.
const (
	EnvRedisURL = "DUNGEONFORGE_REDIS_URL"
	EnvMongoURI = "DUNGEONFORGE_MONGO_URI"
	EnvLogLevel = "DUNGEONFORGE_LOG_LEVEL"
	EnvAddr     = "DUNGEONFORGE_ADDR"
)

// Config is the full configuration.
type Config struct {
	// Seed is the default generation seed. 0 picks a random seed per run.
	Seed uint64 `toml:"seed"`

	Generation dungeon.Params `toml:"generation"`
	Render     RenderConfig   `toml:"render"`
	Cache      CacheConfig    `toml:"cache"`
	Archive    ArchiveConfig  `toml:"archive"`
	Server     ServerConfig   `toml:"server"`
	Log        LogConfig      `toml:"log"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Style    string   `toml:"style"`
	CellSize int      `toml:"cell_size"`
	Scale    float64  `toml:"scale"`

	// Glyphs is a two-character string: wall then floor, e.g. "#.".
	Glyphs string `toml:"glyphs"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"` // empty means the XDG cache directory
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// ArchiveConfig selects the archive backend.
type ArchiveConfig struct {
	Backend         string `toml:"backend"`
	Path            string `toml:"path"` // empty means the XDG data directory
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds the log level and optional rotating log file.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Generation: dungeon.DefaultParams(),
		Render: RenderConfig{
			Formats:  []string{string(render.FormatText)},
			Style:    string(render.StylePlain),
			CellSize: render.DefaultCellSize,
			Scale:    2.0,
			Glyphs:   string([]rune{dungeon.WallGlyph, dungeon.FloorGlyph}),
		},
		Cache: CacheConfig{
			Backend: CacheFile,
		},
		Archive: ArchiveConfig{
			Backend:         ArchiveSQLite,
			MongoDatabase:   AppName,
			MongoCollection: "maps",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath returns the path Load reads when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath]. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Archive.MongoURI = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.Generation.Validate(); err != nil {
		return err
	}

	if _, err := render.ParseFormats(c.Render.Formats); err != nil {
		return err
	}
	if _, err := render.ParseStyle(c.Render.Style); err != nil {
		return err
	}
	if c.Render.CellSize < 0 {
		return invalid("render.cell_size must not be negative, got %d", c.Render.CellSize)
	}
	if c.Render.Scale < 0 {
		return invalid("render.scale must not be negative, got %g", c.Render.Scale)
	}
	if c.Render.Glyphs != "" && utf8.RuneCountInString(c.Render.Glyphs) != 2 {
		return invalid("render.glyphs must be two characters (wall, floor), got %q", c.Render.Glyphs)
	}

	switch strings.ToLower(c.Cache.Backend) {
	case CacheFile, CacheNone, "":
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache.redis_url is required for the redis backend")
		}
	default:
		return invalid("unknown cache backend %q (use file, redis or none)", c.Cache.Backend)
	}

	switch strings.ToLower(c.Archive.Backend) {
	case ArchiveSQLite, ArchiveMemory, "":
	case ArchiveMongo:
		if c.Archive.MongoURI == "" {
			return invalid("archive.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid("unknown archive backend %q (use sqlite, memory or mongo)", c.Archive.Backend)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	return nil
}

// GlyphRunes returns the configured wall and floor glyphs, or zero runes when unset.
func (r RenderConfig) GlyphRunes() (wall, floor rune) {
	g := []rune(r.Glyphs)
	if len(g) != 2 {
		return 0, 0
	}
	return g[0], g[1]
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}

// WriteDefault creates path with the default configuration. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists", path)
		}
		return fmt.Errorf("create config: %w", err)
	}
	if err := Default().Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfiguration, format, args...)
}
