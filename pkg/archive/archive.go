// Package archive persists generated maps so they can be listed and
// fetched again by ID.
//
// # Backends
//
//   - [MemoryStore]: process-local, used by tests and `serve --archive memory`
//   - [SQLiteStore]: a single database file, the CLI default
//   - [MongoStore]: a shared collection for multi-instance servers
//
// Records are identified by random UUIDs assigned on [Store.Save].
//
//	store, err := archive.OpenSQLite(path)
//	rec := archive.NewRecord("crypt", m)
//	if err := store.Save(ctx, rec); err != nil { ... }
//	fmt.Println(rec.ID)
package archive

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// Record is one archived map.
type Record struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	Seed      uint64         `json:"seed" bson:"-"`
	Params    dungeon.Params `json:"params" bson:"params"`
	Stats     dungeon.Stats  `json:"stats" bson:"stats"`

	// Map is nil in the results of [Store.List].
	Map *dungeon.Map `json:"map,omitempty" bson:"-"`
}

// NewRecord wraps m for saving. The ID and creation time are set by Save.
func NewRecord(name string, m *dungeon.Map) *Record {
	return &Record{
		Name:   strings.TrimSpace(name),
		Seed:   m.Seed,
		Params: m.Params,
		Stats:  m.Stats(),
		Map:    m,
	}
}

// Summary returns a copy of r without the map.
func (r Record) Summary() Record {
	r.Map = nil
	return r
}

// ListOptions pages through records, newest first.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListLimit applies when ListOptions.Limit is zero.
const DefaultListLimit = 50

func (o ListOptions) normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Store persists records.
type Store interface {
	// Save assigns rec an ID and creation time and stores it.
	Save(ctx context.Context, rec *Record) error
	// Get returns the full record, or an error with code MAP_NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns record summaries, newest first.
	List(ctx context.Context, opts ListOptions) ([]Record, error)
	// Delete removes a record, or returns an error with code MAP_NOT_FOUND.
	Delete(ctx context.Context, id string) error
	Close() error
}

// prepare validates rec and stamps its identity.
func prepare(rec *Record, now time.Time) error {
	if rec == nil || rec.Map == nil || rec.Map.Grid == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record has no map")
	}
	if len(rec.Name) > 200 {
		return errors.New(errors.ErrCodeInvalidInput, "name too long (max 200 characters)")
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = now.UTC().Truncate(time.Millisecond)
	rec.Seed = rec.Map.Seed
	rec.Params = rec.Map.Params
	rec.Stats = rec.Map.Stats()
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeMapNotFound, "map %s not found", id)
}

func storageErr(err error, op string) error {
	return errors.Wrap(errors.ErrCodeStorage, err, "%s", op)
}
