package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// SQLiteStore keeps records in a SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the archive database at path.
// The special path ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS maps (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			params TEXT NOT NULL,
			stats TEXT NOT NULL,
			map TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_maps_created_at ON maps(created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec, s.now()); err != nil {
		return err
	}
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(rec.Stats)
	if err != nil {
		return err
	}
	m, err := json.Marshal(rec.Map)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO maps (id, name, created_at, seed, params, stats, map) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.CreatedAt.UnixMilli(), int64(rec.Seed), string(params), string(stats), string(m))
	if err != nil {
		return storageErr(err, "save map")
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errors.ValidateMapID(id); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, seed, params, stats, map FROM maps WHERE id = ?`, id)

	var mapJSON string
	rec, err := scanRecord(row, &mapJSON)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "get map")
	}

	var m dungeon.Map
	if err := json.Unmarshal([]byte(mapJSON), &m); err != nil {
		return nil, storageErr(err, "decode map")
	}
	rec.Map = &m
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	opts = opts.normalize()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, seed, params, stats FROM maps
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, storageErr(err, "list maps")
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, nil)
		if err != nil {
			return nil, storageErr(err, "list maps")
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "list maps")
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateMapID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return storageErr(err, "delete map")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads the summary columns and, when mapJSON is non-nil, the map column.
func scanRecord(sc scanner, mapJSON *string) (*Record, error) {
	var (
		rec             Record
		createdAt, seed int64
		params, stats   string
	)
	dest := []any{&rec.ID, &rec.Name, &createdAt, &seed, &params, &stats}
	if mapJSON != nil {
		dest = append(dest, mapJSON)
	}
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.Seed = uint64(seed)
	if err := json.Unmarshal([]byte(params), &rec.Params); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stats), &rec.Stats); err != nil {
		return nil, err
	}
	return &rec, nil
}

var _ Store = (*SQLiteStore)(nil)
