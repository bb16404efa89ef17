package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

func testMap(t *testing.T, seed uint64) *dungeon.Map {
	t.Helper()
	params := dungeon.DefaultParams()
	params.Width, params.Height = 30, 20
	m, err := dungeon.Generate(params, seed)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// clock hands out strictly increasing timestamps so list order is deterministic.
type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) (Store, func(func() time.Time)){
		"memory": func(t *testing.T) (Store, func(func() time.Time)) {
			s := NewMemoryStore()
			return s, func(f func() time.Time) { s.now = f }
		},
		"sqlite-memory": func(t *testing.T) (Store, func(func() time.Time)) {
			s, err := OpenSQLite(":memory:")
			if err != nil {
				t.Fatalf("OpenSQLite error: %v", err)
			}
			return s, func(f func() time.Time) { s.now = f }
		},
		"sqlite-file": func(t *testing.T) (Store, func(func() time.Time)) {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "archive.db"))
			if err != nil {
				t.Fatalf("OpenSQLite error: %v", err)
			}
			return s, func(f func() time.Time) { s.now = f }
		},
	}
	if uri := os.Getenv("DUNGEONFORGE_TEST_MONGO"); uri != "" {
		stores["mongo"] = func(t *testing.T) (Store, func(func() time.Time)) {
			coll := "test_" + uuid.NewString()[:8]
			s, err := OpenMongo(context.Background(), uri, "dungeonforge_test", coll)
			if err != nil {
				t.Fatalf("OpenMongo error: %v", err)
			}
			t.Cleanup(func() { _ = s.coll.Drop(context.Background()) })
			return s, func(f func() time.Time) { s.now = f }
		}
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			store, setNow := open(t)
			defer store.Close()
			c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
			setNow(c.now)
			testStore(t, store)
		})
	}
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	var ids []string
	for i, seed := range []uint64{11, 12, 13} {
		rec := NewRecord("level", testMap(t, seed))
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save #%d error: %v", i, err)
		}
		if err := errors.ValidateMapID(rec.ID); err != nil {
			t.Fatalf("Save assigned invalid id %q", rec.ID)
		}
		if rec.CreatedAt.IsZero() {
			t.Fatal("Save did not stamp CreatedAt")
		}
		ids = append(ids, rec.ID)
	}

	got, err := store.Get(ctx, ids[1])
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	want := testMap(t, 12)
	if got.Seed != 12 || got.Name != "level" || got.Params != want.Params {
		t.Errorf("Get = %+v", got.Summary())
	}
	if got.Map == nil || !got.Map.Grid.Equal(want.Grid) {
		t.Fatal("stored grid differs")
	}
	if len(got.Map.Rooms) != len(want.Rooms) || got.Stats != want.Stats() {
		t.Errorf("rooms/stats differ: %+v vs %+v", got.Stats, want.Stats())
	}

	list, err := store.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d records, want 3", len(list))
	}
	if list[0].ID != ids[2] || list[2].ID != ids[0] {
		t.Error("List should return newest first")
	}
	for _, r := range list {
		if r.Map != nil {
			t.Error("List should not include maps")
		}
	}

	page, err := store.List(ctx, ListOptions{Limit: 1, Offset: 1})
	if err != nil || len(page) != 1 || page[0].ID != ids[1] {
		t.Errorf("paged List = %v, %v", page, err)
	}
	if past, err := store.List(ctx, ListOptions{Offset: 10}); err != nil || len(past) != 0 {
		t.Errorf("List past end = %v, %v", past, err)
	}

	if err := store.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Get(ctx, ids[0]); !errors.Is(err, errors.ErrCodeMapNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := store.Delete(ctx, ids[0]); !errors.Is(err, errors.ErrCodeMapNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
	if _, err := store.Get(ctx, "not-a-uuid"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get(bad id) error = %v", err)
	}
	if err := store.Save(ctx, &Record{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(empty) error = %v", err)
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecord("keep", testMap(t, 99))
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get after reopen error: %v", err)
	}
	if got.Seed != 99 || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("reopened record = %+v", got.Summary())
	}
}

func TestSQLiteLargeSeed(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	m := testMap(t, 1)
	m.Seed = 1<<64 - 1
	rec := NewRecord("", m)
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != 1<<64-1 {
		t.Errorf("Seed = %d", got.Seed)
	}
}

func TestNewRecord(t *testing.T) {
	m := testMap(t, 5)
	rec := NewRecord("  crypt  ", m)
	if rec.Name != "crypt" || rec.Seed != 5 || rec.Map != m {
		t.Errorf("NewRecord = %+v", rec)
	}
	if rec.Summary().Map != nil || rec.Map == nil {
		t.Error("Summary should drop the map from the copy only")
	}
}
