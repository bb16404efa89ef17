package archive

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// MemoryStore keeps records in a map guarded by a mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	if err := prepare(rec, s.now()); err != nil {
		return err
	}
	cp := *rec
	s.mu.Lock()
	s.records[rec.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	if err := errors.ValidateMapID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]Record, error) {
	opts = opts.normalize()
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Summary())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if opts.Offset >= len(out) {
		return []Record{}, nil
	}
	out = out[opts.Offset:]
	return out[:min(opts.Limit, len(out))], nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if err := errors.ValidateMapID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return notFound(id)
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
