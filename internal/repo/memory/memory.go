package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hamed0406/deadman/internal/domain"
	"github.com/hamed0406/deadman/internal/repo"
)

var _ repo.RecordStore = (*Store)(nil)

// Store keeps the append log in memory. Used when no DATABASE_URL is
// configured, and as the store double in handler tests.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.Record
}

func New() *Store {
	return &Store{records: make([]domain.Record, 0, 128)}
}

func (m *Store) Append(ctx context.Context, rec *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	m.records = append(m.records, *rec)
	return nil
}

func (m *Store) Latest(ctx context.Context) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := make(map[string]domain.Record)
	for _, r := range m.records {
		cur, ok := latest[r.Path]
		if !ok || r.TS.After(cur.TS) {
			latest[r.Path] = r
		}
	}

	out := make([]domain.Record, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TS.After(out[j].TS) })
	return out, nil
}
