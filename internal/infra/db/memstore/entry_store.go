// Package memstore keeps entries in process memory. It backs dev runs without
// a database and doubles as a fake in tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"telegram-data-bot/internal/domain"
	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/domain/ports/repository"
)

var _ repository.EntryRepository = (*EntryStore)(nil)

type EntryStore struct {
	mu      sync.RWMutex
	entries []model.Entry
	nextID  int64
	down    bool
	now     func() time.Time
}

func NewEntryStore() *EntryStore {
	return &EntryStore{nextID: 1, now: time.Now}
}

// SetDown makes every later call behave like an unreachable database.
func (s *EntryStore) SetDown(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

func (s *EntryStore) EnsureSchema(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return domain.ErrStoreUnavailable
	}
	return nil
}

func (s *EntryStore) Insert(ctx context.Context, _ repository.Tx, e *model.Entry) error {
	if e == nil {
		return domain.ErrInvalidArgument
	}
	if strings.TrimSpace(e.Text) == "" {
		return domain.ErrEmptyPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return domain.ErrStoreUnavailable
	}
	e.ID = s.nextID
	e.CreatedAt = s.now()
	s.nextID++
	s.entries = append(s.entries, *e)
	return nil
}

func (s *EntryStore) ListRecent(ctx context.Context, _ repository.Tx, limit int) ([]*model.Entry, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return nil, domain.ErrStoreUnavailable
	}

	sorted := make([]model.Entry, len(s.entries))
	copy(sorted, s.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]*model.Entry, len(sorted))
	for i := range sorted {
		e := sorted[i]
		out[i] = &e
	}
	return out, nil
}

func (s *EntryStore) IsConnected(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.down
}

// Len reports how many entries are stored.
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
