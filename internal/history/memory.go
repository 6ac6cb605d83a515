package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is the non-persistent Store used when history.backend is
// "memory" and by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	max   int
	convs map[string]*Conversation
}

// NewMemoryStore creates a bounded in-memory store.
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 50
	}
	return &MemoryStore{max: max, convs: make(map[string]*Conversation)}
}

func (s *MemoryStore) Save(_ context.Context, conv *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cp := *conv
	cp.Messages = append([]Message(nil), conv.Messages...)
	if cp.CreatedAt.IsZero() {
		if existing, ok := s.convs[cp.ID]; ok {
			cp.CreatedAt = existing.CreatedAt
		} else {
			cp.CreatedAt = now
		}
	}
	cp.UpdatedAt = now
	s.convs[cp.ID] = &cp

	// FIFO eviction past the bound.
	for len(s.convs) > s.max {
		oldestID := ""
		var oldest time.Time
		for id, c := range s.convs {
			if oldestID == "" || c.CreatedAt.Before(oldest) {
				oldestID, oldest = id, c.CreatedAt
			}
		}
		delete(s.convs, oldestID)
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.convs))
	for _, c := range s.convs {
		summaries = append(summaries, Summary{
			ID:           c.ID,
			Title:        c.Title,
			MessageCount: len(c.Messages),
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	cp.Messages = append([]Message(nil), c.Messages...)
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, id)
	return nil
}
