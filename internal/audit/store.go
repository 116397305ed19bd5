package audit

import (
	"context"
	"sort"
	"sync"
)

// Store persists events. Sinks are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that can be queried back.
type Lister interface {
	ListBySubject(ctx context.Context, subjectHash string) ([]Event, error)
}

// InMemoryStore keeps events in process, grouped by subject hash.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.SubjectHash] = append(s.events[event.SubjectHash], event)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectHash string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[subjectHash]...), nil
}

// ListRecent returns the newest limit events across all subjects, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	var all []Event
	for _, evs := range s.events {
		all = append(all, evs...)
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]Event)
}
