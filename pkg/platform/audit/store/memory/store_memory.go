package memory

import (
	"context"
	"sort"
	"sync"

	id "kyccore/pkg/domain"
	audit "kyccore/pkg/platform/audit"
)

// InMemoryStore keeps audit events per user in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.UserID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.UserID][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.UserID] = append(s.events[event.UserID], event)
	return nil
}

// ListByUser returns a copy of the user's events ordered by timestamp.
// Events sharing a timestamp keep append order.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	s.mu.RLock()
	events := append([]audit.Event{}, s.events[userID]...)
	s.mu.RUnlock()

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

// Count returns the total number of events across all users.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, userEvents := range s.events {
		n += len(userEvents)
	}
	return n
}
