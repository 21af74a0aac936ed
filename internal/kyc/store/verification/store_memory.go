package verification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/sentinel"
)

// InMemoryStore keeps records in a map. Callers receive copies.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[id.UserID]*models.VerificationRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]*models.VerificationRecord)}
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*models.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Clone(), nil
}

// BeginPending opens a new cycle. It fails with sentinel.ErrConflict when
// the record is PENDING and was written at or after staleBefore, regardless
// of what begin decides. A zero staleBefore never reclaims.
func (s *InMemoryStore) BeginPending(_ context.Context, userID id.UserID, staleBefore time.Time, begin BeginFunc) (*models.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.records[userID]
	if current != nil && current.Status == models.StatusPending && !current.Abandoned(staleBefore) {
		return nil, fmt.Errorf("begin verification: %w", sentinel.ErrConflict)
	}
	next, err := begin(current.Clone())
	if err != nil {
		return nil, err
	}
	if next.UserID != userID || next.Status != models.StatusPending {
		return nil, fmt.Errorf("begin verification: %w", sentinel.ErrInvalidState)
	}
	s.records[userID] = next.Clone()
	return next.Clone(), nil
}

// Execute validates and mutates the record under the store lock.
func (s *InMemoryStore) Execute(_ context.Context, userID id.UserID, validate ValidateFunc, mutate MutateFunc) (*models.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working.Clone()); err != nil {
		return nil, err
	}
	mutate(working)
	s.records[userID] = working
	return working.Clone(), nil
}

// Restore puts prev back (or removes the record when prev is nil) as long as
// the stored record still belongs to the cycle. A record already taken over
// by a later cycle is left alone.
func (s *InMemoryStore) Restore(_ context.Context, userID id.UserID, cycle id.VerificationID, prev *models.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[userID]
	if !ok || current.ID != cycle {
		return nil
	}
	if prev == nil {
		delete(s.records, userID)
		return nil
	}
	s.records[userID] = prev.Clone()
	return nil
}
