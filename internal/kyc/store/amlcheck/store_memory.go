// Package amlcheck persists the latest AML screening result per user.
package amlcheck

import (
	"context"
	"sync"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	checks map[id.UserID]models.AMLCheck
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{checks: make(map[id.UserID]models.AMLCheck)}
}

// Upsert replaces the user's previous check.
func (s *InMemoryStore) Upsert(_ context.Context, check *models.AMLCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[check.UserID] = *check
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*models.AMLCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	check, ok := s.checks[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &check, nil
}
