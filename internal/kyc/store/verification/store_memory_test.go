package verification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/sentinel"
)

// =============================================================================
// In-memory verification store
// =============================================================================
// Justification: the service relies on BeginPending being the single point
// that admits one PENDING cycle per user, and on Restore only touching the
// cycle that is being rolled back.

type InMemoryStoreSuite struct {
	suite.Suite
	store  *InMemoryStore
	ctx    context.Context
	userID id.UserID
	now    time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.userID = id.UserID(uuid.New())
	s.now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) beginFresh() BeginFunc {
	return func(current *models.VerificationRecord) (*models.VerificationRecord, error) {
		sub := models.Submission{DocumentType: id.DocumentTypePassport, FrontRef: "front.jpg"}
		if current == nil {
			return models.NewVerification(id.NewVerificationID(), s.userID, sub, s.now), nil
		}
		if err := current.BeginCycle(id.NewVerificationID(), sub, s.now); err != nil {
			return nil, err
		}
		return current, nil
	}
}

func (s *InMemoryStoreSuite) decide(status models.Status) {
	_, err := s.store.Execute(s.ctx, s.userID,
		func(r *models.VerificationRecord) error { return r.CanApplyDecision(models.Decision{Status: status}) },
		func(r *models.VerificationRecord) { r.ApplyDecision(models.Decision{Status: status}, s.now, time.Hour) },
	)
	s.Require().NoError(err)
}

func (s *InMemoryStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, s.userID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestBeginPending() {
	s.Run("first submission inserts", func() {
		r, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, s.beginFresh())
		s.Require().NoError(err)
		s.Equal(models.StatusPending, r.Status)
	})

	s.Run("pending record conflicts without calling begin", func() {
		called := false
		_, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, func(*models.VerificationRecord) (*models.VerificationRecord, error) {
			called = true
			return nil, nil
		})
		s.ErrorIs(err, sentinel.ErrConflict)
		s.False(called)
	})

	s.Run("pending record written at the cutoff still conflicts", func() {
		_, err := s.store.BeginPending(s.ctx, s.userID, s.now, s.beginFresh())
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("abandoned pending record is handed to begin", func() {
		stale, err := s.store.Get(s.ctx, s.userID)
		s.Require().NoError(err)

		r, err := s.store.BeginPending(s.ctx, s.userID, s.now.Add(time.Minute), func(current *models.VerificationRecord) (*models.VerificationRecord, error) {
			s.Equal(stale.ID, current.ID)
			s.Equal(models.StatusPending, current.Status)
			current.ApplyBeginCycle(id.NewVerificationID(), models.Submission{DocumentType: id.DocumentTypePassport, FrontRef: "retry.jpg"}, s.now.Add(time.Minute))
			return current, nil
		})
		s.Require().NoError(err)
		s.NotEqual(stale.ID, r.ID)
		s.Equal(models.StatusPending, r.Status)
		s.Equal("retry.jpg", r.DocumentFrontRef)
	})

	s.Run("decided record reopens", func() {
		s.decide(models.StatusRejected)
		r, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, s.beginFresh())
		s.Require().NoError(err)
		s.Equal(models.StatusPending, r.Status)
	})

	s.Run("begin error aborts the write", func() {
		s.decide(models.StatusVerified)
		boom := errors.New("boom")
		_, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, func(*models.VerificationRecord) (*models.VerificationRecord, error) {
			return nil, boom
		})
		s.ErrorIs(err, boom)
		r, err := s.store.Get(s.ctx, s.userID)
		s.Require().NoError(err)
		s.Equal(models.StatusVerified, r.Status)
	})
}

func (s *InMemoryStoreSuite) TestConcurrentBeginAdmitsOne() {
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, s.beginFresh()); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
}

func (s *InMemoryStoreSuite) TestExecuteValidationFailureLeavesRecord() {
	_, err := s.store.Execute(s.ctx, s.userID, func(*models.VerificationRecord) error { return nil }, func(*models.VerificationRecord) {})
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.BeginPending(s.ctx, s.userID, time.Time{}, s.beginFresh())
	s.Require().NoError(err)

	rejected := errors.New("not allowed")
	_, err = s.store.Execute(s.ctx, s.userID,
		func(*models.VerificationRecord) error { return rejected },
		func(r *models.VerificationRecord) { r.Status = models.StatusVerified },
	)
	s.ErrorIs(err, rejected)

	r, err := s.store.Get(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, r.Status)
}

func (s *InMemoryStoreSuite) TestRestore() {
	s.Run("first cycle is removed", func() {
		r, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, s.beginFresh())
		s.Require().NoError(err)
		s.Require().NoError(s.store.Restore(s.ctx, s.userID, r.ID, nil))
		_, err = s.store.Get(s.ctx, s.userID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("previous snapshot comes back", func() {
		_, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, s.beginFresh())
		s.Require().NoError(err)
		s.decide(models.StatusVerified)
		prev, err := s.store.Get(s.ctx, s.userID)
		s.Require().NoError(err)

		r, err := s.store.BeginPending(s.ctx, s.userID, time.Time{}, s.beginFresh())
		s.Require().NoError(err)
		s.Require().NoError(s.store.Restore(s.ctx, s.userID, r.ID, prev))

		got, err := s.store.Get(s.ctx, s.userID)
		s.Require().NoError(err)
		s.Equal(prev, got)
	})

	s.Run("later cycle is left alone", func() {
		current, err := s.store.Get(s.ctx, s.userID)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Restore(s.ctx, s.userID, id.NewVerificationID(), nil))
		got, err := s.store.Get(s.ctx, s.userID)
		s.Require().NoError(err)
		s.Equal(current, got)
	})
}
