//go:build integration

package verification_test

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
	"kyccore/internal/kyc/store/verification"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/sentinel"
	"kyccore/pkg/platform/tx"
	"kyccore/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *verification.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = verification.NewPostgres(s.postgres.DB)
	s.now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "kyc_verifications"))
}

func (s *PostgresStoreSuite) begin(userID id.UserID) verification.BeginFunc {
	return func(current *models.VerificationRecord) (*models.VerificationRecord, error) {
		expiry := s.now.AddDate(3, 0, 0)
		sub := models.Submission{
			DocumentType: id.DocumentTypeNationalID,
			FrontRef:     "front.jpg",
			BackRef:      "back.jpg",
			Fields: models.DocumentFields{
				FirstName:      "Ada",
				LastName:       "Lovelace",
				Nationality:    "GB",
				DocumentNumber: "AB123456",
				DocumentExpiry: &expiry,
			},
		}
		if current == nil {
			return models.NewVerification(id.NewVerificationID(), userID, sub, s.now), nil
		}
		if err := current.BeginCycle(id.NewVerificationID(), sub, s.now); err != nil {
			return nil, err
		}
		return current, nil
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	pending, err := s.store.BeginPending(ctx, userID, time.Time{}, s.begin(userID))
	s.Require().NoError(err)

	decision := models.Decision{Status: models.StatusRejected, RiskScore: 45, Reason: "document expires within 30 days", RiskFactors: []string{"front: low image quality"}}
	_, err = s.store.Execute(ctx, userID,
		func(r *models.VerificationRecord) error { return r.CanApplyDecision(decision) },
		func(r *models.VerificationRecord) { r.ApplyDecision(decision, s.now, time.Hour) },
	)
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(pending.ID, got.ID)
	s.Equal(models.StatusRejected, got.Status)
	s.Equal(45, got.RiskScore)
	s.Equal([]string{"front: low image quality"}, got.RiskFactors)
	s.Equal("back.jpg", got.DocumentBackRef)
	s.Equal("GB", got.Nationality)
	s.Require().NotNil(got.DocumentExpiry)
	s.True(pending.DocumentExpiry.Equal(*got.DocumentExpiry))
	s.Nil(got.VerificationDate)
}

func (s *PostgresStoreSuite) TestConcurrentFirstSubmissionsAdmitOne() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.BeginPending(ctx, userID, time.Time{}, s.begin(userID))
			if err == nil {
				wins.Add(1)
				return
			}
			s.True(errors.Is(err, sentinel.ErrConflict), "unexpected error: %v", err)
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
}

func (s *PostgresStoreSuite) TestAbandonedPendingIsReclaimed() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	stale, err := s.store.BeginPending(ctx, userID, time.Time{}, s.begin(userID))
	s.Require().NoError(err)

	_, err = s.store.BeginPending(ctx, userID, s.now, s.begin(userID))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	next, err := s.store.BeginPending(ctx, userID, s.now.Add(time.Minute), func(current *models.VerificationRecord) (*models.VerificationRecord, error) {
		s.Equal(stale.ID, current.ID)
		current.ApplyBeginCycle(id.NewVerificationID(), models.Submission{DocumentType: id.DocumentTypePassport, FrontRef: "retry.jpg"}, s.now.Add(time.Minute))
		return current, nil
	})
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(next.ID, got.ID)
	s.Equal(models.StatusPending, got.Status)
	s.Equal("retry.jpg", got.DocumentFrontRef)
}

func (s *PostgresStoreSuite) TestExecuteJoinsOuterTransaction() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	_, err := s.store.BeginPending(ctx, userID, time.Time{}, s.begin(userID))
	s.Require().NoError(err)

	runner := tx.NewPostgresRunner(s.postgres.DB, 5*time.Second)
	failure := errors.New("audit append failed")
	err = runner.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := s.store.Execute(txCtx, userID,
			func(*models.VerificationRecord) error { return nil },
			func(r *models.VerificationRecord) { r.ApplyDecision(models.Decision{Status: models.StatusVerified}, s.now, time.Hour) },
		)
		s.Require().NoError(err)
		return failure
	})
	s.Require().ErrorIs(err, failure)

	got, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, got.Status, "rolled back with the outer transaction")
}

func (s *PostgresStoreSuite) TestRestore() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	first, err := s.store.BeginPending(ctx, userID, time.Time{}, s.begin(userID))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Restore(ctx, userID, first.ID, nil))
	_, err = s.store.Get(ctx, userID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.BeginPending(ctx, userID, time.Time{}, s.begin(userID))
	s.Require().NoError(err)
	_, err = s.store.Execute(ctx, userID,
		func(*models.VerificationRecord) error { return nil },
		func(r *models.VerificationRecord) { r.ApplyDecision(models.Decision{Status: models.StatusVerified, RiskScore: 5}, s.now, time.Hour) },
	)
	s.Require().NoError(err)
	prev, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)

	next, err := s.store.BeginPending(ctx, userID, time.Time{}, s.begin(userID))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Restore(ctx, userID, next.ID, prev))

	got, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(prev.ID, got.ID)
	s.Equal(models.StatusVerified, got.Status)
	s.Equal(5, got.RiskScore)
}
