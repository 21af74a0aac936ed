//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "kyccore/pkg/domain"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/platform/audit/store/postgres"
	"kyccore/pkg/platform/tx"
	"kyccore/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "kyc_audit_log"))
}

func (s *AuditStoreSuite) TestListByUserIsOrderedAndScoped() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	other := id.UserID(uuid.New())
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{UserID: userID, Action: audit.ActionVerificationVerified, Timestamp: base.Add(time.Second)}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{UserID: userID, Action: audit.ActionVerificationInitiated, Timestamp: base, RequestID: "req-1"}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{UserID: other, Action: audit.ActionInfoUpdated, Timestamp: base}))

	events, err := s.store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionVerificationInitiated, events[0].Action)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.Equal("req-1", events[0].RequestID)
	s.Equal(audit.ActionVerificationVerified, events[1].Action)
}

func (s *AuditStoreSuite) TestAppendJoinsTransaction() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	runner := tx.NewPostgresRunner(s.postgres.DB, time.Second)

	err := runner.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Append(txCtx, audit.Event{UserID: userID, Action: audit.ActionInfoUpdated, Timestamp: time.Now()}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.Require().ErrorIs(err, context.Canceled)

	events, err := s.store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Empty(events, "rolled back with the transaction")
}

func (s *AuditStoreSuite) TestEntriesAreImmutable() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	s.Require().NoError(s.store.Append(ctx, audit.Event{UserID: userID, Action: audit.ActionInfoUpdated, Timestamp: time.Now()}))

	_, err := s.postgres.DB.ExecContext(ctx, `UPDATE kyc_audit_log SET details = 'tampered' WHERE user_id = $1`, uuid.UUID(userID))
	s.Error(err)
	_, err = s.postgres.DB.ExecContext(ctx, `DELETE FROM kyc_audit_log WHERE user_id = $1`, uuid.UUID(userID))
	s.Error(err)
}
