//go:build integration

package amlcheck_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"kyccore/internal/kyc/models"
	"kyccore/internal/kyc/store/amlcheck"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/sentinel"
	"kyccore/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *amlcheck.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = amlcheck.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "kyc_aml_checks"))
}

func (s *PostgresStoreSuite) TestUpsertReplaces() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	checked := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.store.Get(ctx, userID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.Upsert(ctx, &models.AMLCheck{UserID: userID, RiskLevel: models.RiskLevelMedium, Reason: "nationality unknown", LastCheckDate: checked}))
	s.Require().NoError(s.store.Upsert(ctx, &models.AMLCheck{UserID: userID, RiskLevel: models.RiskLevelLow, LastCheckDate: checked.Add(time.Hour)}))

	got, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(models.RiskLevelLow, got.RiskLevel)
	s.Empty(got.Reason)
	s.True(checked.Add(time.Hour).Equal(got.LastCheckDate))
}
