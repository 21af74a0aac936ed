package amlcheck

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	userID := id.UserID(uuid.New())

	_, err := store.Get(ctx, userID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, &models.AMLCheck{UserID: userID, RiskLevel: models.RiskLevelLow, LastCheckDate: first}))
	require.NoError(t, store.Upsert(ctx, &models.AMLCheck{UserID: userID, RiskLevel: models.RiskLevelHigh, Reason: "high-risk nationality", LastCheckDate: first.Add(time.Hour)}))

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLevelHigh, got.RiskLevel, "one check per user, latest wins")
	assert.Equal(t, first.Add(time.Hour), got.LastCheckDate)

	got.RiskLevel = models.RiskLevelLow
	again, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLevelHigh, again.RiskLevel, "callers get copies")
}
