package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kyccore/pkg/domain"
	audit "kyccore/pkg/platform/audit"
)

func TestListByUserOrdersByTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	user := id.UserID(uuid.New())
	other := id.UserID(uuid.New())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, audit.Event{UserID: user, Action: audit.ActionAMLCheckPerformed, Timestamp: base.Add(2 * time.Second)}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: user, Action: audit.ActionVerificationInitiated, Timestamp: base}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: other, Action: audit.ActionInfoUpdated, Timestamp: base}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: user, Action: audit.ActionVerificationVerified, Timestamp: base.Add(time.Second)}))

	events, err := store.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, audit.ActionVerificationInitiated, events[0].Action)
	assert.Equal(t, audit.ActionVerificationVerified, events[1].Action)
	assert.Equal(t, audit.ActionAMLCheckPerformed, events[2].Action)
	assert.Equal(t, 4, store.Count())
}

func TestListByUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	user := id.UserID(uuid.New())
	require.NoError(t, store.Append(ctx, audit.Event{UserID: user, Action: audit.ActionInfoUpdated, Details: "original"}))

	events, err := store.ListByUser(ctx, user)
	require.NoError(t, err)
	events[0].Details = "tampered"

	again, err := store.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Details)
}
