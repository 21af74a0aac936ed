package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	id "kyccore/pkg/domain"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/platform/audit/store/memory"
	"kyccore/pkg/requestcontext"
)

type failingStore struct{ err error }

func (f failingStore) Append(context.Context, audit.Event) error { return f.err }
func (f failingStore) ListByUser(context.Context, id.UserID) ([]audit.Event, error) {
	return nil, nil
}

type PublisherSuite struct {
	suite.Suite
	store   *memory.InMemoryStore
	metrics *Metrics
	pub     *Publisher
	userID  id.UserID
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.store = memory.NewInMemoryStore()
	s.metrics = NewMetrics(prometheus.NewRegistry())
	s.pub = New(s.store, WithMetrics(s.metrics))
	s.userID = id.UserID(uuid.New())
}

func (s *PublisherSuite) TestEmitEnrichesFromContext() {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-42")

	err := s.pub.Emit(ctx, audit.Event{UserID: s.userID, Action: audit.ActionFraudAttemptDetected, Details: "factors=1"})
	s.Require().NoError(err)

	events, err := s.store.ListByUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(now, events[0].Timestamp)
	s.Equal("req-42", events[0].RequestID)
	s.Equal(audit.CategorySecurity, events[0].Category)
	s.NotEqual(uuid.Nil, events[0].ID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.EventsEmitted.WithLabelValues(string(audit.ActionFraudAttemptDetected))))
}

func (s *PublisherSuite) TestEmitRejectsIncompleteEvents() {
	s.Run("missing user", func() {
		err := s.pub.Emit(context.Background(), audit.Event{Action: audit.ActionInfoUpdated})
		s.Error(err)
	})
	s.Run("missing action", func() {
		err := s.pub.Emit(context.Background(), audit.Event{UserID: s.userID})
		s.Error(err)
	})
	s.Equal(0, s.store.Count())
}

func (s *PublisherSuite) TestEmitFailsClosed() {
	storeErr := errors.New("disk full")
	pub := New(failingStore{err: storeErr}, WithMetrics(s.metrics))

	err := pub.Emit(context.Background(), audit.Event{UserID: s.userID, Action: audit.ActionVerificationVerified})
	s.Require().ErrorIs(err, storeErr)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PersistFailures))
}
