package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"kyccore/pkg/platform/circuit"
	"kyccore/pkg/platform/sentinel"
)

// Producer is the part of *kgo.Client the notifier uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaNotifier publishes approvals to a Kafka topic keyed by user ID, so
// every approval of one user lands on the same partition in order.
type KafkaNotifier struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type KafkaOption func(*KafkaNotifier)

func WithLogger(logger *slog.Logger) KafkaOption {
	return func(n *KafkaNotifier) {
		n.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(n *KafkaNotifier) {
		if b != nil {
			n.breaker = b
		}
	}
}

// DialKafka connects a producer to the brokers.
func DialKafka(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.RecordRetries(3),
		kgo.ProduceRequestTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// NewKafkaNotifier creates a notifier publishing to topic.
func NewKafkaNotifier(producer Producer, topic string, opts ...KafkaOption) *KafkaNotifier {
	n := &KafkaNotifier{
		producer: producer,
		topic:    topic,
		breaker:  circuit.New("kyc-approved-notifier"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// approvedMessage is the wire payload on the approvals topic.
type approvedMessage struct {
	VerificationID string    `json:"verification_id"`
	UserID         string    `json:"user_id"`
	RiskScore      int       `json:"risk_score"`
	VerifiedAt     time.Time `json:"verified_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	RequestID      string    `json:"request_id,omitempty"`
}

func (n *KafkaNotifier) VerificationApproved(ctx context.Context, event Approved) error {
	if !n.breaker.Allow() {
		return fmt.Errorf("approval notifier circuit open: %w", sentinel.ErrUnavailable)
	}

	value, err := json.Marshal(approvedMessage{
		VerificationID: event.VerificationID.String(),
		UserID:         event.UserID.String(),
		RiskScore:      event.RiskScore,
		VerifiedAt:     event.VerifiedAt,
		ExpiresAt:      event.ExpiresAt,
		RequestID:      event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal approval: %w", err)
	}

	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(event.UserID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event", Value: []byte("kyc.verification.approved")},
		},
	}
	if err := n.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := n.breaker.RecordFailure(); change.Opened {
			n.logger.WarnContext(ctx, "approval notifier circuit opened",
				"breaker", n.breaker.Name(),
				"error", err,
			)
		}
		return fmt.Errorf("publish approval: %w", err)
	}
	if _, change := n.breaker.RecordSuccess(); change.Closed {
		n.logger.InfoContext(ctx, "approval notifier circuit closed", "breaker", n.breaker.Name())
	}
	return nil
}

// Close flushes and closes the producer.
func (n *KafkaNotifier) Close() {
	n.producer.Close()
}
