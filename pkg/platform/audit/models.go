package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "kyccore/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance
	// (verification outcomes, KYC data changes, AML screening).
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events that feed fraud review and alerting.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers aborted attempts and other routine activity.
	CategoryOperations EventCategory = "operations"
)

// Action names a state-changing KYC action.
type Action string

const (
	ActionVerificationInitiated Action = "VERIFICATION_INITIATED"
	ActionVerificationVerified  Action = "VERIFICATION_COMPLETED_VERIFIED"
	ActionVerificationRejected  Action = "VERIFICATION_COMPLETED_REJECTED"
	ActionFraudAttemptDetected  Action = "FRAUD_ATTEMPT_DETECTED"
	ActionInfoUpdated           Action = "KYC_INFO_UPDATED"
	ActionAMLCheckPerformed     Action = "AML_CHECK_PERFORMED"
	ActionVerificationAborted   Action = "VERIFICATION_ABORTED"
)

var actionCategories = map[Action]EventCategory{
	ActionVerificationInitiated: CategoryCompliance,
	ActionVerificationVerified:  CategoryCompliance,
	ActionVerificationRejected:  CategoryCompliance,
	ActionInfoUpdated:           CategoryCompliance,
	ActionAMLCheckPerformed:     CategoryCompliance,

	ActionFraudAttemptDetected: CategorySecurity,

	ActionVerificationAborted: CategoryOperations,
}

// Category returns the category for the action.
// Unknown actions default to CategoryOperations.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is one immutable audit log entry. Once appended it is never updated
// or deleted.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Action    Action
	Details   string
	RequestID string
	// Device is the parsed client summary, when the action came through HTTP.
	Device string
}

// Store is an append-only audit sink. ListByUser returns entries in
// ascending timestamp order.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
