// Package notify tells downstream systems that a user became verified.
//
// Notifiers run after the VERIFIED record is committed, once per transition.
// Delivery failures never undo the verification.
package notify

import (
	"context"
	"errors"
	"time"

	id "kyccore/pkg/domain"
)

// Approved describes one transition into VERIFIED.
type Approved struct {
	VerificationID id.VerificationID
	UserID         id.UserID
	RiskScore      int
	VerifiedAt     time.Time
	ExpiresAt      time.Time
	RequestID      string
}

// Notifier receives approval notifications.
type Notifier interface {
	VerificationApproved(ctx context.Context, event Approved) error
}

// Func adapts an in-process callback to Notifier.
type Func func(ctx context.Context, event Approved) error

func (f Func) VerificationApproved(ctx context.Context, event Approved) error {
	return f(ctx, event)
}

// Multi fans an approval out to every notifier. All notifiers run even when
// one fails; the failures are joined.
type Multi []Notifier

func (m Multi) VerificationApproved(ctx context.Context, event Approved) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.VerificationApproved(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) VerificationApproved(context.Context, Approved) error { return nil }
