package models

import (
	"time"

	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
)

// VerificationRecord is the single KYC record kept per user.
//
// Invariants:
//   - at most one record per user; at most one PENDING cycle at a time
//   - RiskScore is within [0,100]
//   - VerificationDate is set only while Status is VERIFIED
//   - Status changes only through BeginCycle and ApplyDecision
type VerificationRecord struct {
	ID               id.VerificationID
	UserID           id.UserID
	DocumentType     id.DocumentType
	DocumentFrontRef string
	DocumentBackRef  string
	Status           Status
	RiskScore        int
	VerificationDate *time.Time
	ExpiryDate       *time.Time
	RejectionReason  string
	// RiskFactors are the authenticity findings of the last decided cycle.
	RiskFactors []string
	DocumentFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Submission is the document set of one verification cycle.
type Submission struct {
	DocumentType id.DocumentType
	FrontRef     string
	BackRef      string
	Fields       DocumentFields
}

// Decision is the outcome applied to a PENDING record.
type Decision struct {
	Status      Status
	RiskScore   int
	Reason      string
	RiskFactors []string
}

// NewVerification creates the first PENDING record for a user.
func NewVerification(verificationID id.VerificationID, userID id.UserID, sub Submission, now time.Time) *VerificationRecord {
	r := &VerificationRecord{
		UserID:    userID,
		CreatedAt: now,
	}
	r.ApplyBeginCycle(verificationID, sub, now)
	return r
}

// CanBeginCycle checks whether a new submission may start.
func (r *VerificationRecord) CanBeginCycle() error {
	switch {
	case r.Status == StatusPending:
		return dErrors.New(dErrors.CodeConflict, "verification already pending")
	case r.Status == StatusBlocked:
		return dErrors.New(dErrors.CodeConflict, "verification is blocked")
	case !r.Status.CanTransitionTo(StatusPending):
		return dErrors.New(dErrors.CodeInvariantViolation, "cannot start verification from status "+r.Status.String())
	}
	return nil
}

// Abandoned reports whether r is a PENDING cycle last written before cutoff.
// Such a cycle outlived the submission that opened it.
func (r *VerificationRecord) Abandoned(cutoff time.Time) bool {
	return r != nil && r.Status == StatusPending && r.UpdatedAt.Before(cutoff)
}

// ApplyBeginCycle resets the record to PENDING for a fresh cycle. Personal
// fields supplied with the submission replace stored ones; omitted fields
// keep their stored value.
// Call CanBeginCycle first to validate the transition.
func (r *VerificationRecord) ApplyBeginCycle(verificationID id.VerificationID, sub Submission, now time.Time) {
	r.ID = verificationID
	r.DocumentType = sub.DocumentType
	r.DocumentFrontRef = sub.FrontRef
	r.DocumentBackRef = sub.BackRef
	r.Status = StatusPending
	r.RiskScore = 0
	r.VerificationDate = nil
	r.ExpiryDate = nil
	r.RejectionReason = ""
	r.RiskFactors = nil
	r.DocumentFields = r.DocumentFields.Merge(sub.Fields)
	r.UpdatedAt = now
}

// BeginCycle validates and applies a new cycle in one call.
func (r *VerificationRecord) BeginCycle(verificationID id.VerificationID, sub Submission, now time.Time) error {
	if err := r.CanBeginCycle(); err != nil {
		return err
	}
	r.ApplyBeginCycle(verificationID, sub, now)
	return nil
}

// CanApplyDecision checks that d is a legal outcome for the current state.
func (r *VerificationRecord) CanApplyDecision(d Decision) error {
	if !r.Status.CanTransitionTo(d.Status) || d.Status == StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "cannot move verification from "+r.Status.String()+" to "+d.Status.String())
	}
	if d.RiskScore < 0 || d.RiskScore > 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "risk score out of range")
	}
	return nil
}

// ApplyDecision records the cycle outcome. A verification expires with the
// document when its expiry is known, otherwise validity after now.
// Call CanApplyDecision first to validate the transition.
func (r *VerificationRecord) ApplyDecision(d Decision, now time.Time, validity time.Duration) {
	r.Status = d.Status
	r.RiskScore = d.RiskScore
	r.RiskFactors = append([]string(nil), d.RiskFactors...)
	r.UpdatedAt = now

	if d.Status == StatusVerified {
		verified := now
		expiry := now.Add(validity)
		if r.DocumentExpiry != nil {
			expiry = *r.DocumentExpiry
		}
		r.VerificationDate = &verified
		r.ExpiryDate = &expiry
		r.RejectionReason = ""
		return
	}
	r.VerificationDate = nil
	r.ExpiryDate = nil
	r.RejectionReason = d.Reason
}

// Decide validates and applies a decision in one call.
func (r *VerificationRecord) Decide(d Decision, now time.Time, validity time.Duration) error {
	if err := r.CanApplyDecision(d); err != nil {
		return err
	}
	r.ApplyDecision(d, now, validity)
	return nil
}

// CanUpdateInfo checks whether personal fields may change. Fields are frozen
// while a cycle is being decided and once an administrator blocked the user.
func (r *VerificationRecord) CanUpdateInfo() error {
	switch r.Status {
	case StatusPending:
		return dErrors.New(dErrors.CodeConflict, "verification already pending")
	case StatusBlocked:
		return dErrors.New(dErrors.CodeConflict, "verification is blocked")
	}
	return nil
}

// ApplyInfoUpdate applies the supplied fields.
func (r *VerificationRecord) ApplyInfoUpdate(u InfoUpdate, now time.Time) {
	if u.FirstName != nil {
		r.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		r.LastName = *u.LastName
	}
	if u.Nationality != nil {
		r.Nationality = *u.Nationality
	}
	if u.DocumentNumber != nil {
		r.DocumentNumber = *u.DocumentNumber
	}
	if u.DocumentExpiry != nil {
		exp := *u.DocumentExpiry
		r.DocumentExpiry = &exp
	}
	r.UpdatedAt = now
}

// Clone returns a deep copy, used as the rollback snapshot.
func (r *VerificationRecord) Clone() *VerificationRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.VerificationDate = cloneTime(r.VerificationDate)
	c.ExpiryDate = cloneTime(r.ExpiryDate)
	c.DocumentExpiry = cloneTime(r.DocumentExpiry)
	c.RiskFactors = append([]string(nil), r.RiskFactors...)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
