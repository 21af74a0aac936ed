// Package verification persists the per-user KYC verification record.
//
// Both stores serialize writes per user: the in-memory store under a mutex,
// PostgreSQL with SELECT ... FOR UPDATE inside a transaction. Callers pass
// callbacks so the check and the write happen under the same lock.
package verification

import "kyccore/internal/kyc/models"

// BeginFunc builds the PENDING record of a new cycle from the current record,
// which is nil for a first submission. current is PENDING only when it was
// abandoned before the staleBefore cutoff passed to BeginPending. Returning
// an error aborts the write.
type BeginFunc = func(current *models.VerificationRecord) (*models.VerificationRecord, error)

// ValidateFunc checks the locked record before mutation.
type ValidateFunc = func(current *models.VerificationRecord) error

// MutateFunc applies a validated change to the locked record.
type MutateFunc = func(r *models.VerificationRecord)
