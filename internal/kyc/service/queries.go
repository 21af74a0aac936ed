package service

import (
	"context"
	"errors"
	"strings"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/platform/retry"
	"kyccore/pkg/platform/sentinel"
	"kyccore/pkg/requestcontext"
)

// GetStatus returns the user's verification record.
func (s *Service) GetStatus(ctx context.Context, userID id.UserID) (*models.VerificationRecord, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	var rec *models.VerificationRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		rec, err = s.verifications.Get(ctx, userID)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load verification")
	}
	return rec, nil
}

// UpdateInfo changes only the supplied personal fields. Fields are frozen
// while a cycle is PENDING and once the user is BLOCKED.
func (s *Service) UpdateInfo(ctx context.Context, userID id.UserID, update models.InfoUpdate) (*models.VerificationRecord, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	update = normalizeUpdate(update)
	if update.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one field is required")
	}

	var updated *models.VerificationRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var applied *models.VerificationRecord
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			now := requestcontext.Now(txCtx)
			var before *models.VerificationRecord
			rec, err := s.verifications.Execute(txCtx, userID,
				func(current *models.VerificationRecord) error {
					before = current.Clone()
					return current.CanUpdateInfo()
				},
				func(r *models.VerificationRecord) {
					r.ApplyInfoUpdate(update, now)
				},
			)
			if err != nil {
				return err
			}
			if err := s.auditor.infoUpdated(txCtx, rec, update.ChangedFields()); err != nil {
				s.undo(txCtx, rec, before)
				return err
			}
			applied = rec
			return nil
		})
		if err == nil {
			updated = applied
		}
		return err
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to update verification")
	}
	return updated, nil
}

func normalizeUpdate(u models.InfoUpdate) models.InfoUpdate {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	u.FirstName = trim(u.FirstName)
	u.LastName = trim(u.LastName)
	u.DocumentNumber = trim(u.DocumentNumber)
	if n := trim(u.Nationality); n != nil {
		upper := strings.ToUpper(*n)
		u.Nationality = &upper
	}
	return u
}

// AuditTrail returns the user's audit entries, oldest first.
func (s *Service) AuditTrail(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	var events []audit.Event
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		events, err = s.auditTrail.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to load audit trail")
	}
	return events, nil
}

// AMLCheck returns the user's latest AML screening.
func (s *Service) AMLCheck(ctx context.Context, userID id.UserID) (*models.AMLCheck, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	var check *models.AMLCheck
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		check, err = s.amlChecks.Get(ctx, userID)
		return err
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "AML check not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to load AML check")
	}
	return check, nil
}
