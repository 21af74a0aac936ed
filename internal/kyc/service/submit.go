package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	kycmetrics "kyccore/internal/kyc/metrics"
	"kyccore/internal/kyc/models"
	"kyccore/internal/kyc/notify"
	"kyccore/internal/kyc/risk"
	"kyccore/internal/kyc/validation"
	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
	"kyccore/pkg/platform/retry"
	"kyccore/pkg/platform/sentinel"
	"kyccore/pkg/platform/tx"
	"kyccore/pkg/requestcontext"
)

// SubmitRequest is one document submission.
type SubmitRequest struct {
	UserID       id.UserID
	DocumentType id.DocumentType
	FrontRef     string
	BackRef      string
	Fields       models.DocumentFields
}

// SubmitResult is the persisted outcome of a scored submission.
type SubmitResult struct {
	VerificationID id.VerificationID
	Status         models.Status
	RiskScore      int
}

const (
	fraudRiskScore      = 100
	fraudReason         = "document failed authenticity checks"
	analysisFailedCause = "authenticity analysis failed"
)

// Submit runs the verification pipeline for one submission.
//
// Validation failures and conflicts leave the stored record untouched.
// Fraud ends the cycle REJECTED and returns CodeFraudDetected with the
// triggered factors. A score-based rejection is a successful call whose
// result carries StatusRejected. If the decision cannot be persisted the
// PENDING marker is rolled back and CodePersistence is returned.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "kyc.Submit",
		trace.WithAttributes(attribute.String("kyc.document_type", string(req.DocumentType))))
	defer span.End()

	result, err := s.submit(ctx, req)
	if s.metrics != nil {
		s.metrics.ObservePipeline(start)
		s.metrics.IncSubmission(outcomeOf(result, err))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("kyc.status", string(result.Status)),
		attribute.Int("kyc.risk_score", result.RiskScore),
	)
	return result, nil
}

func (s *Service) submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	if !req.DocumentType.IsValid() {
		err := dErrors.New(dErrors.CodeInvalidInput, "unsupported document type")
		s.abort(ctx, req.UserID, "input", err)
		return nil, err
	}

	if s.locker != nil {
		unlock, err := s.locker.Acquire(ctx, "verification:"+req.UserID.String(), s.lockTTL)
		if err != nil {
			err = lockErr(err)
			s.abort(ctx, req.UserID, "lock", err)
			return nil, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.WarnContext(ctx, "failed to release verification lock", "user_id", req.UserID, "error", err)
			}
		}()
	}

	if err := checkOwnership(req); err != nil {
		s.abort(ctx, req.UserID, "validation", err)
		return nil, err
	}
	if err := s.validator.Validate(ctx, req.DocumentType, req.FrontRef, req.BackRef); err != nil {
		s.abort(ctx, req.UserID, "validation", err)
		return nil, err
	}

	pending, prev, err := s.beginCycle(ctx, req)
	if err != nil {
		s.abort(ctx, req.UserID, "begin", err)
		return nil, err
	}

	report, err := s.analyze(ctx, pending)
	if err != nil {
		// Caller gave up; the cycle is abandoned rather than judged.
		s.compensate(ctx, pending, prev)
		s.abort(ctx, req.UserID, "analysis", err)
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "verification cancelled")
	}

	now := requestcontext.Now(ctx)
	var (
		decision   models.Decision
		assessment risk.Assessment
		fraud      = !report.IsGenuine
	)
	if fraud {
		decision = models.Decision{
			Status:      models.StatusRejected,
			RiskScore:   fraudRiskScore,
			Reason:      fraudReason,
			RiskFactors: report.RiskFactors,
		}
	} else {
		assessment = risk.Score(pending.DocumentFields, report, now, s.points)
		decision = models.Decision{
			Status:      assessment.Decision,
			RiskScore:   assessment.Score,
			RiskFactors: report.RiskFactors,
		}
		if assessment.Decision == models.StatusRejected {
			decision.Reason = assessment.Explain()
		}
	}

	decided, err := s.decide(ctx, pending, decision, report.Confidence, fraud)
	if err != nil {
		s.compensate(ctx, pending, prev)
		s.abort(ctx, req.UserID, "decision", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveRiskScore(decided.RiskScore)
	}

	if decided.Status == models.StatusVerified {
		s.notifyApproved(ctx, decided)
	}
	s.refreshAML(ctx, decided)

	if fraud {
		if s.metrics != nil {
			s.metrics.IncFraudDetected()
		}
		s.logger.WarnContext(ctx, "fraud attempt detected",
			"user_id", decided.UserID,
			"verification_id", decided.ID,
			"risk_factors", report.RiskFactors,
		)
		return nil, dErrors.NewFraud(fraudReason, report.RiskFactors)
	}

	s.logger.InfoContext(ctx, "verification completed",
		"user_id", decided.UserID,
		"verification_id", decided.ID,
		"status", decided.Status,
		"risk_score", decided.RiskScore,
		"contributions", len(assessment.Contributions),
	)
	return &SubmitResult{
		VerificationID: decided.ID,
		Status:         decided.Status,
		RiskScore:      decided.RiskScore,
	}, nil
}

// beginCycle persists the PENDING marker and its INITIATED entry together.
// prev is the record as it was before the cycle, nil for a first submission.
func (s *Service) beginCycle(ctx context.Context, req SubmitRequest) (pending, prev *models.VerificationRecord, err error) {
	sub := models.Submission{
		DocumentType: req.DocumentType,
		FrontRef:     req.FrontRef,
		BackRef:      req.BackRef,
		Fields:       req.Fields,
	}

	err = retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var opened *models.VerificationRecord
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			now := requestcontext.Now(txCtx)
			// A cycle older than the lock TTL has no live submission behind it.
			staleBefore := now.Add(-s.lockTTL)
			rec, err := s.verifications.BeginPending(txCtx, req.UserID, staleBefore, func(current *models.VerificationRecord) (*models.VerificationRecord, error) {
				prev = current.Clone()
				if current == nil {
					return models.NewVerification(id.NewVerificationID(), req.UserID, sub, now), nil
				}
				if current.Abandoned(staleBefore) {
					s.logger.WarnContext(txCtx, "taking over abandoned verification",
						"user_id", current.UserID,
						"verification_id", current.ID,
						"pending_since", current.UpdatedAt,
					)
					current.ApplyBeginCycle(id.NewVerificationID(), sub, now)
					return current, nil
				}
				if err := current.BeginCycle(id.NewVerificationID(), sub, now); err != nil {
					return nil, err
				}
				return current, nil
			})
			if err != nil {
				return err
			}
			if err := s.auditor.initiated(txCtx, rec); err != nil {
				s.undo(txCtx, rec, prev)
				return err
			}
			opened = rec
			return nil
		})
		if err == nil {
			pending = opened
		}
		return err
	})
	if err != nil {
		return nil, nil, wrapStoreErr(err, "failed to start verification")
	}
	return pending, prev, nil
}

// analyze runs the authenticity analyzer and fails closed: an analyzer error
// or panic yields a non-genuine report. Only cancellation by the caller is
// returned as an error.
func (s *Service) analyze(ctx context.Context, pending *models.VerificationRecord) (report *models.AuthenticityReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "authenticity analyzer panicked", "user_id", pending.UserID, "panic", r)
			report, err = failedAnalysis(), nil
		}
	}()

	report, err = s.analyzer.Analyze(ctx, pending.DocumentFrontRef, pending.DocumentBackRef)
	if err == nil && report != nil {
		return report, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.logger.ErrorContext(ctx, "authenticity analysis failed; failing closed",
		"user_id", pending.UserID,
		"verification_id", pending.ID,
		"error", err,
	)
	return failedAnalysis(), nil
}

func failedAnalysis() *models.AuthenticityReport {
	return &models.AuthenticityReport{
		IsGenuine:   false,
		RiskFactors: []string{analysisFailedCause},
	}
}

// decide writes the decision and its audit entry in one transaction. Every
// attempt starts from the PENDING record, so a retried audit failure sees
// the cycle it is deciding.
func (s *Service) decide(ctx context.Context, pending *models.VerificationRecord, d models.Decision, confidence int, fraud bool) (*models.VerificationRecord, error) {
	var decided *models.VerificationRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			now := requestcontext.Now(txCtx)
			rec, err := s.verifications.Execute(txCtx, pending.UserID,
				func(current *models.VerificationRecord) error {
					if current.ID != pending.ID {
						return fmt.Errorf("verification cycle replaced: %w", sentinel.ErrConflict)
					}
					return current.CanApplyDecision(d)
				},
				func(r *models.VerificationRecord) {
					r.ApplyDecision(d, now, s.validity)
				},
			)
			if err != nil {
				return err
			}
			if fraud {
				err = s.auditor.fraud(txCtx, rec, confidence)
			} else {
				err = s.auditor.completed(txCtx, rec)
			}
			if err != nil {
				s.undo(txCtx, rec, pending)
				return err
			}
			decided = rec
			return nil
		})
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to persist verification")
	}
	return decided, nil
}

// compensate rolls the cycle back to the snapshot taken before it began.
func (s *Service) compensate(ctx context.Context, pending, prev *models.VerificationRecord) {
	ctx = context.WithoutCancel(ctx)
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.verifications.Restore(ctx, pending.UserID, pending.ID, prev)
	})
	if s.metrics != nil {
		s.metrics.IncCompensation(err == nil)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "CRITICAL: failed to roll back pending verification",
			"user_id", pending.UserID,
			"verification_id", pending.ID,
			"error", err,
		)
	}
}

// undo reverts a write made earlier in the same unit of work when the
// runner cannot roll it back. It runs inside fn so no other unit of work
// observes the partial write.
func (s *Service) undo(ctx context.Context, applied, snapshot *models.VerificationRecord) {
	if tx.Atomic(s.tx) {
		return
	}
	if err := s.verifications.Restore(context.WithoutCancel(ctx), applied.UserID, applied.ID, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "CRITICAL: failed to undo partial verification write",
			"user_id", applied.UserID,
			"verification_id", applied.ID,
			"error", err,
		)
	}
}

// abort records a submission that ended without a decision. The entry is
// best effort: the caller already gets the original error.
func (s *Service) abort(ctx context.Context, userID id.UserID, stage string, cause error) {
	ctx = context.WithoutCancel(ctx)
	if err := s.auditor.aborted(ctx, userID, stage, cause); err != nil {
		s.logger.ErrorContext(ctx, "failed to audit aborted verification",
			"user_id", userID,
			"stage", stage,
			"error", err,
		)
	}
}

// notifyApproved fires the approval hook once per transition into VERIFIED.
// Delivery failures are logged and counted; the verification stands.
func (s *Service) notifyApproved(ctx context.Context, r *models.VerificationRecord) {
	event := notify.Approved{
		VerificationID: r.ID,
		UserID:         r.UserID,
		RiskScore:      r.RiskScore,
		RequestID:      requestcontext.RequestID(ctx),
	}
	if r.VerificationDate != nil {
		event.VerifiedAt = *r.VerificationDate
	}
	if r.ExpiryDate != nil {
		event.ExpiresAt = *r.ExpiryDate
	}
	if err := s.notifier.VerificationApproved(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.IncNotifierFailure()
		}
		s.logger.ErrorContext(ctx, "approval notification failed",
			"user_id", r.UserID,
			"verification_id", r.ID,
			"error", err,
		)
	}
}

// refreshAML screens the user and stores the result with its audit entry.
// The verification outcome is already committed, so failures are logged
// and the next attempt refreshes the screening.
func (s *Service) refreshAML(ctx context.Context, r *models.VerificationRecord) {
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		check, err := s.screener.Check(ctx, models.SubjectFromRecord(r))
		if err != nil {
			return err
		}
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.amlChecks.Upsert(txCtx, check); err != nil {
				return err
			}
			if err := s.auditor.amlPerformed(txCtx, check); err != nil {
				return err
			}
			if s.metrics != nil {
				s.metrics.IncAMLCheck(string(check.RiskLevel))
			}
			return nil
		})
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "AML screening failed",
			"user_id", r.UserID,
			"error", err,
		)
	}
}

// checkOwnership rejects references outside the caller's directory in
// document storage. Such a file is reported as not found so its existence
// is not disclosed. Empty references are left to the validator.
func checkOwnership(req SubmitRequest) error {
	if req.FrontRef != "" && !ownsRef(req.UserID, req.FrontRef) {
		return dErrors.NewValidation(validation.RuleMissingFront, "front document not found")
	}
	if req.BackRef != "" && !ownsRef(req.UserID, req.BackRef) {
		return dErrors.NewValidation(validation.RuleMissingBack, "back document not found")
	}
	return nil
}

// ownsRef reports whether ref is a clean path under "<userID>/".
func ownsRef(userID id.UserID, ref string) bool {
	return path.Clean(ref) == ref && strings.HasPrefix(ref, userID.String()+"/")
}

func lockErr(err error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "verification already pending")
	}
	return dErrors.Wrap(err, dErrors.CodePersistence, "failed to acquire verification lock")
}

func outcomeOf(result *SubmitResult, err error) kycmetrics.Outcome {
	switch {
	case err == nil && result.Status == models.StatusVerified:
		return kycmetrics.OutcomeVerified
	case err == nil:
		return kycmetrics.OutcomeRejected
	case dErrors.HasCode(err, dErrors.CodeFraudDetected):
		return kycmetrics.OutcomeFraud
	case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeInvalidInput):
		return kycmetrics.OutcomeInvalid
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return kycmetrics.OutcomeConflict
	default:
		return kycmetrics.OutcomeFailed
	}
}
