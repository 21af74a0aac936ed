package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/requestcontext"
)

// auditEmitter turns pipeline outcomes into audit entries and mirrors each
// one to the structured log.
type auditEmitter struct {
	logger    *slog.Logger
	publisher AuditPublisher
}

func newAuditEmitter(logger *slog.Logger, publisher AuditPublisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

func (e *auditEmitter) emit(ctx context.Context, userID id.UserID, action audit.Action, details string) error {
	e.logAudit(ctx, string(action), "user_id", userID, "details", details)
	return e.publisher.Emit(ctx, audit.Event{
		UserID:  userID,
		Action:  action,
		Details: details,
	})
}

func (e *auditEmitter) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if e.logger != nil {
		e.logger.InfoContext(ctx, event, args...)
	}
}

func (e *auditEmitter) initiated(ctx context.Context, r *models.VerificationRecord) error {
	return e.emit(ctx, r.UserID, audit.ActionVerificationInitiated,
		fmt.Sprintf("verification_id=%s document_type=%s", r.ID, r.DocumentType))
}

func (e *auditEmitter) completed(ctx context.Context, r *models.VerificationRecord) error {
	if r.Status == models.StatusVerified {
		return e.emit(ctx, r.UserID, audit.ActionVerificationVerified,
			fmt.Sprintf("verification_id=%s risk_score=%d", r.ID, r.RiskScore))
	}
	return e.emit(ctx, r.UserID, audit.ActionVerificationRejected,
		fmt.Sprintf("verification_id=%s risk_score=%d reason=%q", r.ID, r.RiskScore, r.RejectionReason))
}

func (e *auditEmitter) fraud(ctx context.Context, r *models.VerificationRecord, confidence int) error {
	return e.emit(ctx, r.UserID, audit.ActionFraudAttemptDetected,
		fmt.Sprintf("verification_id=%s confidence=%d risk_factors=%s", r.ID, confidence, strings.Join(r.RiskFactors, "; ")))
}

func (e *auditEmitter) infoUpdated(ctx context.Context, r *models.VerificationRecord, changed []string) error {
	return e.emit(ctx, r.UserID, audit.ActionInfoUpdated,
		fmt.Sprintf("verification_id=%s fields=%s", r.ID, strings.Join(changed, ",")))
}

func (e *auditEmitter) amlPerformed(ctx context.Context, check *models.AMLCheck) error {
	details := "risk_level=" + string(check.RiskLevel)
	if check.Reason != "" {
		details += fmt.Sprintf(" reason=%q", check.Reason)
	}
	return e.emit(ctx, check.UserID, audit.ActionAMLCheckPerformed, details)
}

func (e *auditEmitter) aborted(ctx context.Context, userID id.UserID, stage string, cause error) error {
	return e.emit(ctx, userID, audit.ActionVerificationAborted,
		fmt.Sprintf("stage=%s error=%q", stage, cause.Error()))
}
