// Package handler exposes the KYC service over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kyccore/internal/kyc/models"
	"kyccore/internal/kyc/service"
	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/platform/httputil"
	"kyccore/pkg/requestcontext"
)

// Service defines the KYC operations the handler needs.
type Service interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*service.SubmitResult, error)
	GetStatus(ctx context.Context, userID id.UserID) (*models.VerificationRecord, error)
	UpdateInfo(ctx context.Context, userID id.UserID, update models.InfoUpdate) (*models.VerificationRecord, error)
	AuditTrail(ctx context.Context, userID id.UserID) ([]audit.Event, error)
	AMLCheck(ctx context.Context, userID id.UserID) (*models.AMLCheck, error)
}

// Handler wires KYC endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
	submit  []func(http.Handler) http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithSubmitMiddleware wraps only the submission route, e.g. with a rate
// limit.
func WithSubmitMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.submit = append(h.submit, mw...)
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the user endpoints. The router must authenticate the
// caller first.
func (h *Handler) Register(r chi.Router) {
	r.With(h.submit...).Post("/kyc/verifications", h.HandleSubmit)
	r.Get("/kyc/verifications/me", h.HandleGetStatus)
	r.Patch("/kyc/verifications/me", h.HandleUpdateInfo)
}

// RegisterReview mounts the compliance review endpoints. The router must
// restrict access to reviewers.
func (h *Handler) RegisterReview(r chi.Router) {
	r.Get("/kyc/review/users/{userID}/audit", h.HandleAuditTrail)
	r.Get("/kyc/review/users/{userID}/aml", h.HandleAMLCheck)
}

// HandleSubmit handles POST /kyc/verifications.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, service.SubmitRequest{
		UserID:       userID,
		DocumentType: req.ParsedDocumentType(),
		FrontRef:     req.FrontRef,
		BackRef:      req.BackRef,
		Fields:       req.Fields(),
	})
	if err != nil {
		h.logFailure(ctx, "verification submission failed", userID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification submitted",
		"request_id", requestID,
		"user_id", userID,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromSubmitResult(result))
}

// HandleGetStatus handles GET /kyc/verifications/me.
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	rec, err := h.service.GetStatus(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "failed to load verification", userID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRecord(rec))
}

// HandleUpdateInfo handles PATCH /kyc/verifications/me.
func (h *Handler) HandleUpdateInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateInfoRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.UpdateInfo(ctx, userID, req.Update())
	if err != nil {
		h.logFailure(ctx, "failed to update verification info", userID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRecord(rec))
}

// HandleAuditTrail handles GET /kyc/review/users/{userID}/audit.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.service.AuditTrail(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "failed to load audit trail", userID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAuditTrail(userID.String(), events))
}

// HandleAMLCheck handles GET /kyc/review/users/{userID}/aml.
func (h *Handler) HandleAMLCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	check, err := h.service.AMLCheck(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "failed to load AML check", userID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAMLCheck(check))
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

// logFailure logs expected client errors at warn and the rest at error.
func (h *Handler) logFailure(ctx context.Context, msg string, userID id.UserID, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"error", err,
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, attrs...)
		return
	}
	h.logger.ErrorContext(ctx, msg, attrs...)
}
