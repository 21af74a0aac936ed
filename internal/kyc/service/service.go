// Package service orchestrates the KYC verification pipeline:
// validate, open a PENDING cycle, analyze, score, persist the decision with
// its audit entry, notify on approval, then refresh the AML screening.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"kyccore/internal/kyc/lock"
	kycmetrics "kyccore/internal/kyc/metrics"
	"kyccore/internal/kyc/models"
	"kyccore/internal/kyc/notify"
	"kyccore/internal/kyc/store/verification"
	"kyccore/internal/policy"
	id "kyccore/pkg/domain"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/platform/retry"
	"kyccore/pkg/platform/tx"
)

type VerificationStore interface {
	Get(ctx context.Context, userID id.UserID) (*models.VerificationRecord, error)
	BeginPending(ctx context.Context, userID id.UserID, staleBefore time.Time, begin verification.BeginFunc) (*models.VerificationRecord, error)
	Execute(ctx context.Context, userID id.UserID, validate verification.ValidateFunc, mutate verification.MutateFunc) (*models.VerificationRecord, error)
	Restore(ctx context.Context, userID id.UserID, cycle id.VerificationID, prev *models.VerificationRecord) error
}

type AMLStore interface {
	Upsert(ctx context.Context, check *models.AMLCheck) error
	Get(ctx context.Context, userID id.UserID) (*models.AMLCheck, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type AuditReader interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error)
}

type DocumentValidator interface {
	Validate(ctx context.Context, docType id.DocumentType, frontRef, backRef string) error
}

type AuthenticityAnalyzer interface {
	Analyze(ctx context.Context, frontRef, backRef string) (*models.AuthenticityReport, error)
}

type AMLScreener interface {
	Check(ctx context.Context, subject models.AMLSubject) (*models.AMLCheck, error)
}

// Dependencies are the collaborators every Service needs.
type Dependencies struct {
	Verifications VerificationStore
	AMLChecks     AMLStore
	Audit         AuditPublisher
	AuditTrail    AuditReader
	Validator     DocumentValidator
	Analyzer      AuthenticityAnalyzer
	Screener      AMLScreener
}

func (d Dependencies) validate() error {
	var errs []error
	if d.Verifications == nil {
		errs = append(errs, errors.New("verification store is required"))
	}
	if d.AMLChecks == nil {
		errs = append(errs, errors.New("AML store is required"))
	}
	if d.Audit == nil {
		errs = append(errs, errors.New("audit publisher is required"))
	}
	if d.AuditTrail == nil {
		errs = append(errs, errors.New("audit reader is required"))
	}
	if d.Validator == nil {
		errs = append(errs, errors.New("document validator is required"))
	}
	if d.Analyzer == nil {
		errs = append(errs, errors.New("authenticity analyzer is required"))
	}
	if d.Screener == nil {
		errs = append(errs, errors.New("AML screener is required"))
	}
	return errors.Join(errs...)
}

// Service runs KYC submissions and serves the record queries.
type Service struct {
	verifications VerificationStore
	amlChecks     AMLStore
	auditor       *auditEmitter
	auditTrail    AuditReader
	validator     DocumentValidator
	analyzer      AuthenticityAnalyzer
	screener      AMLScreener

	points   policy.PointTable
	validity time.Duration

	tx       tx.Runner
	retry    retry.Policy
	notifier notify.Notifier
	locker   lock.Locker
	lockTTL  time.Duration
	logger   *slog.Logger
	metrics  *kycmetrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *kycmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx sets the transaction runner. Defaults to an in-memory runner.
func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		if runner != nil {
			s.tx = runner
		}
	}
}

// WithRetryPolicy bounds retries and per-call timeouts of storage calls.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *Service) {
		s.retry = p
	}
}

// WithNotifier sets the approval hook.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLocker holds a per-user lock for the pipeline duration.
func WithLocker(l lock.Locker, ttl time.Duration) Option {
	return func(s *Service) {
		s.locker = l
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

const defaultLockTTL = 2 * time.Minute

// New constructs a Service.
func New(deps Dependencies, p policy.Policy, opts ...Option) (*Service, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	s := &Service{
		verifications: deps.Verifications,
		amlChecks:     deps.AMLChecks,
		auditTrail:    deps.AuditTrail,
		validator:     deps.Validator,
		analyzer:      deps.Analyzer,
		screener:      deps.Screener,
		points:        p.Risk,
		validity:      p.VerificationValidity,
		tx:            tx.NewMemoryRunner(),
		retry:         retry.DefaultPolicy(),
		notifier:      notify.Nop{},
		lockTTL:       defaultLockTTL,
		logger:        slog.Default(),
		tracer:        otel.Tracer("kyccore/internal/kyc/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.auditor = newAuditEmitter(s.logger, deps.Audit)
	return s, nil
}
