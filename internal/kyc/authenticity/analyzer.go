// Package authenticity runs the heuristic document checks and folds them into
// an authenticity report.
//
// Each check is a pure function over a loaded Document; the Analyzer only
// loads both sides, fans the checks out and folds the findings in a fixed
// order so reports are reproducible.
package authenticity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"kyccore/internal/kyc/files"
	"kyccore/internal/kyc/models"
	"kyccore/internal/policy"
	"kyccore/pkg/platform/sentinel"
	"kyccore/pkg/requestcontext"
)

var tracer = otel.Tracer("kyccore/internal/kyc/authenticity")

// Analyzer produces authenticity reports from stored documents.
type Analyzer struct {
	files  files.Store
	policy policy.AuthenticityPolicy
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(a *Analyzer) {
		a.tracer = t
	}
}

// New creates an Analyzer.
func New(store files.Store, p policy.AuthenticityPolicy, opts ...Option) *Analyzer {
	a := &Analyzer{
		files:  store,
		policy: p,
		logger: slog.Default(),
		tracer: tracer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze loads the front (and optional back) document and runs every check.
// A returned error means the analysis itself could not complete; callers
// must treat it as a failed authenticity verdict.
func (a *Analyzer) Analyze(ctx context.Context, frontRef, backRef string) (*models.AuthenticityReport, error) {
	ctx, span := a.tracer.Start(ctx, "authenticity.Analyze",
		trace.WithAttributes(attribute.Bool("kyc.has_back", backRef != "")))
	defer span.End()

	now := requestcontext.Now(ctx)
	refs := []struct{ side, ref string }{{"front", frontRef}}
	if backRef != "" {
		refs = append(refs, struct{ side, ref string }{"back", backRef})
	}

	docs := make([]Document, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range refs {
		g.Go(func() error {
			doc, err := a.load(gctx, r.side, r.ref)
			docs[i] = doc
			return err
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "document load failed")
		return nil, err
	}

	findings, hashes := a.run(docs, now)
	report := Fold(findings, a.policy)
	report.ContentHashes = hashes

	span.SetAttributes(
		attribute.Bool("kyc.genuine", report.IsGenuine),
		attribute.Int("kyc.confidence", report.Confidence),
		attribute.Int("kyc.risk_factors", len(report.RiskFactors)),
	)
	a.logger.DebugContext(ctx, "authenticity analysis complete",
		"request_id", requestcontext.RequestID(ctx),
		"genuine", report.IsGenuine,
		"confidence", report.Confidence,
		"manipulation", report.ManipulationDetected,
		"risk_factors", len(report.RiskFactors),
	)
	return report, nil
}

// load stats and reads one side. A missing or unreadable file is recorded on
// the document for the integrity check; only context cancellation and
// storage outages abort the analysis.
func (a *Analyzer) load(ctx context.Context, side, ref string) (Document, error) {
	doc := Document{Side: side, Info: files.Info{Ref: ref, Name: files.BaseName(ref)}}

	info, err := a.files.Stat(ctx, ref)
	if err != nil {
		if abort := abortError(ctx, err); abort != nil {
			return doc, fmt.Errorf("stat %s document: %w", side, abort)
		}
		doc.StatErr = err
		return doc, nil
	}
	doc.Info = info

	// One byte past the limit tells a file that grew since validation apart
	// from one that fits exactly.
	limit := a.policy.MaxReadSize
	content, err := a.files.Read(ctx, ref, limit+1)
	if err != nil {
		if abort := abortError(ctx, err); abort != nil {
			return doc, fmt.Errorf("read %s document: %w", side, abort)
		}
		doc.ReadErr = err
		return doc, nil
	}
	if int64(len(content)) > limit {
		content = content[:limit]
		doc.Truncated = true
	}
	doc.Content = content
	return doc, nil
}

func abortError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, sentinel.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// run executes the checks concurrently. Results land in fixed slots so the
// fold sees them in check order, front before back.
func (a *Analyzer) run(docs []Document, now time.Time) ([]Finding, map[string]string) {
	n := len(docs)
	metadata := make([]Finding, n)
	manipulation := make([]Finding, n)
	quality := make([]Finding, n)
	patterns := make([]Finding, n)
	integrity := make([]Finding, n)
	var consistency []Finding

	p := a.policy
	var g errgroup.Group
	for i, doc := range docs {
		g.Go(func() error { metadata[i] = CheckMetadata(doc, p, now); return nil })
		g.Go(func() error { manipulation[i] = CheckManipulation(doc, p); return nil })
		g.Go(func() error { quality[i] = CheckQuality(doc, p, now); return nil })
		g.Go(func() error { patterns[i] = CheckPatterns(doc, p); return nil })
		g.Go(func() error { integrity[i] = CheckIntegrity(doc, p); return nil })
	}
	if n == 2 {
		g.Go(func() error {
			consistency = []Finding{CheckConsistency(docs[0], docs[1], p)}
			return nil
		})
	}
	_ = g.Wait()

	findings := make([]Finding, 0, 5*n+1)
	for _, row := range [][]Finding{metadata, manipulation, quality, consistency, patterns, integrity} {
		findings = append(findings, row...)
	}

	hashes := make(map[string]string, n)
	for i, f := range metadata {
		if f.Hash != "" {
			hashes[docs[i].Side] = f.Hash
		}
	}
	return findings, hashes
}
