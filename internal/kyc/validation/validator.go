// Package validation checks the structural admissibility of a document set
// before any content analysis runs.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"kyccore/internal/kyc/files"
	"kyccore/internal/policy"
	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
	"kyccore/pkg/platform/sentinel"
)

// Rule names reported on validation errors.
const (
	RuleMissingFront      = "missing_front"
	RuleMissingBack       = "missing_back"
	RuleUnreadableFront   = "unreadable_front"
	RuleUnreadableBack    = "unreadable_back"
	RuleFileTooLarge      = "file_too_large"
	RuleUnsupportedFormat = "unsupported_format"
)

// Validator runs the admissibility checks against the file store.
type Validator struct {
	files  files.Store
	policy policy.DocumentPolicy
}

// New creates a Validator.
func New(store files.Store, p policy.DocumentPolicy) *Validator {
	return &Validator{files: store, policy: p}
}

type side struct {
	label      string
	ref        string
	missing    string
	unreadable string
	info       files.Info
	err        error
}

// Validate checks, in order: the front file exists and is readable, a back
// file is present when the document type requires one, every supplied file
// is within the size limit, and every supplied file has an allowed
// extension. The first violation is returned as a CodeValidation error
// naming its rule.
func (v *Validator) Validate(ctx context.Context, docType id.DocumentType, frontRef, backRef string) error {
	frontRef = strings.TrimSpace(frontRef)
	backRef = strings.TrimSpace(backRef)

	if frontRef == "" {
		return dErrors.NewValidation(RuleMissingFront, "front document is required")
	}

	front := &side{label: "front", ref: frontRef, missing: RuleMissingFront, unreadable: RuleUnreadableFront}
	sides := []*side{front}
	var back *side
	if backRef != "" {
		back = &side{label: "back", ref: backRef, missing: RuleMissingBack, unreadable: RuleUnreadableBack}
		sides = append(sides, back)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range sides {
		g.Go(func() error {
			s.info, s.err = v.files.Stat(gctx, s.ref)
			return nil
		})
	}
	_ = g.Wait()

	if err := v.checkPresent(ctx, front); err != nil {
		return err
	}
	if back == nil {
		if docType.RequiresBack() {
			return dErrors.NewValidation(RuleMissingBack, "back document is required for "+docType.String())
		}
	} else if err := v.checkPresent(ctx, back); err != nil {
		return err
	}

	for _, s := range sides {
		if s.info.Size > v.policy.MaxFileSize {
			return dErrors.NewValidation(RuleFileTooLarge, s.label+" document exceeds the maximum file size")
		}
	}
	for _, s := range sides {
		if !v.policy.AllowsExtension(s.info.Ext()) {
			return dErrors.NewValidation(RuleUnsupportedFormat, fmt.Sprintf("%s document format %q is not supported", s.label, s.info.Ext()))
		}
	}
	return nil
}

func (v *Validator) checkPresent(ctx context.Context, s *side) error {
	switch {
	case s.err == nil:
	case errors.Is(s.err, sentinel.ErrNotFound):
		return dErrors.NewValidation(s.missing, s.label+" document not found")
	case ctx.Err() != nil:
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "document lookup timed out")
	case errors.Is(s.err, sentinel.ErrUnavailable):
		return dErrors.Wrap(s.err, dErrors.CodePersistence, "document storage unavailable")
	default:
		return dErrors.NewValidation(s.unreadable, s.label+" document is not readable")
	}
	if !s.info.OwnerReadable() || s.info.Size == 0 {
		return dErrors.NewValidation(s.unreadable, s.label+" document is not readable")
	}
	return nil
}
