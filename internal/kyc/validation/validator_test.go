package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kyccore/internal/kyc/files"
	filemocks "kyccore/internal/kyc/files/mocks"
	"kyccore/internal/policy"
	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
	"kyccore/pkg/platform/sentinel"
)

// =============================================================================
// Document Validator Test Suite
// =============================================================================
// Justification for unit tests: each admissibility rule must be reported
// under its own name and in a fixed order, which feature tests only sample.

type ValidatorSuite struct {
	suite.Suite
	store     *files.MemoryStore
	validator *Validator
	created   time.Time
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.store = files.NewMemoryStore()
	s.validator = New(s.store, policy.DefaultPolicy().Documents)
	s.created = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *ValidatorSuite) put(ref string, size int) {
	s.store.Put(ref, make([]byte, size), s.created)
}

func (s *ValidatorSuite) assertRule(err error, rule string) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "expected validation error, got %v", err)
	s.Equal(rule, dErrors.RuleOf(err))
}

func (s *ValidatorSuite) TestMissingFront() {
	s.Run("empty reference", func() {
		s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypePassport, "", ""), RuleMissingFront)
	})
	s.Run("reference not stored", func() {
		s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypePassport, "u/front.jpg", ""), RuleMissingFront)
	})
}

func (s *ValidatorSuite) TestNationalIDRequiresBack() {
	s.put("u/front.jpg", 1024)

	err := s.validator.Validate(context.Background(), id.DocumentTypeNationalID, "u/front.jpg", "")
	s.assertRule(err, RuleMissingBack)
	s.Contains(err.Error(), "back document")

	s.Run("passport does not", func() {
		s.NoError(s.validator.Validate(context.Background(), id.DocumentTypePassport, "u/front.jpg", ""))
	})

	s.Run("supplied back must exist", func() {
		s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypeNationalID, "u/front.jpg", "u/gone.jpg"), RuleMissingBack)
	})
}

func (s *ValidatorSuite) TestFileTooLarge() {
	s.put("u/front.jpg", 1024)
	s.put("u/back.jpg", 10<<20+1)
	s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypeNationalID, "u/front.jpg", "u/back.jpg"), RuleFileTooLarge)

	s.Run("exactly at the limit is accepted", func() {
		s.put("u/edge.jpg", 10<<20)
		s.NoError(s.validator.Validate(context.Background(), id.DocumentTypePassport, "u/edge.jpg", ""))
	})
}

func (s *ValidatorSuite) TestUnsupportedFormat() {
	for _, ref := range []string{"u/front.gif", "u/front.exe", "u/front"} {
		s.Run(ref, func() {
			s.put(ref, 1024)
			s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypePassport, ref, ""), RuleUnsupportedFormat)
		})
	}
	s.Run("extension check is case-insensitive", func() {
		s.put("u/front.PDF", 1024)
		s.NoError(s.validator.Validate(context.Background(), id.DocumentTypePassport, "u/front.PDF", ""))
	})
}

func (s *ValidatorSuite) TestSizeCheckedBeforeFormat() {
	s.put("u/front.gif", 11<<20)
	s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypePassport, "u/front.gif", ""), RuleFileTooLarge)
}

func (s *ValidatorSuite) TestUnreadable() {
	s.Run("no owner read permission", func() {
		s.store.PutWithMode("u/locked.jpg", make([]byte, 1024), s.created, 0o200)
		s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypePassport, "u/locked.jpg", ""), RuleUnreadableFront)
	})
	s.Run("empty file", func() {
		s.put("u/front.jpg", 1024)
		s.put("u/empty.jpg", 0)
		s.assertRule(s.validator.Validate(context.Background(), id.DocumentTypeNationalID, "u/front.jpg", "u/empty.jpg"), RuleUnreadableBack)
	})
}

func (s *ValidatorSuite) TestStorageFailures() {
	ctrl := gomock.NewController(s.T())
	store := filemocks.NewMockStore(ctrl)
	v := New(store, policy.DefaultPolicy().Documents)

	s.Run("unavailable storage is a persistence error", func() {
		store.EXPECT().Stat(gomock.Any(), "u/front.jpg").Return(files.Info{}, sentinel.ErrUnavailable)
		err := v.Validate(context.Background(), id.DocumentTypePassport, "u/front.jpg", "")
		s.True(dErrors.HasCode(err, dErrors.CodePersistence))
	})

	s.Run("other stat failures mean unreadable", func() {
		store.EXPECT().Stat(gomock.Any(), "u/front.jpg").Return(files.Info{}, errors.New("i/o error"))
		err := v.Validate(context.Background(), id.DocumentTypePassport, "u/front.jpg", "")
		s.assertRule(err, RuleUnreadableFront)
	})
}
