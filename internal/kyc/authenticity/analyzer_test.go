package authenticity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kyccore/internal/kyc/files"
	filemocks "kyccore/internal/kyc/files/mocks"
	"kyccore/pkg/platform/sentinel"
	"kyccore/pkg/requestcontext"
	"kyccore/pkg/testutil"
)

//go:generate mockgen -source=../files/files.go -destination=../files/mocks/mocks.go -package=mocks Store

// =============================================================================
// Analyzer Test Suite
// =============================================================================
// Justification for unit tests: the analyzer wires storage to the pure checks
// and must fail closed. Tests pin the fold order across concurrent checks and
// the split between integrity findings and aborting errors.

type AnalyzerSuite struct {
	suite.Suite
	store    *files.MemoryStore
	analyzer *Analyzer
	ctx      context.Context
}

func TestAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerSuite))
}

func (s *AnalyzerSuite) SetupTest() {
	s.store = files.NewMemoryStore()
	s.analyzer = New(s.store, defaults())
	s.ctx = requestcontext.WithTime(context.Background(), now)
}

func (s *AnalyzerSuite) TestGenuineNationalID() {
	s.store.Put("u/id_front.jpg", testutil.Document("jpg", 200<<10, 1), captured)
	s.store.Put("u/id_back.jpg", testutil.Document("jpg", 205<<10, 2), captured.Add(30*time.Second))

	report, err := s.analyzer.Analyze(s.ctx, "u/id_front.jpg", "u/id_back.jpg")
	s.Require().NoError(err)
	s.True(report.IsGenuine)
	s.Equal(100, report.Confidence)
	s.False(report.ManipulationDetected)
	s.Empty(report.RiskFactors)
	s.Len(report.ContentHashes, 2)
	s.NotEqual(report.ContentHashes["front"], report.ContentHashes["back"])
}

func (s *AnalyzerSuite) TestSuspiciousKeywordIsManipulation() {
	s.store.Put("u/fake_id_card.jpg", testutil.Document("jpg", 200<<10, 1), captured)

	report, err := s.analyzer.Analyze(s.ctx, "u/fake_id_card.jpg", "")
	s.Require().NoError(err)
	s.True(report.ManipulationDetected)
	s.False(report.IsGenuine)
	s.Contains(report.RiskFactors, "front: suspicious keyword in filename: fake")
}

func (s *AnalyzerSuite) TestFactorsFollowCheckOrder() {
	// metadata (fresh) precedes quality (recent) precedes patterns (keyword)
	s.store.Put("u/demo.jpg", testutil.Document("jpg", 200<<10, 1), now.Add(-10*time.Second))
	s.store.Put("u/back.png", testutil.Document("png", 200<<10, 2), captured)

	report, err := s.analyzer.Analyze(s.ctx, "u/demo.jpg", "u/back.png")
	s.Require().NoError(err)
	s.Equal([]string{
		"front: file created moments before submission",
		"front: very recent file",
		"front/back creation time mismatch",
		"front/back file format mismatch",
		"front: suspicious keyword in filename: demo",
	}, report.RiskFactors)
}

func (s *AnalyzerSuite) TestFileDeletedBeforeAnalysis() {
	s.store.Put("u/front.jpg", testutil.Document("jpg", 200<<10, 1), captured)

	report, err := s.analyzer.Analyze(s.ctx, "u/front.jpg", "u/back.jpg")
	s.Require().NoError(err)
	s.False(report.IsGenuine)
	s.Contains(report.RiskFactors, "back: file missing at analysis time")
}

func (s *AnalyzerSuite) TestFileGrownPastReadLimit() {
	p := defaults()
	p.MaxReadSize = 100 << 10
	s.store.Put("u/front.jpg", testutil.Document("jpg", 200<<10, 1), captured)

	report, err := New(s.store, p).Analyze(s.ctx, "u/front.jpg", "")
	s.Require().NoError(err)
	s.False(report.IsGenuine)
	s.Contains(report.RiskFactors, "front: file exceeds the read limit")
}

func (s *AnalyzerSuite) TestStorageOutageAborts() {
	ctrl := gomock.NewController(s.T())
	store := filemocks.NewMockStore(ctrl)
	store.EXPECT().Stat(gomock.Any(), "u/front.jpg").Return(files.Info{}, sentinel.ErrUnavailable)

	report, err := New(store, defaults()).Analyze(s.ctx, "u/front.jpg", "")
	s.Require().ErrorIs(err, sentinel.ErrUnavailable)
	s.Nil(report)
}

func (s *AnalyzerSuite) TestCancelledContextAborts() {
	s.store.Put("u/front.jpg", testutil.Document("jpg", 200<<10, 1), captured)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.analyzer.Analyze(ctx, "u/front.jpg", "")
	s.Require().ErrorIs(err, context.Canceled)
}

func (s *AnalyzerSuite) TestDeterministic() {
	s.store.Put("u/front_copy.jpg", testutil.Document("jpg", 30<<10, 1), captured)
	s.store.Put("u/back.jpg", testutil.Document("jpg", 200<<10, 2), captured)

	first, err := s.analyzer.Analyze(s.ctx, "u/front_copy.jpg", "u/back.jpg")
	s.Require().NoError(err)
	for range 10 {
		again, err := s.analyzer.Analyze(s.ctx, "u/front_copy.jpg", "u/back.jpg")
		s.Require().NoError(err)
		s.Equal(first, again)
	}
}
