package authenticity

import (
	"kyccore/internal/kyc/models"
	"kyccore/internal/policy"
	kycstrings "kyccore/pkg/platform/strings"
)

// qualityChecks contribute deductions to the quality score. Manipulation
// and pattern findings only add risk factors.
var qualityChecks = map[string]bool{
	CheckNameMetadata:    true,
	CheckNameQuality:     true,
	CheckNameConsistency: true,
	CheckNameIntegrity:   true,
}

// Fold reduces findings, given in check order, into a report.
//
// Risk factors keep their order with duplicates removed. Quality is 100
// minus the deductions of the metadata, quality, consistency and integrity
// checks, clamped at the policy floor, and confidence is quality clamped at
// zero. A document is genuine only when confidence reaches the threshold,
// nothing signalled manipulation and fewer than the maximum number of risk
// factors fired.
func Fold(findings []Finding, p policy.AuthenticityPolicy) *models.AuthenticityReport {
	var factors []string
	manipulation := false
	quality := 100

	for _, f := range findings {
		factors = append(factors, f.RiskFactors...)
		if f.Manipulation {
			manipulation = true
		}
		if qualityChecks[f.Check] {
			quality -= f.Deduction
		}
	}

	quality = max(quality, p.QualityFloor)
	confidence := min(max(0, quality), 100)
	factors = kycstrings.DedupeAndTrim(factors)
	if factors == nil {
		factors = []string{}
	}

	return &models.AuthenticityReport{
		IsGenuine:            confidence >= p.AuthenticityThreshold && !manipulation && len(factors) < p.MaxRiskFactors,
		Confidence:           confidence,
		RiskFactors:          factors,
		ManipulationDetected: manipulation,
		QualityScore:         quality,
	}
}
