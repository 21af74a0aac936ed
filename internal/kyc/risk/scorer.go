// Package risk turns document fields and an authenticity report into a
// deterministic, fully explained risk score.
package risk

import (
	"fmt"
	"strings"
	"time"

	"kyccore/internal/kyc/models"
	"kyccore/internal/policy"
)

const day = 24 * time.Hour

// Contribution is one line of the score explanation.
type Contribution struct {
	Reason string
	Points int
}

// Assessment is the scored outcome. Score is clamped to [0,100] and Decision
// is the provisional status: VERIFIED when Score is at or below the cutoff,
// REJECTED otherwise.
type Assessment struct {
	Score         int
	Decision      models.Status
	Contributions []Contribution
}

// Explain renders the contributions as "reason (+n), ...".
func (a Assessment) Explain() string {
	if len(a.Contributions) == 0 {
		return "no risk indicators"
	}
	parts := make([]string, len(a.Contributions))
	for i, c := range a.Contributions {
		parts[i] = fmt.Sprintf("%s (+%d)", c.Reason, c.Points)
	}
	return strings.Join(parts, ", ")
}

// Score rates a submission. Expiry within 30 days (including an expired or
// unknown expiry) and within 90 days are mutually exclusive bands.
func Score(fields models.DocumentFields, report *models.AuthenticityReport, now time.Time, table policy.PointTable) Assessment {
	var a Assessment
	add := func(points int, reason string) {
		if points == 0 {
			return
		}
		a.Contributions = append(a.Contributions, Contribution{Reason: reason, Points: points})
		a.Score += points
	}

	switch {
	case fields.DocumentExpiry == nil:
		add(table.ExpiryWithin30Days, "document expiry unknown")
	case fields.DocumentExpiry.Sub(now) < 30*day:
		if fields.DocumentExpiry.Before(now) {
			add(table.ExpiryWithin30Days, "document expired")
		} else {
			add(table.ExpiryWithin30Days, "document expires within 30 days")
		}
	case fields.DocumentExpiry.Sub(now) < 90*day:
		add(table.ExpiryWithin90Days, "document expires within 90 days")
	}

	if !fields.HasFullName() {
		add(table.MissingName, "name missing")
	}
	if !fields.HasDocumentNumber() {
		add(table.MissingDocumentNumber, "document number missing")
	}

	if report != nil {
		if report.ManipulationDetected {
			add(table.Manipulation, "manipulation detected")
		}
		if extra := len(report.RiskFactors) - 1; extra > 0 {
			add(extra*table.ExtraRiskFactor, fmt.Sprintf("%d additional risk factors", extra))
		}
	}

	a.Score = min(max(a.Score, 0), 100)
	a.Decision = models.StatusRejected
	if a.Score <= table.VerifyCutoff {
		a.Decision = models.StatusVerified
	}
	return a
}
