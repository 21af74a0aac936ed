package models

import (
	"fmt"
	"strings"
	"time"

	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
)

// RiskLevel is the coarse AML screening outcome.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// ParseRiskLevel parses a stored risk level.
func ParseRiskLevel(raw string) (RiskLevel, error) {
	switch l := RiskLevel(strings.ToUpper(strings.TrimSpace(raw))); l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return l, nil
	}
	return "", dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown AML risk level %q", raw))
}

// AMLCheck is the latest screening result for a user. One per user.
type AMLCheck struct {
	UserID        id.UserID
	RiskLevel     RiskLevel
	Reason        string
	LastCheckDate time.Time
}

// AMLSubject is the data a screen runs against.
type AMLSubject struct {
	UserID         id.UserID
	FirstName      string
	LastName       string
	Nationality    string
	DocumentNumber string
}

// SubjectFromRecord builds the AML subject of a verification record.
func SubjectFromRecord(r *VerificationRecord) AMLSubject {
	return AMLSubject{
		UserID:         r.UserID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Nationality:    r.Nationality,
		DocumentNumber: r.DocumentNumber,
	}
}
