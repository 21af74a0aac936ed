// Package aml assigns the coarse anti-money-laundering risk level recorded
// alongside every verification attempt.
//
// The policy is a stub: a watchlist hit or a high-risk nationality is HIGH,
// an unknown or elevated-risk nationality is MEDIUM and everything else is
// LOW. Real sanctions screening plugs in behind Watchlist.
package aml

import (
	"context"
	"fmt"
	"strings"

	"kyccore/internal/kyc/models"
	"kyccore/internal/policy"
	"kyccore/pkg/requestcontext"
)

// Watchlist answers whether a document number is listed.
type Watchlist interface {
	Contains(ctx context.Context, documentNumber string) (bool, error)
}

// Checker screens subjects against the watchlist and country policy.
type Checker struct {
	watchlist Watchlist
	high      map[string]struct{}
	elevated  map[string]struct{}
}

// New creates a Checker. A nil watchlist disables watchlist screening.
func New(watchlist Watchlist, p policy.AMLPolicy) *Checker {
	return &Checker{
		watchlist: watchlist,
		high:      countrySet(p.HighRiskCountries),
		elevated:  countrySet(p.ElevatedRiskCountries),
	}
}

func countrySet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[normalizeCountry(c)] = struct{}{}
	}
	return set
}

func normalizeCountry(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// Check screens the subject and timestamps the result with the request time.
// Watchlist failures are returned so the caller can retry; no level is
// guessed without the lookup.
func (c *Checker) Check(ctx context.Context, subject models.AMLSubject) (*models.AMLCheck, error) {
	check := &models.AMLCheck{
		UserID:        subject.UserID,
		LastCheckDate: requestcontext.Now(ctx),
	}

	if c.watchlist != nil && strings.TrimSpace(subject.DocumentNumber) != "" {
		listed, err := c.watchlist.Contains(ctx, subject.DocumentNumber)
		if err != nil {
			return nil, fmt.Errorf("watchlist lookup: %w", err)
		}
		if listed {
			check.RiskLevel = models.RiskLevelHigh
			check.Reason = "document number on watchlist"
			return check, nil
		}
	}

	nationality := normalizeCountry(subject.Nationality)
	if _, ok := c.high[nationality]; ok && nationality != "" {
		check.RiskLevel = models.RiskLevelHigh
		check.Reason = "high-risk nationality"
		return check, nil
	}
	switch _, elevated := c.elevated[nationality]; {
	case nationality == "":
		check.RiskLevel = models.RiskLevelMedium
		check.Reason = "nationality unknown"
	case elevated:
		check.RiskLevel = models.RiskLevelMedium
		check.Reason = "elevated-risk nationality"
	default:
		check.RiskLevel = models.RiskLevelLow
	}
	return check, nil
}
