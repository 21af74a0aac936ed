// Package policy holds every tunable threshold of the KYC engine.
//
// The values encode a risk appetite rather than business logic, so they are
// loaded from YAML and validated at startup. Callers receive the section they
// need; no package reads the file itself.
package policy

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy is the full set of KYC thresholds.
type Policy struct {
	Documents    DocumentPolicy     `yaml:"documents"`
	Authenticity AuthenticityPolicy `yaml:"authenticity"`
	Risk         PointTable         `yaml:"risk"`
	AML          AMLPolicy          `yaml:"aml"`
	// VerificationValidity is the lifetime of a verification when the
	// document expiry is unknown.
	VerificationValidity time.Duration `yaml:"verification_validity"`
}

// DocumentPolicy governs structural admissibility.
type DocumentPolicy struct {
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// AuthenticityPolicy governs the six heuristic checks and the final
// genuineness rule.
type AuthenticityPolicy struct {
	// metadata
	MinPlausibleSize    int64         `yaml:"min_plausible_size"`
	MaxPlausibleSize    int64         `yaml:"max_plausible_size"`
	FreshFileWindow     time.Duration `yaml:"fresh_file_window"`
	ImplausibleSizeCost int           `yaml:"implausible_size_cost"`
	FreshFileCost       int           `yaml:"fresh_file_cost"`

	// manipulation
	EditorSignatures      []string `yaml:"editor_signatures"`
	MinCompressionRatio   float64  `yaml:"min_compression_ratio"`
	CompressionProbeBytes int      `yaml:"compression_probe_bytes"`

	// quality
	LowQualitySize  int64         `yaml:"low_quality_size"`
	LowQualityCost  int           `yaml:"low_quality_cost"`
	QualityWords    []string      `yaml:"quality_words"`
	QualityWordCost int           `yaml:"quality_word_cost"`
	RecentFileAge   time.Duration `yaml:"recent_file_age"`
	RecentFileCost  int           `yaml:"recent_file_cost"`

	// consistency
	MaxSizeRatio      float64       `yaml:"max_size_ratio"`
	MaxCreationDelta  time.Duration `yaml:"max_creation_delta"`
	InconsistencyCost int           `yaml:"inconsistency_cost"`

	// patterns
	SuspiciousKeywords         []string `yaml:"suspicious_keywords"`
	KeywordImpliesManipulation bool     `yaml:"keyword_implies_manipulation"`
	MaxDigitRun                int      `yaml:"max_digit_run"`
	MaxSpecialCharDensity      float64  `yaml:"max_special_char_density"`
	MaxFilenameLength          int      `yaml:"max_filename_length"`

	// integrity
	IntegrityPenalty int `yaml:"integrity_penalty"`
	// MaxReadSize caps the bytes loaded per document. A file larger than
	// this at analysis time fails the integrity check.
	MaxReadSize int64 `yaml:"max_read_size"`

	// decision
	QualityFloor          int `yaml:"quality_floor"`
	AuthenticityThreshold int `yaml:"authenticity_threshold"`
	MaxRiskFactors        int `yaml:"max_risk_factors"`
}

// PointTable is the deterministic risk scoring table.
type PointTable struct {
	ExpiryWithin30Days    int `yaml:"expiry_within_30_days"`
	ExpiryWithin90Days    int `yaml:"expiry_within_90_days"`
	MissingName           int `yaml:"missing_name"`
	MissingDocumentNumber int `yaml:"missing_document_number"`
	Manipulation          int `yaml:"manipulation"`
	ExtraRiskFactor       int `yaml:"extra_risk_factor"`
	// VerifyCutoff is the highest score that still verifies.
	VerifyCutoff int `yaml:"verify_cutoff"`
}

// AMLPolicy holds the country lists of the stub AML screen (ISO 3166 alpha-2).
type AMLPolicy struct {
	HighRiskCountries     []string `yaml:"high_risk_countries"`
	ElevatedRiskCountries []string `yaml:"elevated_risk_countries"`
}

// DefaultPolicy returns permissive defaults that avoid rejecting genuine
// documents while still catching obvious fabrications.
func DefaultPolicy() Policy {
	return Policy{
		Documents: DocumentPolicy{
			MaxFileSize:       10 << 20,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "pdf"},
		},
		Authenticity: AuthenticityPolicy{
			MinPlausibleSize:    10 << 10,
			MaxPlausibleSize:    8 << 20,
			FreshFileWindow:     60 * time.Second,
			ImplausibleSizeCost: 10,
			FreshFileCost:       15,

			EditorSignatures: []string{
				"photoshop", "gimp", "paint.net", "canva", "pixlr",
				"affinity photo", "picsart", "photopea",
			},
			MinCompressionRatio:   0.5,
			CompressionProbeBytes: 256 << 10,

			LowQualitySize:  50 << 10,
			LowQualityCost:  20,
			QualityWords:    []string{"copy", "edit", "modified"},
			QualityWordCost: 15,
			RecentFileAge:   5 * time.Minute,
			RecentFileCost:  10,

			MaxSizeRatio:      3.0,
			MaxCreationDelta:  24 * time.Hour,
			InconsistencyCost: 10,

			SuspiciousKeywords:         []string{"fake", "false", "test", "sample", "demo"},
			KeywordImpliesManipulation: true,
			MaxDigitRun:                8,
			MaxSpecialCharDensity:      0.3,
			MaxFilenameLength:          100,

			IntegrityPenalty: 100,
			MaxReadSize:      10 << 20,

			QualityFloor:          -50,
			AuthenticityThreshold: 50,
			MaxRiskFactors:        5,
		},
		Risk: PointTable{
			ExpiryWithin30Days:    20,
			ExpiryWithin90Days:    10,
			MissingName:           15,
			MissingDocumentNumber: 25,
			Manipulation:          30,
			ExtraRiskFactor:       5,
			VerifyCutoff:          30,
		},
		AML: AMLPolicy{
			HighRiskCountries:     []string{"KP", "IR", "SY", "CU"},
			ElevatedRiskCountries: []string{"AF", "MM", "YE", "VE"},
		},
		VerificationValidity: 365 * 24 * time.Hour,
	}
}

// Load reads a YAML file and overlays it on DefaultPolicy. Keys absent from
// the file keep their default. An empty path returns the defaults.
func Load(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p *Policy) normalize() {
	p.Documents.AllowedExtensions = lowerTrimmed(p.Documents.AllowedExtensions)
	p.Authenticity.EditorSignatures = lowerTrimmed(p.Authenticity.EditorSignatures)
	p.Authenticity.QualityWords = lowerTrimmed(p.Authenticity.QualityWords)
	p.Authenticity.SuspiciousKeywords = lowerTrimmed(p.Authenticity.SuspiciousKeywords)
	p.AML.HighRiskCountries = upperTrimmed(p.AML.HighRiskCountries)
	p.AML.ElevatedRiskCountries = upperTrimmed(p.AML.ElevatedRiskCountries)
}

// Validate rejects tables that would make every document pass or fail for
// structural reasons.
func (p Policy) Validate() error {
	var errs []error
	if p.Documents.MaxFileSize <= 0 {
		errs = append(errs, errors.New("documents.max_file_size must be positive"))
	}
	if len(p.Documents.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("documents.allowed_extensions must not be empty"))
	}
	a := p.Authenticity
	if a.MinPlausibleSize < 0 || a.MaxPlausibleSize <= a.MinPlausibleSize {
		errs = append(errs, errors.New("authenticity plausible size range is empty"))
	}
	if a.MinCompressionRatio < 0 || a.MinCompressionRatio > 1 {
		errs = append(errs, errors.New("authenticity.min_compression_ratio must be within [0,1]"))
	}
	if a.AuthenticityThreshold < 0 || a.AuthenticityThreshold > 100 {
		errs = append(errs, errors.New("authenticity.authenticity_threshold must be within [0,100]"))
	}
	if a.QualityFloor > 0 {
		errs = append(errs, errors.New("authenticity.quality_floor must not be positive"))
	}
	if a.MaxRiskFactors <= 0 {
		errs = append(errs, errors.New("authenticity.max_risk_factors must be positive"))
	}
	if a.MaxReadSize <= 0 {
		errs = append(errs, errors.New("authenticity.max_read_size must be positive"))
	}
	if a.MaxSizeRatio < 1 {
		errs = append(errs, errors.New("authenticity.max_size_ratio must be at least 1"))
	}
	if p.Risk.VerifyCutoff < 0 || p.Risk.VerifyCutoff > 100 {
		errs = append(errs, errors.New("risk.verify_cutoff must be within [0,100]"))
	}
	if p.VerificationValidity <= 0 {
		errs = append(errs, errors.New("verification_validity must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid policy: %w", errors.Join(errs...))
	}
	return nil
}

// AllowsExtension reports whether ext (without dot, any case) is admissible.
func (d DocumentPolicy) AllowsExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range d.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func lowerTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func upperTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
