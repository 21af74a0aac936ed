package models

// AuthenticityReport is the folded result of the heuristic document checks.
// It is never persisted on its own.
type AuthenticityReport struct {
	IsGenuine            bool
	Confidence           int
	RiskFactors          []string
	ManipulationDetected bool
	// QualityScore may be negative down to the configured floor.
	QualityScore int
	// ContentHashes maps "front"/"back" to a hex BLAKE2b-256 digest.
	ContentHashes map[string]string
}
