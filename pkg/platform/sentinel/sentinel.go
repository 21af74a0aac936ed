package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors:
//   - ErrNotFound: no record for the key
//   - ErrConflict: a competing record already holds the key (e.g. a PENDING verification)
//   - ErrInvalidState: record is in the wrong state for the requested write
//   - ErrUnavailable: backend temporarily unavailable; safe to retry
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
