package models

import (
	"fmt"
	"strings"

	dErrors "kyccore/pkg/domain-errors"
)

// Status is the lifecycle state of a verification record.
type Status string

const (
	// StatusNone is the zero value: no record exists yet.
	StatusNone     Status = ""
	StatusPending  Status = "PENDING"
	StatusVerified Status = "VERIFIED"
	StatusRejected Status = "REJECTED"
	// StatusExpired is set outside the engine when a verified document lapses.
	StatusExpired Status = "EXPIRED"
	// StatusBlocked is an administrative terminal state.
	StatusBlocked Status = "BLOCKED"
)

// transitions lists every transition the engine may perform.
// BLOCKED and EXPIRED are entered by external actors only.
var transitions = map[Status][]Status{
	StatusNone:     {StatusPending},
	StatusPending:  {StatusVerified, StatusRejected},
	StatusVerified: {StatusPending},
	StatusRejected: {StatusPending},
	StatusExpired:  {StatusPending},
}

// CanTransitionTo reports whether the engine may move from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a persisted status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected, StatusExpired, StatusBlocked:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a stored status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return StatusNone, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown verification status %q", raw))
	}
	return s, nil
}
