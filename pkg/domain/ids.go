// Package domain holds primitive value types shared across modules.
// Parsing happens at trust boundaries; once constructed the values are valid.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "kyccore/pkg/domain-errors"
)

// UserID identifies the account a verification belongs to.
type UserID uuid.UUID

// VerificationID identifies one submission cycle of a verification record.
type VerificationID uuid.UUID

// NewVerificationID returns a fresh random verification ID.
func NewVerificationID() VerificationID {
	return VerificationID(uuid.New())
}

// ParseUserID parses a user ID, rejecting empty, malformed and nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseVerificationID parses a verification ID with the same rules as ParseUserID.
func ParseVerificationID(s string) (VerificationID, error) {
	u, err := parseUUID(s, "verification_id")
	if err != nil {
		return VerificationID{}, err
	}
	return VerificationID(u), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return u, nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id VerificationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
