package models

import (
	"strings"
	"time"
)

// DocumentFields are the personal fields extracted from (or declared with) a
// document. Extraction itself happens outside the engine.
type DocumentFields struct {
	FirstName      string
	LastName       string
	Nationality    string
	DocumentNumber string
	DocumentExpiry *time.Time
}

// HasFullName reports whether both names are present.
func (f DocumentFields) HasFullName() bool {
	return strings.TrimSpace(f.FirstName) != "" && strings.TrimSpace(f.LastName) != ""
}

// HasDocumentNumber reports whether the document number is present.
func (f DocumentFields) HasDocumentNumber() bool {
	return strings.TrimSpace(f.DocumentNumber) != ""
}

// Merge returns f with every non-empty field of other applied on top.
func (f DocumentFields) Merge(other DocumentFields) DocumentFields {
	if v := strings.TrimSpace(other.FirstName); v != "" {
		f.FirstName = v
	}
	if v := strings.TrimSpace(other.LastName); v != "" {
		f.LastName = v
	}
	if v := strings.TrimSpace(other.Nationality); v != "" {
		f.Nationality = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(other.DocumentNumber); v != "" {
		f.DocumentNumber = v
	}
	if other.DocumentExpiry != nil {
		exp := *other.DocumentExpiry
		f.DocumentExpiry = &exp
	}
	return f
}

// InfoUpdate is a partial update of personal fields. Nil pointers leave the
// stored value untouched.
type InfoUpdate struct {
	FirstName      *string
	LastName       *string
	Nationality    *string
	DocumentNumber *string
	DocumentExpiry *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u InfoUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Nationality == nil &&
		u.DocumentNumber == nil && u.DocumentExpiry == nil
}

// ChangedFields names the supplied fields, for audit details.
func (u InfoUpdate) ChangedFields() []string {
	var out []string
	if u.FirstName != nil {
		out = append(out, "first_name")
	}
	if u.LastName != nil {
		out = append(out, "last_name")
	}
	if u.Nationality != nil {
		out = append(out, "nationality")
	}
	if u.DocumentNumber != nil {
		out = append(out, "document_number")
	}
	if u.DocumentExpiry != nil {
		out = append(out, "document_expiry")
	}
	return out
}
