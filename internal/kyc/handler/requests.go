package handler

import (
	"strings"
	"time"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// SubmitRequest is the body of POST /kyc/verifications.
type SubmitRequest struct {
	DocumentType   string `json:"document_type" validate:"required,max=32"`
	FrontRef       string `json:"front_ref" validate:"required,max=512"`
	BackRef        string `json:"back_ref" validate:"omitempty,max=512"`
	FirstName      string `json:"first_name" validate:"omitempty,max=100"`
	LastName       string `json:"last_name" validate:"omitempty,max=100"`
	Nationality    string `json:"nationality" validate:"omitempty,len=2,alpha"`
	DocumentNumber string `json:"document_number" validate:"omitempty,max=64"`
	DocumentExpiry string `json:"document_expiry" validate:"omitempty,datetime=2006-01-02"`

	// Parsed values (populated by Validate)
	parsedType   id.DocumentType
	parsedExpiry *time.Time
}

// Validate parses the document type and expiry.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	dt, err := id.ParseDocumentType(r.DocumentType)
	if err != nil {
		return err
	}
	r.parsedType = dt
	r.FrontRef = strings.TrimSpace(r.FrontRef)
	r.BackRef = strings.TrimSpace(r.BackRef)

	expiry, err := parseDate(r.DocumentExpiry)
	if err != nil {
		return err
	}
	r.parsedExpiry = expiry
	return nil
}

// ParsedDocumentType returns the validated document type.
func (r *SubmitRequest) ParsedDocumentType() id.DocumentType {
	return r.parsedType
}

// Fields returns the personal fields supplied with the submission.
func (r *SubmitRequest) Fields() models.DocumentFields {
	return models.DocumentFields{
		FirstName:      strings.TrimSpace(r.FirstName),
		LastName:       strings.TrimSpace(r.LastName),
		Nationality:    strings.ToUpper(strings.TrimSpace(r.Nationality)),
		DocumentNumber: strings.TrimSpace(r.DocumentNumber),
		DocumentExpiry: r.parsedExpiry,
	}
}

// UpdateInfoRequest is the body of PATCH /kyc/verifications/me. Absent
// fields are left unchanged.
type UpdateInfoRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,max=100"`
	Nationality    *string `json:"nationality" validate:"omitempty,len=2,alpha"`
	DocumentNumber *string `json:"document_number" validate:"omitempty,max=64"`
	DocumentExpiry *string `json:"document_expiry" validate:"omitempty,datetime=2006-01-02"`

	parsedExpiry *time.Time
}

// Validate parses the expiry date.
func (r *UpdateInfoRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.DocumentExpiry != nil {
		expiry, err := parseDate(*r.DocumentExpiry)
		if err != nil {
			return err
		}
		if expiry == nil {
			return dErrors.New(dErrors.CodeBadRequest, "document_expiry must not be empty")
		}
		r.parsedExpiry = expiry
	}
	return nil
}

// Update converts the request to a domain update.
func (r *UpdateInfoRequest) Update() models.InfoUpdate {
	return models.InfoUpdate{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Nationality:    r.Nationality,
		DocumentNumber: r.DocumentNumber,
		DocumentExpiry: r.parsedExpiry,
	}
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document_expiry must be a YYYY-MM-DD date")
	}
	return &t, nil
}
