package domain

import (
	"strings"

	dErrors "kyccore/pkg/domain-errors"
)

// DocumentType is the kind of identity document submitted for verification.
type DocumentType string

const (
	DocumentTypeNationalID DocumentType = "NATIONAL_ID"
	DocumentTypePassport   DocumentType = "PASSPORT"
)

var documentTypes = map[DocumentType]bool{
	DocumentTypeNationalID: true,
	DocumentTypePassport:   true,
}

// ParseDocumentType validates a document type, accepting any letter case.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ToUpper(strings.TrimSpace(s)))
	if !documentTypes[t] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported document type")
	}
	return t, nil
}

// RequiresBack reports whether the document has a reverse side that must be
// submitted alongside the front.
func (t DocumentType) RequiresBack() bool {
	return t == DocumentTypeNationalID
}

func (t DocumentType) String() string { return string(t) }

func (t DocumentType) IsValid() bool { return documentTypes[t] }
