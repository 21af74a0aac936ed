package handler

import (
	"time"

	"kyccore/internal/kyc/models"
	"kyccore/internal/kyc/service"
	audit "kyccore/pkg/platform/audit"
)

// SubmitResponse is the HTTP response for POST /kyc/verifications.
type SubmitResponse struct {
	VerificationID string `json:"verification_id"`
	Status         string `json:"status"`
	RiskScore      int    `json:"risk_score"`
}

func fromSubmitResult(r *service.SubmitResult) *SubmitResponse {
	return &SubmitResponse{
		VerificationID: r.VerificationID.String(),
		Status:         string(r.Status),
		RiskScore:      r.RiskScore,
	}
}

// VerificationResponse is the user's view of their record. Document
// references and risk factors stay internal.
type VerificationResponse struct {
	VerificationID   string     `json:"verification_id"`
	Status           string     `json:"status"`
	DocumentType     string     `json:"document_type"`
	RiskScore        int        `json:"risk_score"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	FirstName        string     `json:"first_name,omitempty"`
	LastName         string     `json:"last_name,omitempty"`
	Nationality      string     `json:"nationality,omitempty"`
	DocumentNumber   string     `json:"document_number,omitempty"`
	DocumentExpiry   string     `json:"document_expiry,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func fromRecord(r *models.VerificationRecord) *VerificationResponse {
	resp := &VerificationResponse{
		VerificationID:   r.ID.String(),
		Status:           string(r.Status),
		DocumentType:     string(r.DocumentType),
		RiskScore:        r.RiskScore,
		VerificationDate: r.VerificationDate,
		ExpiryDate:       r.ExpiryDate,
		RejectionReason:  r.RejectionReason,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Nationality:      r.Nationality,
		DocumentNumber:   r.DocumentNumber,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.DocumentExpiry != nil {
		resp.DocumentExpiry = r.DocumentExpiry.Format(dateLayout)
	}
	return resp
}

// AuditEntryResponse is one entry of the compliance review trail.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	RequestID string    `json:"request_id,omitempty"`
	Device    string    `json:"device,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditTrailResponse lists a user's audit entries, oldest first.
type AuditTrailResponse struct {
	UserID  string               `json:"user_id"`
	Entries []AuditEntryResponse `json:"entries"`
}

func fromAuditTrail(userID string, events []audit.Event) *AuditTrailResponse {
	resp := &AuditTrailResponse{UserID: userID, Entries: make([]AuditEntryResponse, 0, len(events))}
	for _, e := range events {
		resp.Entries = append(resp.Entries, AuditEntryResponse{
			ID:        e.ID.String(),
			Category:  string(e.Category),
			Action:    string(e.Action),
			Details:   e.Details,
			RequestID: e.RequestID,
			Device:    e.Device,
			Timestamp: e.Timestamp,
		})
	}
	return resp
}

// AMLCheckResponse is the latest AML screening of a user.
type AMLCheckResponse struct {
	UserID        string    `json:"user_id"`
	RiskLevel     string    `json:"risk_level"`
	Reason        string    `json:"reason,omitempty"`
	LastCheckDate time.Time `json:"last_check_date"`
}

func fromAMLCheck(c *models.AMLCheck) *AMLCheckResponse {
	return &AMLCheckResponse{
		UserID:        c.UserID.String(),
		RiskLevel:     string(c.RiskLevel),
		Reason:        c.Reason,
		LastCheckDate: c.LastCheckDate,
	}
}
