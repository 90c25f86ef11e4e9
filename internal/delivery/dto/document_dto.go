package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UploadDocumentRequest registers an already stored file against a booking
type UploadDocumentRequest struct {
	Type     string `json:"type" validate:"required,oneof=service_form_signed workspace_form_signed payment_receipt invoice sample_result"`
	FileName string `json:"file_name" validate:"required,max=255"`
	FileURL  string `json:"file_url" validate:"required,url"`
}

type VerifyDocumentRequest struct {
	Status          string `json:"status" validate:"required,oneof=verified rejected"`
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
}

// Response DTOs

type DocumentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	BookingRequestID   uuid.UUID  `json:"booking_request_id"`
	Type               string     `json:"type"`
	FileName           string     `json:"file_name"`
	FileURL            string     `json:"file_url,omitempty"`
	UploadedBy         uuid.UUID  `json:"uploaded_by"`
	VerificationStatus string     `json:"verification_status"`
	VerifiedBy         *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
}

// ResultAccessResponse is the result release decision. Result documents are
// listed only when CanRelease is true.
type ResultAccessResponse struct {
	BookingID         uuid.UUID          `json:"booking_id"`
	CanRelease        bool               `json:"can_release"`
	RequiredDocuments []string           `json:"required_documents"`
	MissingDocuments  []string           `json:"missing_documents"`
	CompletedSamples  int                `json:"completed_samples"`
	Results           []DocumentResponse `json:"results,omitempty"`
}
