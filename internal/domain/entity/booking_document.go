package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType identifies the purpose of an uploaded booking document
type DocumentType string

const (
	DocumentServiceFormSigned   DocumentType = "service_form_signed"
	DocumentWorkspaceFormSigned DocumentType = "workspace_form_signed"
	DocumentPaymentReceipt      DocumentType = "payment_receipt"
	DocumentInvoice             DocumentType = "invoice"
	DocumentSampleResult        DocumentType = "sample_result"
)

// VerificationStatus is the review state of a document
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending_verification"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// BookingDocument is the metadata of a file attached to a booking
type BookingDocument struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingRequestID   uuid.UUID          `gorm:"type:uuid;not null;index:idx_booking_document_type" json:"booking_request_id"`
	Type               DocumentType       `gorm:"type:varchar(50);not null;index:idx_booking_document_type" json:"type"`
	FileName           string             `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL            string             `gorm:"type:text;not null" json:"file_url"`
	UploadedBy         uuid.UUID          `gorm:"type:uuid;not null" json:"uploaded_by"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(30);not null;default:'pending_verification'" json:"verification_status"`
	VerifiedBy         *uuid.UUID         `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	RejectionReason    string             `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt          time.Time          `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BookingDocument) TableName() string {
	return "booking_documents"
}

// IsValidDocumentType reports whether t is a known document type
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentServiceFormSigned, DocumentWorkspaceFormSigned, DocumentPaymentReceipt,
		DocumentInvoice, DocumentSampleResult:
		return true
	}
	return false
}

// IsCustomerUploadable reports whether customers may upload this type.
// Invoices and results come from the lab.
func (t DocumentType) IsCustomerUploadable() bool {
	switch t {
	case DocumentServiceFormSigned, DocumentWorkspaceFormSigned, DocumentPaymentReceipt:
		return true
	}
	return false
}

// IsPending reports whether the document still awaits review
func (d *BookingDocument) IsPending() bool {
	return d.VerificationStatus == VerificationPending
}

// MarkVerified records a successful review
func (d *BookingDocument) MarkVerified(reviewerID uuid.UUID, at time.Time) {
	d.VerificationStatus = VerificationVerified
	d.VerifiedBy = &reviewerID
	d.VerifiedAt = &at
	d.RejectionReason = ""
}

// MarkRejected records a failed review with its reason
func (d *BookingDocument) MarkRejected(reviewerID uuid.UUID, reason string, at time.Time) {
	d.VerificationStatus = VerificationRejected
	d.VerifiedBy = &reviewerID
	d.VerifiedAt = &at
	d.RejectionReason = reason
}

// IsVisibleToCustomer hides result files; customers reach them through the release gate
func (t DocumentType) IsVisibleToCustomer() bool {
	return t != DocumentSampleResult
}
