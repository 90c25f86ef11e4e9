package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpdateSampleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending received in_analysis analysis_complete return_requested returned"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// Response DTOs

type SampleResponse struct {
	ID                  uuid.UUID  `json:"id"`
	ServiceItemID       uuid.UUID  `json:"service_item_id"`
	BookingRequestID    uuid.UUID  `json:"booking_request_id"`
	SampleCode          string     `json:"sample_code"`
	Status              string     `json:"status"`
	Notes               string     `json:"notes,omitempty"`
	ReceivedAt          *time.Time `json:"received_at,omitempty"`
	AnalysisStartedAt   *time.Time `json:"analysis_started_at,omitempty"`
	AnalysisCompletedAt *time.Time `json:"analysis_completed_at,omitempty"`
	ReturnRequestedAt   *time.Time `json:"return_requested_at,omitempty"`
	ReturnedAt          *time.Time `json:"returned_at,omitempty"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type SampleListResponse struct {
	Samples []SampleResponse `json:"samples"`
	Total   int              `json:"total"`
}

// SampleUpdateResponse reports the sample and the booking status after the update.
// BookingCompleted is true only for the update that completed the booking.
type SampleUpdateResponse struct {
	Sample           SampleResponse `json:"sample"`
	BookingStatus    string         `json:"booking_status"`
	BookingCompleted bool           `json:"booking_completed"`
}
