package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SampleStatus tracks one physical sample through the lab
type SampleStatus string

const (
	SampleStatusPending          SampleStatus = "pending"
	SampleStatusReceived         SampleStatus = "received"
	SampleStatusInAnalysis       SampleStatus = "in_analysis"
	SampleStatusAnalysisComplete SampleStatus = "analysis_complete"
	SampleStatusReturnRequested  SampleStatus = "return_requested"
	SampleStatusReturned         SampleStatus = "returned"
)

// SampleTracking is the lifecycle of one physical sample of a service item.
// Status changes are recorded as a trail; order is not enforced.
type SampleTracking struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ServiceItemID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"service_item_id"`
	BookingRequestID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"booking_request_id"`
	SampleCode          string       `gorm:"type:varchar(80);uniqueIndex;not null" json:"sample_code"`
	Status              SampleStatus `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	Notes               string       `gorm:"type:text" json:"notes,omitempty"`
	ReceivedAt          *time.Time   `json:"received_at,omitempty"`
	AnalysisStartedAt   *time.Time   `json:"analysis_started_at,omitempty"`
	AnalysisCompletedAt *time.Time   `json:"analysis_completed_at,omitempty"`
	ReturnRequestedAt   *time.Time   `json:"return_requested_at,omitempty"`
	ReturnedAt          *time.Time   `json:"returned_at,omitempty"`
	UpdatedBy           *uuid.UUID   `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SampleTracking) TableName() string {
	return "sample_trackings"
}

// IsValidSampleStatus reports whether s is a known sample status
func IsValidSampleStatus(s SampleStatus) bool {
	switch s {
	case SampleStatusPending, SampleStatusReceived, SampleStatusInAnalysis,
		SampleStatusAnalysisComplete, SampleStatusReturnRequested, SampleStatusReturned:
		return true
	}
	return false
}

// IsTerminal reports whether the analysis of the sample is finished
func (s SampleStatus) IsTerminal() bool {
	return s == SampleStatusAnalysisComplete || s == SampleStatusReturned
}

// IsCompleted reports whether results exist for the sample.
// A sample whose return was requested has been analysed already.
func (s SampleStatus) IsCompleted() bool {
	return s == SampleStatusAnalysisComplete || s == SampleStatusReturnRequested || s == SampleStatusReturned
}

// IsLabWork reports whether the sample is physically in the lab
func (s SampleStatus) IsLabWork() bool {
	return s == SampleStatusReceived || s == SampleStatusInAnalysis
}

// SetStatus records the new status and stamps the matching timestamp
func (t *SampleTracking) SetStatus(status SampleStatus, now time.Time) {
	t.Status = status
	stamp := now
	switch status {
	case SampleStatusReceived:
		t.ReceivedAt = &stamp
	case SampleStatusInAnalysis:
		t.AnalysisStartedAt = &stamp
	case SampleStatusAnalysisComplete:
		t.AnalysisCompletedAt = &stamp
	case SampleStatusReturnRequested:
		t.ReturnRequestedAt = &stamp
	case SampleStatusReturned:
		t.ReturnedAt = &stamp
	}
}

// AllSamplesTerminal reports whether every status is terminal.
// An empty set is never considered complete.
func AllSamplesTerminal(statuses []SampleStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if !s.IsTerminal() {
			return false
		}
	}
	return true
}

// NewSamplesForItems creates one pending sample per unit of every per-count item.
// Codes follow <reference>-S<item>-<sample>, both 1-based.
func NewSamplesForItems(bookingID uuid.UUID, referenceNumber string, items []ServiceItem) []SampleTracking {
	var samples []SampleTracking
	for i, item := range items {
		if item.PricingMode != PricingModePerCount {
			continue
		}
		for n := 0; n < item.Quantity; n++ {
			samples = append(samples, SampleTracking{
				ID:               uuid.New(),
				ServiceItemID:    item.ID,
				BookingRequestID: bookingID,
				SampleCode:       fmt.Sprintf("%s-S%02d-%02d", referenceNumber, i+1, n+1),
				Status:           SampleStatusPending,
			})
		}
	}
	return samples
}
