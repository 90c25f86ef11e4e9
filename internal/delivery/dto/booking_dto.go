package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// ServiceItemInput is one requested service. ID refers to an item already on the draft.
type ServiceItemInput struct {
	ID               *uuid.UUID  `json:"id,omitempty"`
	ServiceID        uuid.UUID   `json:"service_id" validate:"required"`
	Quantity         int         `json:"quantity" validate:"gte=0"`
	DurationMonths   int         `json:"duration_months" validate:"gte=0"`
	SampleName       string      `json:"sample_name" validate:"omitempty,max=255"`
	SampleType       string      `json:"sample_type" validate:"omitempty,max=100"`
	HazardClass      string      `json:"hazard_class" validate:"omitempty,max=100"`
	PreparationNotes string      `json:"preparation_notes"`
	EquipmentRefs    []string    `json:"equipment_refs"`
	AddOnIDs         []uuid.UUID `json:"add_on_ids"`
}

// WorkspaceBookingInput is one requested workspace reservation; dates are YYYY-MM-DD
type WorkspaceBookingInput struct {
	ID            *uuid.UUID  `json:"id,omitempty"`
	StartDate     string      `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string      `json:"end_date" validate:"required,datetime=2006-01-02"`
	Purpose       string      `json:"purpose"`
	EquipmentRefs []string    `json:"equipment_refs"`
	AddOnIDs      []uuid.UUID `json:"add_on_ids"`
}

// SaveDraftRequest carries the full editable state of a booking.
// Submit takes the same payload and saves it before moving into review.
type SaveDraftRequest struct {
	ProjectDescription string                  `json:"project_description"`
	PreferredStartDate string                  `json:"preferred_start_date" validate:"omitempty,datetime=2006-01-02"`
	PreferredEndDate   string                  `json:"preferred_end_date" validate:"omitempty,datetime=2006-01-02"`
	Notes              string                  `json:"notes"`
	BillingName        string                  `json:"billing_name" validate:"omitempty,max=255"`
	BillingEmail       string                  `json:"billing_email" validate:"omitempty,email"`
	BillingAddress     string                  `json:"billing_address"`
	BillingPhone       string                  `json:"billing_phone" validate:"omitempty,max=30"`
	ServiceItems       []ServiceItemInput      `json:"service_items" validate:"dive"`
	WorkspaceBookings  []WorkspaceBookingInput `json:"workspace_bookings" validate:"dive"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// ReviewBookingRequest is the admin decision note. Reject and return-for-edit require it.
type ReviewBookingRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

// Response DTOs

type AddOnResponse struct {
	ID                uuid.UUID       `json:"id"`
	AddOnID           uuid.UUID       `json:"add_on_id"`
	Name              string          `json:"name"`
	Amount            decimal.Decimal `json:"amount"`
	BillingMultiplier int             `json:"billing_multiplier"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

type ServiceItemResponse struct {
	ID               uuid.UUID        `json:"id"`
	ServiceID        uuid.UUID        `json:"service_id"`
	ServiceName      string           `json:"service_name,omitempty"`
	PricingMode      string           `json:"pricing_mode"`
	Quantity         int              `json:"quantity"`
	DurationMonths   int              `json:"duration_months"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	SampleName       string           `json:"sample_name,omitempty"`
	SampleType       string           `json:"sample_type,omitempty"`
	HazardClass      string           `json:"hazard_class,omitempty"`
	PreparationNotes string           `json:"preparation_notes,omitempty"`
	EquipmentRefs    []string         `json:"equipment_refs"`
	AddOns           []AddOnResponse  `json:"add_ons"`
	Samples          []SampleResponse `json:"samples,omitempty"`
}

type WorkspaceBookingResponse struct {
	ID            uuid.UUID       `json:"id"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	InclusiveDays int             `json:"inclusive_days"`
	BilledMonths  int             `json:"billed_months"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Purpose       string          `json:"purpose,omitempty"`
	EquipmentRefs []string        `json:"equipment_refs"`
	AddOns        []AddOnResponse `json:"add_ons"`
}

type BookingResponse struct {
	ID                 uuid.UUID                  `json:"id"`
	ReferenceNumber    string                     `json:"reference_number"`
	UserID             uuid.UUID                  `json:"user_id"`
	Status             string                     `json:"status"`
	ProjectDescription string                     `json:"project_description,omitempty"`
	PreferredStartDate string                     `json:"preferred_start_date,omitempty"`
	PreferredEndDate   string                     `json:"preferred_end_date,omitempty"`
	Notes              string                     `json:"notes,omitempty"`
	BillingName        string                     `json:"billing_name,omitempty"`
	BillingEmail       string                     `json:"billing_email,omitempty"`
	BillingAddress     string                     `json:"billing_address,omitempty"`
	BillingPhone       string                     `json:"billing_phone,omitempty"`
	TotalAmount        decimal.Decimal            `json:"total_amount"`
	ReviewNotes        *string                    `json:"review_notes,omitempty"`
	ReviewedBy         *uuid.UUID                 `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time                 `json:"reviewed_at,omitempty"`
	SubmittedAt        *time.Time                 `json:"submitted_at,omitempty"`
	CompletedAt        *time.Time                 `json:"completed_at,omitempty"`
	CancelledAt        *time.Time                 `json:"cancelled_at,omitempty"`
	CancellationReason string                     `json:"cancellation_reason,omitempty"`
	ServiceItems       []ServiceItemResponse      `json:"service_items,omitempty"`
	WorkspaceBookings  []WorkspaceBookingResponse `json:"workspace_bookings,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
}

// WorkspaceOverlapResponse lists active reservations that intersect a date range.
// It is informational; overlapping reservations are still accepted.
type WorkspaceOverlapResponse struct {
	StartDate    string                     `json:"start_date"`
	EndDate      string                     `json:"end_date"`
	Reservations []WorkspaceBookingResponse `json:"reservations"`
	Total        int                        `json:"total"`
}
