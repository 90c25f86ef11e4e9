package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddOnCatalog is an optional extra that can be attached to line items
type AddOnCatalog struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	DefaultAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"default_amount"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AddOnCatalog) TableName() string {
	return "add_on_catalog"
}

// ServiceAddOnMapping enables an add-on for a service, optionally with its own amount
type ServiceAddOnMapping struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ServiceID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_service_add_on" json:"service_id"`
	AddOnID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_service_add_on" json:"add_on_id"`
	OverrideAmount *decimal.Decimal `gorm:"type:decimal(14,2)" json:"override_amount,omitempty"`
	IsEnabled      bool             `gorm:"not null;default:true" json:"is_enabled"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`

	AddOn AddOnCatalog `gorm:"foreignKey:AddOnID" json:"add_on,omitempty"`
}

func (ServiceAddOnMapping) TableName() string {
	return "service_add_on_mappings"
}

// ServiceAddOn is the amount snapshot of an add-on taken when a line item was priced.
// Exactly one of ServiceItemID and WorkspaceBookingID is set.
type ServiceAddOn struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingRequestID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"booking_request_id"`
	ServiceItemID      *uuid.UUID      `gorm:"type:uuid;index" json:"service_item_id,omitempty"`
	WorkspaceBookingID *uuid.UUID      `gorm:"type:uuid;index" json:"workspace_booking_id,omitempty"`
	AddOnID            uuid.UUID       `gorm:"type:uuid;not null" json:"add_on_id"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	Amount             decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	BillingMultiplier  int             `gorm:"not null;default:1" json:"billing_multiplier"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ServiceAddOn) TableName() string {
	return "service_add_ons"
}
