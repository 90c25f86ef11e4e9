package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceItem is one priced unit within a booking
type ServiceItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingRequestID uuid.UUID       `gorm:"type:uuid;not null;index" json:"booking_request_id"`
	ServiceID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_id"`
	PricingMode      PricingMode     `gorm:"type:varchar(20);not null" json:"pricing_mode"`
	Quantity         int             `gorm:"not null;default:1" json:"quantity"`
	DurationMonths   int             `gorm:"not null;default:0" json:"duration_months"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`
	SampleName       string          `gorm:"type:varchar(255)" json:"sample_name,omitempty"`
	SampleType       string          `gorm:"type:varchar(100)" json:"sample_type,omitempty"`
	HazardClass      string          `gorm:"type:varchar(100)" json:"hazard_class,omitempty"`
	PreparationNotes string          `gorm:"type:text" json:"preparation_notes,omitempty"`
	EquipmentRefs    StringList      `gorm:"type:jsonb" json:"equipment_refs,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Service LabService       `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	AddOns  []ServiceAddOn   `gorm:"foreignKey:ServiceItemID" json:"add_ons,omitempty"`
	Samples []SampleTracking `gorm:"foreignKey:ServiceItemID" json:"samples,omitempty"`
}

func (ServiceItem) TableName() string {
	return "service_items"
}

// BillingQuantity is the unit count multiplied by the unit price
func (i *ServiceItem) BillingQuantity() int {
	return BillingQuantity(i.PricingMode, i.Quantity, i.DurationMonths)
}
