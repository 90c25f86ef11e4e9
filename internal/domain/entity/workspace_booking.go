package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkspaceBooking is a date-ranged working space reservation
type WorkspaceBooking struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingRequestID uuid.UUID       `gorm:"type:uuid;not null;index" json:"booking_request_id"`
	StartDate        time.Time       `gorm:"type:date;not null;index" json:"start_date"`
	EndDate          time.Time       `gorm:"type:date;not null;index" json:"end_date"`
	BilledMonths     int             `gorm:"not null" json:"billed_months"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`
	Purpose          string          `gorm:"type:text" json:"purpose,omitempty"`
	EquipmentRefs    StringList      `gorm:"type:jsonb" json:"equipment_refs,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	AddOns []ServiceAddOn `gorm:"foreignKey:WorkspaceBookingID" json:"add_ons,omitempty"`
}

func (WorkspaceBooking) TableName() string {
	return "workspace_bookings"
}

// InclusiveDays returns the number of calendar days covered by the reservation
func (w *WorkspaceBooking) InclusiveDays() int {
	return InclusiveDays(w.StartDate, w.EndDate)
}
