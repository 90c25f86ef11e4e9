package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServicePricing is one price row for a service and user type over a validity window
type ServicePricing struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ServiceID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_pricing_lookup" json:"service_id"`
	UserType      UserType        `gorm:"type:varchar(30);not null;index:idx_pricing_lookup" json:"user_type"`
	Price         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	EffectiveFrom time.Time       `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ServicePricing) TableName() string {
	return "service_pricings"
}

// IsEffectiveAt reports whether the row covers asOf
func (p *ServicePricing) IsEffectiveAt(asOf time.Time) bool {
	if p.EffectiveFrom.After(asOf) {
		return false
	}
	return p.EffectiveTo == nil || !p.EffectiveTo.Before(asOf)
}

// SelectEffectivePrice picks, among rows effective at asOf, the one with the
// latest EffectiveFrom. Returns nil when no row applies.
func SelectEffectivePrice(rows []ServicePricing, asOf time.Time) *ServicePricing {
	var selected *ServicePricing
	for i := range rows {
		row := &rows[i]
		if !row.IsEffectiveAt(asOf) {
			continue
		}
		if selected == nil || row.EffectiveFrom.After(selected.EffectiveFrom) {
			selected = row
		}
	}
	return selected
}
