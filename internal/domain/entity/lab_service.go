package entity

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory groups catalog services; it decides how an item is billed
type ServiceCategory string

const (
	ServiceCategoryAnalysis     ServiceCategory = "analysis"
	ServiceCategoryTesting      ServiceCategory = "testing"
	ServiceCategoryWorkingSpace ServiceCategory = "working_space"
)

// PricingMode is the billing shape of a line item, resolved once from the category
type PricingMode string

const (
	PricingModePerCount    PricingMode = "per_count"
	PricingModePerDuration PricingMode = "per_duration"
)

// LabService is a catalog entry customers can book
type LabService struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Category    ServiceCategory `gorm:"type:varchar(50);not null;index" json:"category"`
	IsActive    bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LabService) TableName() string {
	return "lab_services"
}

// PricingMode resolves the billing shape for this service
func (s *LabService) PricingMode() PricingMode {
	return PricingModeForCategory(s.Category)
}

// PricingModeForCategory maps a category to its billing shape.
// Working space is billed by duration, everything else by count.
func PricingModeForCategory(c ServiceCategory) PricingMode {
	if c == ServiceCategoryWorkingSpace {
		return PricingModePerDuration
	}
	return PricingModePerCount
}
