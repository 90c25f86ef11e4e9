package repository

import (
	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LabServiceRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.LabService, error)
	// FindActiveByCategory returns the first active service of the category, nil if none
	FindActiveByCategory(db *gorm.DB, category entity.ServiceCategory) (*entity.LabService, error)
	FindAllActive(db *gorm.DB) ([]entity.LabService, error)
}

type ServicePricingRepository interface {
	// FindByServiceAndUserType returns every pricing row; effective-date selection
	// happens in entity.SelectEffectivePrice
	FindByServiceAndUserType(db *gorm.DB, serviceID uuid.UUID, userType entity.UserType) ([]entity.ServicePricing, error)
}

type AddOnRepository interface {
	FindCatalogByID(db *gorm.DB, id uuid.UUID) (*entity.AddOnCatalog, error)
	FindMapping(db *gorm.DB, serviceID, addOnID uuid.UUID) (*entity.ServiceAddOnMapping, error)
}
