package repository

import (
	"errors"

	"lab-booking-engine/internal/domain/entity"
	domainRepo "lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type labServiceRepository struct{}

func NewLabServiceRepository() domainRepo.LabServiceRepository {
	return &labServiceRepository{}
}

func (r *labServiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.LabService, error) {
	var service entity.LabService
	err := db.Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *labServiceRepository) FindActiveByCategory(db *gorm.DB, category entity.ServiceCategory) (*entity.LabService, error) {
	var service entity.LabService
	err := db.Where("category = ? AND is_active = ?", category, true).
		Order("created_at ASC").
		First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *labServiceRepository) FindAllActive(db *gorm.DB) ([]entity.LabService, error) {
	var services []entity.LabService
	err := db.Where("is_active = ?", true).Order("name ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

type servicePricingRepository struct{}

func NewServicePricingRepository() domainRepo.ServicePricingRepository {
	return &servicePricingRepository{}
}

func (r *servicePricingRepository) FindByServiceAndUserType(db *gorm.DB, serviceID uuid.UUID, userType entity.UserType) ([]entity.ServicePricing, error) {
	var rows []entity.ServicePricing
	err := db.Where("service_id = ? AND user_type = ?", serviceID, userType).
		Order("effective_from DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type addOnRepository struct{}

func NewAddOnRepository() domainRepo.AddOnRepository {
	return &addOnRepository{}
}

func (r *addOnRepository) FindCatalogByID(db *gorm.DB, id uuid.UUID) (*entity.AddOnCatalog, error) {
	var addOn entity.AddOnCatalog
	err := db.Where("id = ?", id).First(&addOn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &addOn, nil
}

func (r *addOnRepository) FindMapping(db *gorm.DB, serviceID, addOnID uuid.UUID) (*entity.ServiceAddOnMapping, error) {
	var mapping entity.ServiceAddOnMapping
	err := db.Where("service_id = ? AND add_on_id = ?", serviceID, addOnID).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}
