package repository

import (
	"errors"

	"lab-booking-engine/internal/domain/entity"
	domainRepo "lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sampleTrackingRepository struct{}

func NewSampleTrackingRepository() domainRepo.SampleTrackingRepository {
	return &sampleTrackingRepository{}
}

func (r *sampleTrackingRepository) CreateBatch(db *gorm.DB, samples []entity.SampleTracking) error {
	if len(samples) == 0 {
		return nil
	}
	return db.Create(&samples).Error
}

func (r *sampleTrackingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.SampleTracking, error) {
	var sample entity.SampleTracking
	err := db.Where("id = ?", id).First(&sample).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sample, nil
}

func (r *sampleTrackingRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.SampleTracking, error) {
	var samples []entity.SampleTracking
	err := db.Where("booking_request_id = ?", bookingID).
		Order("sample_code ASC").
		Find(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (r *sampleTrackingRepository) Update(db *gorm.DB, sample *entity.SampleTracking) error {
	return db.Omit("created_at").Save(sample).Error
}

func (r *sampleTrackingRepository) DeleteByBookingID(db *gorm.DB, bookingID uuid.UUID) error {
	return db.Where("booking_request_id = ?", bookingID).Delete(&entity.SampleTracking{}).Error
}
