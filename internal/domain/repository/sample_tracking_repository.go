package repository

import (
	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SampleTrackingRepository interface {
	CreateBatch(db *gorm.DB, samples []entity.SampleTracking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.SampleTracking, error)
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.SampleTracking, error)
	Update(db *gorm.DB, sample *entity.SampleTracking) error
	DeleteByBookingID(db *gorm.DB, bookingID uuid.UUID) error
}
