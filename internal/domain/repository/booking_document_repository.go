package repository

import (
	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingDocumentRepository interface {
	Create(db *gorm.DB, doc *entity.BookingDocument) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.BookingDocument, error)
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingDocument, error)
	UpdateVerification(db *gorm.DB, doc *entity.BookingDocument) error
	DeleteByBookingID(db *gorm.DB, bookingID uuid.UUID) error
}
