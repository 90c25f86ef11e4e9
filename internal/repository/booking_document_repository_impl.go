package repository

import (
	"errors"

	"lab-booking-engine/internal/domain/entity"
	domainRepo "lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingDocumentRepository struct{}

func NewBookingDocumentRepository() domainRepo.BookingDocumentRepository {
	return &bookingDocumentRepository{}
}

func (r *bookingDocumentRepository) Create(db *gorm.DB, doc *entity.BookingDocument) error {
	return db.Create(doc).Error
}

func (r *bookingDocumentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.BookingDocument, error) {
	var doc entity.BookingDocument
	err := db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *bookingDocumentRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingDocument, error) {
	var docs []entity.BookingDocument
	err := db.Where("booking_request_id = ?", bookingID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *bookingDocumentRepository) UpdateVerification(db *gorm.DB, doc *entity.BookingDocument) error {
	return db.Model(&entity.BookingDocument{}).
		Where("id = ?", doc.ID).
		Updates(map[string]interface{}{
			"verification_status": doc.VerificationStatus,
			"verified_by":         doc.VerifiedBy,
			"verified_at":         doc.VerifiedAt,
			"rejection_reason":    doc.RejectionReason,
		}).Error
}

func (r *bookingDocumentRepository) DeleteByBookingID(db *gorm.DB, bookingID uuid.UUID) error {
	return db.Where("booking_request_id = ?", bookingID).Delete(&entity.BookingDocument{}).Error
}
