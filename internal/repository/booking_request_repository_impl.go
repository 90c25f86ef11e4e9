package repository

import (
	"errors"

	"lab-booking-engine/internal/domain/entity"
	domainRepo "lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRequestRepository struct{}

func NewBookingRequestRepository() domainRepo.BookingRequestRepository {
	return &bookingRequestRepository{}
}

func (r *bookingRequestRepository) Create(db *gorm.DB, booking *entity.BookingRequest) error {
	return db.Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error) {
	var booking entity.BookingRequest
	err := db.Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRequestRepository) FindByIDWithLineItems(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error) {
	var booking entity.BookingRequest
	err := db.Preload("ServiceItems.Service").
		Preload("ServiceItems.AddOns").
		Preload("ServiceItems.Samples").
		Preload("WorkspaceBookings.AddOns").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRequestRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error) {
	var booking entity.BookingRequest
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRequestRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.BookingRequest, error) {
	var bookings []entity.BookingRequest
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRequestRepository) FindAll(db *gorm.DB, filter domainRepo.BookingFilter) ([]entity.BookingRequest, int64, error) {
	var bookings []entity.BookingRequest
	var total int64

	query := db.Model(&entity.BookingRequest{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Preload("User").Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRequestRepository) UpdateDetails(db *gorm.DB, booking *entity.BookingRequest) error {
	return db.Model(&entity.BookingRequest{}).
		Where("id = ?", booking.ID).
		Updates(map[string]interface{}{
			"project_description":  booking.ProjectDescription,
			"preferred_start_date": booking.PreferredStartDate,
			"preferred_end_date":   booking.PreferredEndDate,
			"notes":                booking.Notes,
			"billing_name":         booking.BillingName,
			"billing_email":        booking.BillingEmail,
			"billing_address":      booking.BillingAddress,
			"billing_phone":        booking.BillingPhone,
		}).Error
}

func (r *bookingRequestRepository) UpdateTotal(db *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return db.Model(&entity.BookingRequest{}).
		Where("id = ?", id).
		Update("total_amount", total).Error
}

// ApplyTransition atomically writes the status and its companion columns ONLY if
// the stored status still matches the transition's origin (prevents double approve/reject races).
func (r *bookingRequestRepository) ApplyTransition(db *gorm.DB, t *entity.Transition) (int64, error) {
	result := db.Model(&entity.BookingRequest{}).
		Where("id = ? AND status = ?", t.BookingID, t.From).
		Updates(t.Columns())
	return result.RowsAffected, result.Error
}

func (r *bookingRequestRepository) ReleaseAfterUserVerification(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.BookingRequest{}).
		Where("user_id = ? AND status = ?", userID, entity.BookingStatusPendingUserVerification).
		Update("status", entity.BookingStatusPendingApproval)
	return result.RowsAffected, result.Error
}

func (r *bookingRequestRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.BookingRequest{}).Error
}
