package repository

import (
	"time"

	"lab-booking-engine/internal/domain/entity"
	domainRepo "lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type serviceItemRepository struct{}

func NewServiceItemRepository() domainRepo.ServiceItemRepository {
	return &serviceItemRepository{}
}

func (r *serviceItemRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.ServiceItem, error) {
	var items []entity.ServiceItem
	err := db.Where("booking_request_id = ?", bookingID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Save inserts or updates by primary key; associations are written separately
func (r *serviceItemRepository) Save(db *gorm.DB, item *entity.ServiceItem) error {
	return db.Omit(clause.Associations, "created_at").Save(item).Error
}

func (r *serviceItemRepository) DeleteByIDs(db *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("id IN ?", ids).Delete(&entity.ServiceItem{}).Error
}

type workspaceBookingRepository struct{}

func NewWorkspaceBookingRepository() domainRepo.WorkspaceBookingRepository {
	return &workspaceBookingRepository{}
}

func (r *workspaceBookingRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.WorkspaceBooking, error) {
	var workspaces []entity.WorkspaceBooking
	err := db.Where("booking_request_id = ?", bookingID).
		Order("start_date ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *workspaceBookingRepository) Save(db *gorm.DB, workspace *entity.WorkspaceBooking) error {
	return db.Omit(clause.Associations, "created_at").Save(workspace).Error
}

func (r *workspaceBookingRepository) DeleteByIDs(db *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("id IN ?", ids).Delete(&entity.WorkspaceBooking{}).Error
}

func (r *workspaceBookingRepository) FindOverlapping(db *gorm.DB, start, end time.Time) ([]entity.WorkspaceBooking, error) {
	var workspaces []entity.WorkspaceBooking
	err := db.Joins("JOIN booking_requests ON booking_requests.id = workspace_bookings.booking_request_id").
		Where("workspace_bookings.start_date <= ? AND workspace_bookings.end_date >= ?", end, start).
		Where("booking_requests.status IN ?", []entity.BookingStatus{
			entity.BookingStatusPendingApproval,
			entity.BookingStatusApproved,
			entity.BookingStatusInProgress,
		}).
		Order("workspace_bookings.start_date ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

type serviceAddOnRepository struct{}

func NewServiceAddOnRepository() domainRepo.ServiceAddOnRepository {
	return &serviceAddOnRepository{}
}

func (r *serviceAddOnRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.ServiceAddOn, error) {
	var addOns []entity.ServiceAddOn
	err := db.Where("booking_request_id = ?", bookingID).Find(&addOns).Error
	if err != nil {
		return nil, err
	}
	return addOns, nil
}

func (r *serviceAddOnRepository) CreateBatch(db *gorm.DB, addOns []entity.ServiceAddOn) error {
	if len(addOns) == 0 {
		return nil
	}
	return db.Create(&addOns).Error
}

func (r *serviceAddOnRepository) DeleteByBookingID(db *gorm.DB, bookingID uuid.UUID) error {
	return db.Where("booking_request_id = ?", bookingID).Delete(&entity.ServiceAddOn{}).Error
}
