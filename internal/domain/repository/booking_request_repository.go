package repository

import (
	"time"

	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingFilter narrows admin booking listings
type BookingFilter struct {
	Status *entity.BookingStatus
	UserID *uuid.UUID
	Limit  int
	Offset int
}

type BookingRequestRepository interface {
	Create(db *gorm.DB, booking *entity.BookingRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error)
	// FindByIDWithLineItems loads service items (with add-ons and samples) and workspace bookings
	FindByIDWithLineItems(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error)
	// FindByIDForUpdate locks the booking row until the transaction ends
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.BookingRequest, error)
	FindAll(db *gorm.DB, filter BookingFilter) ([]entity.BookingRequest, int64, error)
	UpdateDetails(db *gorm.DB, booking *entity.BookingRequest) error
	UpdateTotal(db *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	// ApplyTransition writes the transition only if the stored status still equals
	// t.From. Returns affected rows: 0 means another writer got there first.
	ApplyTransition(db *gorm.DB, t *entity.Transition) (int64, error)
	// ReleaseAfterUserVerification moves every pending_user_verification booking
	// of the user to pending_approval and returns how many moved.
	ReleaseAfterUserVerification(db *gorm.DB, userID uuid.UUID) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}

type ServiceItemRepository interface {
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.ServiceItem, error)
	Save(db *gorm.DB, item *entity.ServiceItem) error
	DeleteByIDs(db *gorm.DB, ids []uuid.UUID) error
}

type WorkspaceBookingRepository interface {
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.WorkspaceBooking, error)
	Save(db *gorm.DB, workspace *entity.WorkspaceBooking) error
	DeleteByIDs(db *gorm.DB, ids []uuid.UUID) error
	// FindOverlapping returns active reservations intersecting [start, end]; reporting only
	FindOverlapping(db *gorm.DB, start, end time.Time) ([]entity.WorkspaceBooking, error)
}

type ServiceAddOnRepository interface {
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.ServiceAddOn, error)
	CreateBatch(db *gorm.DB, addOns []entity.ServiceAddOn) error
	DeleteByBookingID(db *gorm.DB, bookingID uuid.UUID) error
}
