package service

import (
	"context"

	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type mockLabServiceRepository struct {
	mock.Mock
}

func (m *mockLabServiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.LabService, error) {
	args := m.Called(db, id)
	svc, _ := args.Get(0).(*entity.LabService)
	return svc, args.Error(1)
}

func (m *mockLabServiceRepository) FindActiveByCategory(db *gorm.DB, category entity.ServiceCategory) (*entity.LabService, error) {
	args := m.Called(db, category)
	svc, _ := args.Get(0).(*entity.LabService)
	return svc, args.Error(1)
}

func (m *mockLabServiceRepository) FindAllActive(db *gorm.DB) ([]entity.LabService, error) {
	args := m.Called(db)
	services, _ := args.Get(0).([]entity.LabService)
	return services, args.Error(1)
}

type mockServicePricingRepository struct {
	mock.Mock
}

func (m *mockServicePricingRepository) FindByServiceAndUserType(db *gorm.DB, serviceID uuid.UUID, userType entity.UserType) ([]entity.ServicePricing, error) {
	args := m.Called(db, serviceID, userType)
	rows, _ := args.Get(0).([]entity.ServicePricing)
	return rows, args.Error(1)
}

type mockAddOnRepository struct {
	mock.Mock
}

func (m *mockAddOnRepository) FindCatalogByID(db *gorm.DB, id uuid.UUID) (*entity.AddOnCatalog, error) {
	args := m.Called(db, id)
	catalog, _ := args.Get(0).(*entity.AddOnCatalog)
	return catalog, args.Error(1)
}

func (m *mockAddOnRepository) FindMapping(db *gorm.DB, serviceID, addOnID uuid.UUID) (*entity.ServiceAddOnMapping, error) {
	args := m.Called(db, serviceID, addOnID)
	mapping, _ := args.Get(0).(*entity.ServiceAddOnMapping)
	return mapping, args.Error(1)
}

type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return m.Called(db, log).Error(0)
}

func (m *mockAuditLogRepository) FindAll(db *gorm.DB) ([]entity.AuditLog, error) {
	args := m.Called(db)
	logs, _ := args.Get(0).([]entity.AuditLog)
	return logs, args.Error(1)
}

func (m *mockAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(db, id)
	log, _ := args.Get(0).(*entity.AuditLog)
	return log, args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

func (m *mockUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindAdminIDs(db *gorm.DB) ([]uuid.UUID, error) {
	args := m.Called(db)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *mockUserRepository) UpdateAccountStatus(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	return m.Called(db, notification).Error(0)
}

func (m *mockNotificationRepository) FindByRecipientID(db *gorm.DB, recipientID uuid.UUID, limit int) ([]entity.Notification, error) {
	args := m.Called(db, recipientID, limit)
	notifications, _ := args.Get(0).([]entity.Notification)
	return notifications, args.Error(1)
}

// nopUnitOfWork hands repositories a nil handle; the mocks never touch it
type nopUnitOfWork struct{}

func (nopUnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (nopUnitOfWork) Reader(ctx context.Context) *gorm.DB {
	return nil
}
