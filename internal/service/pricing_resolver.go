package service

import (
	"errors"
	"fmt"
	"time"

	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrPricingNotFound is wrapped by every PricingMissingError
	ErrPricingNotFound = errors.New("no effective price configured")
	ErrServiceNotFound = errors.New("lab service not found")
	ErrServiceInactive = errors.New("lab service is not active")
)

// PricingMissingError reports a catalog configuration defect: a billable service
// has no price row effective for the user type at the given moment.
type PricingMissingError struct {
	ServiceID uuid.UUID
	UserType  entity.UserType
	AsOf      time.Time
}

func (e *PricingMissingError) Error() string {
	return fmt.Sprintf("no effective price for service %s and user type %s as of %s",
		e.ServiceID, e.UserType, e.AsOf.Format(time.RFC3339))
}

func (e *PricingMissingError) Unwrap() error {
	return ErrPricingNotFound
}

// ResolvedAddOnAmount is the amount an add-on costs for one service
type ResolvedAddOnAmount struct {
	AddOnID uuid.UUID
	Name    string
	Amount  decimal.Decimal
}

// WorkspaceRate is the single global monthly rate for working space.
// ServiceID is nil when no active working space service exists.
type WorkspaceRate struct {
	ServiceID   *uuid.UUID
	MonthlyRate decimal.Decimal
}

type PricingResolver interface {
	ResolveUnitPrice(db *gorm.DB, serviceID uuid.UUID, userType entity.UserType, asOf time.Time) (decimal.Decimal, error)
	// ResolveAddOnAmount returns ok=false when the add-on does not apply to the service
	ResolveAddOnAmount(db *gorm.DB, serviceID, addOnID uuid.UUID) (*ResolvedAddOnAmount, bool, error)
	ResolveWorkspaceRate(db *gorm.DB, userType entity.UserType, asOf time.Time) (*WorkspaceRate, error)
}

type pricingResolver struct {
	log         *logrus.Logger
	serviceRepo repository.LabServiceRepository
	pricingRepo repository.ServicePricingRepository
	addOnRepo   repository.AddOnRepository
}

func NewPricingResolver(
	log *logrus.Logger,
	serviceRepo repository.LabServiceRepository,
	pricingRepo repository.ServicePricingRepository,
	addOnRepo repository.AddOnRepository,
) PricingResolver {
	return &pricingResolver{
		log:         log,
		serviceRepo: serviceRepo,
		pricingRepo: pricingRepo,
		addOnRepo:   addOnRepo,
	}
}

func (r *pricingResolver) ResolveUnitPrice(db *gorm.DB, serviceID uuid.UUID, userType entity.UserType, asOf time.Time) (decimal.Decimal, error) {
	rows, err := r.pricingRepo.FindByServiceAndUserType(db, serviceID, userType)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load pricing for service %s: %w", serviceID, err)
	}

	selected := entity.SelectEffectivePrice(rows, asOf)
	if selected == nil {
		return decimal.Zero, &PricingMissingError{ServiceID: serviceID, UserType: userType, AsOf: asOf}
	}
	return selected.Price, nil
}

// ResolveAddOnAmount applies the precedence: enabled mapping override, then the
// active catalog default of an enabled mapping. Anything else is skipped.
func (r *pricingResolver) ResolveAddOnAmount(db *gorm.DB, serviceID, addOnID uuid.UUID) (*ResolvedAddOnAmount, bool, error) {
	mapping, err := r.addOnRepo.FindMapping(db, serviceID, addOnID)
	if err != nil {
		return nil, false, fmt.Errorf("load add-on mapping: %w", err)
	}
	if mapping == nil || !mapping.IsEnabled {
		return nil, false, nil
	}

	catalog, err := r.addOnRepo.FindCatalogByID(db, addOnID)
	if err != nil {
		return nil, false, fmt.Errorf("load add-on %s: %w", addOnID, err)
	}
	if catalog == nil {
		return nil, false, nil
	}

	if mapping.OverrideAmount != nil {
		return &ResolvedAddOnAmount{AddOnID: addOnID, Name: catalog.Name, Amount: *mapping.OverrideAmount}, true, nil
	}
	if !catalog.IsActive {
		return nil, false, nil
	}
	return &ResolvedAddOnAmount{AddOnID: addOnID, Name: catalog.Name, Amount: catalog.DefaultAmount}, true, nil
}

func (r *pricingResolver) ResolveWorkspaceRate(db *gorm.DB, userType entity.UserType, asOf time.Time) (*WorkspaceRate, error) {
	svc, err := r.serviceRepo.FindActiveByCategory(db, entity.ServiceCategoryWorkingSpace)
	if err != nil {
		return nil, fmt.Errorf("load working space service: %w", err)
	}
	if svc == nil {
		r.log.Warn("No active working space service configured, workspace bookings are priced at zero")
		return &WorkspaceRate{MonthlyRate: decimal.Zero}, nil
	}

	price, err := r.ResolveUnitPrice(db, svc.ID, userType, asOf)
	if err != nil {
		return nil, err
	}
	id := svc.ID
	return &WorkspaceRate{ServiceID: &id, MonthlyRate: price}, nil
}
