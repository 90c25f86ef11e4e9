package service

import (
	"errors"
	"fmt"
	"time"

	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidBillingQuantity = errors.New("billing quantity must be at least 1")

// DraftServiceItem is raw customer input for one service item.
// ID is set when the item already exists on the booking.
type DraftServiceItem struct {
	ID               *uuid.UUID
	ServiceID        uuid.UUID
	Quantity         int
	DurationMonths   int
	SampleName       string
	SampleType       string
	HazardClass      string
	PreparationNotes string
	EquipmentRefs    []string
	AddOnIDs         []uuid.UUID
}

// DraftWorkspaceBooking is raw customer input for one workspace reservation
type DraftWorkspaceBooking struct {
	ID            *uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	Purpose       string
	EquipmentRefs []string
	AddOnIDs      []uuid.UUID
}

type DraftLineItems struct {
	ServiceItems      []DraftServiceItem
	WorkspaceBookings []DraftWorkspaceBooking
}

// IsEmpty reports whether the draft has no line item at all
func (d DraftLineItems) IsEmpty() bool {
	return len(d.ServiceItems) == 0 && len(d.WorkspaceBookings) == 0
}

// NormalizedLineItems are priced line items ready to persist. Add-on snapshots
// are attached to each item; ids are uuid.Nil for new items.
type NormalizedLineItems struct {
	ServiceItems      []entity.ServiceItem
	WorkspaceBookings []entity.WorkspaceBooking
	Total             decimal.Decimal
}

// LineItemError locates a normalization failure on one input line
type LineItemError struct {
	Collection string
	Index      int
	Field      string
	Err        error
}

func (e *LineItemError) Error() string {
	return fmt.Sprintf("%s[%d].%s: %v", e.Collection, e.Index, e.Field, e.Err)
}

func (e *LineItemError) Unwrap() error {
	return e.Err
}

// FieldPath is the request field the failure belongs to
func (e *LineItemError) FieldPath() string {
	return fmt.Sprintf("%s[%d].%s", e.Collection, e.Index, e.Field)
}

type LineItemNormalizer interface {
	// Normalize prices raw line items against the catalog as of asOf. It performs
	// no writes; any unpriceable item fails the whole call.
	Normalize(db *gorm.DB, draft DraftLineItems, userType entity.UserType, asOf time.Time) (*NormalizedLineItems, error)
}

type lineItemNormalizer struct {
	serviceRepo repository.LabServiceRepository
	resolver    PricingResolver
}

func NewLineItemNormalizer(serviceRepo repository.LabServiceRepository, resolver PricingResolver) LineItemNormalizer {
	return &lineItemNormalizer{
		serviceRepo: serviceRepo,
		resolver:    resolver,
	}
}

func (n *lineItemNormalizer) Normalize(db *gorm.DB, draft DraftLineItems, userType entity.UserType, asOf time.Time) (*NormalizedLineItems, error) {
	result := &NormalizedLineItems{
		ServiceItems:      make([]entity.ServiceItem, 0, len(draft.ServiceItems)),
		WorkspaceBookings: make([]entity.WorkspaceBooking, 0, len(draft.WorkspaceBookings)),
	}

	for i, in := range draft.ServiceItems {
		item, err := n.normalizeServiceItem(db, in, userType, asOf)
		if err != nil {
			return nil, wrapLineItemError("service_items", i, err)
		}
		result.ServiceItems = append(result.ServiceItems, *item)
	}

	if len(draft.WorkspaceBookings) > 0 {
		rate, err := n.resolver.ResolveWorkspaceRate(db, userType, asOf)
		if err != nil {
			return nil, wrapLineItemError("workspace_bookings", 0, err)
		}
		for i, in := range draft.WorkspaceBookings {
			ws, err := n.normalizeWorkspace(db, in, rate)
			if err != nil {
				return nil, wrapLineItemError("workspace_bookings", i, err)
			}
			result.WorkspaceBookings = append(result.WorkspaceBookings, *ws)
		}
	}

	result.Total = entity.CalculateBookingTotal(result.ServiceItems, result.WorkspaceBookings)
	return result, nil
}

func (n *lineItemNormalizer) normalizeServiceItem(db *gorm.DB, in DraftServiceItem, userType entity.UserType, asOf time.Time) (*entity.ServiceItem, error) {
	svc, err := n.serviceRepo.FindByID(db, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load service %s: %w", in.ServiceID, err)
	}
	if svc == nil {
		return nil, &LineItemError{Field: "service_id", Err: ErrServiceNotFound}
	}
	if !svc.IsActive {
		return nil, &LineItemError{Field: "service_id", Err: ErrServiceInactive}
	}

	mode := svc.PricingMode()
	billingQty := entity.BillingQuantity(mode, in.Quantity, in.DurationMonths)
	if billingQty < 1 {
		field := "quantity"
		if mode == entity.PricingModePerDuration {
			field = "duration_months"
		}
		return nil, &LineItemError{Field: field, Err: ErrInvalidBillingQuantity}
	}

	unitPrice, err := n.resolver.ResolveUnitPrice(db, svc.ID, userType, asOf)
	if err != nil {
		return nil, err
	}

	addOns, err := n.resolveAddOns(db, svc.ID, in.AddOnIDs, billingQty)
	if err != nil {
		return nil, err
	}

	item := &entity.ServiceItem{
		ServiceID:        svc.ID,
		PricingMode:      mode,
		Quantity:         in.Quantity,
		DurationMonths:   in.DurationMonths,
		UnitPrice:        unitPrice,
		TotalPrice:       entity.PriceLine(unitPrice, billingQty, addOnAmounts(addOns)),
		SampleName:       in.SampleName,
		SampleType:       in.SampleType,
		HazardClass:      in.HazardClass,
		PreparationNotes: in.PreparationNotes,
		EquipmentRefs:    entity.StringList(in.EquipmentRefs),
		Service:          *svc,
		AddOns:           addOns,
	}
	if in.ID != nil {
		item.ID = *in.ID
	}
	return item, nil
}

func (n *lineItemNormalizer) normalizeWorkspace(db *gorm.DB, in DraftWorkspaceBooking, rate *WorkspaceRate) (*entity.WorkspaceBooking, error) {
	start, end := entity.DateOnly(in.StartDate), entity.DateOnly(in.EndDate)
	if end.Before(start) {
		return nil, &LineItemError{Field: "end_date", Err: entity.ErrWorkspaceEndBeforeStart}
	}
	months := entity.BilledMonths(entity.InclusiveDays(start, end))

	// Workspace add-ons hang off the working space service; without one there is nothing to map
	var addOns []entity.ServiceAddOn
	if rate.ServiceID != nil {
		var err error
		addOns, err = n.resolveAddOns(db, *rate.ServiceID, in.AddOnIDs, 1)
		if err != nil {
			return nil, err
		}
	}

	ws := &entity.WorkspaceBooking{
		StartDate:     start,
		EndDate:       end,
		BilledMonths:  months,
		UnitPrice:     rate.MonthlyRate,
		TotalPrice:    entity.PriceWorkspace(rate.MonthlyRate, months, addOnAmounts(addOns)),
		Purpose:       in.Purpose,
		EquipmentRefs: entity.StringList(in.EquipmentRefs),
		AddOns:        addOns,
	}
	if in.ID != nil {
		ws.ID = *in.ID
	}
	return ws, nil
}

// resolveAddOns snapshots each distinct requested add-on; unmapped ones are skipped
func (n *lineItemNormalizer) resolveAddOns(db *gorm.DB, serviceID uuid.UUID, addOnIDs []uuid.UUID, multiplier int) ([]entity.ServiceAddOn, error) {
	seen := make(map[uuid.UUID]struct{}, len(addOnIDs))
	var snapshots []entity.ServiceAddOn
	for _, addOnID := range addOnIDs {
		if _, dup := seen[addOnID]; dup {
			continue
		}
		seen[addOnID] = struct{}{}

		resolved, ok, err := n.resolver.ResolveAddOnAmount(db, serviceID, addOnID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		snapshots = append(snapshots, entity.ServiceAddOn{
			AddOnID:           resolved.AddOnID,
			Name:              resolved.Name,
			Amount:            resolved.Amount,
			BillingMultiplier: multiplier,
			TotalAmount:       resolved.Amount.Mul(decimal.NewFromInt(int64(multiplier))),
		})
	}
	return snapshots, nil
}

func addOnAmounts(addOns []entity.ServiceAddOn) []decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(addOns))
	for _, a := range addOns {
		amounts = append(amounts, a.Amount)
	}
	return amounts
}

func wrapLineItemError(collection string, index int, err error) error {
	var lineErr *LineItemError
	if errors.As(err, &lineErr) {
		lineErr.Collection = collection
		lineErr.Index = index
		return lineErr
	}
	var pricingErr *PricingMissingError
	if errors.As(err, &pricingErr) {
		return &LineItemError{Collection: collection, Index: index, Field: "price", Err: err}
	}
	return fmt.Errorf("%s[%d]: %w", collection, index, err)
}
