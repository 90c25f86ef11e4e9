package usecase

import (
	"fmt"
	"time"

	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"
	"lab-booking-engine/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// lineItemWriter is the persisted variant of line-item normalization. Every
// write goes through the caller's transaction, so a failure on any item leaves
// the stored booking exactly as it was.
type lineItemWriter struct {
	normalizer    service.LineItemNormalizer
	bookingRepo   repository.BookingRequestRepository
	itemRepo      repository.ServiceItemRepository
	workspaceRepo repository.WorkspaceBookingRepository
	addOnRepo     repository.ServiceAddOnRepository
}

func newLineItemWriter(
	normalizer service.LineItemNormalizer,
	bookingRepo repository.BookingRequestRepository,
	itemRepo repository.ServiceItemRepository,
	workspaceRepo repository.WorkspaceBookingRepository,
	addOnRepo repository.ServiceAddOnRepository,
) *lineItemWriter {
	return &lineItemWriter{
		normalizer:    normalizer,
		bookingRepo:   bookingRepo,
		itemRepo:      itemRepo,
		workspaceRepo: workspaceRepo,
		addOnRepo:     addOnRepo,
	}
}

// Reconcile prices the draft, upserts items by id, deletes stored items missing
// from the draft, replaces add-on snapshots and writes the recomputed total.
// Ids that do not belong to the booking are treated as new items.
func (w *lineItemWriter) Reconcile(tx *gorm.DB, booking *entity.BookingRequest, draft service.DraftLineItems, userType entity.UserType, asOf time.Time) error {
	normalized, err := w.normalizer.Normalize(tx, draft, userType, asOf)
	if err != nil {
		return err
	}

	storedItems, err := w.itemRepo.FindByBookingID(tx, booking.ID)
	if err != nil {
		return fmt.Errorf("load service items: %w", err)
	}
	storedWorkspaces, err := w.workspaceRepo.FindByBookingID(tx, booking.ID)
	if err != nil {
		return fmt.Errorf("load workspace bookings: %w", err)
	}

	itemIDs := make(map[uuid.UUID]bool, len(storedItems))
	for _, item := range storedItems {
		itemIDs[item.ID] = false
	}
	workspaceIDs := make(map[uuid.UUID]bool, len(storedWorkspaces))
	for _, ws := range storedWorkspaces {
		workspaceIDs[ws.ID] = false
	}

	if err := w.addOnRepo.DeleteByBookingID(tx, booking.ID); err != nil {
		return fmt.Errorf("clear add-ons: %w", err)
	}

	var addOns []entity.ServiceAddOn

	for i := range normalized.ServiceItems {
		item := &normalized.ServiceItems[i]
		item.ID = claimID(item.ID, itemIDs)
		item.BookingRequestID = booking.ID
		if err := w.itemRepo.Save(tx, item); err != nil {
			return fmt.Errorf("save service item: %w", err)
		}
		for j := range item.AddOns {
			a := &item.AddOns[j]
			a.ID = uuid.New()
			a.BookingRequestID = booking.ID
			itemID := item.ID
			a.ServiceItemID = &itemID
			addOns = append(addOns, *a)
		}
	}

	for i := range normalized.WorkspaceBookings {
		ws := &normalized.WorkspaceBookings[i]
		ws.ID = claimID(ws.ID, workspaceIDs)
		ws.BookingRequestID = booking.ID
		if err := w.workspaceRepo.Save(tx, ws); err != nil {
			return fmt.Errorf("save workspace booking: %w", err)
		}
		for j := range ws.AddOns {
			a := &ws.AddOns[j]
			a.ID = uuid.New()
			a.BookingRequestID = booking.ID
			wsID := ws.ID
			a.WorkspaceBookingID = &wsID
			addOns = append(addOns, *a)
		}
	}

	if err := w.itemRepo.DeleteByIDs(tx, unclaimed(itemIDs)); err != nil {
		return fmt.Errorf("delete removed service items: %w", err)
	}
	if err := w.workspaceRepo.DeleteByIDs(tx, unclaimed(workspaceIDs)); err != nil {
		return fmt.Errorf("delete removed workspace bookings: %w", err)
	}

	if err := w.addOnRepo.CreateBatch(tx, addOns); err != nil {
		return fmt.Errorf("save add-ons: %w", err)
	}

	if err := w.bookingRepo.UpdateTotal(tx, booking.ID, normalized.Total); err != nil {
		return fmt.Errorf("update booking total: %w", err)
	}

	booking.TotalAmount = normalized.Total
	booking.ServiceItems = normalized.ServiceItems
	booking.WorkspaceBookings = normalized.WorkspaceBookings
	return nil
}

// claimID keeps a stored id once; unknown, repeated or empty ids get a fresh one
func claimID(id uuid.UUID, stored map[uuid.UUID]bool) uuid.UUID {
	if claimed, ok := stored[id]; ok && !claimed && id != uuid.Nil {
		stored[id] = true
		return id
	}
	return uuid.New()
}

func unclaimed(stored map[uuid.UUID]bool) []uuid.UUID {
	var ids []uuid.UUID
	for id, claimed := range stored {
		if !claimed {
			ids = append(ids, id)
		}
	}
	return ids
}
