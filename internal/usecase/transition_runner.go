package usecase

import (
	"context"
	"errors"
	"fmt"

	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"
	"lab-booking-engine/internal/infrastructure/metrics"
	"lab-booking-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// decideFunc computes the transition for a booking loaded under lock.
// It may perform additional writes on tx (e.g. sample rows on approval).
// A nil transition leaves the status untouched.
type decideFunc func(tx *gorm.DB, booking *entity.BookingRequest) (*entity.Transition, error)

// transitionRunner persists booking status changes. A transition is written
// only if the stored status still equals its origin; notifications leave
// through the dispatcher after the transaction commits.
type transitionRunner struct {
	uow         repository.UnitOfWork
	log         *logrus.Logger
	metrics     *metrics.Recorder
	bookingRepo repository.BookingRequestRepository
	audit       service.AuditService
	dispatcher  service.NotificationDispatcher
	locker      *service.BookingLocker
}

// run locks the booking, lets decide compute the transition and applies it in one
// transaction. ownerID, when set, restricts the booking to that owner.
func (r *transitionRunner) run(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, ownerID *uuid.UUID, decide decideFunc) (*entity.BookingRequest, error) {
	unlock := r.locker.Lock(bookingID)
	defer unlock()

	var booking *entity.BookingRequest
	var transition *entity.Transition

	err := r.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = r.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if ownerID != nil && !booking.IsOwnedBy(*ownerID) {
			return ErrBookingNotOwned
		}

		transition, err = decide(tx, booking)
		if err != nil || transition == nil {
			return err
		}
		return r.apply(tx, booking, transition, &actorID)
	})
	if err != nil {
		r.logFailure(bookingID, err)
		return nil, err
	}

	r.committed(transition)
	return booking, nil
}

// apply writes t conditionally on its origin status and records the audit row
func (r *transitionRunner) apply(tx *gorm.DB, booking *entity.BookingRequest, t *entity.Transition, actorID *uuid.UUID) error {
	affected, err := r.bookingRepo.ApplyTransition(tx, t)
	if err != nil {
		return fmt.Errorf("apply transition %s -> %s: %w", t.From, t.To, err)
	}
	if affected == 0 {
		r.metrics.TransitionConflict(string(t.To))
		return ErrBookingStatusConflict
	}

	booking.Apply(t)
	return r.audit.LogTransition(tx, actorID, t)
}

// committed must only be called once the transaction holding t has committed
func (r *transitionRunner) committed(transitions ...*entity.Transition) {
	for _, t := range transitions {
		if t == nil {
			continue
		}
		r.metrics.Transition(string(t.From), string(t.To))
		r.log.WithFields(logrus.Fields{
			"booking_id": t.BookingID,
			"from":       t.From,
			"to":         t.To,
		}).Info("Booking status changed")
		r.dispatcher.Dispatch(t.Notifications)
	}
}

func (r *transitionRunner) logFailure(bookingID uuid.UUID, err error) {
	if isGuardError(err) {
		return
	}
	var pricingErr *service.PricingMissingError
	if errors.As(err, &pricingErr) {
		r.metrics.PricingMissing()
		r.log.Errorf("Pricing configuration missing for booking %s: %+v", bookingID, err)
		return
	}
	r.log.Warnf("Failed to change booking %s: %+v", bookingID, err)
}

// isGuardError reports expected rejections that need no server-side log
func isGuardError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range []error{
		ErrUnauthenticated,
		ErrBookingNotFound,
		ErrBookingNotOwned,
		ErrBookingNotEditable,
		ErrBookingNotDeletable,
		ErrBookingStatusConflict,
		ErrSampleNotFound,
		ErrSampleUpdateNotAllowed,
		ErrDocumentNotFound,
		ErrDocumentTypeNotAllowed,
		ErrDocumentAlreadyReviewed,
		ErrBookingClosed,
		ErrUserNotFound,
		ErrUserAlreadyVerified,
		entity.ErrInvalidTransition,
		entity.ErrBookingTerminal,
		entity.ErrReviewNoteRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
