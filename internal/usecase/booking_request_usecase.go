package usecase

import (
	"context"
	"fmt"
	"time"

	"lab-booking-engine/internal/converter"
	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/delivery/http/middleware"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"
	"lab-booking-engine/internal/infrastructure/metrics"
	"lab-booking-engine/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxReferenceAttempts bounds retries when a generated reference number is already taken
const maxReferenceAttempts = 3

type BookingRequestUsecase interface {
	CreateDraft(ctx context.Context) (*dto.BookingResponse, error)
	SaveDraft(ctx context.Context, bookingID uuid.UUID, req *dto.SaveDraftRequest) (*dto.BookingResponse, error)
	Submit(ctx context.Context, bookingID uuid.UUID, req *dto.SaveDraftRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
	DeleteDraft(ctx context.Context, bookingID uuid.UUID) error
}

type bookingRequestUsecase struct {
	uow          repository.UnitOfWork
	log          *logrus.Logger
	userRepo     repository.UserRepository
	bookingRepo  repository.BookingRequestRepository
	addOnRepo    repository.ServiceAddOnRepository
	sampleRepo   repository.SampleTrackingRepository
	documentRepo repository.BookingDocumentRepository
	writer       *lineItemWriter
	references   service.ReferenceGenerator
	audit        service.AuditService
	locker       *service.BookingLocker
	runner       *transitionRunner
	now          func() time.Time
}

func NewBookingRequestUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	recorder *metrics.Recorder,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRequestRepository,
	itemRepo repository.ServiceItemRepository,
	workspaceRepo repository.WorkspaceBookingRepository,
	addOnRepo repository.ServiceAddOnRepository,
	sampleRepo repository.SampleTrackingRepository,
	documentRepo repository.BookingDocumentRepository,
	normalizer service.LineItemNormalizer,
	references service.ReferenceGenerator,
	audit service.AuditService,
	dispatcher service.NotificationDispatcher,
	locker *service.BookingLocker,
) BookingRequestUsecase {
	return &bookingRequestUsecase{
		uow:          uow,
		log:          log,
		userRepo:     userRepo,
		bookingRepo:  bookingRepo,
		addOnRepo:    addOnRepo,
		sampleRepo:   sampleRepo,
		documentRepo: documentRepo,
		writer:       newLineItemWriter(normalizer, bookingRepo, itemRepo, workspaceRepo, addOnRepo),
		references:   references,
		audit:        audit,
		locker:       locker,
		runner: &transitionRunner{
			uow:         uow,
			log:         log,
			metrics:     recorder,
			bookingRepo: bookingRepo,
			audit:       audit,
			dispatcher:  dispatcher,
			locker:      locker,
		},
		now: time.Now,
	}
}

// CreateDraft opens an empty draft for the logged-in customer
func (u *bookingRequestUsecase) CreateDraft(ctx context.Context) (*dto.BookingResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	var booking *entity.BookingRequest
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		booking = &entity.BookingRequest{
			ReferenceNumber: u.references.Next(ctx),
			UserID:          userID,
			Status:          entity.BookingStatusDraft,
			TotalAmount:     decimal.Zero,
		}

		err = u.uow.Do(ctx, func(tx *gorm.DB) error {
			if err := u.bookingRepo.Create(tx, booking); err != nil {
				return err
			}
			return u.audit.Log(tx, &userID, entity.AuditActionBookingCreate, entity.JSON{
				"entity":           "booking_request",
				"entity_id":        booking.ID.String(),
				"reference_number": booking.ReferenceNumber,
			})
		})
		if err == nil {
			break
		}
		if !isDuplicateKeyError(err, "reference_number") {
			u.log.Warnf("Failed to create draft booking: %+v", err)
			return nil, err
		}
		u.log.Warnf("Reference number %s already taken (attempt %d)", booking.ReferenceNumber, attempt)
	}
	if err != nil {
		u.log.Errorf("Failed to allocate a unique reference number: %+v", err)
		return nil, err
	}

	return converter.BookingToResponse(booking), nil
}

// SaveDraft replaces the editable state of a draft and recomputes its totals.
// Line items are reconciled in the same transaction as the business fields.
func (u *bookingRequestUsecase) SaveDraft(ctx context.Context, bookingID uuid.UUID, req *dto.SaveDraftRequest) (*dto.BookingResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	in, parseErr := parseDraft(req)

	booking, err := u.runner.run(ctx, bookingID, userID, &userID, func(tx *gorm.DB, booking *entity.BookingRequest) (*entity.Transition, error) {
		if err := guardEditable(booking); err != nil {
			return nil, err
		}
		if parseErr != nil {
			return nil, parseErr
		}
		if err := u.saveDraft(tx, booking, req, in); err != nil {
			return nil, err
		}
		return nil, u.audit.Log(tx, &userID, entity.AuditActionBookingSaveDraft, entity.JSON{
			"entity":       "booking_request",
			"entity_id":    booking.ID.String(),
			"total_amount": booking.TotalAmount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.BookingToResponse(booking), nil
}

// Submit saves the payload with strict validation and moves the draft into review.
// Owners with an unverified account wait in pending_user_verification.
func (u *bookingRequestUsecase) Submit(ctx context.Context, bookingID uuid.UUID, req *dto.SaveDraftRequest) (*dto.BookingResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	in, parseErr := parseDraft(req)
	validationErr := mergeValidation(parseErr, validateSubmission(req))

	booking, err := u.runner.run(ctx, bookingID, userID, &userID, func(tx *gorm.DB, booking *entity.BookingRequest) (*entity.Transition, error) {
		if err := guardEditable(booking); err != nil {
			return nil, err
		}
		if validationErr != nil {
			return nil, validationErr
		}

		owner, err := u.saveDraftAs(tx, booking, req, in)
		if err != nil {
			return nil, err
		}
		return booking.Submit(owner.IsActive(), u.now())
	})
	if err != nil {
		return nil, err
	}

	return converter.BookingToResponse(booking), nil
}

// GetBooking returns a booking with its line items to its owner or an admin
func (u *bookingRequestUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	booking, err := u.bookingRepo.FindByIDWithLineItems(u.uow.Reader(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.IsOwnedBy(userID) && !middleware.IsAdminContext(ctx) {
		return nil, ErrBookingNotOwned
	}

	return converter.BookingToResponse(booking), nil
}

// GetMyBookings returns all bookings of the logged-in customer, newest first
func (u *bookingRequestUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	bookings, err := u.bookingRepo.FindByUserID(u.uow.Reader(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    int64(len(bookings)),
	}, nil
}

// Cancel closes a non-terminal booking on behalf of its owner and notifies the admins
func (u *bookingRequestUsecase) Cancel(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	booking, err := u.runner.run(ctx, bookingID, userID, &userID, func(tx *gorm.DB, booking *entity.BookingRequest) (*entity.Transition, error) {
		return booking.Cancel(false, req.Reason, u.now())
	})
	if err != nil {
		return nil, err
	}

	return converter.BookingToResponse(booking), nil
}

// DeleteDraft removes a draft, rejected or cancelled booking with everything attached to it
func (u *bookingRequestUsecase) DeleteDraft(ctx context.Context, bookingID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	unlock := u.locker.Lock(bookingID)
	defer unlock()

	err = u.uow.Do(ctx, func(tx *gorm.DB) error {
		booking, err := u.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if !booking.IsOwnedBy(userID) {
			return ErrBookingNotOwned
		}
		if !booking.IsDeletable() {
			return ErrBookingNotDeletable
		}

		if err := u.documentRepo.DeleteByBookingID(tx, bookingID); err != nil {
			return fmt.Errorf("delete documents: %w", err)
		}
		if err := u.sampleRepo.DeleteByBookingID(tx, bookingID); err != nil {
			return fmt.Errorf("delete samples: %w", err)
		}
		if err := u.addOnRepo.DeleteByBookingID(tx, bookingID); err != nil {
			return fmt.Errorf("delete add-ons: %w", err)
		}
		if err := u.bookingRepo.Delete(tx, bookingID); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}

		return u.audit.Log(tx, &userID, entity.AuditActionBookingDelete, entity.JSON{
			"entity":           "booking_request",
			"entity_id":        bookingID.String(),
			"reference_number": booking.ReferenceNumber,
			"status":           string(booking.Status),
		})
	})
	if err != nil {
		if !isGuardError(err) {
			u.log.Warnf("Failed to delete booking %s: %+v", bookingID, err)
		}
		return err
	}

	u.locker.Forget(bookingID)
	return nil
}

func (u *bookingRequestUsecase) saveDraft(tx *gorm.DB, booking *entity.BookingRequest, req *dto.SaveDraftRequest, in *draftInput) error {
	_, err := u.saveDraftAs(tx, booking, req, in)
	return err
}

// saveDraftAs writes the business fields and line items priced for the owner's
// user type and returns the owner
func (u *bookingRequestUsecase) saveDraftAs(tx *gorm.DB, booking *entity.BookingRequest, req *dto.SaveDraftRequest, in *draftInput) (*entity.User, error) {
	owner, err := u.userRepo.FindByID(tx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("load booking owner: %w", err)
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	applyDraftFields(booking, req, in)
	if err := u.bookingRepo.UpdateDetails(tx, booking); err != nil {
		return nil, fmt.Errorf("update booking details: %w", err)
	}

	if err := u.writer.Reconcile(tx, booking, in.LineItems, owner.UserType, u.now()); err != nil {
		return nil, normalizationError(err)
	}
	return owner, nil
}

// guardEditable rejects changes to closed bookings and to bookings under review
func guardEditable(booking *entity.BookingRequest) error {
	if booking.Status.IsTerminal() {
		return entity.ErrBookingTerminal
	}
	if !booking.IsEditable() {
		return ErrBookingNotEditable
	}
	return nil
}
