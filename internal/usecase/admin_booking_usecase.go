package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lab-booking-engine/internal/converter"
	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"
	"lab-booking-engine/internal/infrastructure/metrics"
	"lab-booking-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type AdminBookingUsecase interface {
	ListBookings(ctx context.Context, status string, limit, offset int) (*dto.BookingListResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	Approve(ctx context.Context, bookingID uuid.UUID, req *dto.ReviewBookingRequest) (*dto.BookingResponse, error)
	Reject(ctx context.Context, bookingID uuid.UUID, req *dto.ReviewBookingRequest) (*dto.BookingResponse, error)
	ReturnForEdit(ctx context.Context, bookingID uuid.UUID, req *dto.ReviewBookingRequest) (*dto.BookingResponse, error)
	Start(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
	ListWorkspaceOverlaps(ctx context.Context, startDate, endDate string) (*dto.WorkspaceOverlapResponse, error)
}

type adminBookingUsecase struct {
	uow           repository.UnitOfWork
	log           *logrus.Logger
	bookingRepo   repository.BookingRequestRepository
	itemRepo      repository.ServiceItemRepository
	workspaceRepo repository.WorkspaceBookingRepository
	sampleRepo    repository.SampleTrackingRepository
	runner        *transitionRunner
	now           func() time.Time
}

func NewAdminBookingUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	recorder *metrics.Recorder,
	bookingRepo repository.BookingRequestRepository,
	itemRepo repository.ServiceItemRepository,
	workspaceRepo repository.WorkspaceBookingRepository,
	sampleRepo repository.SampleTrackingRepository,
	audit service.AuditService,
	dispatcher service.NotificationDispatcher,
	locker *service.BookingLocker,
) AdminBookingUsecase {
	return &adminBookingUsecase{
		uow:           uow,
		log:           log,
		bookingRepo:   bookingRepo,
		itemRepo:      itemRepo,
		workspaceRepo: workspaceRepo,
		sampleRepo:    sampleRepo,
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

// ListBookings returns bookings of every customer, optionally filtered by status
func (u *adminBookingUsecase) ListBookings(ctx context.Context, status string, limit, offset int) (*dto.BookingListResponse, error) {
	filter := repository.BookingFilter{
		Limit:  limit,
		Offset: offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if status = strings.TrimSpace(status); status != "" {
		s := entity.BookingStatus(status)
		if !entity.IsValidBookingStatus(s) {
			return nil, NewValidationError(map[string]string{"status": "unknown booking status"})
		}
		filter.Status = &s
	}

	bookings, total, err := u.bookingRepo.FindAll(u.uow.Reader(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
	}, nil
}

func (u *adminBookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByIDWithLineItems(u.uow.Reader(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return converter.BookingToResponse(booking), nil
}

// Approve accepts a booking awaiting approval and opens a tracking row for
// every physical sample of its per-count service items
func (u *adminBookingUsecase) Approve(ctx context.Context, bookingID uuid.UUID, req *dto.ReviewBookingRequest) (*dto.BookingResponse, error) {
	adminID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	booking, err := u.runner.run(ctx, bookingID, adminID, nil, func(tx *gorm.DB, booking *entity.BookingRequest) (*entity.Transition, error) {
		t, err := booking.Approve(adminID, req.Note, u.now())
		if err != nil {
			return nil, err
		}

		items, err := u.itemRepo.FindByBookingID(tx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("load service items: %w", err)
		}
		samples := entity.NewSamplesForItems(booking.ID, booking.ReferenceNumber, items)
		if err := u.sampleRepo.CreateBatch(tx, samples); err != nil {
			return nil, fmt.Errorf("create samples: %w", err)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	return converter.BookingToResponse(booking), nil
}

// Reject refuses a booking awaiting approval; a note is required
func (u *adminBookingUsecase) Reject(ctx context.Context, bookingID uuid.UUID, req *dto.ReviewBookingRequest) (*dto.BookingResponse, error) {
	return u.review(ctx, bookingID, func(booking *entity.BookingRequest, adminID uuid.UUID) (*entity.Transition, error) {
		return booking.Reject(adminID, req.Note, u.now())
	})
}

// ReturnForEdit sends a booking back to its owner as a draft with the review note
func (u *adminBookingUsecase) ReturnForEdit(ctx context.Context, bookingID uuid.UUID, req *dto.ReviewBookingRequest) (*dto.BookingResponse, error) {
	return u.review(ctx, bookingID, func(booking *entity.BookingRequest, adminID uuid.UUID) (*entity.Transition, error) {
		return booking.ReturnForEdit(adminID, req.Note, u.now())
	})
}

// Start marks an approved booking as in progress
func (u *adminBookingUsecase) Start(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return u.review(ctx, bookingID, func(booking *entity.BookingRequest, _ uuid.UUID) (*entity.Transition, error) {
		return booking.Start()
	})
}

// Cancel closes a non-terminal booking and notifies its owner
func (u *adminBookingUsecase) Cancel(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	return u.review(ctx, bookingID, func(booking *entity.BookingRequest, _ uuid.UUID) (*entity.Transition, error) {
		return booking.Cancel(true, req.Reason, u.now())
	})
}

// ListWorkspaceOverlaps reports active reservations intersecting the range.
// Overlaps never block a booking.
func (u *adminBookingUsecase) ListWorkspaceOverlaps(ctx context.Context, startDate, endDate string) (*dto.WorkspaceOverlapResponse, error) {
	fields := map[string]string{}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		fields["start_date"] = ErrInvalidDateFormat.Error()
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		fields["end_date"] = ErrInvalidDateFormat.Error()
	}
	if len(fields) == 0 && end.Before(start) {
		fields["end_date"] = entity.ErrWorkspaceEndBeforeStart.Error()
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	reservations, err := u.workspaceRepo.FindOverlapping(u.uow.Reader(ctx), start, end)
	if err != nil {
		u.log.Warnf("Failed to find overlapping workspace bookings: %+v", err)
		return nil, err
	}

	return &dto.WorkspaceOverlapResponse{
		StartDate:    startDate,
		EndDate:      endDate,
		Reservations: converter.WorkspaceBookingsToResponses(reservations),
		Total:        len(reservations),
	}, nil
}

func (u *adminBookingUsecase) review(ctx context.Context, bookingID uuid.UUID, decide func(booking *entity.BookingRequest, adminID uuid.UUID) (*entity.Transition, error)) (*dto.BookingResponse, error) {
	adminID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	booking, err := u.runner.run(ctx, bookingID, adminID, nil, func(_ *gorm.DB, booking *entity.BookingRequest) (*entity.Transition, error) {
		return decide(booking, adminID)
	})
	if err != nil {
		return nil, err
	}

	return converter.BookingToResponse(booking), nil
}
