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
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SampleTrackingUsecase interface {
	UpdateSampleStatus(ctx context.Context, sampleID uuid.UUID, req *dto.UpdateSampleStatusRequest) (*dto.SampleUpdateResponse, error)
	ListSamples(ctx context.Context, bookingID uuid.UUID) (*dto.SampleListResponse, error)
}

type sampleTrackingUsecase struct {
	uow         repository.UnitOfWork
	log         *logrus.Logger
	bookingRepo repository.BookingRequestRepository
	sampleRepo  repository.SampleTrackingRepository
	audit       service.AuditService
	runner      *transitionRunner
	now         func() time.Time
}

func NewSampleTrackingUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	recorder *metrics.Recorder,
	bookingRepo repository.BookingRequestRepository,
	sampleRepo repository.SampleTrackingRepository,
	audit service.AuditService,
	dispatcher service.NotificationDispatcher,
	locker *service.BookingLocker,
) SampleTrackingUsecase {
	return &sampleTrackingUsecase{
		uow:         uow,
		log:         log,
		bookingRepo: bookingRepo,
		sampleRepo:  sampleRepo,
		audit:       audit,
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

// UpdateSampleStatus records a sample status change under the booking row lock.
// The first sample in the lab starts an approved booking; the update that leaves
// no unfinished sample completes it. Both happen at most once per booking.
func (u *sampleTrackingUsecase) UpdateSampleStatus(ctx context.Context, sampleID uuid.UUID, req *dto.UpdateSampleStatusRequest) (*dto.SampleUpdateResponse, error) {
	adminID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	status := entity.SampleStatus(req.Status)
	if !entity.IsValidSampleStatus(status) {
		return nil, NewValidationError(map[string]string{"status": "unknown sample status"})
	}

	located, err := u.sampleRepo.FindByID(u.uow.Reader(ctx), sampleID)
	if err != nil {
		u.log.Warnf("Failed to find sample %s: %+v", sampleID, err)
		return nil, err
	}
	if located == nil {
		return nil, ErrSampleNotFound
	}

	var sample *entity.SampleTracking
	var completed bool

	booking, err := u.runner.run(ctx, located.BookingRequestID, adminID, nil, func(tx *gorm.DB, booking *entity.BookingRequest) (*entity.Transition, error) {
		if !acceptsSampleUpdates(booking.Status) {
			return nil, ErrSampleUpdateNotAllowed
		}

		var err error
		sample, err = u.sampleRepo.FindByID(tx, sampleID)
		if err != nil {
			return nil, fmt.Errorf("reload sample: %w", err)
		}
		if sample == nil || sample.BookingRequestID != booking.ID {
			return nil, ErrSampleNotFound
		}

		from := sample.Status
		sample.SetStatus(status, u.now())
		if req.Notes != "" {
			sample.Notes = req.Notes
		}
		sample.UpdatedBy = &adminID
		if err := u.sampleRepo.Update(tx, sample); err != nil {
			return nil, fmt.Errorf("update sample: %w", err)
		}
		if err := u.audit.Log(tx, &adminID, entity.AuditActionSampleUpdate, entity.JSON{
			"entity":     "sample_tracking",
			"entity_id":  sample.ID.String(),
			"booking_id": booking.ID.String(),
			"from":       string(from),
			"to":         string(status),
		}); err != nil {
			return nil, err
		}

		if booking.Status == entity.BookingStatusApproved && status.IsLabWork() {
			return booking.Start()
		}
		if booking.Status != entity.BookingStatusApproved && booking.Status != entity.BookingStatusInProgress {
			return nil, nil
		}

		samples, err := u.sampleRepo.FindByBookingID(tx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("load booking samples: %w", err)
		}
		statuses := make([]entity.SampleStatus, 0, len(samples))
		for _, s := range samples {
			statuses = append(statuses, s.Status)
		}
		if !entity.AllSamplesTerminal(statuses) {
			return nil, nil
		}

		completed = true
		return booking.Complete(u.now())
	})
	if err != nil {
		return nil, err
	}

	return &dto.SampleUpdateResponse{
		Sample:           converter.SampleToResponse(sample),
		BookingStatus:    string(booking.Status),
		BookingCompleted: completed,
	}, nil
}

// ListSamples returns the samples of a booking to its owner or an admin
func (u *sampleTrackingUsecase) ListSamples(ctx context.Context, bookingID uuid.UUID) (*dto.SampleListResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	db := u.uow.Reader(ctx)
	booking, err := u.bookingRepo.FindByID(db, bookingID)
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

	samples, err := u.sampleRepo.FindByBookingID(db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find samples of booking %s: %+v", bookingID, err)
		return nil, err
	}

	return &dto.SampleListResponse{
		Samples: converter.SamplesToResponses(samples),
		Total:   len(samples),
	}, nil
}

// acceptsSampleUpdates allows sample changes once the booking is approved.
// Completed bookings still record returns.
func acceptsSampleUpdates(status entity.BookingStatus) bool {
	switch status {
	case entity.BookingStatusApproved, entity.BookingStatusInProgress, entity.BookingStatusCompleted:
		return true
	}
	return false
}
