package usecase

import (
	"context"
	"fmt"
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

type UserVerificationUsecase interface {
	VerifyUser(ctx context.Context, userID uuid.UUID) (*dto.VerifyUserResponse, error)
}

type userVerificationUsecase struct {
	uow         repository.UnitOfWork
	log         *logrus.Logger
	metrics     *metrics.Recorder
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRequestRepository
	audit       service.AuditService
	dispatcher  service.NotificationDispatcher
	now         func() time.Time
}

func NewUserVerificationUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	recorder *metrics.Recorder,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRequestRepository,
	audit service.AuditService,
	dispatcher service.NotificationDispatcher,
) UserVerificationUsecase {
	return &userVerificationUsecase{
		uow:         uow,
		log:         log,
		metrics:     recorder,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		audit:       audit,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// VerifyUser activates an account and releases every booking that waited for it
// into the approval queue. The owner and the admins are notified once each,
// however many bookings moved.
func (u *userVerificationUsecase) VerifyUser(ctx context.Context, userID uuid.UUID) (*dto.VerifyUserResponse, error) {
	adminID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	var released int64

	err = u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = u.userRepo.FindByID(tx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}
		if user.IsActive() {
			return ErrUserAlreadyVerified
		}

		verifiedAt := u.now()
		user.AccountStatus = entity.AccountStatusActive
		user.VerifiedAt = &verifiedAt
		if err := u.userRepo.UpdateAccountStatus(tx, user); err != nil {
			return fmt.Errorf("update account status: %w", err)
		}

		released, err = u.bookingRepo.ReleaseAfterUserVerification(tx, userID)
		if err != nil {
			return fmt.Errorf("release waiting bookings: %w", err)
		}

		return u.audit.Log(tx, &adminID, entity.AuditActionUserVerify, entity.JSON{
			"entity":            "user",
			"entity_id":         userID.String(),
			"released_bookings": released,
		})
	})
	if err != nil {
		if !isGuardError(err) {
			u.log.Warnf("Failed to verify user %s: %+v", userID, err)
		}
		return nil, err
	}

	for i := int64(0); i < released; i++ {
		u.metrics.Transition(string(entity.BookingStatusPendingUserVerification), string(entity.BookingStatusPendingApproval))
	}
	u.log.WithFields(logrus.Fields{
		"user_id":           userID,
		"released_bookings": released,
	}).Info("User verified")
	u.dispatcher.Dispatch(entity.UserVerifiedNotifications(userID, int(released)))

	return &dto.VerifyUserResponse{
		User:             *converter.UserToResponse(user),
		ReleasedBookings: int(released),
	}, nil
}
