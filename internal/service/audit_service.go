package service

import (
	"fmt"

	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes audit rows on the caller's transaction so the trail
// commits or rolls back with the change it describes
type AuditService interface {
	Log(tx *gorm.DB, actorID *uuid.UUID, action string, metadata entity.JSON) error
	LogTransition(tx *gorm.DB, actorID *uuid.UUID, t *entity.Transition) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Log(tx *gorm.DB, actorID *uuid.UUID, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:   actorID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// LogTransition records a booking status change
func (s *auditService) LogTransition(tx *gorm.DB, actorID *uuid.UUID, t *entity.Transition) error {
	metadata := entity.JSON{
		"entity":    "booking_request",
		"entity_id": t.BookingID.String(),
		"from":      string(t.From),
		"to":        string(t.To),
	}
	if t.Review == entity.ReviewSet {
		metadata["review_notes"] = t.ReviewNotes
	}
	if t.CancelledAt != nil && t.CancelReason != "" {
		metadata["reason"] = t.CancelReason
	}
	return s.Log(tx, actorID, entity.AuditActionBookingTransition, metadata)
}
