package repository

import (
	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByRecipientID(db *gorm.DB, recipientID uuid.UUID, limit int) ([]entity.Notification, error)
}
