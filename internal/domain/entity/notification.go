package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationEvent names what happened to the recipient's booking or account
type NotificationEvent string

const (
	NotificationBookingSubmitted  NotificationEvent = "booking.submitted"
	NotificationBookingNewRequest NotificationEvent = "booking.new_request"
	NotificationBookingApproved   NotificationEvent = "booking.approved"
	NotificationBookingRejected   NotificationEvent = "booking.rejected"
	NotificationBookingReturned   NotificationEvent = "booking.returned_for_edit"
	NotificationBookingInProgress NotificationEvent = "booking.in_progress"
	NotificationBookingCancelled  NotificationEvent = "booking.cancelled"
	NotificationBookingCompleted  NotificationEvent = "booking.completed"
	NotificationAccountVerified   NotificationEvent = "account.verified"
	NotificationBookingsReleased  NotificationEvent = "booking.released_after_verification"
	NotificationDocumentUploaded  NotificationEvent = "document.uploaded"
	NotificationDocumentVerified  NotificationEvent = "document.verified"
	NotificationDocumentRejected  NotificationEvent = "document.rejected"
)

// NotificationAudience selects who receives a pending notification
type NotificationAudience string

const (
	AudienceUser   NotificationAudience = "user"
	AudienceAdmins NotificationAudience = "admins"
)

// PendingNotification is a side effect requested by a state transition.
// It is dispatched by the caller after the transition commits.
type PendingNotification struct {
	Audience    NotificationAudience `json:"audience"`
	RecipientID uuid.UUID            `json:"recipient_id,omitempty"`
	Event       NotificationEvent    `json:"event"`
	BookingID   *uuid.UUID           `json:"booking_id,omitempty"`
	Payload     JSON                 `json:"payload,omitempty"`
}

// NotifyUser builds a notification addressed to a single user
func NotifyUser(userID uuid.UUID, event NotificationEvent, bookingID *uuid.UUID, payload JSON) PendingNotification {
	return PendingNotification{
		Audience:    AudienceUser,
		RecipientID: userID,
		Event:       event,
		BookingID:   bookingID,
		Payload:     payload,
	}
}

// NotifyAdmins builds a notification addressed to every admin
func NotifyAdmins(event NotificationEvent, bookingID *uuid.UUID, payload JSON) PendingNotification {
	return PendingNotification{
		Audience:  AudienceAdmins,
		Event:     event,
		BookingID: bookingID,
		Payload:   payload,
	}
}

// Notification is an in-app notification record delivered to one user
type Notification struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RecipientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Event       NotificationEvent `gorm:"type:varchar(100);not null" json:"event"`
	BookingID   *uuid.UUID        `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	Payload     JSON              `gorm:"type:jsonb" json:"payload,omitempty"`
	ReadAt      *time.Time        `json:"read_at,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
