package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking request
type BookingStatus string

const (
	BookingStatusDraft                   BookingStatus = "draft"
	BookingStatusPendingUserVerification BookingStatus = "pending_user_verification"
	BookingStatusPendingApproval         BookingStatus = "pending_approval"
	BookingStatusApproved                BookingStatus = "approved"
	BookingStatusRejected                BookingStatus = "rejected"
	BookingStatusInProgress              BookingStatus = "in_progress"
	BookingStatusCompleted               BookingStatus = "completed"
	BookingStatusCancelled               BookingStatus = "cancelled"
)

var (
	ErrInvalidTransition  = errors.New("booking status does not allow this action")
	ErrBookingTerminal    = errors.New("booking is closed and can no longer change")
	ErrReviewNoteRequired = errors.New("a review note is required")
)

// IsValidBookingStatus reports whether s is a known status
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusDraft, BookingStatusPendingUserVerification, BookingStatusPendingApproval,
		BookingStatusApproved, BookingStatusRejected, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled || s == BookingStatusCompleted
}

// BookingRequest is the aggregate root of a customer's request for lab services
type BookingRequest struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ReferenceNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null;<-:create" json:"reference_number"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ProjectDescription string          `gorm:"type:text" json:"project_description,omitempty"`
	PreferredStartDate *time.Time      `gorm:"type:date" json:"preferred_start_date,omitempty"`
	PreferredEndDate   *time.Time      `gorm:"type:date" json:"preferred_end_date,omitempty"`
	Notes              string          `gorm:"type:text" json:"notes,omitempty"`
	BillingName        string          `gorm:"type:varchar(255)" json:"billing_name,omitempty"`
	BillingEmail       string          `gorm:"type:varchar(255)" json:"billing_email,omitempty"`
	BillingAddress     string          `gorm:"type:text" json:"billing_address,omitempty"`
	BillingPhone       string          `gorm:"type:varchar(30)" json:"billing_phone,omitempty"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	Status             BookingStatus   `gorm:"type:varchar(40);not null;default:'draft';index" json:"status"`
	ReviewNotes        *string         `gorm:"type:text" json:"review_notes,omitempty"`
	ReviewedBy         *uuid.UUID      `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time      `json:"reviewed_at,omitempty"`
	SubmittedAt        *time.Time      `json:"submitted_at,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CancellationReason string          `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User              *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ServiceItems      []ServiceItem      `gorm:"foreignKey:BookingRequestID" json:"service_items,omitempty"`
	WorkspaceBookings []WorkspaceBooking `gorm:"foreignKey:BookingRequestID" json:"workspace_bookings,omitempty"`
}

func (BookingRequest) TableName() string {
	return "booking_requests"
}

// IsOwnedBy checks ownership before any customer mutation
func (b *BookingRequest) IsOwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}

// IsEditable reports whether line items and business fields may change.
// A booking returned for edit is back in draft with review notes attached.
func (b *BookingRequest) IsEditable() bool {
	return b.Status == BookingStatusDraft
}

// IsDeletable reports whether the owner may delete the booking
func (b *BookingRequest) IsDeletable() bool {
	return b.Status == BookingStatusDraft || b.Status == BookingStatusRejected || b.Status == BookingStatusCancelled
}

// HasWorkspace reports whether the booking reserves working space
func (b *BookingRequest) HasWorkspace() bool {
	return len(b.WorkspaceBookings) > 0
}

// ReviewChange describes what a transition does to the review fields
type ReviewChange int

const (
	ReviewKeep ReviewChange = iota
	ReviewSet
	ReviewClear
)

// Transition is a status change computed by the booking state machine.
// The caller persists it conditionally on From and dispatches Notifications
// after the write commits.
type Transition struct {
	BookingID     uuid.UUID
	From          BookingStatus
	To            BookingStatus
	Review        ReviewChange
	ReviewNotes   string
	ReviewedBy    *uuid.UUID
	ReviewedAt    *time.Time
	SubmittedAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string
	Notifications []PendingNotification
}

// Columns returns the column updates the transition writes together with the status
func (t *Transition) Columns() map[string]interface{} {
	cols := map[string]interface{}{
		"status": t.To,
	}
	switch t.Review {
	case ReviewSet:
		notes := t.ReviewNotes
		cols["review_notes"] = &notes
		cols["reviewed_by"] = t.ReviewedBy
		cols["reviewed_at"] = t.ReviewedAt
	case ReviewClear:
		cols["review_notes"] = nil
		cols["reviewed_by"] = nil
		cols["reviewed_at"] = nil
	}
	if t.SubmittedAt != nil {
		cols["submitted_at"] = t.SubmittedAt
	}
	if t.CompletedAt != nil {
		cols["completed_at"] = t.CompletedAt
	}
	if t.CancelledAt != nil {
		cols["cancelled_at"] = t.CancelledAt
		cols["cancellation_reason"] = t.CancelReason
	}
	return cols
}

// Apply copies the transition onto the in-memory booking
func (b *BookingRequest) Apply(t *Transition) {
	b.Status = t.To
	switch t.Review {
	case ReviewSet:
		notes := t.ReviewNotes
		b.ReviewNotes = &notes
		b.ReviewedBy = t.ReviewedBy
		b.ReviewedAt = t.ReviewedAt
	case ReviewClear:
		b.ReviewNotes = nil
		b.ReviewedBy = nil
		b.ReviewedAt = nil
	}
	if t.SubmittedAt != nil {
		b.SubmittedAt = t.SubmittedAt
	}
	if t.CompletedAt != nil {
		b.CompletedAt = t.CompletedAt
	}
	if t.CancelledAt != nil {
		b.CancelledAt = t.CancelledAt
		b.CancellationReason = t.CancelReason
	}
}

func (b *BookingRequest) newTransition(to BookingStatus) *Transition {
	return &Transition{BookingID: b.ID, From: b.Status, To: to}
}

func (b *BookingRequest) payload(extra JSON) JSON {
	p := JSON{"reference_number": b.ReferenceNumber}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func (b *BookingRequest) guardNotTerminal() error {
	if b.Status.IsTerminal() {
		return ErrBookingTerminal
	}
	return nil
}

// Submit moves an editable booking into review. Owners whose account is not
// active yet wait in pending_user_verification. Previous review notes are cleared.
func (b *BookingRequest) Submit(accountActive bool, now time.Time) (*Transition, error) {
	if err := b.guardNotTerminal(); err != nil {
		return nil, err
	}
	if !b.IsEditable() {
		return nil, ErrInvalidTransition
	}

	to := BookingStatusPendingApproval
	if !accountActive {
		to = BookingStatusPendingUserVerification
	}

	t := b.newTransition(to)
	t.Review = ReviewClear
	t.SubmittedAt = &now
	payload := b.payload(JSON{"status": string(to), "total_amount": b.TotalAmount.StringFixed(2)})
	t.Notifications = []PendingNotification{
		NotifyUser(b.UserID, NotificationBookingSubmitted, &b.ID, payload),
		NotifyAdmins(NotificationBookingNewRequest, &b.ID, payload),
	}
	return t, nil
}

// ReleaseAfterUserVerification moves a booking that waited for account
// verification into the approval queue. Notifications are aggregated by the caller.
func (b *BookingRequest) ReleaseAfterUserVerification() (*Transition, error) {
	if b.Status != BookingStatusPendingUserVerification {
		return nil, ErrInvalidTransition
	}
	return b.newTransition(BookingStatusPendingApproval), nil
}

// Approve accepts a booking awaiting approval
func (b *BookingRequest) Approve(adminID uuid.UUID, note string, now time.Time) (*Transition, error) {
	if err := b.guardNotTerminal(); err != nil {
		return nil, err
	}
	if b.Status != BookingStatusPendingApproval {
		return nil, ErrInvalidTransition
	}

	t := b.reviewTransition(BookingStatusApproved, adminID, strings.TrimSpace(note), now)
	t.Notifications = []PendingNotification{
		NotifyUser(b.UserID, NotificationBookingApproved, &b.ID, b.payload(JSON{"note": t.ReviewNotes})),
	}
	return t, nil
}

// Reject refuses a booking awaiting approval; the booking becomes immutable
func (b *BookingRequest) Reject(adminID uuid.UUID, note string, now time.Time) (*Transition, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrReviewNoteRequired
	}
	if err := b.guardNotTerminal(); err != nil {
		return nil, err
	}
	if b.Status != BookingStatusPendingApproval {
		return nil, ErrInvalidTransition
	}

	t := b.reviewTransition(BookingStatusRejected, adminID, note, now)
	t.Notifications = []PendingNotification{
		NotifyUser(b.UserID, NotificationBookingRejected, &b.ID, b.payload(JSON{"reason": note})),
	}
	return t, nil
}

// ReturnForEdit sends a booking awaiting approval back to draft with review notes
func (b *BookingRequest) ReturnForEdit(adminID uuid.UUID, note string, now time.Time) (*Transition, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrReviewNoteRequired
	}
	if err := b.guardNotTerminal(); err != nil {
		return nil, err
	}
	if b.Status != BookingStatusPendingApproval {
		return nil, ErrInvalidTransition
	}

	t := b.reviewTransition(BookingStatusDraft, adminID, note, now)
	t.Notifications = []PendingNotification{
		NotifyUser(b.UserID, NotificationBookingReturned, &b.ID, b.payload(JSON{"note": note})),
	}
	return t, nil
}

// Start marks an approved booking as being worked on
func (b *BookingRequest) Start() (*Transition, error) {
	if err := b.guardNotTerminal(); err != nil {
		return nil, err
	}
	if b.Status != BookingStatusApproved {
		return nil, ErrInvalidTransition
	}

	t := b.newTransition(BookingStatusInProgress)
	t.Notifications = []PendingNotification{
		NotifyUser(b.UserID, NotificationBookingInProgress, &b.ID, b.payload(nil)),
	}
	return t, nil
}

// Cancel closes a non-terminal booking. byAdmin selects the counterpart to notify.
func (b *BookingRequest) Cancel(byAdmin bool, reason string, now time.Time) (*Transition, error) {
	if err := b.guardNotTerminal(); err != nil {
		return nil, err
	}

	t := b.newTransition(BookingStatusCancelled)
	t.CancelledAt = &now
	t.CancelReason = strings.TrimSpace(reason)
	payload := b.payload(JSON{"reason": t.CancelReason})
	if byAdmin {
		t.Notifications = []PendingNotification{
			NotifyUser(b.UserID, NotificationBookingCancelled, &b.ID, payload),
		}
	} else {
		t.Notifications = []PendingNotification{
			NotifyAdmins(NotificationBookingCancelled, &b.ID, payload),
		}
	}
	return t, nil
}

// Complete closes an approved or in-progress booking once all samples are done
func (b *BookingRequest) Complete(now time.Time) (*Transition, error) {
	if b.Status != BookingStatusApproved && b.Status != BookingStatusInProgress {
		return nil, ErrInvalidTransition
	}

	t := b.newTransition(BookingStatusCompleted)
	t.CompletedAt = &now
	t.Notifications = []PendingNotification{
		NotifyUser(b.UserID, NotificationBookingCompleted, &b.ID, b.payload(JSON{"message": "results are ready"})),
	}
	return t, nil
}

func (b *BookingRequest) reviewTransition(to BookingStatus, adminID uuid.UUID, note string, now time.Time) *Transition {
	t := b.newTransition(to)
	reviewer := adminID
	reviewedAt := now
	t.Review = ReviewSet
	t.ReviewNotes = note
	t.ReviewedBy = &reviewer
	t.ReviewedAt = &reviewedAt
	return t
}

// UserVerifiedNotifications builds the notifications sent once when a user's
// account is verified and their waiting bookings are released
func UserVerifiedNotifications(userID uuid.UUID, released int) []PendingNotification {
	notifications := []PendingNotification{
		NotifyUser(userID, NotificationAccountVerified, nil, JSON{"released_bookings": released}),
	}
	if released > 0 {
		notifications = append(notifications, NotifyAdmins(NotificationBookingsReleased, nil, JSON{
			"user_id": userID.String(),
			"count":   released,
		}))
	}
	return notifications
}
