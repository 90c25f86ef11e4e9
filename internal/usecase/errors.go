package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"lab-booking-engine/internal/delivery/http/middleware"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated         = errors.New("user not found in context")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingNotOwned         = errors.New("booking does not belong to you")
	ErrBookingNotEditable      = errors.New("booking can only be edited while in draft")
	ErrBookingNotDeletable     = errors.New("only draft, rejected or cancelled bookings can be deleted")
	ErrBookingStatusConflict   = errors.New("booking status was changed by another request")
	ErrSampleNotFound          = errors.New("sample not found")
	ErrSampleUpdateNotAllowed  = errors.New("samples can only be updated on approved or in-progress bookings")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrDocumentTypeNotAllowed  = errors.New("document type cannot be uploaded by customers")
	ErrDocumentAlreadyReviewed = errors.New("document has already been reviewed")
	ErrBookingClosed           = errors.New("booking is closed for documents")
	ErrUserAlreadyVerified     = errors.New("user account is already verified")
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
)

// ValidationError carries field-level messages for input that failed business validation
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// currentUserID reads the authenticated user placed on ctx by the auth middleware
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	return userID, nil
}
