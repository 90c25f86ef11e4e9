package handler

import (
	"errors"
	"net/http"

	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/service"
	"lab-booking-engine/internal/usecase"
	"lab-booking-engine/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeError maps usecase failures to HTTP responses. fallback is the
// message of the 500 returned for anything unrecognised.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		response.ValidationError(w, validationErr.Fields)
		return
	}

	var pricingErr *service.PricingMissingError
	if errors.As(err, &pricingErr) {
		response.Error(w, http.StatusInternalServerError, "Pricing is not configured for a requested service", "pricing_configuration_error")
		return
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "Invalid token")
	case errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrSampleNotFound),
		errors.Is(err, usecase.ErrDocumentNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, capitalize(err.Error()))
	case errors.Is(err, usecase.ErrBookingNotOwned),
		errors.Is(err, usecase.ErrDocumentTypeNotAllowed):
		response.Forbidden(w, capitalize(err.Error()))
	case errors.Is(err, entity.ErrReviewNoteRequired):
		response.BadRequest(w, capitalize(err.Error()))
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrBookingTerminal),
		errors.Is(err, usecase.ErrBookingStatusConflict),
		errors.Is(err, usecase.ErrBookingNotEditable),
		errors.Is(err, usecase.ErrBookingNotDeletable),
		errors.Is(err, usecase.ErrSampleUpdateNotAllowed),
		errors.Is(err, usecase.ErrDocumentAlreadyReviewed),
		errors.Is(err, usecase.ErrBookingClosed),
		errors.Is(err, usecase.ErrUserAlreadyVerified):
		response.Conflict(w, capitalize(err.Error()))
	default:
		response.InternalServerError(w, fallback)
	}
}

func parseUUIDVar(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label, nil)
		return uuid.Nil, false
	}
	return id, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
