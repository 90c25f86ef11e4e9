package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/usecase"
	"lab-booking-engine/pkg/response"
	"lab-booking-engine/pkg/validator"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingRequestUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingRequestUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// CreateDraft handles opening an empty booking draft
// @Summary Create booking draft
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Success 201 {object} response.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingUsecase.CreateDraft(r.Context())
	if err != nil {
		writeError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking draft created successfully", booking)
}

// SaveDraft handles replacing the editable content of a draft
// @Summary Save booking draft
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.SaveDraftRequest true "Draft"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id} [put]
func (h *BookingHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	var req dto.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.SaveDraft(r.Context(), bookingID, &req)
	if err != nil {
		writeError(w, err, "Failed to save booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking saved successfully", booking)
}

// Submit handles saving a draft and sending it for review
// @Summary Submit booking
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.SaveDraftRequest true "Draft"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id}/submit [post]
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	var req dto.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.Submit(r.Context(), bookingID, &req)
	if err != nil {
		writeError(w, err, "Failed to submit booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking submitted successfully", booking)
}

// @Summary Get booking
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeError(w, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// Cancel handles customer cancellation; the body with a reason is optional
// @Summary Cancel booking
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.Cancel(r.Context(), bookingID, &req)
	if err != nil {
		writeError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

// @Summary Delete booking
// @Tags Bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	if err := h.bookingUsecase.DeleteDraft(r.Context(), bookingID); err != nil {
		writeError(w, err, "Failed to delete booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking deleted successfully", nil)
}
