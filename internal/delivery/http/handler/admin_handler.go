package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/usecase"
	"lab-booking-engine/pkg/response"
	"lab-booking-engine/pkg/validator"

	"github.com/google/uuid"
)

type AdminHandler struct {
	adminUsecase        usecase.AdminBookingUsecase
	verificationUsecase usecase.UserVerificationUsecase
	validator           *validator.CustomValidator
}

func NewAdminHandler(
	adminUsecase usecase.AdminBookingUsecase,
	verificationUsecase usecase.UserVerificationUsecase,
	validator *validator.CustomValidator,
) *AdminHandler {
	return &AdminHandler{
		adminUsecase:        adminUsecase,
		verificationUsecase: verificationUsecase,
		validator:           validator,
	}
}

// ListBookings handles the admin booking queue
// @Summary List bookings
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Booking status"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	bookings, err := h.adminUsecase.ListBookings(r.Context(), query.Get("status"), limit, offset)
	if err != nil {
		writeError(w, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings, response.NewMeta(limit, offset, bookings.Total))
}

func (h *AdminHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	booking, err := h.adminUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeError(w, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

// @Summary Approve booking
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ReviewBookingRequest false "Review note"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/bookings/{id}/approve [post]
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(w, r, h.adminUsecase.Approve, "Booking approved successfully", "Failed to approve booking")
}

// @Summary Reject booking
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ReviewBookingRequest true "Review note"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/bookings/{id}/reject [post]
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(w, r, h.adminUsecase.Reject, "Booking rejected successfully", "Failed to reject booking")
}

// @Summary Return booking for edit
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ReviewBookingRequest true "Review note"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/bookings/{id}/return [post]
func (h *AdminHandler) ReturnForEdit(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(w, r, h.adminUsecase.ReturnForEdit, "Booking returned for edit", "Failed to return booking")
}

func (h *AdminHandler) Start(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	booking, err := h.adminUsecase.Start(r.Context(), bookingID)
	if err != nil {
		writeError(w, err, "Failed to start booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking started successfully", booking)
}

func (h *AdminHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	booking, err := h.adminUsecase.Cancel(r.Context(), bookingID, &req)
	if err != nil {
		writeError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

// VerifyUser handles account verification
// @Summary Verify user account
// @Description Activates the account and releases bookings waiting for verification
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/users/{id}/verify [post]
func (h *AdminHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDVar(w, r, "id", "user ID")
	if !ok {
		return
	}

	result, err := h.verificationUsecase.VerifyUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to verify user")
		return
	}

	response.Success(w, http.StatusOK, "User verified successfully", result)
}

// ListWorkspaceOverlaps reports reservations intersecting a date range
// @Summary Workspace overlap report
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string true "YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/workspace-bookings/overlaps [get]
func (h *AdminHandler) ListWorkspaceOverlaps(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	overlaps, err := h.adminUsecase.ListWorkspaceOverlaps(r.Context(), query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		writeError(w, err, "Failed to get workspace overlaps")
		return
	}

	response.Success(w, http.StatusOK, "Workspace overlaps retrieved successfully", overlaps)
}

type reviewFunc func(ctx context.Context, bookingID uuid.UUID, req *dto.ReviewBookingRequest) (*dto.BookingResponse, error)

// reviewAction decodes the optional review note and runs one admin decision
func (h *AdminHandler) reviewAction(w http.ResponseWriter, r *http.Request, action reviewFunc, successMessage, failureMessage string) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	var req dto.ReviewBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := action(r.Context(), bookingID, &req)
	if err != nil {
		writeError(w, err, failureMessage)
		return
	}

	response.Success(w, http.StatusOK, successMessage, booking)
}
