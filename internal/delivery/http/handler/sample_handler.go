package handler

import (
	"encoding/json"
	"net/http"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/usecase"
	"lab-booking-engine/pkg/response"
	"lab-booking-engine/pkg/validator"
)

type SampleHandler struct {
	sampleUsecase usecase.SampleTrackingUsecase
	validator     *validator.CustomValidator
}

func NewSampleHandler(sampleUsecase usecase.SampleTrackingUsecase, validator *validator.CustomValidator) *SampleHandler {
	return &SampleHandler{
		sampleUsecase: sampleUsecase,
		validator:     validator,
	}
}

// UpdateSampleStatus handles a lab status change of one sample
// @Summary Update sample status
// @Description Completes the booking when no unfinished sample remains
// @Tags Samples
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Sample ID"
// @Param request body dto.UpdateSampleStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/samples/{id}/status [put]
func (h *SampleHandler) UpdateSampleStatus(w http.ResponseWriter, r *http.Request) {
	sampleID, ok := parseUUIDVar(w, r, "id", "sample ID")
	if !ok {
		return
	}

	var req dto.UpdateSampleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.sampleUsecase.UpdateSampleStatus(r.Context(), sampleID, &req)
	if err != nil {
		writeError(w, err, "Failed to update sample")
		return
	}

	response.Success(w, http.StatusOK, "Sample updated successfully", result)
}

// @Summary List booking samples
// @Tags Samples
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Router /bookings/{id}/samples [get]
func (h *SampleHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	samples, err := h.sampleUsecase.ListSamples(r.Context(), bookingID)
	if err != nil {
		writeError(w, err, "Failed to get samples")
		return
	}

	response.Success(w, http.StatusOK, "Samples retrieved successfully", samples)
}
