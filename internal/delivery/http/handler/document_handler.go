package handler

import (
	"encoding/json"
	"net/http"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/usecase"
	"lab-booking-engine/pkg/response"
	"lab-booking-engine/pkg/validator"
)

type DocumentHandler struct {
	documentUsecase usecase.BookingDocumentUsecase
	validator       *validator.CustomValidator
}

func NewDocumentHandler(documentUsecase usecase.BookingDocumentUsecase, validator *validator.CustomValidator) *DocumentHandler {
	return &DocumentHandler{
		documentUsecase: documentUsecase,
		validator:       validator,
	}
}

// UploadDocument handles registering an uploaded file against a booking
// @Summary Upload booking document
// @Tags Documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UploadDocumentRequest true "Document"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bookings/{id}/documents [post]
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	var req dto.UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doc, err := h.documentUsecase.UploadDocument(r.Context(), bookingID, &req)
	if err != nil {
		writeError(w, err, "Failed to upload document")
		return
	}

	response.Success(w, http.StatusCreated, "Document uploaded successfully", doc)
}

// @Summary Verify or reject document
// @Tags Documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.VerifyDocumentRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/documents/{id}/verify [post]
func (h *DocumentHandler) VerifyDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := parseUUIDVar(w, r, "id", "document ID")
	if !ok {
		return
	}

	var req dto.VerifyDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doc, err := h.documentUsecase.VerifyDocument(r.Context(), documentID, &req)
	if err != nil {
		writeError(w, err, "Failed to verify document")
		return
	}

	response.Success(w, http.StatusOK, "Document reviewed successfully", doc)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	docs, err := h.documentUsecase.ListDocuments(r.Context(), bookingID)
	if err != nil {
		writeError(w, err, "Failed to get documents")
		return
	}

	response.Success(w, http.StatusOK, "Documents retrieved successfully", docs)
}

// GetResultAccess reports whether results may be released and lists them if so
// @Summary Result release status
// @Tags Documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Router /bookings/{id}/results [get]
func (h *DocumentHandler) GetResultAccess(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseUUIDVar(w, r, "id", "booking ID")
	if !ok {
		return
	}

	access, err := h.documentUsecase.GetResultAccess(r.Context(), bookingID)
	if err != nil {
		writeError(w, err, "Failed to get result access")
		return
	}

	response.Success(w, http.StatusOK, "Result access evaluated successfully", access)
}
