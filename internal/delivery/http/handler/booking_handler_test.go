package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/service"
	"lab-booking-engine/internal/usecase"
	"lab-booking-engine/pkg/response"
	"lab-booking-engine/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingUsecase struct {
	mock.Mock
}

func (m *mockBookingUsecase) CreateDraft(ctx context.Context) (*dto.BookingResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockBookingUsecase) SaveDraft(ctx context.Context, bookingID uuid.UUID, req *dto.SaveDraftRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockBookingUsecase) Submit(ctx context.Context, bookingID uuid.UUID, req *dto.SaveDraftRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockBookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockBookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingListResponse), args.Error(1)
}

func (m *mockBookingUsecase) Cancel(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockBookingUsecase) DeleteDraft(ctx context.Context, bookingID uuid.UUID) error {
	return m.Called(ctx, bookingID).Error(0)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func newRequest(method, target, body string, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return mux.SetURLVars(req, vars)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", usecase.NewValidationError(map[string]string{"line_items": "required"}), http.StatusBadRequest},
		{"pricing gap", &service.PricingMissingError{ServiceID: uuid.New()}, http.StatusInternalServerError},
		{"unauthenticated", usecase.ErrUnauthenticated, http.StatusUnauthorized},
		{"not found", usecase.ErrBookingNotFound, http.StatusNotFound},
		{"sample not found", fmt.Errorf("reload: %w", usecase.ErrSampleNotFound), http.StatusNotFound},
		{"not owned", usecase.ErrBookingNotOwned, http.StatusForbidden},
		{"lab-only document", usecase.ErrDocumentTypeNotAllowed, http.StatusForbidden},
		{"note required", entity.ErrReviewNoteRequired, http.StatusBadRequest},
		{"invalid transition", entity.ErrInvalidTransition, http.StatusConflict},
		{"terminal", entity.ErrBookingTerminal, http.StatusConflict},
		{"status conflict", usecase.ErrBookingStatusConflict, http.StatusConflict},
		{"already verified", usecase.ErrUserAlreadyVerified, http.StatusConflict},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Failed")

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, decodeBody(t, rec).Success)
		})
	}
}

func TestWriteError_MessageAndFields(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, usecase.ErrBookingNotOwned, "Failed")
	assert.Equal(t, "Booking does not belong to you", decodeBody(t, rec).Message)

	rec = httptest.NewRecorder()
	writeError(rec, usecase.NewValidationError(map[string]string{"service_items[2].service_id": "no effective price"}), "Failed")
	body := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, map[string]interface{}{"service_items[2].service_id": "no effective price"}, body.Error)

	rec = httptest.NewRecorder()
	writeError(rec, fmt.Errorf("boom"), "Failed to save booking")
	assert.Equal(t, "Failed to save booking", decodeBody(t, rec).Message)
}

func TestBookingHandler_SaveDraft(t *testing.T) {
	bookingID := uuid.New()
	serviceID := uuid.New()

	t.Run("invalid id", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		rec := httptest.NewRecorder()

		h.SaveDraft(rec, newRequest(http.MethodPut, "/api/v1/bookings/abc", `{}`, map[string]string{"id": "abc"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid booking ID", decodeBody(t, rec).Message)
		uc.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		rec := httptest.NewRecorder()

		h.SaveDraft(rec, newRequest(http.MethodPut, "/", `{"service_items":`, map[string]string{"id": bookingID.String()}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeBody(t, rec).Message)
	})

	t.Run("field validation uses json paths", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		rec := httptest.NewRecorder()
		body := fmt.Sprintf(`{"billing_email":"not-an-email","service_items":[{"service_id":"%s","quantity":-1}]}`, serviceID)

		h.SaveDraft(rec, newRequest(http.MethodPut, "/", body, map[string]string{"id": bookingID.String()}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields, ok := decodeBody(t, rec).Error.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fields, "billing_email")
		assert.Contains(t, fields, "service_items[0].quantity")
		uc.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("saved", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		rec := httptest.NewRecorder()
		uc.On("SaveDraft", mock.Anything, bookingID, mock.MatchedBy(func(req *dto.SaveDraftRequest) bool {
			return len(req.ServiceItems) == 1 && req.ServiceItems[0].Quantity == 2
		})).Return(&dto.BookingResponse{ID: bookingID, Status: "draft"}, nil)
		body := fmt.Sprintf(`{"service_items":[{"service_id":"%s","quantity":2}]}`, serviceID)

		h.SaveDraft(rec, newRequest(http.MethodPut, "/", body, map[string]string{"id": bookingID.String()}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody(t, rec).Success)
		uc.AssertExpectations(t)
	})
}

func TestBookingHandler_Submit(t *testing.T) {
	bookingID := uuid.New()

	t.Run("business validation", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		rec := httptest.NewRecorder()
		uc.On("Submit", mock.Anything, bookingID, mock.Anything).
			Return(nil, usecase.NewValidationError(map[string]string{"line_items": "at least one service item or workspace booking is required"}))

		h.Submit(rec, newRequest(http.MethodPost, "/", `{}`, map[string]string{"id": bookingID.String()}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields := decodeBody(t, rec).Error.(map[string]interface{})
		assert.Contains(t, fields, "line_items")
	})

	t.Run("not editable", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		rec := httptest.NewRecorder()
		uc.On("Submit", mock.Anything, bookingID, mock.Anything).Return(nil, usecase.ErrBookingNotEditable)

		h.Submit(rec, newRequest(http.MethodPost, "/", `{}`, map[string]string{"id": bookingID.String()}))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestBookingHandler_CancelWithoutBody(t *testing.T) {
	bookingID := uuid.New()
	uc := new(mockBookingUsecase)
	h := NewBookingHandler(uc, validator.NewValidator())
	rec := httptest.NewRecorder()
	uc.On("Cancel", mock.Anything, bookingID, &dto.CancelBookingRequest{}).
		Return(&dto.BookingResponse{ID: bookingID, Status: "cancelled"}, nil)

	h.Cancel(rec, newRequest(http.MethodPost, "/", "", map[string]string{"id": bookingID.String()}))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestBookingHandler_DeleteDraft(t *testing.T) {
	bookingID := uuid.New()
	uc := new(mockBookingUsecase)
	h := NewBookingHandler(uc, validator.NewValidator())
	rec := httptest.NewRecorder()
	uc.On("DeleteDraft", mock.Anything, bookingID).Return(usecase.ErrBookingNotDeletable)

	h.DeleteDraft(rec, newRequest(http.MethodDelete, "/", "", map[string]string{"id": bookingID.String()}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Only draft, rejected or cancelled bookings can be deleted", decodeBody(t, rec).Message)
}
