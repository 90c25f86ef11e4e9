package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lab-booking-engine/internal/converter"
	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/delivery/http/middleware"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"
	"lab-booking-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BookingDocumentUsecase interface {
	UploadDocument(ctx context.Context, bookingID uuid.UUID, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error)
	VerifyDocument(ctx context.Context, documentID uuid.UUID, req *dto.VerifyDocumentRequest) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context, bookingID uuid.UUID) (*dto.DocumentListResponse, error)
	GetResultAccess(ctx context.Context, bookingID uuid.UUID) (*dto.ResultAccessResponse, error)
}

type bookingDocumentUsecase struct {
	uow           repository.UnitOfWork
	log           *logrus.Logger
	bookingRepo   repository.BookingRequestRepository
	workspaceRepo repository.WorkspaceBookingRepository
	sampleRepo    repository.SampleTrackingRepository
	documentRepo  repository.BookingDocumentRepository
	audit         service.AuditService
	dispatcher    service.NotificationDispatcher
	now           func() time.Time
}

func NewBookingDocumentUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	bookingRepo repository.BookingRequestRepository,
	workspaceRepo repository.WorkspaceBookingRepository,
	sampleRepo repository.SampleTrackingRepository,
	documentRepo repository.BookingDocumentRepository,
	audit service.AuditService,
	dispatcher service.NotificationDispatcher,
) BookingDocumentUsecase {
	return &bookingDocumentUsecase{
		uow:           uow,
		log:           log,
		bookingRepo:   bookingRepo,
		workspaceRepo: workspaceRepo,
		sampleRepo:    sampleRepo,
		documentRepo:  documentRepo,
		audit:         audit,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

// UploadDocument registers a stored file against a booking. Customers upload
// signed forms and payment receipts for review; lab documents uploaded by an
// admin are verified on upload.
func (u *bookingDocumentUsecase) UploadDocument(ctx context.Context, bookingID uuid.UUID, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	isAdmin := middleware.IsAdminContext(ctx)

	docType := entity.DocumentType(req.Type)
	if !entity.IsValidDocumentType(docType) {
		return nil, NewValidationError(map[string]string{"type": "unknown document type"})
	}
	if !isAdmin && !docType.IsCustomerUploadable() {
		return nil, ErrDocumentTypeNotAllowed
	}

	var booking *entity.BookingRequest
	doc := &entity.BookingDocument{
		ID:                 uuid.New(),
		BookingRequestID:   bookingID,
		Type:               docType,
		FileName:           strings.TrimSpace(req.FileName),
		FileURL:            strings.TrimSpace(req.FileURL),
		UploadedBy:         userID,
		VerificationStatus: entity.VerificationPending,
	}
	if isAdmin {
		doc.MarkVerified(userID, u.now())
	}

	err = u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = u.bookingRepo.FindByID(tx, bookingID)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if !isAdmin && !booking.IsOwnedBy(userID) {
			return ErrBookingNotOwned
		}
		if booking.Status == entity.BookingStatusRejected || booking.Status == entity.BookingStatusCancelled {
			return ErrBookingClosed
		}

		if err := u.documentRepo.Create(tx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return u.audit.Log(tx, &userID, entity.AuditActionDocumentUpload, entity.JSON{
			"entity":     "booking_document",
			"entity_id":  doc.ID.String(),
			"booking_id": bookingID.String(),
			"type":       string(docType),
		})
	})
	if err != nil {
		if !isGuardError(err) {
			u.log.Warnf("Failed to upload document for booking %s: %+v", bookingID, err)
		}
		return nil, err
	}

	payload := entity.JSON{
		"reference_number": booking.ReferenceNumber,
		"document_id":      doc.ID.String(),
		"type":             string(docType),
	}
	if isAdmin {
		u.dispatcher.Dispatch([]entity.PendingNotification{
			entity.NotifyUser(booking.UserID, entity.NotificationDocumentUploaded, &booking.ID, payload),
		})
	} else {
		u.dispatcher.Dispatch([]entity.PendingNotification{
			entity.NotifyAdmins(entity.NotificationDocumentUploaded, &booking.ID, payload),
		})
	}

	resp := converter.DocumentToResponse(doc)
	return &resp, nil
}

// VerifyDocument records the admin review of a pending document. A rejection needs a reason.
func (u *bookingDocumentUsecase) VerifyDocument(ctx context.Context, documentID uuid.UUID, req *dto.VerifyDocumentRequest) (*dto.DocumentResponse, error) {
	adminID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	status := entity.VerificationStatus(req.Status)
	reason := strings.TrimSpace(req.RejectionReason)
	switch status {
	case entity.VerificationVerified:
	case entity.VerificationRejected:
		if reason == "" {
			return nil, NewValidationError(map[string]string{"rejection_reason": "rejection_reason is required when rejecting"})
		}
	default:
		return nil, NewValidationError(map[string]string{"status": "status must be verified or rejected"})
	}

	var doc *entity.BookingDocument
	var booking *entity.BookingRequest

	err = u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		doc, err = u.documentRepo.FindByID(tx, documentID)
		if err != nil {
			return fmt.Errorf("load document: %w", err)
		}
		if doc == nil {
			return ErrDocumentNotFound
		}
		if !doc.IsPending() {
			return ErrDocumentAlreadyReviewed
		}

		booking, err = u.bookingRepo.FindByID(tx, doc.BookingRequestID)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}

		if status == entity.VerificationVerified {
			doc.MarkVerified(adminID, u.now())
		} else {
			doc.MarkRejected(adminID, reason, u.now())
		}
		if err := u.documentRepo.UpdateVerification(tx, doc); err != nil {
			return fmt.Errorf("update document verification: %w", err)
		}

		metadata := entity.JSON{
			"entity":     "booking_document",
			"entity_id":  doc.ID.String(),
			"booking_id": doc.BookingRequestID.String(),
			"status":     string(status),
		}
		if reason != "" && status == entity.VerificationRejected {
			metadata["reason"] = reason
		}
		return u.audit.Log(tx, &adminID, entity.AuditActionDocumentVerify, metadata)
	})
	if err != nil {
		if !isGuardError(err) {
			u.log.Warnf("Failed to verify document %s: %+v", documentID, err)
		}
		return nil, err
	}

	event := entity.NotificationDocumentVerified
	payload := entity.JSON{
		"reference_number": booking.ReferenceNumber,
		"document_id":      doc.ID.String(),
		"type":             string(doc.Type),
	}
	if status == entity.VerificationRejected {
		event = entity.NotificationDocumentRejected
		payload["reason"] = reason
	}
	u.dispatcher.Dispatch([]entity.PendingNotification{
		entity.NotifyUser(booking.UserID, event, &booking.ID, payload),
	})

	resp := converter.DocumentToResponse(doc)
	return &resp, nil
}

// ListDocuments returns the documents of a booking, newest first.
// Result files are left out for customers.
func (u *bookingDocumentUsecase) ListDocuments(ctx context.Context, bookingID uuid.UUID) (*dto.DocumentListResponse, error) {
	booking, isAdmin, err := u.authorize(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	docs, err := u.documentRepo.FindByBookingID(u.uow.Reader(ctx), booking.ID)
	if err != nil {
		u.log.Warnf("Failed to find documents of booking %s: %+v", bookingID, err)
		return nil, err
	}

	if !isAdmin {
		visible := docs[:0]
		for _, doc := range docs {
			if doc.Type.IsVisibleToCustomer() {
				visible = append(visible, doc)
			}
		}
		docs = visible
	}

	return &dto.DocumentListResponse{
		Documents: converter.DocumentsToResponses(docs),
		Total:     len(docs),
	}, nil
}

// GetResultAccess evaluates the release gate on the current documents and
// samples. Result documents are returned only when the gate is open.
func (u *bookingDocumentUsecase) GetResultAccess(ctx context.Context, bookingID uuid.UUID) (*dto.ResultAccessResponse, error) {
	booking, _, err := u.authorize(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	db := u.uow.Reader(ctx)
	docs, err := u.documentRepo.FindByBookingID(db, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to find documents of booking %s: %+v", bookingID, err)
		return nil, err
	}
	workspaces, err := u.workspaceRepo.FindByBookingID(db, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to find workspace bookings of booking %s: %+v", bookingID, err)
		return nil, err
	}
	samples, err := u.sampleRepo.FindByBookingID(db, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to find samples of booking %s: %+v", bookingID, err)
		return nil, err
	}

	completed := 0
	for _, s := range samples {
		if s.Status.IsCompleted() {
			completed++
		}
	}

	release := entity.EvaluateResultRelease(docs, len(workspaces) > 0, completed)
	resp := &dto.ResultAccessResponse{
		BookingID:         booking.ID,
		CanRelease:        release.CanRelease,
		RequiredDocuments: converter.DocumentTypesToStrings(release.RequiredDocuments),
		MissingDocuments:  converter.DocumentTypesToStrings(release.MissingDocuments),
		CompletedSamples:  release.CompletedSamples,
	}
	if !release.CanRelease {
		return resp, nil
	}

	for i := range docs {
		if docs[i].Type == entity.DocumentSampleResult && docs[i].VerificationStatus == entity.VerificationVerified {
			resp.Results = append(resp.Results, converter.DocumentToResponse(&docs[i]))
		}
	}
	return resp, nil
}

// authorize loads the booking for its owner or an admin
func (u *bookingDocumentUsecase) authorize(ctx context.Context, bookingID uuid.UUID) (*entity.BookingRequest, bool, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, false, err
	}
	isAdmin := middleware.IsAdminContext(ctx)

	booking, err := u.bookingRepo.FindByID(u.uow.Reader(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, false, err
	}
	if booking == nil {
		return nil, false, ErrBookingNotFound
	}
	if !isAdmin && !booking.IsOwnedBy(userID) {
		return nil, false, ErrBookingNotOwned
	}
	return booking, isAdmin, nil
}
