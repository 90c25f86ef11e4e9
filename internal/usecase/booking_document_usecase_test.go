package usecase

import (
	"context"
	"testing"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(docType entity.DocumentType) *dto.UploadDocumentRequest {
	return &dto.UploadDocumentRequest{
		Type:     string(docType),
		FileName: string(docType) + ".pdf",
		FileURL:  "https://files.lab.example/" + string(docType) + ".pdf",
	}
}

func (f *fixture) uploadVerified(ctx, adminCtx context.Context, bookingID uuid.UUID, docType entity.DocumentType) {
	f.t.Helper()
	doc, err := f.documents.UploadDocument(ctx, bookingID, upload(docType))
	require.NoError(f.t, err)
	_, err = f.documents.VerifyDocument(adminCtx, doc.ID, &dto.VerifyDocumentRequest{Status: "verified"})
	require.NoError(f.t, err)
}

func TestUploadDocument_ByCustomer(t *testing.T) {
	f := newFixture(t)
	_, ctx := f.customer(true)
	_, stranger := f.customer(true)
	id := f.createDraft(ctx)

	doc, err := f.documents.UploadDocument(ctx, id, upload(entity.DocumentPaymentReceipt))
	require.NoError(t, err)
	assert.Equal(t, string(entity.VerificationPending), doc.VerificationStatus)
	require.Len(t, f.dispatcher.batches, 1)
	assert.Equal(t, entity.AudienceAdmins, f.dispatcher.batches[0][0].Audience)

	_, err = f.documents.UploadDocument(ctx, id, upload(entity.DocumentSampleResult))
	assert.ErrorIs(t, err, ErrDocumentTypeNotAllowed)

	_, err = f.documents.UploadDocument(stranger, id, upload(entity.DocumentPaymentReceipt))
	assert.ErrorIs(t, err, ErrBookingNotOwned)

	_, err = f.documents.UploadDocument(ctx, id, &dto.UploadDocumentRequest{Type: "passport"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUploadDocument_ByAdminIsVerified(t *testing.T) {
	f := newFixture(t)
	user, ctx := f.customer(true)
	adminID, adminCtx := f.adminContext()
	id := f.createDraft(ctx)

	doc, err := f.documents.UploadDocument(adminCtx, id, upload(entity.DocumentInvoice))
	require.NoError(t, err)

	assert.Equal(t, string(entity.VerificationVerified), doc.VerificationStatus)
	assert.Equal(t, &adminID, doc.VerifiedBy)
	require.Len(t, f.dispatcher.batches, 1)
	assert.Equal(t, user.ID, f.dispatcher.batches[0][0].RecipientID)
}

func TestUploadDocument_ClosedBooking(t *testing.T) {
	f := newFixture(t)
	_, ctx := f.customer(true)
	id := f.createDraft(ctx)
	_, err := f.bookings.Cancel(ctx, id, &dto.CancelBookingRequest{})
	require.NoError(t, err)

	_, err = f.documents.UploadDocument(ctx, id, upload(entity.DocumentServiceFormSigned))

	assert.ErrorIs(t, err, ErrBookingClosed)
	assert.Empty(t, f.store.documents)
}

func TestVerifyDocument(t *testing.T) {
	f := newFixture(t)
	user, ctx := f.customer(true)
	_, adminCtx := f.adminContext()
	id := f.createDraft(ctx)
	doc, err := f.documents.UploadDocument(ctx, id, upload(entity.DocumentServiceFormSigned))
	require.NoError(t, err)
	f.dispatcher.reset()

	_, err = f.documents.VerifyDocument(adminCtx, doc.ID, &dto.VerifyDocumentRequest{Status: "rejected"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "rejection_reason")

	rejected, err := f.documents.VerifyDocument(adminCtx, doc.ID, &dto.VerifyDocumentRequest{Status: "rejected", RejectionReason: "unsigned"})
	require.NoError(t, err)
	assert.Equal(t, "unsigned", rejected.RejectionReason)
	require.Len(t, f.dispatcher.batches, 1)
	n := f.dispatcher.batches[0][0]
	assert.Equal(t, entity.NotificationDocumentRejected, n.Event)
	assert.Equal(t, user.ID, n.RecipientID)

	_, err = f.documents.VerifyDocument(adminCtx, doc.ID, &dto.VerifyDocumentRequest{Status: "verified"})
	assert.ErrorIs(t, err, ErrDocumentAlreadyReviewed)

	_, err = f.documents.VerifyDocument(adminCtx, uuid.New(), &dto.VerifyDocumentRequest{Status: "verified"})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestListDocuments_HidesResultsFromCustomers(t *testing.T) {
	f := newFixture(t)
	_, ctx := f.customer(true)
	_, adminCtx := f.adminContext()
	id := f.createDraft(ctx)
	_, err := f.documents.UploadDocument(ctx, id, upload(entity.DocumentServiceFormSigned))
	require.NoError(t, err)
	_, err = f.documents.UploadDocument(adminCtx, id, upload(entity.DocumentSampleResult))
	require.NoError(t, err)

	mine, err := f.documents.ListDocuments(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, mine.Total)
	assert.Equal(t, string(entity.DocumentServiceFormSigned), mine.Documents[0].Type)

	all, err := f.documents.ListDocuments(adminCtx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, string(entity.DocumentSampleResult), all.Documents[0].Type)
}

func TestGetResultAccess(t *testing.T) {
	f := newFixture(t)
	_, ctx := f.customer(true)
	_, adminCtx := f.adminContext()
	analysis := f.labService(entity.ServiceCategoryAnalysis, 150000)
	id := f.approved(ctx, adminCtx, completeRequest(dto.ServiceItemInput{ServiceID: analysis, Quantity: 1}))
	_, err := f.documents.UploadDocument(adminCtx, id, upload(entity.DocumentSampleResult))
	require.NoError(t, err)

	gate, err := f.documents.GetResultAccess(ctx, id)
	require.NoError(t, err)
	assert.False(t, gate.CanRelease)
	assert.Equal(t, []string{"service_form_signed", "payment_receipt"}, gate.RequiredDocuments)
	assert.Equal(t, []string{"service_form_signed", "payment_receipt"}, gate.MissingDocuments)
	assert.Empty(t, gate.Results)

	f.uploadVerified(ctx, adminCtx, id, entity.DocumentServiceFormSigned)
	f.uploadVerified(ctx, adminCtx, id, entity.DocumentPaymentReceipt)

	// documents in place, but no sample has results yet
	gate, err = f.documents.GetResultAccess(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, gate.MissingDocuments)
	assert.False(t, gate.CanRelease)

	sampleID := f.sampleIDs(id)[0]
	_, err = f.samples.UpdateSampleStatus(adminCtx, sampleID, &dto.UpdateSampleStatusRequest{Status: "analysis_complete"})
	require.NoError(t, err)

	gate, err = f.documents.GetResultAccess(ctx, id)
	require.NoError(t, err)
	assert.True(t, gate.CanRelease)
	assert.Equal(t, 1, gate.CompletedSamples)
	require.Len(t, gate.Results, 1)
	assert.Equal(t, string(entity.DocumentSampleResult), gate.Results[0].Type)

	// a newer pending receipt closes the gate again
	_, err = f.documents.UploadDocument(ctx, id, upload(entity.DocumentPaymentReceipt))
	require.NoError(t, err)
	gate, err = f.documents.GetResultAccess(ctx, id)
	require.NoError(t, err)
	assert.False(t, gate.CanRelease)
	assert.Equal(t, []string{"payment_receipt"}, gate.MissingDocuments)
}
