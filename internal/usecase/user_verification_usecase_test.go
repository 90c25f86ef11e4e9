package usecase

import (
	"testing"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyUser_ReleasesWaitingBookings(t *testing.T) {
	f := newFixture(t)
	user, ctx := f.customer(false)
	_, adminCtx := f.adminContext()
	analysis := f.labService(entity.ServiceCategoryAnalysis, 150000)
	req := completeRequest(dto.ServiceItemInput{ServiceID: analysis, Quantity: 1})

	var waiting []uuid.UUID
	for i := 0; i < 3; i++ {
		id := f.createDraft(ctx)
		_, err := f.bookings.Submit(ctx, id, req)
		require.NoError(t, err)
		waiting = append(waiting, id)
	}
	draft := f.createDraft(ctx)
	f.dispatcher.reset()

	resp, err := f.verification.VerifyUser(adminCtx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.ReleasedBookings)
	assert.Equal(t, string(entity.AccountStatusActive), resp.User.AccountStatus)
	assert.NotNil(t, resp.User.VerifiedAt)
	for _, id := range waiting {
		assert.Equal(t, entity.BookingStatusPendingApproval, f.stored(id).Status)
	}
	assert.Equal(t, entity.BookingStatusDraft, f.stored(draft).Status)

	// one notification set, however many bookings moved
	require.Len(t, f.dispatcher.batches, 1)
	assert.Equal(t, []entity.NotificationEvent{
		entity.NotificationAccountVerified,
		entity.NotificationBookingsReleased,
	}, f.dispatcher.events())
	assert.Contains(t, f.auditActions(), entity.AuditActionUserVerify)

	// a later submission goes straight to approval
	next := f.createDraft(ctx)
	submitted, err := f.bookings.Submit(ctx, next, req)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusPendingApproval), submitted.Status)
}

func TestVerifyUser_NothingWaiting(t *testing.T) {
	f := newFixture(t)
	user, _ := f.customer(false)
	_, adminCtx := f.adminContext()

	resp, err := f.verification.VerifyUser(adminCtx, user.ID)
	require.NoError(t, err)

	assert.Zero(t, resp.ReleasedBookings)
	assert.Equal(t, []entity.NotificationEvent{entity.NotificationAccountVerified}, f.dispatcher.events())
}

func TestVerifyUser_Guards(t *testing.T) {
	f := newFixture(t)
	active, _ := f.customer(true)
	_, adminCtx := f.adminContext()

	_, err := f.verification.VerifyUser(adminCtx, active.ID)
	assert.ErrorIs(t, err, ErrUserAlreadyVerified)

	_, err = f.verification.VerifyUser(adminCtx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Empty(t, f.dispatcher.events())
}
