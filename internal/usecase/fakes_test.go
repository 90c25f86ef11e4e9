package usecase

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/delivery/http/middleware"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"
	"lab-booking-engine/internal/infrastructure/metrics"
	"lab-booking-engine/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memStore is an in-memory database shared by the fake repositories. Entities
// are stored by value without relations; reads return copies.
type memStore struct {
	users      map[uuid.UUID]entity.User
	bookings   map[uuid.UUID]entity.BookingRequest
	items      map[uuid.UUID]entity.ServiceItem
	workspaces map[uuid.UUID]entity.WorkspaceBooking
	addOns     map[uuid.UUID]entity.ServiceAddOn
	samples    map[uuid.UUID]entity.SampleTracking
	documents  map[uuid.UUID]entity.BookingDocument
	audits     []entity.AuditLog

	services map[uuid.UUID]entity.LabService
	pricing  []entity.ServicePricing
	catalog  map[uuid.UUID]entity.AddOnCatalog
	mappings []entity.ServiceAddOnMapping

	clock time.Time
	// createErrs are returned, in order, by the next booking inserts
	createErrs []error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]entity.User{},
		bookings:   map[uuid.UUID]entity.BookingRequest{},
		items:      map[uuid.UUID]entity.ServiceItem{},
		workspaces: map[uuid.UUID]entity.WorkspaceBooking{},
		addOns:     map[uuid.UUID]entity.ServiceAddOn{},
		samples:    map[uuid.UUID]entity.SampleTracking{},
		documents:  map[uuid.UUID]entity.BookingDocument{},
		services:   map[uuid.UUID]entity.LabService{},
		catalog:    map[uuid.UUID]entity.AddOnCatalog{},
		clock:      time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp for insertion order
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) snapshot() *memStore {
	return &memStore{
		users:      maps.Clone(s.users),
		bookings:   maps.Clone(s.bookings),
		items:      maps.Clone(s.items),
		workspaces: maps.Clone(s.workspaces),
		addOns:     maps.Clone(s.addOns),
		samples:    maps.Clone(s.samples),
		documents:  maps.Clone(s.documents),
		audits:     slices.Clone(s.audits),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.users = snap.users
	s.bookings = snap.bookings
	s.items = snap.items
	s.workspaces = snap.workspaces
	s.addOns = snap.addOns
	s.samples = snap.samples
	s.documents = snap.documents
	s.audits = snap.audits
}

// fakeUnitOfWork serializes transactions and rolls the store back when fn fails
type fakeUnitOfWork struct {
	mu    sync.Mutex
	store *memStore
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(tx *gorm.DB) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(nil); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *fakeUnitOfWork) Reader(context.Context) *gorm.DB {
	return nil
}

type fakeUserRepository struct{ s *memStore }

func (r *fakeUserRepository) Create(_ *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepository) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepository) FindAdminIDs(*gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, u := range r.s.users {
		if u.IsAdmin() {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *fakeUserRepository) UpdateAccountStatus(_ *gorm.DB, user *entity.User) error {
	stored := r.s.users[user.ID]
	stored.AccountStatus = user.AccountStatus
	stored.VerifiedAt = user.VerifiedAt
	r.s.users[user.ID] = stored
	return nil
}

type fakeBookingRepository struct{ s *memStore }

func (r *fakeBookingRepository) Create(_ *gorm.DB, booking *entity.BookingRequest) error {
	if len(r.s.createErrs) > 0 {
		err := r.s.createErrs[0]
		r.s.createErrs = r.s.createErrs[1:]
		return err
	}
	booking.ID = uuid.New()
	booking.CreatedAt = r.s.tick()
	booking.UpdatedAt = booking.CreatedAt
	r.s.bookings[booking.ID] = stripBooking(*booking)
	return nil
}

func (r *fakeBookingRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBookingRepository) FindByIDWithLineItems(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error) {
	b, err := r.FindByID(db, id)
	if err != nil || b == nil {
		return b, err
	}
	items, _ := (&fakeServiceItemRepository{r.s}).FindByBookingID(db, id)
	addOns, _ := (&fakeServiceAddOnRepository{r.s}).FindByBookingID(db, id)
	samples, _ := (&fakeSampleTrackingRepository{r.s}).FindByBookingID(db, id)
	for i := range items {
		for _, a := range addOns {
			if a.ServiceItemID != nil && *a.ServiceItemID == items[i].ID {
				items[i].AddOns = append(items[i].AddOns, a)
			}
		}
		for _, sample := range samples {
			if sample.ServiceItemID == items[i].ID {
				items[i].Samples = append(items[i].Samples, sample)
			}
		}
	}
	workspaces, _ := (&fakeWorkspaceBookingRepository{r.s}).FindByBookingID(db, id)
	for i := range workspaces {
		for _, a := range addOns {
			if a.WorkspaceBookingID != nil && *a.WorkspaceBookingID == workspaces[i].ID {
				workspaces[i].AddOns = append(workspaces[i].AddOns, a)
			}
		}
	}
	b.ServiceItems = items
	b.WorkspaceBookings = workspaces
	return b, nil
}

func (r *fakeBookingRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error) {
	return r.FindByID(db, id)
}

func (r *fakeBookingRepository) FindByUserID(_ *gorm.DB, userID uuid.UUID) ([]entity.BookingRequest, error) {
	var bookings []entity.BookingRequest
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

func (r *fakeBookingRepository) FindAll(_ *gorm.DB, filter repository.BookingFilter) ([]entity.BookingRequest, int64, error) {
	var matched []entity.BookingRequest
	for _, b := range r.s.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []entity.BookingRequest{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeBookingRepository) UpdateDetails(_ *gorm.DB, booking *entity.BookingRequest) error {
	stored := r.s.bookings[booking.ID]
	stored.ProjectDescription = booking.ProjectDescription
	stored.PreferredStartDate = booking.PreferredStartDate
	stored.PreferredEndDate = booking.PreferredEndDate
	stored.Notes = booking.Notes
	stored.BillingName = booking.BillingName
	stored.BillingEmail = booking.BillingEmail
	stored.BillingAddress = booking.BillingAddress
	stored.BillingPhone = booking.BillingPhone
	r.s.bookings[booking.ID] = stored
	return nil
}

func (r *fakeBookingRepository) UpdateTotal(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	stored := r.s.bookings[id]
	stored.TotalAmount = total
	r.s.bookings[id] = stored
	return nil
}

func (r *fakeBookingRepository) ApplyTransition(_ *gorm.DB, t *entity.Transition) (int64, error) {
	stored, ok := r.s.bookings[t.BookingID]
	if !ok || stored.Status != t.From {
		return 0, nil
	}
	stored.Apply(t)
	r.s.bookings[t.BookingID] = stored
	return 1, nil
}

func (r *fakeBookingRepository) ReleaseAfterUserVerification(_ *gorm.DB, userID uuid.UUID) (int64, error) {
	var moved int64
	for id, b := range r.s.bookings {
		if b.UserID == userID && b.Status == entity.BookingStatusPendingUserVerification {
			b.Status = entity.BookingStatusPendingApproval
			r.s.bookings[id] = b
			moved++
		}
	}
	return moved, nil
}

func (r *fakeBookingRepository) Delete(_ *gorm.DB, id uuid.UUID) error {
	delete(r.s.bookings, id)
	for itemID, item := range r.s.items {
		if item.BookingRequestID == id {
			delete(r.s.items, itemID)
		}
	}
	for wsID, ws := range r.s.workspaces {
		if ws.BookingRequestID == id {
			delete(r.s.workspaces, wsID)
		}
	}
	return nil
}

// staleBookingRepository hands out a booking whose status lags behind the stored
// row, as if another writer changed it after the read
type staleBookingRepository struct {
	*fakeBookingRepository
	seenStatus entity.BookingStatus
}

func (r *staleBookingRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.BookingRequest, error) {
	b, err := r.FindByID(db, id)
	if err != nil || b == nil {
		return b, err
	}
	b.Status = r.seenStatus
	return b, nil
}

func stripBooking(b entity.BookingRequest) entity.BookingRequest {
	b.User = nil
	b.ServiceItems = nil
	b.WorkspaceBookings = nil
	return b
}

type fakeServiceItemRepository struct{ s *memStore }

func (r *fakeServiceItemRepository) FindByBookingID(_ *gorm.DB, bookingID uuid.UUID) ([]entity.ServiceItem, error) {
	var items []entity.ServiceItem
	for _, item := range r.s.items {
		if item.BookingRequestID == bookingID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *fakeServiceItemRepository) Save(_ *gorm.DB, item *entity.ServiceItem) error {
	if stored, ok := r.s.items[item.ID]; ok {
		item.CreatedAt = stored.CreatedAt
	} else {
		item.CreatedAt = r.s.tick()
	}
	copied := *item
	copied.Service = entity.LabService{}
	copied.AddOns = nil
	copied.Samples = nil
	r.s.items[item.ID] = copied
	return nil
}

func (r *fakeServiceItemRepository) DeleteByIDs(_ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.s.items, id)
	}
	return nil
}

type fakeWorkspaceBookingRepository struct{ s *memStore }

func (r *fakeWorkspaceBookingRepository) FindByBookingID(_ *gorm.DB, bookingID uuid.UUID) ([]entity.WorkspaceBooking, error) {
	var workspaces []entity.WorkspaceBooking
	for _, ws := range r.s.workspaces {
		if ws.BookingRequestID == bookingID {
			workspaces = append(workspaces, ws)
		}
	}
	sort.Slice(workspaces, func(i, j int) bool { return workspaces[i].CreatedAt.Before(workspaces[j].CreatedAt) })
	return workspaces, nil
}

func (r *fakeWorkspaceBookingRepository) Save(_ *gorm.DB, ws *entity.WorkspaceBooking) error {
	if stored, ok := r.s.workspaces[ws.ID]; ok {
		ws.CreatedAt = stored.CreatedAt
	} else {
		ws.CreatedAt = r.s.tick()
	}
	copied := *ws
	copied.AddOns = nil
	r.s.workspaces[ws.ID] = copied
	return nil
}

func (r *fakeWorkspaceBookingRepository) DeleteByIDs(_ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.s.workspaces, id)
	}
	return nil
}

func (r *fakeWorkspaceBookingRepository) FindOverlapping(_ *gorm.DB, start, end time.Time) ([]entity.WorkspaceBooking, error) {
	var overlapping []entity.WorkspaceBooking
	for _, ws := range r.s.workspaces {
		switch r.s.bookings[ws.BookingRequestID].Status {
		case entity.BookingStatusPendingApproval, entity.BookingStatusApproved, entity.BookingStatusInProgress:
		default:
			continue
		}
		if !ws.StartDate.After(end) && !ws.EndDate.Before(start) {
			overlapping = append(overlapping, ws)
		}
	}
	sort.Slice(overlapping, func(i, j int) bool { return overlapping[i].StartDate.Before(overlapping[j].StartDate) })
	return overlapping, nil
}

type fakeServiceAddOnRepository struct{ s *memStore }

func (r *fakeServiceAddOnRepository) FindByBookingID(_ *gorm.DB, bookingID uuid.UUID) ([]entity.ServiceAddOn, error) {
	var addOns []entity.ServiceAddOn
	for _, a := range r.s.addOns {
		if a.BookingRequestID == bookingID {
			addOns = append(addOns, a)
		}
	}
	sort.Slice(addOns, func(i, j int) bool { return addOns[i].Name < addOns[j].Name })
	return addOns, nil
}

func (r *fakeServiceAddOnRepository) CreateBatch(_ *gorm.DB, addOns []entity.ServiceAddOn) error {
	for _, a := range addOns {
		r.s.addOns[a.ID] = a
	}
	return nil
}

func (r *fakeServiceAddOnRepository) DeleteByBookingID(_ *gorm.DB, bookingID uuid.UUID) error {
	for id, a := range r.s.addOns {
		if a.BookingRequestID == bookingID {
			delete(r.s.addOns, id)
		}
	}
	return nil
}

type fakeSampleTrackingRepository struct{ s *memStore }

func (r *fakeSampleTrackingRepository) CreateBatch(_ *gorm.DB, samples []entity.SampleTracking) error {
	for _, sample := range samples {
		r.s.samples[sample.ID] = sample
	}
	return nil
}

func (r *fakeSampleTrackingRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.SampleTracking, error) {
	sample, ok := r.s.samples[id]
	if !ok {
		return nil, nil
	}
	return &sample, nil
}

func (r *fakeSampleTrackingRepository) FindByBookingID(_ *gorm.DB, bookingID uuid.UUID) ([]entity.SampleTracking, error) {
	var samples []entity.SampleTracking
	for _, sample := range r.s.samples {
		if sample.BookingRequestID == bookingID {
			samples = append(samples, sample)
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].SampleCode < samples[j].SampleCode })
	return samples, nil
}

func (r *fakeSampleTrackingRepository) Update(_ *gorm.DB, sample *entity.SampleTracking) error {
	r.s.samples[sample.ID] = *sample
	return nil
}

func (r *fakeSampleTrackingRepository) DeleteByBookingID(_ *gorm.DB, bookingID uuid.UUID) error {
	for id, sample := range r.s.samples {
		if sample.BookingRequestID == bookingID {
			delete(r.s.samples, id)
		}
	}
	return nil
}

type fakeBookingDocumentRepository struct{ s *memStore }

func (r *fakeBookingDocumentRepository) Create(_ *gorm.DB, doc *entity.BookingDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = r.s.tick()
	r.s.documents[doc.ID] = *doc
	return nil
}

func (r *fakeBookingDocumentRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.BookingDocument, error) {
	doc, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *fakeBookingDocumentRepository) FindByBookingID(_ *gorm.DB, bookingID uuid.UUID) ([]entity.BookingDocument, error) {
	var docs []entity.BookingDocument
	for _, doc := range r.s.documents {
		if doc.BookingRequestID == bookingID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

func (r *fakeBookingDocumentRepository) UpdateVerification(_ *gorm.DB, doc *entity.BookingDocument) error {
	r.s.documents[doc.ID] = *doc
	return nil
}

func (r *fakeBookingDocumentRepository) DeleteByBookingID(_ *gorm.DB, bookingID uuid.UUID) error {
	for id, doc := range r.s.documents {
		if doc.BookingRequestID == bookingID {
			delete(r.s.documents, id)
		}
	}
	return nil
}

type fakeAuditLogRepository struct{ s *memStore }

func (r *fakeAuditLogRepository) Create(_ *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(r.s.audits) + 1)
	log.CreatedAt = r.s.tick()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

func (r *fakeAuditLogRepository) FindAll(*gorm.DB) ([]entity.AuditLog, error) {
	logs := slices.Clone(r.s.audits)
	slices.Reverse(logs)
	return logs, nil
}

func (r *fakeAuditLogRepository) FindByID(_ *gorm.DB, id int64) (*entity.AuditLog, error) {
	for _, log := range r.s.audits {
		if log.ID == id {
			return &log, nil
		}
	}
	return nil, nil
}

type fakeLabServiceRepository struct{ s *memStore }

func (r *fakeLabServiceRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.LabService, error) {
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (r *fakeLabServiceRepository) FindActiveByCategory(_ *gorm.DB, category entity.ServiceCategory) (*entity.LabService, error) {
	for _, svc := range r.s.services {
		if svc.Category == category && svc.IsActive {
			return &svc, nil
		}
	}
	return nil, nil
}

func (r *fakeLabServiceRepository) FindAllActive(*gorm.DB) ([]entity.LabService, error) {
	var active []entity.LabService
	for _, svc := range r.s.services {
		if svc.IsActive {
			active = append(active, svc)
		}
	}
	return active, nil
}

type fakeServicePricingRepository struct{ s *memStore }

func (r *fakeServicePricingRepository) FindByServiceAndUserType(_ *gorm.DB, serviceID uuid.UUID, userType entity.UserType) ([]entity.ServicePricing, error) {
	var rows []entity.ServicePricing
	for _, row := range r.s.pricing {
		if row.ServiceID == serviceID && row.UserType == userType {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

type fakeAddOnRepository struct{ s *memStore }

func (r *fakeAddOnRepository) FindCatalogByID(_ *gorm.DB, id uuid.UUID) (*entity.AddOnCatalog, error) {
	a, ok := r.s.catalog[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAddOnRepository) FindMapping(_ *gorm.DB, serviceID, addOnID uuid.UUID) (*entity.ServiceAddOnMapping, error) {
	for _, m := range r.s.mappings {
		if m.ServiceID == serviceID && m.AddOnID == addOnID {
			return &m, nil
		}
	}
	return nil, nil
}

// fakeReferences hands out sequential reference numbers, repeating them when asked
type fakeReferences struct {
	mu      sync.Mutex
	next    int
	repeats int
}

func (f *fakeReferences) Next(context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.repeats > 0 {
		f.repeats--
	} else {
		f.next++
	}
	return fmt.Sprintf("LAB-20261016-%04d", f.next)
}

type recordingDispatcher struct {
	mu      sync.Mutex
	batches [][]entity.PendingNotification
}

func (d *recordingDispatcher) Dispatch(notifications []entity.PendingNotification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batches = append(d.batches, notifications)
}

func (d *recordingDispatcher) Stop() {}

func (d *recordingDispatcher) events() []entity.NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var events []entity.NotificationEvent
	for _, batch := range d.batches {
		for _, n := range batch {
			events = append(events, n.Event)
		}
	}
	return events
}

func (d *recordingDispatcher) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batches = nil
}

// fixture wires the usecases over the in-memory store with the real pricing,
// audit and locking services
type fixture struct {
	t          *testing.T
	store      *memStore
	uow        *fakeUnitOfWork
	recorder   *metrics.Recorder
	dispatcher *recordingDispatcher
	references *fakeReferences
	locker     *service.BookingLocker
	now        time.Time

	bookingRepo *fakeBookingRepository

	bookings     *bookingRequestUsecase
	admin        *adminBookingUsecase
	samples      *sampleTrackingUsecase
	documents    *bookingDocumentUsecase
	verification *userVerificationUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := newMemStore()
	f := &fixture{
		t:           t,
		store:       store,
		uow:         &fakeUnitOfWork{store: store},
		recorder:    metrics.NewRecorder(),
		dispatcher:  &recordingDispatcher{},
		references:  &fakeReferences{},
		locker:      service.NewBookingLocker(log, time.Hour),
		now:         time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		bookingRepo: &fakeBookingRepository{store},
	}
	t.Cleanup(f.locker.Stop)

	userRepo := &fakeUserRepository{store}
	itemRepo := &fakeServiceItemRepository{store}
	workspaceRepo := &fakeWorkspaceBookingRepository{store}
	addOnRepo := &fakeServiceAddOnRepository{store}
	sampleRepo := &fakeSampleTrackingRepository{store}
	documentRepo := &fakeBookingDocumentRepository{store}
	serviceRepo := &fakeLabServiceRepository{store}

	audit := service.NewAuditService(log, &fakeAuditLogRepository{store})
	resolver := service.NewPricingResolver(log, serviceRepo, &fakeServicePricingRepository{store}, &fakeAddOnRepository{store})
	normalizer := service.NewLineItemNormalizer(serviceRepo, resolver)
	clock := func() time.Time { return f.now }

	f.bookings = NewBookingRequestUsecase(f.uow, log, f.recorder, userRepo, f.bookingRepo, itemRepo, workspaceRepo,
		addOnRepo, sampleRepo, documentRepo, normalizer, f.references, audit, f.dispatcher, f.locker).(*bookingRequestUsecase)
	f.bookings.now = clock

	f.admin = NewAdminBookingUsecase(f.uow, log, f.recorder, f.bookingRepo, itemRepo, workspaceRepo, sampleRepo,
		audit, f.dispatcher, f.locker).(*adminBookingUsecase)
	f.admin.now = clock

	f.samples = NewSampleTrackingUsecase(f.uow, log, f.recorder, f.bookingRepo, sampleRepo, audit, f.dispatcher, f.locker).(*sampleTrackingUsecase)
	f.samples.now = clock

	f.documents = NewBookingDocumentUsecase(f.uow, log, f.bookingRepo, workspaceRepo, sampleRepo, documentRepo, audit, f.dispatcher).(*bookingDocumentUsecase)
	f.documents.now = clock

	f.verification = NewUserVerificationUsecase(f.uow, log, f.recorder, userRepo, f.bookingRepo, audit, f.dispatcher).(*userVerificationUsecase)
	f.verification.now = clock

	return f
}

// customer registers an academic customer and returns a context acting as them
func (f *fixture) customer(active bool) (*entity.User, context.Context) {
	status := entity.AccountStatusPendingVerification
	if active {
		status = entity.AccountStatusActive
	}
	user := entity.User{
		ID:            uuid.New(),
		RoleID:        entity.RoleIDCustomer,
		Email:         uuid.NewString() + "@uni.example",
		FullName:      "Dr. Sari Wulandari",
		UserType:      entity.UserTypeAcademic,
		AccountStatus: status,
	}
	f.store.users[user.ID] = user
	return &user, middleware.WithIdentity(context.Background(), user.ID, entity.RoleIDCustomer)
}

func (f *fixture) adminContext() (uuid.UUID, context.Context) {
	admin := entity.User{
		ID:            uuid.New(),
		RoleID:        entity.RoleIDAdmin,
		Email:         uuid.NewString() + "@lab.example",
		FullName:      "Lab Admin",
		UserType:      entity.UserTypeInternal,
		AccountStatus: entity.AccountStatusActive,
	}
	f.store.users[admin.ID] = admin
	return admin.ID, middleware.WithIdentity(context.Background(), admin.ID, entity.RoleIDAdmin)
}

// labService adds an active catalog service with an academic price effective since January
func (f *fixture) labService(category entity.ServiceCategory, price int64) uuid.UUID {
	svc := entity.LabService{ID: uuid.New(), Name: string(category), Category: category, IsActive: true}
	f.store.services[svc.ID] = svc
	f.store.pricing = append(f.store.pricing, entity.ServicePricing{
		ID:            uuid.New(),
		ServiceID:     svc.ID,
		UserType:      entity.UserTypeAcademic,
		Price:         decimal.NewFromInt(price),
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return svc.ID
}

// unpricedService adds an active service without any price row
func (f *fixture) unpricedService() uuid.UUID {
	svc := entity.LabService{ID: uuid.New(), Name: "unpriced", Category: entity.ServiceCategoryTesting, IsActive: true}
	f.store.services[svc.ID] = svc
	return svc.ID
}

func completeRequest(items ...dto.ServiceItemInput) *dto.SaveDraftRequest {
	return &dto.SaveDraftRequest{
		ProjectDescription: "XRD characterisation of perovskite films",
		BillingName:        "Universitas Contoh",
		BillingEmail:       "finance@uni.example",
		BillingAddress:     "Jl. Ganesha 10, Bandung",
		ServiceItems:       items,
	}
}

func (f *fixture) createDraft(ctx context.Context) uuid.UUID {
	f.t.Helper()
	resp, err := f.bookings.CreateDraft(ctx)
	require.NoError(f.t, err)
	return resp.ID
}

// submitted returns a booking of an active customer waiting for approval
func (f *fixture) submitted(ctx context.Context, req *dto.SaveDraftRequest) uuid.UUID {
	f.t.Helper()
	id := f.createDraft(ctx)
	resp, err := f.bookings.Submit(ctx, id, req)
	require.NoError(f.t, err)
	require.Equal(f.t, string(entity.BookingStatusPendingApproval), resp.Status)
	return id
}

// approved returns an approved booking with its samples opened
func (f *fixture) approved(ctx, adminCtx context.Context, req *dto.SaveDraftRequest) uuid.UUID {
	f.t.Helper()
	id := f.submitted(ctx, req)
	_, err := f.admin.Approve(adminCtx, id, &dto.ReviewBookingRequest{Note: "ok"})
	require.NoError(f.t, err)
	return id
}

func (f *fixture) stored(id uuid.UUID) entity.BookingRequest {
	f.t.Helper()
	b, ok := f.store.bookings[id]
	require.True(f.t, ok, "booking %s not stored", id)
	return b
}

func (f *fixture) auditActions() []string {
	actions := make([]string, 0, len(f.store.audits))
	for _, a := range f.store.audits {
		actions = append(actions, a.Action)
	}
	return actions
}
