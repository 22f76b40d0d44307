package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/repo"
	"github.com/pkordes/serra-caronas/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset field panics, which flags an
// unexpected repo call.

type mockDriverRepo struct {
	create  func(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.DriverListing, error)
	list    func(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error)
	update  func(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockDriverRepo) Create(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error) {
	return m.create(ctx, d)
}
func (m *mockDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DriverListing, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverRepo) List(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error) {
	return m.list(ctx, f)
}
func (m *mockDriverRepo) Update(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error) {
	return m.update(ctx, d)
}
func (m *mockDriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockTripRepo struct {
	create  func(ctx context.Context, t domain.TripListing) (domain.TripListing, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TripListing, error)
	list    func(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error)
	update  func(ctx context.Context, t domain.TripListing) (domain.TripListing, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.TripListing) (domain.TripListing, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripListing, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error) {
	return m.list(ctx, f)
}
func (m *mockTripRepo) Update(ctx context.Context, t domain.TripListing) (domain.TripListing, error) {
	return m.update(ctx, t)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockRatingRepo struct {
	create      func(ctx context.Context, r domain.Rating) (domain.Rating, error)
	exists      func(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error)
	aggregate   func(ctx context.Context, userID string) (int64, int64, error)
	listByRated func(ctx context.Context, userID string, p domain.Page) ([]domain.Rating, int64, error)
}

func (m *mockRatingRepo) Create(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	return m.create(ctx, r)
}
func (m *mockRatingRepo) Exists(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error) {
	return m.exists(ctx, raterID, interactionID)
}
func (m *mockRatingRepo) Aggregate(ctx context.Context, userID string) (int64, int64, error) {
	return m.aggregate(ctx, userID)
}
func (m *mockRatingRepo) ListByRated(ctx context.Context, userID string, p domain.Page) ([]domain.Rating, int64, error) {
	return m.listByRated(ctx, userID, p)
}

type mockProfileRepo struct {
	getByUserID func(ctx context.Context, userID string) (domain.Profile, error)
	upsert      func(ctx context.Context, p domain.Profile) (domain.Profile, error)
	count       func(ctx context.Context) (int64, error)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	return m.getByUserID(ctx, userID)
}
func (m *mockProfileRepo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	return m.upsert(ctx, p)
}
func (m *mockProfileRepo) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}

// compile-time checks: the doubles must satisfy the repo interfaces.
var (
	_ repo.DriverRepo  = (*mockDriverRepo)(nil)
	_ repo.TripRepo    = (*mockTripRepo)(nil)
	_ repo.RatingRepo  = (*mockRatingRepo)(nil)
	_ repo.ProfileRepo = (*mockProfileRepo)(nil)
)

// recordingPublisher keeps every event it is given and returns err.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

var _ service.EventPublisher = (*recordingPublisher)(nil)

// fakeLinks renders a predictable link from the payload.
type fakeLinks struct{ err error }

func (f fakeLinks) Link(p domain.ContactPayload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "link:" + domain.PhoneDigits(p.CounterpartPhone), nil
}

var _ service.LinkBuilder = fakeLinks{}

// ---- clock and fixtures ----------------------------------------------------

// serra is a fixed UTC-3 zone, the offset the listings are published in.
var serra = time.FixedZone("BRT", -3*60*60)

var policy = domain.NewExpiryPolicy(serra)

// at returns a clock option pinned to the given wall time in serra.
func at(year int, month time.Month, day, hour, min int) service.Option {
	t := time.Date(year, month, day, hour, min, 0, 0, serra)
	return service.WithClock(func() time.Time { return t })
}

// morning is the default "now" for tests: the day of the fixtures' departure.
var morning = at(2025, time.March, 1, 10, 0)

func driverFixture(owner string) domain.DriverListing {
	return domain.DriverListing{
		Listing: domain.Listing{
			ID:            uuid.New(),
			OwnerID:       owner,
			Origin:        domain.PortoAlegre,
			Destination:   domain.Gramado,
			DepartureDate: "2025-03-01",
			DepartureTime: "14:00",
			Status:        domain.StatusActive,
			ServiceType:   domain.ServiceCollective,
		},
		AvailableSeats: 4,
	}
}

func tripFixture(owner string) domain.TripListing {
	return domain.TripListing{
		Listing: domain.Listing{
			ID:            uuid.New(),
			OwnerID:       owner,
			Origin:        domain.Gramado,
			Destination:   domain.CaxiasDoSul,
			DepartureDate: "2025-03-01",
			DepartureTime: "14:00",
			Status:        domain.StatusActive,
			ServiceType:   domain.ServiceCollective,
		},
		AdultsCount: 2,
	}
}

// driverStore returns a repo that serves d from GetByID and echoes writes.
func driverStore(d domain.DriverListing) *mockDriverRepo {
	return &mockDriverRepo{
		create: func(_ context.Context, in domain.DriverListing) (domain.DriverListing, error) { return in, nil },
		getByID: func(_ context.Context, id uuid.UUID) (domain.DriverListing, error) {
			if id != d.ID {
				return domain.DriverListing{}, domain.ErrNotFound
			}
			return d, nil
		},
		update: func(_ context.Context, in domain.DriverListing) (domain.DriverListing, error) { return in, nil },
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
}

func tripStore(t domain.TripListing) *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, in domain.TripListing) (domain.TripListing, error) { return in, nil },
		getByID: func(_ context.Context, id uuid.UUID) (domain.TripListing, error) {
			if id != t.ID {
				return domain.TripListing{}, domain.ErrNotFound
			}
			return t, nil
		},
		update: func(_ context.Context, in domain.TripListing) (domain.TripListing, error) { return in, nil },
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
}

func ptr[T any](v T) *T { return &v }
