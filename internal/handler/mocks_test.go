package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/handler"
	"github.com/pkordes/serra-caronas/internal/middleware"
)

// Each mock is a test double for one handler servicer interface.
// Set only the method fields your test needs.

type mockDriverServicer struct {
	create       func(ctx context.Context, ownerID string, d domain.DriverListing) (domain.DriverListing, error)
	get          func(ctx context.Context, id uuid.UUID) (domain.DriverListing, error)
	update       func(ctx context.Context, id uuid.UUID, ownerID string, p domain.DriverPatch) (domain.DriverListing, error)
	changeStatus func(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.DriverListing, error)
	delete       func(ctx context.Context, id uuid.UUID, ownerID string) error
	listActive   func(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error)
	listByOwner  func(ctx context.Context, ownerID string) ([]domain.DriverListing, error)
}

func (m *mockDriverServicer) Create(ctx context.Context, ownerID string, d domain.DriverListing) (domain.DriverListing, error) {
	return m.create(ctx, ownerID, d)
}
func (m *mockDriverServicer) Get(ctx context.Context, id uuid.UUID) (domain.DriverListing, error) {
	return m.get(ctx, id)
}
func (m *mockDriverServicer) Update(ctx context.Context, id uuid.UUID, ownerID string, p domain.DriverPatch) (domain.DriverListing, error) {
	return m.update(ctx, id, ownerID, p)
}
func (m *mockDriverServicer) ChangeStatus(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.DriverListing, error) {
	return m.changeStatus(ctx, id, ownerID, to)
}
func (m *mockDriverServicer) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	return m.delete(ctx, id, ownerID)
}
func (m *mockDriverServicer) ListActive(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error) {
	return m.listActive(ctx, f)
}
func (m *mockDriverServicer) ListByOwner(ctx context.Context, ownerID string) ([]domain.DriverListing, error) {
	return m.listByOwner(ctx, ownerID)
}

type mockTripServicer struct {
	create       func(ctx context.Context, ownerID string, t domain.TripListing) (domain.TripListing, error)
	get          func(ctx context.Context, id uuid.UUID) (domain.TripListing, error)
	update       func(ctx context.Context, id uuid.UUID, ownerID string, p domain.TripPatch) (domain.TripListing, error)
	changeStatus func(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.TripListing, error)
	delete       func(ctx context.Context, id uuid.UUID, ownerID string) error
	listActive   func(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error)
	listByOwner  func(ctx context.Context, ownerID string) ([]domain.TripListing, error)
}

func (m *mockTripServicer) Create(ctx context.Context, ownerID string, t domain.TripListing) (domain.TripListing, error) {
	return m.create(ctx, ownerID, t)
}
func (m *mockTripServicer) Get(ctx context.Context, id uuid.UUID) (domain.TripListing, error) {
	return m.get(ctx, id)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, ownerID string, p domain.TripPatch) (domain.TripListing, error) {
	return m.update(ctx, id, ownerID, p)
}
func (m *mockTripServicer) ChangeStatus(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.TripListing, error) {
	return m.changeStatus(ctx, id, ownerID, to)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	return m.delete(ctx, id, ownerID)
}
func (m *mockTripServicer) ListActive(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error) {
	return m.listActive(ctx, f)
}
func (m *mockTripServicer) ListByOwner(ctx context.Context, ownerID string) ([]domain.TripListing, error) {
	return m.listByOwner(ctx, ownerID)
}

type mockContactServicer struct {
	forDriver func(ctx context.Context, id uuid.UUID, requesterID string) (domain.Contact, error)
	forTrip   func(ctx context.Context, id uuid.UUID, requesterID string) (domain.Contact, error)
}

func (m *mockContactServicer) ForDriver(ctx context.Context, id uuid.UUID, requesterID string) (domain.Contact, error) {
	return m.forDriver(ctx, id, requesterID)
}
func (m *mockContactServicer) ForTrip(ctx context.Context, id uuid.UUID, requesterID string) (domain.Contact, error) {
	return m.forTrip(ctx, id, requesterID)
}

type mockRatingServicer struct {
	submit  func(ctx context.Context, raterID string, r domain.Rating) (domain.Rating, error)
	summary func(ctx context.Context, userID string) (domain.RatingSummary, error)
	listFor func(ctx context.Context, userID string, p domain.Page) (domain.RatingPage, error)
	canRate func(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error)
}

func (m *mockRatingServicer) Submit(ctx context.Context, raterID string, r domain.Rating) (domain.Rating, error) {
	return m.submit(ctx, raterID, r)
}
func (m *mockRatingServicer) Summary(ctx context.Context, userID string) (domain.RatingSummary, error) {
	return m.summary(ctx, userID)
}
func (m *mockRatingServicer) ListFor(ctx context.Context, userID string, p domain.Page) (domain.RatingPage, error) {
	return m.listFor(ctx, userID, p)
}
func (m *mockRatingServicer) CanRate(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error) {
	return m.canRate(ctx, raterID, interactionID)
}

type mockStatsServicer struct {
	get func(ctx context.Context) (domain.Stats, error)
}

func (m *mockStatsServicer) Get(ctx context.Context) (domain.Stats, error) { return m.get(ctx) }

type mockProfileServicer struct {
	get  func(ctx context.Context, userID string) (domain.Profile, error)
	save func(ctx context.Context, userID string, p domain.Profile) (domain.Profile, error)
}

func (m *mockProfileServicer) Get(ctx context.Context, userID string) (domain.Profile, error) {
	return m.get(ctx, userID)
}
func (m *mockProfileServicer) Save(ctx context.Context, userID string, p domain.Profile) (domain.Profile, error) {
	return m.save(ctx, userID, p)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.DriverServicer  = (*mockDriverServicer)(nil)
	_ handler.TripServicer    = (*mockTripServicer)(nil)
	_ handler.ContactServicer = (*mockContactServicer)(nil)
	_ handler.RatingServicer  = (*mockRatingServicer)(nil)
	_ handler.StatsServicer   = (*mockStatsServicer)(nil)
	_ handler.ProfileServicer = (*mockProfileServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const (
	alice = "user-alice"
	bob   = "user-bob"
)

// newHTTPHandler wires a Server with the given services the way main.go does,
// minus authentication: requests carry their caller via asUser.
func newHTTPHandler(svcs handler.Services) http.Handler {
	svcs.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(svcs).Routes()
}

// do sends a request through h. A non-empty userID is placed on the context
// as the authenticator middleware would.
func do(t *testing.T, h http.Handler, method, target, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the recorded response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// errorCode extracts error.code from an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, rec)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", rec.Body.String())
	return e["code"].(string)
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode(t, rec)["error"].(map[string]any)["message"].(string)
}

var stamp = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func driverFixture() domain.DriverListing {
	return domain.DriverListing{
		Listing: domain.Listing{
			ID:            uuid.New(),
			OwnerID:       alice,
			Origin:        domain.PortoAlegre,
			Destination:   domain.Gramado,
			DepartureDate: "2025-03-01",
			DepartureTime: "08:00",
			Status:        domain.StatusActive,
			ServiceType:   domain.ServiceCollective,
			CreatedAt:     stamp,
			UpdatedAt:     stamp,
		},
		AvailableSeats: 3,
		VehicleInfo:    "Spin branca",
		Price:          80,
	}
}

func tripFixture() domain.TripListing {
	budget := 120.0
	return domain.TripListing{
		Listing: domain.Listing{
			ID:            uuid.New(),
			OwnerID:       bob,
			Origin:        domain.Gramado,
			Destination:   domain.CaxiasDoSul,
			DepartureDate: "2025-03-02",
			DepartureTime: "14:30",
			Status:        domain.StatusActive,
			ServiceType:   domain.ServicePrivate,
			CreatedAt:     stamp,
			UpdatedAt:     stamp,
		},
		AdultsCount:   2,
		ChildrenCount: 1,
		Baggage23kg:   2,
		MaxPrice:      &budget,
	}
}
