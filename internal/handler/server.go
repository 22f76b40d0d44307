// Package handler implements the HTTP handlers for the marketplace API.
// All handlers are methods on Server. Methods are split into resource files
// (driver.go, trip.go, rating.go, ...) but share the Server struct so they can
// reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/middleware"
)

// DriverServicer defines the driver listing operations the handlers depend on.
// Interfaces live here, in the consumer package, so tests can inject doubles.
type DriverServicer interface {
	Create(ctx context.Context, ownerID string, d domain.DriverListing) (domain.DriverListing, error)
	Get(ctx context.Context, id uuid.UUID) (domain.DriverListing, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, patch domain.DriverPatch) (domain.DriverListing, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.DriverListing, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
	ListActive(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.DriverListing, error)
}

// TripServicer defines the trip listing operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, ownerID string, t domain.TripListing) (domain.TripListing, error)
	Get(ctx context.Context, id uuid.UUID) (domain.TripListing, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, patch domain.TripPatch) (domain.TripListing, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.TripListing, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
	ListActive(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.TripListing, error)
}

// ContactServicer prepares off-platform contact with a listing owner.
type ContactServicer interface {
	ForDriver(ctx context.Context, listingID uuid.UUID, requesterID string) (domain.Contact, error)
	ForTrip(ctx context.Context, listingID uuid.UUID, requesterID string) (domain.Contact, error)
}

// RatingServicer records ratings and answers reputation queries.
type RatingServicer interface {
	Submit(ctx context.Context, raterID string, r domain.Rating) (domain.Rating, error)
	Summary(ctx context.Context, userID string) (domain.RatingSummary, error)
	ListFor(ctx context.Context, userID string, p domain.Page) (domain.RatingPage, error)
	CanRate(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error)
}

// StatsServicer computes the dashboard counters.
type StatsServicer interface {
	Get(ctx context.Context) (domain.Stats, error)
}

// ProfileServicer reads and saves the caller's public profile.
type ProfileServicer interface {
	Get(ctx context.Context, userID string) (domain.Profile, error)
	Save(ctx context.Context, userID string, p domain.Profile) (domain.Profile, error)
}

// Services bundles the Server's dependencies. A nil service leaves its
// routes answering 500, which only happens in tests that do not need them.
type Services struct {
	Drivers  DriverServicer
	Trips    TripServicer
	Contacts ContactServicer
	Ratings  RatingServicer
	Stats    StatsServicer
	Profiles ProfileServicer

	// ContactThrottle and RatingThrottle wrap the contact and rating
	// submission routes. Optional.
	ContactThrottle func(http.Handler) http.Handler
	RatingThrottle  func(http.Handler) http.Handler

	// OpenAPI is served verbatim at /openapi.yaml. Optional.
	OpenAPI []byte

	Logger *slog.Logger
}

// Server holds the handlers' dependencies.
type Server struct {
	Services
}

// NewServer constructs the Server with all its dependencies.
func NewServer(s Services) *Server {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.ContactThrottle == nil {
		s.ContactThrottle = passThrough
	}
	if s.RatingThrottle == nil {
		s.RatingThrottle = passThrough
	}
	return &Server{Services: s}
}

// Routes returns a router with every API endpoint registered. Cross-cutting
// middleware (request id, logging, authentication, CORS) is applied by the caller;
// routes that act on behalf of a user are additionally wrapped in requireCaller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/stats", s.GetStats)
	r.Get("/users/{id}/ratings", s.ListUserRatings)

	r.Route("/drivers", func(r chi.Router) {
		r.Get("/", s.ListDrivers)
		r.Get("/{id}", s.GetDriver)
		r.Group(func(r chi.Router) {
			r.Use(requireCaller)
			r.Post("/", s.CreateDriver)
			r.Patch("/{id}", s.UpdateDriver)
			r.Delete("/{id}", s.DeleteDriver)
			r.Put("/{id}/status", s.ChangeDriverStatus)
			r.With(s.ContactThrottle).Post("/{id}/contact", s.ContactDriver)
		})
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Get("/{id}", s.GetTrip)
		r.Group(func(r chi.Router) {
			r.Use(requireCaller)
			r.Post("/", s.CreateTrip)
			r.Patch("/{id}", s.UpdateTrip)
			r.Delete("/{id}", s.DeleteTrip)
			r.Put("/{id}/status", s.ChangeTripStatus)
			r.With(s.ContactThrottle).Post("/{id}/contact", s.ContactTrip)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireCaller)
		r.Get("/me/drivers", s.ListMyDrivers)
		r.Get("/me/trips", s.ListMyTrips)
		r.Get("/me/profile", s.GetMyProfile)
		r.Put("/me/profile", s.SaveMyProfile)
		r.With(s.RatingThrottle).Post("/ratings", s.SubmitRating)
		r.Get("/ratings/eligibility", s.GetRatingEligibility)
	})

	return r
}

// requireCaller rejects anonymous requests before their body is read, so an
// unauthenticated caller sees 401 rather than a validation error.
func requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.UserID(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, string(domain.KindUnauthenticated), "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func passThrough(next http.Handler) http.Handler { return next }
