package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// listingResponse carries the fields shared by both listing kinds.
type listingResponse struct {
	ID             uuid.UUID          `json:"id"`
	OwnerID        string             `json:"owner_id"`
	Origin         string             `json:"origin"`
	Destination    string             `json:"destination"`
	DepartureDate  openapi_types.Date `json:"departure_date"`
	DepartureTime  string             `json:"departure_time"`
	Status         string             `json:"status"`
	ServiceType    string             `json:"service_type"`
	AdditionalInfo string             `json:"additional_info"`
	IsExpired      bool               `json:"is_expired"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// DriverResponse is the wire form of a driver listing.
type DriverResponse struct {
	listingResponse
	AvailableSeats    int     `json:"available_seats"`
	HasTrailer        bool    `json:"has_trailer"`
	HasRooftopCarrier bool    `json:"has_rooftop_carrier"`
	VehicleInfo       string  `json:"vehicle_info"`
	Price             float64 `json:"price"`
}

// TripResponse is the wire form of a trip listing.
type TripResponse struct {
	listingResponse
	AdultsCount     int      `json:"adults_count"`
	ChildrenCount   int      `json:"children_count"`
	PassengersCount int      `json:"passengers_count"`
	Baggage23kg     int      `json:"baggage_23kg"`
	Baggage10kg     int      `json:"baggage_10kg"`
	BaggageBags     int      `json:"baggage_bags"`
	MaxPrice        *float64 `json:"max_price"`
}

// CreateDriverRequest is the body of POST /drivers.
type CreateDriverRequest struct {
	Origin            string              `json:"origin"`
	Destination       string              `json:"destination"`
	DepartureDate     *openapi_types.Date `json:"departure_date"`
	DepartureTime     string              `json:"departure_time"`
	ServiceType       string              `json:"service_type"`
	AvailableSeats    int                 `json:"available_seats"`
	HasTrailer        bool                `json:"has_trailer"`
	HasRooftopCarrier bool                `json:"has_rooftop_carrier"`
	VehicleInfo       string              `json:"vehicle_info"`
	Price             float64             `json:"price"`
	AdditionalInfo    string              `json:"additional_info"`
}

// UpdateDriverRequest is the body of PATCH /drivers/{id}. Route and owner are
// not fields here, so a body that names them is rejected while decoding.
type UpdateDriverRequest struct {
	DepartureDate     *openapi_types.Date `json:"departure_date"`
	DepartureTime     *string             `json:"departure_time"`
	ServiceType       *string             `json:"service_type"`
	AvailableSeats    *int                `json:"available_seats"`
	HasTrailer        *bool               `json:"has_trailer"`
	HasRooftopCarrier *bool               `json:"has_rooftop_carrier"`
	VehicleInfo       *string             `json:"vehicle_info"`
	Price             *float64            `json:"price"`
	AdditionalInfo    *string             `json:"additional_info"`
}

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Origin         string              `json:"origin"`
	Destination    string              `json:"destination"`
	DepartureDate  *openapi_types.Date `json:"departure_date"`
	DepartureTime  string              `json:"departure_time"`
	ServiceType    string              `json:"service_type"`
	AdultsCount    int                 `json:"adults_count"`
	ChildrenCount  int                 `json:"children_count"`
	Baggage23kg    int                 `json:"baggage_23kg"`
	Baggage10kg    int                 `json:"baggage_10kg"`
	BaggageBags    int                 `json:"baggage_bags"`
	MaxPrice       *float64            `json:"max_price"`
	AdditionalInfo string              `json:"additional_info"`
}

// UpdateTripRequest is the body of PATCH /trips/{id}.
// ClearMaxPrice removes a stated budget; it wins over MaxPrice.
type UpdateTripRequest struct {
	DepartureDate  *openapi_types.Date `json:"departure_date"`
	DepartureTime  *string             `json:"departure_time"`
	ServiceType    *string             `json:"service_type"`
	AdultsCount    *int                `json:"adults_count"`
	ChildrenCount  *int                `json:"children_count"`
	Baggage23kg    *int                `json:"baggage_23kg"`
	Baggage10kg    *int                `json:"baggage_10kg"`
	BaggageBags    *int                `json:"baggage_bags"`
	MaxPrice       *float64            `json:"max_price"`
	ClearMaxPrice  bool                `json:"clear_max_price"`
	AdditionalInfo *string             `json:"additional_info"`
}

// StatusRequest is the body of PUT /{kind}/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// ContactResponse is returned by POST /{kind}/{id}/contact.
type ContactResponse struct {
	Link          string       `json:"link"`
	Counterpart   counterpart  `json:"counterpart"`
	Route         string       `json:"route"`
	DepartureDate string       `json:"departure_date"`
	DepartureTime string       `json:"departure_time"`
	Capacity      string       `json:"capacity"`
	Summary       string       `json:"summary"`
	RatingTarget  ratingTarget `json:"rating_target"`
}

type counterpart struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ratingTarget struct {
	RatedUserID     string    `json:"rated_user_id"`
	InteractionID   uuid.UUID `json:"interaction_id"`
	InteractionKind string    `json:"interaction_kind"`
}

// SubmitRatingRequest is the body of POST /ratings.
type SubmitRatingRequest struct {
	RatedUserID     string    `json:"rated_user_id"`
	InteractionID   uuid.UUID `json:"interaction_id"`
	InteractionKind string    `json:"interaction_kind"`
	Score           int       `json:"score"`
	Comment         string    `json:"comment"`
}

// RatingResponse is the wire form of a rating.
type RatingResponse struct {
	ID              uuid.UUID `json:"id"`
	RaterUserID     string    `json:"rater_user_id"`
	RatedUserID     string    `json:"rated_user_id"`
	InteractionID   uuid.UUID `json:"interaction_id"`
	InteractionKind string    `json:"interaction_kind"`
	Score           int       `json:"score"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserRatingsResponse is returned by GET /users/{id}/ratings.
type UserRatingsResponse struct {
	UserID     string           `json:"user_id"`
	Average    float64          `json:"average"`
	Count      int64            `json:"count"`
	Ratings    []RatingResponse `json:"ratings"`
	Pagination PaginationMeta   `json:"pagination"`
}

// PaginationMeta describes the window returned by a paged endpoint.
type PaginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// EligibilityResponse answers whether the caller may still rate an interaction.
type EligibilityResponse struct {
	InteractionID uuid.UUID `json:"interaction_id"`
	CanRate       bool      `json:"can_rate"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	ActiveDrivers int       `json:"active_drivers"`
	ActiveTrips   int       `json:"active_trips"`
	TotalUsers    int64     `json:"total_users"`
	ComputedAt    time.Time `json:"computed_at"`
}

// ProfileRequest is the body of PUT /me/profile.
type ProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"`
}

// ProfileResponse is the wire form of a profile.
type ProfileResponse struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- mapping -----------------------------------------------------------------

func toListingResponse(l domain.Listing) listingResponse {
	return listingResponse{
		ID:             l.ID,
		OwnerID:        l.OwnerID,
		Origin:         string(l.Origin),
		Destination:    string(l.Destination),
		DepartureDate:  toDate(l.DepartureDate),
		DepartureTime:  l.DepartureTime,
		Status:         string(l.Status),
		ServiceType:    string(l.ServiceType),
		AdditionalInfo: l.AdditionalInfo,
		IsExpired:      l.Expired,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toDriverResponse(d domain.DriverListing) DriverResponse {
	return DriverResponse{
		listingResponse:   toListingResponse(d.Listing),
		AvailableSeats:    d.AvailableSeats,
		HasTrailer:        d.HasTrailer,
		HasRooftopCarrier: d.HasRooftopCarrier,
		VehicleInfo:       d.VehicleInfo,
		Price:             d.Price,
	}
}

func toDriverResponses(ds []domain.DriverListing) []DriverResponse {
	out := make([]DriverResponse, len(ds))
	for i, d := range ds {
		out[i] = toDriverResponse(d)
	}
	return out
}

func toTripResponse(t domain.TripListing) TripResponse {
	return TripResponse{
		listingResponse: toListingResponse(t.Listing),
		AdultsCount:     t.AdultsCount,
		ChildrenCount:   t.ChildrenCount,
		PassengersCount: t.PassengersCount(),
		Baggage23kg:     t.Baggage23kg,
		Baggage10kg:     t.Baggage10kg,
		BaggageBags:     t.BaggageBags,
		MaxPrice:        t.MaxPrice,
	}
}

func toTripResponses(ts []domain.TripListing) []TripResponse {
	out := make([]TripResponse, len(ts))
	for i, t := range ts {
		out[i] = toTripResponse(t)
	}
	return out
}

func toRatingResponse(r domain.Rating) RatingResponse {
	return RatingResponse{
		ID:              r.ID,
		RaterUserID:     r.RaterUserID,
		RatedUserID:     r.RatedUserID,
		InteractionID:   r.InteractionID,
		InteractionKind: string(r.InteractionKind),
		Score:           r.Score,
		Comment:         r.Comment,
		CreatedAt:       r.CreatedAt,
	}
}

func toProfileResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		UserType:  p.UserType,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// toDate converts a stored "YYYY-MM-DD" string to the wire date type.
// Stored dates are always canonical, so a parse failure yields the zero date.
func toDate(s string) openapi_types.Date {
	t, _ := time.Parse(domain.DateLayout, s)
	return openapi_types.Date{Time: t}
}

// fromDate renders a wire date in the domain's canonical layout.
func fromDate(d openapi_types.Date) string {
	return d.Format(domain.DateLayout)
}

func optionalDate(d *openapi_types.Date) *string {
	if d == nil {
		return nil
	}
	s := fromDate(*d)
	return &s
}

func optionalServiceType(s *string) *domain.ServiceType {
	if s == nil {
		return nil
	}
	st := domain.ServiceType(*s)
	return &st
}
