package handler

import (
	"net/http"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/middleware"
)

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Trips.ListActive(r.Context(), listingFilter(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponses(ts))
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.DepartureDate == nil {
		writeError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), "departure_date is required")
		return
	}

	t, err := s.Trips.Create(r.Context(), middleware.UserID(r.Context()), domain.TripListing{
		Listing: domain.Listing{
			Origin:         domain.Location(body.Origin),
			Destination:    domain.Location(body.Destination),
			DepartureDate:  fromDate(*body.DepartureDate),
			DepartureTime:  body.DepartureTime,
			ServiceType:    domain.ServiceType(body.ServiceType),
			AdditionalInfo: body.AdditionalInfo,
		},
		AdultsCount:   body.AdultsCount,
		ChildrenCount: body.ChildrenCount,
		Baggage23kg:   body.Baggage23kg,
		Baggage10kg:   body.Baggage10kg,
		BaggageBags:   body.BaggageBags,
		MaxPrice:      body.MaxPrice,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripResponse(t))
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.Trips.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(t))
}

// UpdateTrip handles PATCH /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body UpdateTripRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	t, err := s.Trips.Update(r.Context(), id, middleware.UserID(r.Context()), domain.TripPatch{
		DepartureDate:  optionalDate(body.DepartureDate),
		DepartureTime:  body.DepartureTime,
		ServiceType:    optionalServiceType(body.ServiceType),
		AdultsCount:    body.AdultsCount,
		ChildrenCount:  body.ChildrenCount,
		Baggage23kg:    body.Baggage23kg,
		Baggage10kg:    body.Baggage10kg,
		BaggageBags:    body.BaggageBags,
		MaxPrice:       body.MaxPrice,
		ClearMaxPrice:  body.ClearMaxPrice,
		AdditionalInfo: body.AdditionalInfo,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(t))
}

// ChangeTripStatus handles PUT /trips/{id}/status.
func (s *Server) ChangeTripStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body StatusRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	t, err := s.Trips.ChangeStatus(r.Context(), id, middleware.UserID(r.Context()), domain.Status(body.Status))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(t))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.Trips.Delete(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyTrips handles GET /me/trips.
func (s *Server) ListMyTrips(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Trips.ListByOwner(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponses(ts))
}
