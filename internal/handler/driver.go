package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/middleware"
)

// ListDrivers handles GET /drivers.
// Only active, unexpired listings are returned.
func (s *Server) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ds, err := s.Drivers.ListActive(r.Context(), listingFilter(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverResponses(ds))
}

// CreateDriver handles POST /drivers.
func (s *Server) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var body CreateDriverRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.DepartureDate == nil {
		writeError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), "departure_date is required")
		return
	}

	d, err := s.Drivers.Create(r.Context(), middleware.UserID(r.Context()), domain.DriverListing{
		Listing: domain.Listing{
			Origin:         domain.Location(body.Origin),
			Destination:    domain.Location(body.Destination),
			DepartureDate:  fromDate(*body.DepartureDate),
			DepartureTime:  body.DepartureTime,
			ServiceType:    domain.ServiceType(body.ServiceType),
			AdditionalInfo: body.AdditionalInfo,
		},
		AvailableSeats:    body.AvailableSeats,
		HasTrailer:        body.HasTrailer,
		HasRooftopCarrier: body.HasRooftopCarrier,
		VehicleInfo:       body.VehicleInfo,
		Price:             body.Price,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDriverResponse(d))
}

// GetDriver handles GET /drivers/{id}.
// Expired listings are still returned, flagged with is_expired.
func (s *Server) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.Drivers.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverResponse(d))
}

// UpdateDriver handles PATCH /drivers/{id}.
func (s *Server) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body UpdateDriverRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	d, err := s.Drivers.Update(r.Context(), id, middleware.UserID(r.Context()), domain.DriverPatch{
		DepartureDate:     optionalDate(body.DepartureDate),
		DepartureTime:     body.DepartureTime,
		ServiceType:       optionalServiceType(body.ServiceType),
		AvailableSeats:    body.AvailableSeats,
		HasTrailer:        body.HasTrailer,
		HasRooftopCarrier: body.HasRooftopCarrier,
		VehicleInfo:       body.VehicleInfo,
		Price:             body.Price,
		AdditionalInfo:    body.AdditionalInfo,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverResponse(d))
}

// ChangeDriverStatus handles PUT /drivers/{id}/status.
func (s *Server) ChangeDriverStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body StatusRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	d, err := s.Drivers.ChangeStatus(r.Context(), id, middleware.UserID(r.Context()), domain.Status(body.Status))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverResponse(d))
}

// DeleteDriver handles DELETE /drivers/{id}.
func (s *Server) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.Drivers.Delete(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyDrivers handles GET /me/drivers.
func (s *Server) ListMyDrivers(w http.ResponseWriter, r *http.Request) {
	ds, err := s.Drivers.ListByOwner(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverResponses(ds))
}

// pathID parses the {id} URL parameter. A malformed id is answered with 422
// and ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// listingFilter reads the public search parameters shared by both listing kinds.
func listingFilter(r *http.Request) domain.ListingFilter {
	q := r.URL.Query()
	return domain.ListingFilter{
		Origin:        domain.Location(q.Get("origin")),
		Destination:   domain.Location(q.Get("destination")),
		DepartureDate: q.Get("date"),
	}
}
