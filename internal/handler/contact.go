package handler

import (
	"net/http"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/middleware"
	"github.com/pkordes/serra-caronas/internal/whatsapp"
)

// ContactDriver handles POST /drivers/{id}/contact.
// The response carries a WhatsApp deep link addressed to the driver.
func (s *Server) ContactDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.Contacts.ForDriver(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponse(c))
}

// ContactTrip handles POST /trips/{id}/contact.
func (s *Server) ContactTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.Contacts.ForTrip(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponse(c))
}

func toContactResponse(c domain.Contact) ContactResponse {
	return ContactResponse{
		Link: c.Link,
		Counterpart: counterpart{
			Name:  c.Payload.CounterpartName,
			Phone: whatsapp.FormatPhone(c.Payload.CounterpartPhone),
		},
		Route:         c.Payload.Route,
		DepartureDate: c.Payload.DepartureDate,
		DepartureTime: c.Payload.DepartureTime,
		Capacity:      c.Payload.CapacityOrNeed,
		Summary:       c.Payload.VehicleOrBaggageSummary,
		RatingTarget: ratingTarget{
			RatedUserID:     c.Rate.RatedUserID,
			InteractionID:   c.Rate.InteractionID,
			InteractionKind: string(c.Rate.InteractionKind),
		},
	}
}
