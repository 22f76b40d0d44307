package handler

import (
	"net/http"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/middleware"
)

// GetMyProfile handles GET /me/profile.
func (s *Server) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.Profiles.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// SaveMyProfile handles PUT /me/profile. The profile is created on first save.
func (s *Server) SaveMyProfile(w http.ResponseWriter, r *http.Request) {
	var body ProfileRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := s.Profiles.Save(r.Context(), middleware.UserID(r.Context()), domain.Profile{
		FullName: body.FullName,
		Phone:    body.Phone,
		UserType: body.UserType,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}
