package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/middleware"
)

// SubmitRating handles POST /ratings.
func (s *Server) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var body SubmitRatingRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	rating, err := s.Ratings.Submit(r.Context(), middleware.UserID(r.Context()), domain.Rating{
		RatedUserID:     body.RatedUserID,
		InteractionID:   body.InteractionID,
		InteractionKind: domain.ListingKind(body.InteractionKind),
		Score:           body.Score,
		Comment:         body.Comment,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRatingResponse(rating))
}

// GetRatingEligibility handles GET /ratings/eligibility?interaction_id=...
func (s *Server) GetRatingEligibility(w http.ResponseWriter, r *http.Request) {
	interactionID, err := uuid.Parse(r.URL.Query().Get("interaction_id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), "interaction_id must be a UUID")
		return
	}
	ok, err := s.Ratings.CanRate(r.Context(), middleware.UserID(r.Context()), interactionID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EligibilityResponse{InteractionID: interactionID, CanRate: ok})
}

// ListUserRatings handles GET /users/{id}/ratings.
// It returns the user's average and count plus one page of history, newest first.
func (s *Server) ListUserRatings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	summary, err := s.Ratings.Summary(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	history, err := s.Ratings.ListFor(r.Context(), userID, page)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	items := make([]RatingResponse, len(history.Ratings))
	for i, rt := range history.Ratings {
		items[i] = toRatingResponse(rt)
	}
	writeJSON(w, http.StatusOK, UserRatingsResponse{
		UserID:  userID,
		Average: summary.Average,
		Count:   summary.Count,
		Ratings: items,
		Pagination: PaginationMeta{
			Page:  history.Page.Number,
			Limit: history.Page.Size,
			Total: history.Total,
		},
	})
}

// pageParams reads the optional page and limit query parameters.
// Missing values fall back to domain.NewPage's defaults; non-numeric ones are rejected.
func pageParams(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	var number, size *int
	for name, dst := range map[string]**int{"page": &number, "limit": &size} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), name+" must be an integer")
			return domain.Page{}, false
		}
		*dst = &n
	}
	return domain.NewPage(number, size), true
}
