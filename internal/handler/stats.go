package handler

import "net/http"

// GetStats handles GET /stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Stats.Get(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		ActiveDrivers: st.ActiveDrivers,
		ActiveTrips:   st.ActiveTrips,
		TotalUsers:    st.TotalUsers,
		ComputedAt:    st.ComputedAt,
	})
}
