package server

import (
	"net/http"

	"github.com/jonathan/apply-pilot/internal/server/middleware"
	"github.com/jonathan/apply-pilot/internal/types"
)

// ApplicationsResponse is the body returned by GET /applications.
type ApplicationsResponse struct {
	Applications []types.ApplicationRecord `json:"applications"`
	Count        int                       `json:"count"`
}

// handleListApplications returns the caller's application records,
// newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := s.db.ListApplicationsByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if records == nil {
		records = []types.ApplicationRecord{}
	}

	s.jsonResponse(w, http.StatusOK, ApplicationsResponse{
		Applications: records,
		Count:        len(records),
	})
}
