package server

import (
	"log"
	"net/http"

	"github.com/jonathan/apply-pilot/internal/server/middleware"
	"github.com/jonathan/apply-pilot/internal/types"
)

// JobSearchResponse is the body returned by GET /job-handler.
type JobSearchResponse struct {
	Jobs  []types.JobPosting `json:"jobs"`
	Count int                `json:"count"`
}

// handleJobSearch proxies a keyword search to the upstream job board.
// Results are classified and, when the caller has a stored CV, scored
// against it.
func (s *Server) handleJobSearch(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if s.jobSearch == nil {
		err := &ErrFeatureDisabled{Feature: "job search"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	what := r.URL.Query().Get("what")
	where := r.URL.Query().Get("where")
	if what == "" {
		s.errorResponse(w, http.StatusBadRequest, "Query parameter 'what' is required")
		return
	}

	// The stored CV is optional; search works without match scores.
	var cv *types.CVProfile
	if profile, err := s.db.GetUserProfile(r.Context(), userID); err != nil {
		log.Printf("[job-search] profile lookup failed for user %s: %v", userID, err)
	} else if profile != nil && len(profile.CV.Skills) > 0 {
		cv = &profile.CV
	}

	jobs, err := s.jobSearch.Search(r.Context(), what, where, cv)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Upstream job search failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, JobSearchResponse{Jobs: jobs, Count: len(jobs)})
}
