package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/db"
	"github.com/jonathan/apply-pilot/internal/schemas"
	"github.com/jonathan/apply-pilot/internal/server/middleware"
	"github.com/jonathan/apply-pilot/internal/types"
)

// maxApplyBody bounds the request body of the batch endpoints.
const maxApplyBody = 1 << 20 // 1 MiB

// handleApplyJobs runs the whole batch through the simulated
// dispatcher and reports per-job outcomes.
func (s *Server) handleApplyJobs(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := s.decodeApplyRequest(w, r)
	if !ok {
		return
	}

	if err := s.upsertProfile(r, userID, &req.UserProfile); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	summary, err := s.dispatch.Simulated().ProcessBatch(r.Context(), req.Jobs, &req.UserProfile, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Batch dispatch failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ApplyResponse{
		Success: true,
		Message: fmt.Sprintf("Processed %d applications: %d submitted, %d failed",
			summary.Total, summary.Successful, summary.Failed),
		Results: summary.Results,
		Summary: types.Counts(summary),
	})
}

// applyVariant builds the handler for one per-type apply endpoint.
// All of the batch runs through the strategy owning the given
// application type, regardless of each job's own classification tag.
func (s *Server) applyVariant(t types.ApplicationType) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, req, ok := s.decodeApplyRequest(w, r)
		if !ok {
			return
		}

		if err := s.upsertProfile(r, userID, &req.UserProfile); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}

		summary, err := s.dispatch.ForType(t).ProcessBatch(r.Context(), req.Jobs, &req.UserProfile, userID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Batch dispatch failed: "+err.Error())
			return
		}

		s.jsonResponse(w, http.StatusOK, types.VariantResponse{
			Summary: types.Counts(summary),
			Jobs:    summary.Results,
		})
	})
}

// decodeApplyRequest authenticates, reads and validates the shared
// batch request body. On failure it writes the error response and
// returns ok=false.
func (s *Server) decodeApplyRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, *types.ApplyRequest, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxApplyBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return uuid.Nil, nil, false
	}

	// Schema first: it rejects shape errors with field paths before any
	// typed decoding happens.
	if err := schemas.ValidateApplyPayload(body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, nil, false
	}

	var req types.ApplyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return uuid.Nil, nil, false
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return uuid.Nil, nil, false
	}

	return userID, &req, true
}

// upsertProfile persists the submitted profile before dispatch so the
// stored profile always reflects what the batch was filled with.
func (s *Server) upsertProfile(r *http.Request, userID uuid.UUID, profile *types.UserProfile) error {
	err := s.db.UpsertUserProfile(r.Context(), &db.ProfileUpsert{
		UserID:    userID,
		FullName:  profile.FullName,
		Email:     profile.Email,
		Phone:     profile.Phone,
		Location:  profile.Location,
		Portfolio: profile.Portfolio,
		LinkedIn:  profile.LinkedIn,
		CV:        profile.CV,
	})
	if err != nil {
		log.Printf("[apply] profile upsert failed for user %s: %v", userID, err)
	}
	return err
}
