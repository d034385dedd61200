package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/apply-pilot/internal/types"
)

// CheckoutResponse is the body returned by POST /create-checkout-session.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
}

// handleCreateCheckoutSession creates a hosted subscription-checkout
// session and returns its ID for client-side redirection.
func (s *Server) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if s.billing == nil {
		err := &ErrFeatureDisabled{Feature: "billing"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// The body is optional; an empty body selects the default price.
	var req types.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sessionID, err := s.billing.CreateCheckoutSession(req.PriceID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create checkout session: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, CheckoutResponse{SessionID: sessionID})
}
