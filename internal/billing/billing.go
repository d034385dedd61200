// Package billing creates hosted payment-checkout sessions through the
// payment provider.
package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Service owns the payment-provider client. It is constructed once and
// injected into the request handlers; no package-level client state.
type Service struct {
	api            *client.API
	defaultPriceID string
	siteURL        string
}

// NewService creates a billing service for the given secret key,
// default price, and redirect base URL.
func NewService(secretKey, defaultPriceID, siteURL string) *Service {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Service{
		api:            api,
		defaultPriceID: defaultPriceID,
		siteURL:        siteURL,
	}
}

// CreateCheckoutSession creates a hosted checkout session for the given
// price identifier (falling back to the configured default) and returns
// the session ID.
func (s *Service) CreateCheckoutSession(priceID string) (string, error) {
	if priceID == "" {
		priceID = s.defaultPriceID
	}
	if priceID == "" {
		return "", fmt.Errorf("no price identifier configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.siteURL + "/dashboard?checkout=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.siteURL + "/pricing?checkout=cancelled"),
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.ID, nil
}
