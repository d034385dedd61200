package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ApplyRequest is the body of every batch-dispatch endpoint.
type ApplyRequest struct {
	Jobs        []JobPosting `json:"jobs" validate:"required,min=1,dive"`
	UserProfile UserProfile  `json:"userProfile" validate:"required"`
}

// ApplyResponse is the body returned by POST /apply-jobs.
type ApplyResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Results []JobResult `json:"results"`
	Summary SummaryView `json:"summary"`
}

// VariantResponse is the body returned by the per-variant apply endpoints.
type VariantResponse struct {
	Summary SummaryView `json:"summary"`
	Jobs    []JobResult `json:"jobs"`
}

// SummaryView is the count-only projection of a BatchSummary.
type SummaryView struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// Counts projects a BatchSummary into its summary counts.
func Counts(s *BatchSummary) SummaryView {
	return SummaryView{Successful: s.Successful, Failed: s.Failed, Total: s.Total}
}

// CreateUserRequest represents the request to create a new user with password authentication.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user account for API responses (avoids import cycle with db package).
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// CheckoutRequest asks for a hosted payment-checkout session.
type CheckoutRequest struct {
	PriceID string `json:"priceId,omitempty"`
}

// Validate validates the ApplyRequest using the validator.
func (r *ApplyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
