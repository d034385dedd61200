package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "email exists", err: &ErrEmailAlreadyExists{Email: "a@b.c"}, want: http.StatusConflict},
		{name: "invalid credentials", err: &ErrInvalidCredentials{}, want: http.StatusUnauthorized},
		{name: "password mismatch", err: &ErrPasswordMismatch{}, want: http.StatusUnauthorized},
		{name: "user not found", err: &ErrUserNotFound{UserID: uuid.New()}, want: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Field: "jobs", Message: "required"}, want: http.StatusBadRequest},
		{name: "feature disabled", err: &ErrFeatureDisabled{Feature: "job search"}, want: http.StatusInternalServerError},
		{name: "unknown", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&ErrEmailAlreadyExists{Email: "a@b.c"}).Error(), "a@b.c")
	assert.Contains(t, (&ErrFeatureDisabled{Feature: "billing"}).Error(), "billing")
	assert.Contains(t, (&ErrValidation{Field: "jobs", Message: "required"}).Error(), "jobs")
}
