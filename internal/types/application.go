// Package types provides type definitions for structured data used throughout the apply-pilot system.
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the lifecycle status of an application record.
type ApplicationStatus string

const (
	// StatusPending marks a record waiting on the user (manual review) or on dispatch.
	StatusPending ApplicationStatus = "pending"
	// StatusProcessing marks a record with an automation attempt in flight.
	StatusProcessing ApplicationStatus = "processing"
	// StatusSubmitted is the successful terminal automation outcome.
	StatusSubmitted ApplicationStatus = "submitted"
	// StatusInterview is set by external review actions, never by dispatch.
	StatusInterview ApplicationStatus = "interview"
	// StatusAccepted is set by external review actions, never by dispatch.
	StatusAccepted ApplicationStatus = "accepted"
	// StatusRejected is set by external review actions, never by dispatch.
	StatusRejected ApplicationStatus = "rejected"
	// StatusFailed is the failed terminal automation outcome.
	StatusFailed ApplicationStatus = "failed"
)

// Valid reports whether s is one of the recognized statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSubmitted,
		StatusInterview, StatusAccepted, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s ends an automation attempt.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusSubmitted || s == StatusFailed
}

// ApplicationType tags how a job posting must be applied to.
type ApplicationType string

const (
	// TypeEasyApply is a job-board-native one-click application flow.
	TypeEasyApply ApplicationType = "easy_apply"
	// TypeFormSimple is an external application page with a short flat form.
	TypeFormSimple ApplicationType = "external_form_simple"
	// TypeFormComplex is an external multi-section application form.
	TypeFormComplex ApplicationType = "external_form_complex"
	// TypeAPIDirect is a posting applied to through a direct API.
	TypeAPIDirect ApplicationType = "api_direct"
	// TypeManualReview defers the application to the human user.
	TypeManualReview ApplicationType = "manual_review"
	// TypeUnknown is the default when no classification rule matches.
	TypeUnknown ApplicationType = "unknown"
)

// Valid reports whether t is one of the recognized application types.
func (t ApplicationType) Valid() bool {
	switch t {
	case TypeEasyApply, TypeFormSimple, TypeFormComplex,
		TypeAPIDirect, TypeManualReview, TypeUnknown:
		return true
	}
	return false
}

// ApplicationRecord is the persisted state of one application attempt.
// It is created at batch-dispatch time and advanced to exactly one
// terminal automation outcome by the owning dispatcher.
type ApplicationRecord struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	JobID           string            `json:"job_id"`
	JobTitle        string            `json:"job_title"`
	CompanyName     string            `json:"company_name"`
	JobURL          string            `json:"job_url"`
	Status          ApplicationStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	Salary          string            `json:"salary,omitempty"`
	Location        string            `json:"location,omitempty"`
	JobType         string            `json:"job_type,omitempty"`
	ApplicationData map[string]any    `json:"application_data,omitempty"`
	AppliedAt       time.Time         `json:"applied_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ResponseAt      *time.Time        `json:"response_received_at,omitempty"`
}

// JobResult is the per-job entry of a batch summary.
type JobResult struct {
	JobID                string            `json:"jobId"`
	JobTitle             string            `json:"jobTitle,omitempty"`
	Status               ApplicationStatus `json:"status"`
	ApplicationID        *uuid.UUID        `json:"applicationId,omitempty"`
	Error                string            `json:"error,omitempty"`
	RequiresManualReview bool              `json:"requiresManualReview,omitempty"`
	JobURL               string            `json:"jobUrl,omitempty"`
}

// BatchSummary aggregates the per-job outcomes of one batch.
// Successful + Failed always equals Total, and Results preserves the
// input order of the batch regardless of completion order.
type BatchSummary struct {
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Total      int         `json:"total"`
	Results    []JobResult `json:"results"`
}

// NewBatchSummary builds a summary from an ordered result list.
func NewBatchSummary(results []JobResult) *BatchSummary {
	s := &BatchSummary{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == StatusFailed {
			s.Failed++
		} else {
			s.Successful++
		}
	}
	return s
}

// Check verifies the summary's internal accounting.
func (s *BatchSummary) Check() error {
	if s.Total != len(s.Results) {
		return fmt.Errorf("summary total %d does not match %d results", s.Total, len(s.Results))
	}
	if s.Total != s.Successful+s.Failed {
		return fmt.Errorf("summary total %d != successful %d + failed %d", s.Total, s.Successful, s.Failed)
	}
	return nil
}
