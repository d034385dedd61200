// Package schemas provides JSON Schema validation for request payloads
// at the system boundary.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// applyRequestSchema is the wire contract of the batch-dispatch
// endpoints. Malformed payloads are rejected here before they reach
// dispatch logic.
const applyRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["jobs", "userProfile"],
	"properties": {
		"jobs": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "title", "company", "url"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"title": {"type": "string", "minLength": 1},
					"company": {"type": "string", "minLength": 1},
					"url": {"type": "string", "minLength": 1},
					"location": {"type": "string"},
					"salary_min": {"type": "number", "minimum": 0},
					"salary_max": {"type": "number", "minimum": 0},
					"job_type": {"type": "string"},
					"description": {"type": "string"},
					"requirements": {"type": "array", "items": {"type": "string"}},
					"match_score": {"type": "integer", "minimum": 0, "maximum": 100},
					"application_type": {
						"type": "string",
						"enum": ["easy_apply", "external_form_simple", "external_form_complex",
						         "api_direct", "manual_review", "unknown"]
					}
				}
			}
		},
		"userProfile": {
			"type": "object",
			"required": ["full_name", "email"],
			"properties": {
				"full_name": {"type": "string", "minLength": 1},
				"email": {"type": "string", "minLength": 3},
				"phone": {"type": "string"},
				"location": {"type": "string"},
				"portfolio": {"type": "string"},
				"linkedin": {"type": "string"},
				"cv": {"type": "object"}
			}
		}
	}
}`

// ValidationError represents a schema validation failure with per-field
// messages.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var applySchema = gojsonschema.NewStringLoader(applyRequestSchema)

// ValidateApplyPayload validates a raw batch-dispatch payload against
// the wire contract.
func ValidateApplyPayload(raw []byte) error {
	result, err := gojsonschema.Validate(applySchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(document)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return verr
}
