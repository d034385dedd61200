package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateApplyPayload_Valid verifies a well-formed batch passes
func TestValidateApplyPayload_Valid(t *testing.T) {
	payload := []byte(`{
		"jobs": [{
			"id": "j1",
			"title": "Backend Engineer",
			"company": "Acme",
			"url": "https://jobs.lever.co/acme/1",
			"location": "Remote",
			"requirements": ["go", "postgres"]
		}],
		"userProfile": {
			"full_name": "Jane Doe",
			"email": "jane@example.com",
			"cv": {"skills": ["go"]}
		}
	}`)

	assert.NoError(t, ValidateApplyPayload(payload))
}

// TestValidateApplyPayload_EmptyJobs verifies minItems: 1 on jobs
func TestValidateApplyPayload_EmptyJobs(t *testing.T) {
	payload := []byte(`{
		"jobs": [],
		"userProfile": {"full_name": "Jane Doe", "email": "jane@example.com"}
	}`)

	err := ValidateApplyPayload(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs")
}

// TestValidateApplyPayload_MissingRequired verifies required fields are enforced
func TestValidateApplyPayload_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"no userProfile", `{"jobs": [{"id": "j1", "title": "T", "company": "C", "url": "https://x"}]}`},
		{"no jobs", `{"userProfile": {"full_name": "Jane", "email": "j@x.com"}}`},
		{"job missing url", `{"jobs": [{"id": "j1", "title": "T", "company": "C"}], "userProfile": {"full_name": "Jane", "email": "j@x.com"}}`},
		{"profile missing email", `{"jobs": [{"id": "j1", "title": "T", "company": "C", "url": "https://x"}], "userProfile": {"full_name": "Jane"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateApplyPayload([]byte(tt.payload)))
		})
	}
}

// TestValidateApplyPayload_BadApplicationType verifies the tag enum
func TestValidateApplyPayload_BadApplicationType(t *testing.T) {
	payload := []byte(`{
		"jobs": [{
			"id": "j1", "title": "T", "company": "C", "url": "https://x",
			"application_type": "telepathy"
		}],
		"userProfile": {"full_name": "Jane Doe", "email": "jane@example.com"}
	}`)

	err := ValidateApplyPayload(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application_type")
}

// TestValidateApplyPayload_NotJSON verifies unparseable documents fail closed
func TestValidateApplyPayload_NotJSON(t *testing.T) {
	assert.Error(t, ValidateApplyPayload([]byte("not json at all")))
}
