package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/apply-pilot/internal/types"
)

// TestClassify_RuleTable verifies the host rules map to the expected types
func TestClassify_RuleTable(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want types.ApplicationType
	}{
		{"linkedin easy apply", "https://www.linkedin.com/jobs/view/123", types.TypeEasyApply},
		{"indeed easy apply", "https://www.indeed.com/viewjob?jk=abc", types.TypeEasyApply},
		{"greenhouse simple form", "https://boards.greenhouse.io/acme/jobs/42", types.TypeFormSimple},
		{"lever simple form", "https://jobs.lever.co/acme/uuid", types.TypeFormSimple},
		{"workday complex form", "https://acme.wd5.myworkdayjobs.com/careers/job/123", types.TypeFormComplex},
		{"taleo complex form", "https://acme.taleo.net/careersection/2/jobdetail.ftl", types.TypeFormComplex},
		{"api direct host", "https://api.jobs.example.com/postings/9", types.TypeAPIDirect},
		{"unrecognized host", "https://careers.example.com/jobs/1", types.TypeUnknown},
		{"unparseable url", "://not-a-url", types.TypeUnknown},
		{"empty url", "", types.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &types.JobPosting{ID: "j1", URL: tt.url}
			assert.Equal(t, tt.want, Classify(job))
		})
	}
}

// TestClassify_Deterministic verifies classifying the same job twice yields the same tag
func TestClassify_Deterministic(t *testing.T) {
	job := &types.JobPosting{ID: "j1", URL: "https://jobs.lever.co/acme/uuid"}
	first := Classify(job)
	second := Classify(job)
	assert.Equal(t, first, second)
}

// TestClassify_PreTaggedWins verifies a valid pre-assigned tag is kept
func TestClassify_PreTaggedWins(t *testing.T) {
	job := &types.JobPosting{
		ID:              "j1",
		URL:             "https://jobs.lever.co/acme/uuid",
		ApplicationType: types.TypeManualReview,
	}
	assert.Equal(t, types.TypeManualReview, Classify(job))
}

// TestClassify_InvalidPreTagFallsThrough verifies an invalid tag is re-classified
func TestClassify_InvalidPreTagFallsThrough(t *testing.T) {
	job := &types.JobPosting{
		ID:              "j1",
		URL:             "https://www.linkedin.com/jobs/view/123",
		ApplicationType: types.ApplicationType("bogus"),
	}
	assert.Equal(t, types.TypeEasyApply, Classify(job))
}
