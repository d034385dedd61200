package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-pilot/internal/types"
)

func applyBody(t *testing.T, jobs []types.JobPosting) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(types.ApplyRequest{
		Jobs: jobs,
		UserProfile: types.UserProfile{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "+44 20 7946 0958",
			CV:       types.CVProfile{Skills: []string{"Python", "Go"}},
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func sampleJobs() []types.JobPosting {
	return []types.JobPosting{
		{
			ID:           "job-1",
			Title:        "Backend Engineer",
			Company:      "Initech",
			URL:          "https://example.com/jobs/1",
			Location:     "Remote",
			JobType:      "remote",
			Requirements: []string{"Go", "PostgreSQL"},
		},
		{
			ID:      "job-2",
			Title:   "Platform Engineer",
			Company: "Globex",
			URL:     "https://example.com/jobs/2",
		},
	}
}

func TestApplyJobsRequiresAuth(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("POST", "/apply-jobs", applyBody(t, sampleJobs()))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, ts.store.insertCount(), "no records may be written for unauthenticated requests")
}

func TestApplyJobsInvalidToken(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("POST", "/apply-jobs", applyBody(t, sampleJobs()))
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, ts.store.insertCount())
}

func TestApplyJobsEmptyBatch(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	req := httptest.NewRequest("POST", "/apply-jobs", applyBody(t, []types.JobPosting{}))
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ts.store.insertCount())
}

func TestApplyJobsMalformedBody(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	req := httptest.NewRequest("POST", "/apply-jobs", strings.NewReader("{not json"))
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyJobsMissingProfile(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	req := httptest.NewRequest("POST", "/apply-jobs",
		strings.NewReader(`{"jobs":[{"id":"j1","title":"T","company":"C","url":"https://x.test"}]}`))
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyJobsMethodNotAllowed(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/apply-jobs", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApplyJobsProcessesBatch(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	req := httptest.NewRequest("POST", "/apply-jobs", applyBody(t, sampleJobs()))
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.ApplyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, resp.Summary.Total, resp.Summary.Successful+resp.Summary.Failed)

	// Results preserve input order.
	assert.Equal(t, "job-1", resp.Results[0].JobID)
	assert.Equal(t, "job-2", resp.Results[1].JobID)
	for _, r := range resp.Results {
		assert.Contains(t, []types.ApplicationStatus{types.StatusSubmitted, types.StatusFailed}, r.Status)
	}

	// One record per job, and the submitted profile was persisted.
	assert.Equal(t, 2, ts.store.insertCount())
	profile, ok := ts.mock.profiles[userID]
	require.True(t, ok, "profile must be upserted before dispatch")
	assert.Equal(t, "Ada Lovelace", profile.FullName)
}

func TestApplyJobsDuplicateBatchIsIdempotent(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	first := httptest.NewRequest("POST", "/apply-jobs", applyBody(t, sampleJobs()))
	first.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, ts.store.insertCount())

	// Replaying the batch must not create new records. The endpoint
	// still answers 200; the duplicates surface as failed results.
	second := httptest.NewRequest("POST", "/apply-jobs", applyBody(t, sampleJobs()))
	second.Header.Set("Authorization", ts.authHeader(userID))
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, second)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, ts.store.insertCount())

	var resp types.ApplyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.Failed)
}

func TestApplyManualReview(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	req := httptest.NewRequest("POST", "/apply-manual-review", applyBody(t, sampleJobs()))
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.VariantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Summary.Successful)
	assert.Equal(t, 0, resp.Summary.Failed)
	require.Len(t, resp.Jobs, 2)
	for _, job := range resp.Jobs {
		assert.Equal(t, types.StatusPending, job.Status)
		assert.True(t, job.RequiresManualReview)
		assert.NotEmpty(t, job.JobURL)
	}

	assert.Equal(t, types.StatusPending, ts.store.statusForJob("job-1"))
	assert.Equal(t, types.StatusPending, ts.store.statusForJob("job-2"))
}

func TestApplyVariantRequiresAuth(t *testing.T) {
	ts := newTestServer()

	for _, path := range []string{"/apply-easy", "/apply-simple-form", "/apply-complex-form", "/apply-manual-review"} {
		req := httptest.NewRequest("POST", path, applyBody(t, sampleJobs()))
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	assert.Equal(t, 0, ts.store.insertCount())
}

func TestApplyJobsProfileUpsertFailure(t *testing.T) {
	ts := newTestServer()
	ts.mock.profileErr = assert.AnError
	userID := uuid.New()

	req := httptest.NewRequest("POST", "/apply-jobs", applyBody(t, sampleJobs()))
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 0, ts.store.insertCount(), "dispatch must not run when the profile cannot be stored")
}

func TestHealth(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("OPTIONS", "/apply-jobs", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
