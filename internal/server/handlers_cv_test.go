package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cvUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("cv", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestParseCVRequiresAuth(t *testing.T) {
	ts := newTestServer()

	body, contentType := cvUpload(t, "cv.txt", "Senior Go developer")
	req := httptest.NewRequest("POST", "/parse-cv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseCVPlainText(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	body, contentType := cvUpload(t, "cv.txt",
		"Jane Doe\n\nSenior Software Engineer with Python, Go and PostgreSQL experience.")
	req := httptest.NewRequest("POST", "/parse-cv", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ParseCVResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cv.txt", resp.Filename)
	assert.Contains(t, resp.Profile.Skills, "Python")
	assert.Contains(t, resp.Profile.Skills, "Go")
	assert.Equal(t, "senior", resp.Profile.Seniority)
}

func TestParseCVMissingFile(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/parse-cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseCVCorruptPDF(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	body, contentType := cvUpload(t, "cv.pdf", "this is not a pdf")
	req := httptest.NewRequest("POST", "/parse-cv", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestParseCVNotMultipart(t *testing.T) {
	ts := newTestServer()
	userID := uuid.New()

	req := httptest.NewRequest("POST", "/parse-cv", bytes.NewBufferString("plain body"))
	req.Header.Set("Authorization", ts.authHeader(userID))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
