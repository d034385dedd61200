package server

import (
	"io"
	"net/http"

	"github.com/jonathan/apply-pilot/internal/cvparse"
	"github.com/jonathan/apply-pilot/internal/types"
)

// maxCVUpload bounds the multipart CV upload.
const maxCVUpload = 10 << 20 // 10 MiB

// ParseCVResponse is the body returned by POST /parse-cv.
type ParseCVResponse struct {
	Filename string          `json:"filename"`
	Profile  types.CVProfile `json:"profile"`
}

// handleParseCV extracts text from an uploaded CV and returns the
// parsed skill profile. The profile is returned, not stored; the
// client sends it back inside later batch requests.
func (s *Server) handleParseCV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCVUpload)
	if err := r.ParseMultipartForm(maxCVUpload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("cv")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Multipart field 'cv' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	text, err := cvparse.ExtractText(header.Filename, data)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Could not extract text: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ParseCVResponse{
		Filename: header.Filename,
		Profile:  cvparse.Parse(text),
	})
}
