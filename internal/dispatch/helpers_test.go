package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/db"
	"github.com/jonathan/apply-pilot/internal/types"
)

// testUserID is the authenticated caller used across dispatcher tests.
var testUserID = uuid.MustParse("7a9d3c9e-5b2f-4a1d-9c8e-2f6b4d8a1c3e")

// fakeStore is an in-memory RecordStore for dispatcher tests. Inserts
// for job IDs listed in failInserts are rejected, mimicking a record
// store failure for that job only.
type fakeStore struct {
	mu          sync.Mutex
	failInserts map[string]bool

	inserts  []db.ApplicationInsert
	statuses map[uuid.UUID]types.ApplicationStatus
	notes    map[uuid.UUID]string
	byJob    map[string]uuid.UUID
}

func newFakeStore(failInserts ...string) *fakeStore {
	fails := make(map[string]bool, len(failInserts))
	for _, id := range failInserts {
		fails[id] = true
	}
	return &fakeStore{
		failInserts: fails,
		statuses:    make(map[uuid.UUID]types.ApplicationStatus),
		notes:       make(map[uuid.UUID]string),
		byJob:       make(map[string]uuid.UUID),
	}
}

func (s *fakeStore) InsertApplication(_ context.Context, input *db.ApplicationInsert) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failInserts[input.JobID] {
		return uuid.Nil, fmt.Errorf("injected insert failure for job %s", input.JobID)
	}
	if _, exists := s.byJob[input.JobID]; exists {
		return uuid.Nil, db.ErrDuplicateApplication
	}

	id := uuid.New()
	s.inserts = append(s.inserts, *input)
	s.statuses[id] = types.ApplicationStatus(input.Status)
	s.notes[id] = input.Notes
	s.byJob[input.JobID] = id
	return id, nil
}

func (s *fakeStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status types.ApplicationStatus, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.statuses[id]; !ok {
		return fmt.Errorf("application not found: %s", id)
	}
	s.statuses[id] = status
	s.notes[id] = notes
	return nil
}

func (s *fakeStore) statusFor(jobID string) (types.ApplicationStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byJob[jobID]
	if !ok {
		return "", false
	}
	return s.statuses[id], true
}

func (s *fakeStore) notesFor(jobID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byJob[jobID]
	if !ok {
		return ""
	}
	return s.notes[id]
}

func (s *fakeStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserts)
}
