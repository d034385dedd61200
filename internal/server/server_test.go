package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/config"
	"github.com/jonathan/apply-pilot/internal/db"
	"github.com/jonathan/apply-pilot/internal/dispatch"
	"github.com/jonathan/apply-pilot/internal/server/ratelimit"
	"github.com/jonathan/apply-pilot/internal/types"
)

// fakeDB is an in-memory DBClient for handler tests.
type fakeDB struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*db.User
	profiles     map[uuid.UUID]*db.ProfileUpsert
	applications map[uuid.UUID][]types.ApplicationRecord

	profileErr error
	listErr    error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:        make(map[uuid.UUID]*db.User),
		profiles:     make(map[uuid.UUID]*db.ProfileUpsert),
		applications: make(map[uuid.UUID][]types.ApplicationRecord),
	}
}

func (f *fakeDB) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.users[id] = &db.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return id, nil
}

func (f *fakeDB) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, _ := f.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (f *fakeDB) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user not found: %s", id)
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func (f *fakeDB) UpsertUserProfile(_ context.Context, input *db.ProfileUpsert) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[input.UserID] = input
	return nil
}

func (f *fakeDB) GetUserProfile(_ context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	profile := &types.UserProfile{
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		Portfolio: p.Portfolio,
		LinkedIn:  p.LinkedIn,
	}
	if cv, ok := p.CV.(types.CVProfile); ok {
		profile.CV = cv
	}
	return profile, nil
}

func (f *fakeDB) ListApplicationsByUser(_ context.Context, userID uuid.UUID) ([]types.ApplicationRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applications[userID], nil
}

// fakeStore is an in-memory dispatch.RecordStore tracking record
// transitions made by the strategies under the handlers.
type fakeStore struct {
	mu       sync.Mutex
	inserts  int
	statuses map[uuid.UUID]types.ApplicationStatus
	byJob    map[string]uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statuses: make(map[uuid.UUID]types.ApplicationStatus),
		byJob:    make(map[string]uuid.UUID),
	}
}

func (f *fakeStore) InsertApplication(_ context.Context, input *db.ApplicationInsert) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byJob[input.JobID]; ok {
		return uuid.Nil, db.ErrDuplicateApplication
	}
	id := uuid.New()
	f.inserts++
	f.statuses[id] = types.ApplicationStatus(input.Status)
	f.byJob[input.JobID] = id
	return id, nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status types.ApplicationStatus, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.statuses[id]; !ok {
		return fmt.Errorf("no application %s", id)
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeStore) insertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts
}

func (f *fakeStore) statusForJob(jobID string) types.ApplicationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[f.byJob[jobID]]
}

// testServer wires a Server around in-memory fakes.
type testServer struct {
	*Server
	mock    *fakeDB
	store   *fakeStore
	handler http.Handler
}

func newTestServer() *testServer {
	mock := newFakeDB()
	store := newFakeStore()

	s := &Server{
		db:          mock,
		dispatch:    dispatch.NewRouter(store, dispatch.NewSessionFactory(""), false),
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}

	passwordConfig := &config.PasswordConfig{BcryptCost: 10}
	s.userService = NewUserService(mock, passwordConfig)
	s.jwtService = NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	return &testServer{
		Server:  s,
		mock:    mock,
		store:   store,
		handler: s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
	}
}

// authHeader returns a valid bearer header for a fresh user ID.
func (ts *testServer) authHeader(userID uuid.UUID) string {
	token, err := ts.jwtService.GenerateToken(userID)
	if err != nil {
		panic(err)
	}
	return "Bearer " + token
}
