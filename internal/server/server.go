// Package server provides the HTTP REST API for the apply-pilot service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/billing"
	"github.com/jonathan/apply-pilot/internal/config"
	"github.com/jonathan/apply-pilot/internal/db"
	"github.com/jonathan/apply-pilot/internal/dispatch"
	"github.com/jonathan/apply-pilot/internal/jobsearch"
	"github.com/jonathan/apply-pilot/internal/server/middleware"
	"github.com/jonathan/apply-pilot/internal/server/ratelimit"
	"github.com/jonathan/apply-pilot/internal/types"
)

// DBClient is the database surface the server depends on. *db.DB
// satisfies it; handler tests substitute a fake.
type DBClient interface {
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpsertUserProfile(ctx context.Context, input *db.ProfileUpsert) error
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]types.ApplicationRecord, error)
}

// DispatchRouter selects the batch strategy per application type.
// *dispatch.Router satisfies it.
type DispatchRouter interface {
	ForType(t types.ApplicationType) dispatch.Dispatcher
	Simulated() dispatch.Dispatcher
}

// JobSearcher queries an upstream job board.
type JobSearcher interface {
	Search(ctx context.Context, what, where string, cv *types.CVProfile) ([]types.JobPosting, error)
}

// CheckoutClient creates hosted payment-checkout sessions.
type CheckoutClient interface {
	CreateCheckoutSession(priceID string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          DBClient
	dispatch    DispatchRouter
	jobSearch   JobSearcher // nil when upstream credentials are unset
	billing     CheckoutClient
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	closeDB func()
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Server{
		db:      database,
		closeDB: database.Close,
	}

	browser := dispatch.NewSessionFactory(cfg.BrowserWSURL)
	s.dispatch = dispatch.NewRouter(database, browser, cfg.LiveSubmit)
	if cfg.LiveSubmit {
		log.Println("[dispatch] live submission ENABLED; forms will actually be submitted")
	}

	if cfg.JobSearchConfigured() {
		s.jobSearch = jobsearch.NewClient(cfg.AdzunaAppID, cfg.AdzunaAppKey)
	}
	if cfg.BillingConfigured() {
		s.billing = billing.NewService(cfg.StripeSecretKey, cfg.StripePriceID, cfg.SiteURL)
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // batch dispatch drives a browser per job
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router. Method-qualified patterns make the
// mux answer 405 for wrong-method requests on a known path.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Everything else requires a bearer token.
	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux.Handle("POST /apply-jobs", authed(http.HandlerFunc(s.handleApplyJobs)))
	mux.Handle("POST /apply-easy", authed(s.applyVariant(types.TypeEasyApply)))
	mux.Handle("POST /apply-simple-form", authed(s.applyVariant(types.TypeFormSimple)))
	mux.Handle("POST /apply-complex-form", authed(s.applyVariant(types.TypeFormComplex)))
	mux.Handle("POST /apply-manual-review", authed(s.applyVariant(types.TypeManualReview)))

	mux.Handle("GET /job-handler", authed(http.HandlerFunc(s.handleJobSearch)))
	mux.Handle("POST /parse-cv", authed(http.HandlerFunc(s.handleParseCV)))
	mux.Handle("POST /create-checkout-session", authed(http.HandlerFunc(s.handleCreateCheckoutSession)))
	mux.Handle("GET /applications", authed(http.HandlerFunc(s.handleListApplications)))
	mux.Handle("PUT /auth/password", authed(http.HandlerFunc(s.handleUpdatePassword)))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeDB != nil {
		s.closeDB()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRegister handles user registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles user login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// RemoteAddr only for now; X-Forwarded-For needs a trusted-proxy list.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
