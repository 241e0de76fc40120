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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/peakform/internal/config"
	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/reports"
	"github.com/jonathan/peakform/internal/scheduling"
	"github.com/jonathan/peakform/internal/server/middleware"
	"github.com/jonathan/peakform/internal/server/ratelimit"
	"github.com/jonathan/peakform/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	cfg         config.Config
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	reportGen   *reports.Generator
	metrics     *Metrics
	runner      *scheduling.Runner
	runnerStop  context.CancelFunc
}

// New creates a new server instance
func New(cfg config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:  database,
		cfg: cfg,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	s.metrics = NewMetrics()

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
	s.reportGen = reports.NewGenerator(database, cfg.StaleAfterDays)
	s.runner = scheduling.NewRunner(database)

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// All roles
	mux.Handle("PUT /auth/password", s.authed(s.handleUpdatePassword))
	mux.Handle("GET /objectives", s.authed(s.handleListObjectives))
	mux.Handle("GET /objectives/{id}", s.authed(s.handleGetObjective))
	mux.Handle("GET /objectives/{id}/key-results", s.authed(s.handleListKeyResults))
	mux.Handle("GET /key-results/{id}", s.authed(s.handleGetKeyResult))
	mux.Handle("GET /key-results/{id}/progress", s.authed(s.handleListProgressUpdates))
	mux.Handle("POST /key-results/{id}/progress", s.authed(s.handleSubmitProgress))
	mux.Handle("GET /competencies", s.authed(s.handleListCompetencies))
	mux.Handle("GET /competencies/{id}", s.authed(s.handleGetCompetency))
	mux.Handle("GET /users/{id}/assessments", s.authed(s.handleListAssessments))
	mux.Handle("GET /learning-paths", s.authed(s.handleListLearningPaths))
	mux.Handle("GET /learning-paths/{id}", s.authed(s.handleGetLearningPath))
	mux.Handle("GET /users/{id}/assignments", s.authed(s.handleListAssignments))
	mux.Handle("POST /assignments/{id}/complete", s.authed(s.handleCompleteAssignment))
	mux.Handle("GET /notifications", s.authed(s.handleListNotifications))
	mux.Handle("GET /notifications/stream", s.authed(s.handleNotificationStream))
	mux.Handle("POST /notifications/{id}/read", s.authed(s.handleMarkNotificationRead))
	mux.Handle("GET /notifications/preferences", s.authed(s.handleListPreferences))
	mux.Handle("PUT /notifications/preferences", s.authed(s.handleUpdatePreference))

	// Manager and admin
	mux.Handle("POST /objectives", s.managerOnly(s.handleCreateObjective))
	mux.Handle("PUT /objectives/{id}", s.managerOnly(s.handleUpdateObjective))
	mux.Handle("POST /objectives/{id}/key-results", s.managerOnly(s.handleCreateKeyResult))
	mux.Handle("PUT /key-results/{id}", s.managerOnly(s.handleUpdateKeyResult))
	mux.Handle("POST /competencies", s.managerOnly(s.handleCreateCompetency))
	mux.Handle("POST /users/{id}/assessments", s.managerOnly(s.handleAssessSkill))
	mux.Handle("POST /learning-paths", s.managerOnly(s.handleCreateLearningPath))
	mux.Handle("POST /learning-paths/{id}/resources", s.managerOnly(s.handleAddResource))
	mux.Handle("GET /assignment-rules", s.managerOnly(s.handleListAssignmentRules))
	mux.Handle("POST /assignment-rules", s.managerOnly(s.handleCreateAssignmentRule))
	mux.Handle("GET /reports/compliance", s.managerOnly(s.handleComplianceReport))
	mux.Handle("POST /import/okrs", s.managerOnly(s.handleImportOKRs))

	// Admin only
	mux.Handle("GET /users", s.adminOnly(s.handleListUsers))
	mux.Handle("GET /users/{id}", s.adminOnly(s.handleGetUser))
	mux.Handle("PUT /users/{id}/role", s.adminOnly(s.handleUpdateUserRole))
	mux.Handle("DELETE /users/{id}", s.adminOnly(s.handleDeleteUser))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withMetrics(s.withRateLimit(s.withLogging(s.withCORS(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for the SSE stream
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// authed wraps a handler with JWT authentication.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// managerOnly wraps a handler with authentication plus a manager-or-admin
// role check.
func (s *Server) managerOnly(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(
		middleware.RequireRole(types.RoleManager, types.RoleAdmin)(h))
}

// adminOnly wraps a handler with authentication plus an admin role check.
func (s *Server) adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(
		middleware.RequireRole(types.RoleAdmin)(h))
}

// Start begins listening for requests and runs the assignment-rule runner
// until the process receives an interrupt.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	runnerCtx, cancel := context.WithCancel(context.Background())
	s.runnerStop = cancel
	go s.runner.Run(runnerCtx, time.Duration(s.cfg.AssignmentInterval)*time.Second)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.runnerStop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
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

// handleUpdatePassword updates the authenticated user's password.
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
// Uses the IP address from RemoteAddr; X-Forwarded-For would only be safe
// behind a trusted proxy.
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
