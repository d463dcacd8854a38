// Package stubserver provides an in-memory job assistant backend for local development and tests.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/logging"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *Store
	logger      *zap.Logger
	version     string
	environment string
}

// Config holds server configuration
type Config struct {
	Port        int
	Version     string
	Environment string
	Logger      *zap.Logger
}

// New creates a new server instance
func New(cfg Config) *Server {
	s := &Server{
		store:       NewStore(),
		logger:      logging.OrNop(cfg.Logger).Named("stubserver"),
		version:     cfg.Version,
		environment: cfg.Environment,
	}
	if s.version == "" {
		s.version = "0.1.0"
	}
	if s.environment == "" {
		s.environment = "local"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)

	// Users
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)

	// Resume analyses
	mux.HandleFunc("POST /api/resume/analyze", s.handleAnalyzeResume)
	mux.HandleFunc("GET /api/resume/{id}/answers", s.handleListAnswers)
	mux.HandleFunc("DELETE /api/resume/{id}", s.handleDeleteAnalysis)

	// Answers
	mux.HandleFunc("POST /api/generate/answer", s.handleGenerateAnswer)
	mux.HandleFunc("DELETE /api/answers/{id}", s.handleDeleteAnswer)

	// Metrics
	mux.HandleFunc("GET /api/metrics/summary", s.handleMetricsSummary)
	mux.HandleFunc("GET /api/metrics/user", s.handleUserMetrics)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRequestID(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Store returns the backing store.
func (s *Server) Store() *Store {
	return s.store
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestID echoes the caller's request id, or assigns one.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(apiclient.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(apiclient.HeaderRequestID, id)
		}
		w.Header().Set(apiclient.HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("request_id", r.Header.Get(apiclient.HeaderRequestID)),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error body in the backend's {"detail": ...} shape
func (s *Server) errorResponse(w http.ResponseWriter, status int, detail string) {
	s.jsonResponse(w, status, map[string]string{"detail": detail})
}

// storeError maps a store error to its status and writes it
func (s *Server) storeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// pathID parses a positive integer path value
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &ErrValidation{Field: name, Message: fmt.Sprintf("Invalid %s.", name)}
	}
	return id, nil
}

// headerUser parses the X-User-Id header. A missing header is nil.
func headerUser(r *http.Request) (*int64, error) {
	raw := r.Header.Get(apiclient.HeaderUserID)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &ErrValidation{Field: "X-User-Id", Message: "Invalid X-User-Id header."}
	}
	return &id, nil
}

// currentUser resolves the X-User-Id header against the store.
func (s *Server) currentUser(r *http.Request) (*int64, error) {
	id, err := headerUser(r)
	if err != nil {
		return nil, err
	}
	return s.store.ResolveUser(id)
}
