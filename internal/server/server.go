package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/admirror/internal/types"
)

// Config holds server configuration
type Config struct {
	Port       int
	CronSecret string
}

// Pinger is the health-check view of the database
type Pinger interface {
	Ping(ctx context.Context) error
}

// Jobs holds the runnable pipeline entry points the server exposes. Each
// trigger runs its job synchronously and returns the run's stats.
type Jobs struct {
	Classify  func(ctx context.Context) types.ClassificationStats
	TagImages func(ctx context.Context) types.TaggingStats
	TagVideos func(ctx context.Context) types.VideoTaggingStats
}

// Server exposes the job trigger endpoints, health, and metrics
type Server struct {
	httpServer *http.Server
	db         Pinger
	auth       *CronAuth
	jobs       Jobs
	log        *logrus.Logger

	mu      sync.Mutex
	running map[string]bool
}

// New creates a new server instance
func New(cfg Config, database Pinger, jobs Jobs, log *logrus.Logger) *Server {
	s := &Server{
		db:      database,
		auth:    NewCronAuth(cfg.CronSecret),
		jobs:    jobs,
		log:     log,
		running: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.Handle("POST /jobs/classify", s.withAuth(http.HandlerFunc(s.handleClassify)))
	mux.Handle("POST /jobs/tag-images", s.withAuth(http.HandlerFunc(s.handleTagImages)))
	mux.Handle("POST /jobs/tag-videos", s.withAuth(http.HandlerFunc(s.handleTagVideos)))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 1800 * time.Second, // Long timeout: tagging runs block until done
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Fatal("server error")
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}

// withAuth requires a valid bearer token signed with the cron secret
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			err := &ErrUnauthorized{Reason: "missing bearer token"}
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}

		if _, err := s.auth.ValidateToken(token); err != nil {
			authErr := &ErrUnauthorized{Reason: "invalid token"}
			s.log.WithError(err).Warn("rejected trigger token")
			s.errorResponse(w, HTTPStatus(authErr), authErr.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote":      r.RemoteAddr,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}

// tryAcquire claims the per-job overlap lock. A second trigger for the same
// job while one is in flight is refused, not queued.
func (s *Server) tryAcquire(job string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[job] {
		return false
	}
	s.running[job] = true
	return true
}

func (s *Server) release(job string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, job)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
