// Package api provides the HTTP REST API server for EconPulse.
//
// It exposes endpoints to trigger a pipeline run, read the stored
// sentiment history with its cumulative view, and preview today's
// collected headlines without persisting anything.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/seenimoa/econpulse/internal/config"
	"github.com/seenimoa/econpulse/internal/history"
	"github.com/seenimoa/econpulse/internal/pipeline"
	"github.com/seenimoa/econpulse/pkg/dateutil"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	pipe   *pipeline.Pipeline
	log    *logrus.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, pipe *pipeline.Pipeline, log *logrus.Logger) *Server {
	srv := &Server{cfg: cfg, pipe: pipe, log: log}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	s.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// Pipeline
		r.Post("/run", s.handleRun)

		// Series
		r.Get("/history", s.handleHistory)

		// Collection preview
		r.Get("/news/today", s.handleNewsToday)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HistoryResponse is the body of GET /api/v1/history: the stored
// series plus its derived running-sum view, day keys as strings.
type HistoryResponse struct {
	Dates      []string  `json:"dates"`
	Points     []float64 `json:"points"`
	Cumulative []float64 `json:"cumulative"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "ok"
	status := http.StatusOK
	if err := s.pipe.Store().Ping(ctx); err != nil {
		storeStatus = err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, APIResponse{
		Success: status == http.StatusOK,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
			"store":   storeStatus,
		},
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	// Collection plus inference can take a while on slow listings.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	result, err := s.pipe.Run(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	series, err := s.pipe.Store().Read(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	cum := history.BuildCumulative(series)

	resp := HistoryResponse{
		Dates:      make([]string, series.Len()),
		Points:     series.Points,
		Cumulative: cum.Totals,
	}
	for i, d := range series.Dates {
		resp.Dates[i] = dateutil.DayKey(d)
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    resp,
	})
}

func (s *Server) handleNewsToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	items := s.pipe.CollectToday(ctx)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"count": len(items),
			"items": items,
		},
	})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
