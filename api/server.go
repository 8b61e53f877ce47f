// Package api serves the wind data endpoint and the visualization session over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"windflow/datasource"
	"windflow/metrics"
	"windflow/models"
	"windflow/render"
	"windflow/viewer"
)

// Viewer is the visualization session the endpoints drive
type Viewer interface {
	Refresh(ctx context.Context) error
	Next(ctx context.Context) (models.DisplayFields, error)
	Display(ctx context.Context) (models.DisplayFields, error)
	Scene(ctx context.Context) (render.Snapshot, error)
	State(ctx context.Context) (viewer.State, error)
}

// Server represents the API server
type Server struct {
	viewer Viewer
	source datasource.ForecastSource
	hub    *Hub
	router chi.Router
	server *http.Server
}

// NewServer creates a new API server. source backs /api/wind-data, v backs
// the session endpoints, and hub serves /ws.
func NewServer(source datasource.ForecastSource, v Viewer, hub *Hub, port int) *Server {
	s := &Server{
		viewer: v,
		source: source,
		hub:    hub,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(metrics.Middleware(routePattern))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/wind-data", s.handleWindData)
		r.Get("/health", s.handleHealthCheck)
		r.Get("/display", s.handleDisplay)
		r.Get("/scene.svg", s.handleScene)
		r.Post("/next", s.handleNext)
		r.Post("/refresh", s.handleRefresh)
	})
	r.Handle("/ws", hub)
	r.Handle("/metrics", metrics.Handler())

	s.router = r
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler { return s.router }

// Start begins the API server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	slog.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and disconnects websocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// handleWindData proxies the hourly wind forecast
func (s *Server) handleWindData(w http.ResponseWriter, r *http.Request) {
	series, err := s.source.FetchWindSeries(r.Context())
	metrics.ObserveFetch("api", err)
	if err != nil {
		slog.Error("error fetching wind data", "source", s.source.Name(), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wind data"})
		return
	}
	if series == nil {
		series = models.ForecastSeries{}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	d, err := s.viewer.Display(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleNext advances to the following forecast hour
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	d, err := s.viewer.Next(r.Context())
	switch {
	case errors.Is(err, models.ErrEmptySeries):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "No wind data loaded"})
	case err != nil:
		writeUnavailable(w, err)
	default:
		writeJSON(w, http.StatusOK, d)
	}
}

// invalidator is implemented by caching sources
type invalidator interface {
	Invalidate()
}

// handleRefresh reloads the forecast now instead of waiting for the next tick
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if c, ok := s.source.(invalidator); ok {
		c.Invalidate()
	}
	refreshErr := s.viewer.Refresh(r.Context())
	d, err := s.viewer.Display(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	if refreshErr != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "Failed to fetch wind data",
			"display": d,
		})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	snap, err := s.viewer.Scene(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, snap); err != nil {
		slog.Error("failed to write scene", "error", err)
		http.Error(w, "failed to render scene", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// handleHealthCheck reports liveness and whether a forecast is loaded
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"clients":   s.hub.Clients(),
	}
	if st, err := s.viewer.State(r.Context()); err == nil {
		resp["loaded"] = st.Loaded
		resp["index"] = st.Index
		resp["count"] = st.Count
	} else {
		resp["status"] = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeUnavailable(w http.ResponseWriter, err error) {
	slog.Warn("session unavailable", "error", err)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Session unavailable"})
}
