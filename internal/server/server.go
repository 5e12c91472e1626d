// Package server exposes the tracking API over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/windowseat/windowseat/internal/source"
	"github.com/windowseat/windowseat/pkg/config"
	"github.com/windowseat/windowseat/pkg/opensky"
	"github.com/windowseat/windowseat/pkg/tracking"
)

// maxListLimit caps the ?limit= parameter on /planes.
const maxListLimit = 200

// Server holds the HTTP router and its dependencies.
type Server struct {
	router *chi.Mux
	states *source.Source
	cfg    *config.Config
}

// New builds a Server with routes configured.
func New(states *source.Source, cfg *config.Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		states: states,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{s.cfg.Server.CORSAllowedOrigin},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/planes", s.handleListPlanes)
	r.Get("/track", s.handleTrackByICAO)
	r.Get("/track/{callsign}", s.handleTrackByCallsign)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// handleListPlanes returns aircraft with a usable callsign, most recent first.
func (s *Server) handleListPlanes(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Tracker.MaxList
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > maxListLimit {
			parsed = maxListLimit
		}
		limit = parsed
	}

	payload, prov, err := s.states.GetStates(r.Context())
	if err != nil {
		s.respondFetchError(w, err)
		return
	}

	candidates := tracking.SelectCandidates(payload.States, limit)
	planes := make([]tracking.Candidate, 0, len(candidates))
	for _, sv := range candidates {
		planes = append(planes, tracking.Summarize(sv))
	}

	resp := map[string]interface{}{
		"source": string(prov.Origin),
		"count":  len(planes),
		"planes": planes,
	}
	if prov.Detail != "" {
		resp["detail"] = prov.Detail
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrackByICAO(w http.ResponseWriter, r *http.Request) {
	icao := r.URL.Query().Get("icao24")
	if icao == "" {
		respondError(w, http.StatusBadRequest, "Missing icao24 parameter")
		return
	}

	payload, prov, err := s.states.GetStates(r.Context())
	if err != nil {
		s.respondFetchError(w, err)
		return
	}

	sv, found := tracking.FindByICAO24(payload.States, icao)
	if !found {
		respondError(w, http.StatusNotFound, "Aircraft not found")
		return
	}

	s.respondTracked(w, sv, prov)
}

func (s *Server) handleTrackByCallsign(w http.ResponseWriter, r *http.Request) {
	callsign := chi.URLParam(r, "callsign")

	payload, prov, err := s.states.GetStates(r.Context())
	if err != nil {
		s.respondFetchError(w, err)
		return
	}

	sv, found := tracking.FindByCallsign(payload.States, callsign)
	if !found {
		respondError(w, http.StatusNotFound, "Aircraft not found")
		return
	}

	s.respondTracked(w, sv, prov)
}

func (s *Server) respondTracked(w http.ResponseWriter, sv *opensky.StateVector, prov source.Provenance) {
	resp := map[string]interface{}{
		"source":   string(prov.Origin),
		"aircraft": tracking.Project(*sv),
	}
	if prov.Detail != "" {
		resp["detail"] = prov.Detail
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, source.ErrUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "Aircraft state data unavailable")
		return
	}
	log.Printf("Error fetching states: %v", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
