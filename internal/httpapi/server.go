// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package httpapi is the optional HTTP face of the server: the same
// three operations the MCP tools expose, plus health and Prometheus
// metrics. It is enabled with `serve --http`.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/query"
)

// Server wraps an http.Server around the query engine.
type Server struct {
	engine *query.Engine
	srv    *http.Server
}

// New builds a server listening on addr.
func New(addr string, engine *query.Engine) *Server {
	s := &Server{engine: engine}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler. Split out so tests can drive it
// with httptest without a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/incidents", s.handleIncidents)
		r.Get("/search", s.handleSearch)
		r.Get("/cache", s.handleCache)
	})

	return r
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Infof("http api listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	force := boolParam(r, "refresh")

	incidents, err := s.engine.GetIncidents(r.Context(), force)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"incidents":  incidents,
		"count":      len(incidents),
		"cache_info": s.engine.CacheStatus(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	line := r.URL.Query().Get("line")

	result, err := s.engine.Search(r.Context(), q, line)
	if err != nil {
		if errors.Is(err, query.ErrMissingQuery) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.CacheStatus())
}

func boolParam(r *http.Request, name string) bool {
	v := strings.ToLower(r.URL.Query().Get(name))
	return v == "1" || v == "true"
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}
