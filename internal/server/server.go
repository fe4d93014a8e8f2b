// Package server exposes the agent and the record collections over HTTP
// for the frontend: a JSON chat endpoint, an SSE streaming variant, and
// thin read-only record endpoints.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/donhauser001/dhs-atlas/internal/agent"
	"github.com/donhauser001/dhs-atlas/internal/config"
	"github.com/donhauser001/dhs-atlas/internal/models"
	"github.com/donhauser001/dhs-atlas/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	cfg     *config.Config
	agent   *agent.Agent
	clients *models.Clients
	logger  *slog.Logger
	httpSrv *http.Server
}

// New creates the server with all routes registered.
func New(cfg *config.Config, ag *agent.Agent, st *store.Store, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		agent:   ag,
		clients: models.NewClients(st),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/agent/chat", s.handleChat)
	mux.HandleFunc("POST /api/agent/stream", s.handleChatStream)
	mux.HandleFunc("DELETE /api/agent/session/{id}", s.handleClearSession)
	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("GET /api/clients/{name}", s.handleGetClient)
	mux.HandleFunc("GET /api/quotations/{client_name}", s.handleClientQuotation)

	s.httpSrv = &http.Server{
		Addr:    cfg.Addr(),
		Handler: s.withLogging(s.withCORS(mux)),
	}
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("api server listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// withCORS allows the configured frontend plus local dev origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := map[string]bool{
		s.cfg.FrontendURL:       true,
		"http://localhost:3000": true,
		"http://localhost:3001": true,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
