// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the local report preview server.
//
// Endpoints:
//   - GET /health        - Health check
//   - GET /api/projects  - Project catalog as JSON
//   - GET /report        - Evaluation report (dark theme)
//   - GET /report/print  - Evaluation report styled for printing
//
// The server binds to localhost only. It exists so the evaluation report
// can be viewed in a browser and printed to PDF without leaving the
// workbench open.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/project"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/report"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// Version is the server version.
	Version = "1.0.0"

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// ============================================================================
// PROJECT SOURCE
// ============================================================================

// ProjectSource supplies the catalog the server publishes. The SQLite
// store satisfies this.
type ProjectSource interface {
	ListProjects(ctx context.Context) ([]*project.Project, error)
	LoadActiveID(ctx context.Context) (string, error)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the localhost report preview server.
type Server struct {
	cfg       config.ServerConfig
	router    *mux.Router
	server    *http.Server
	source    ProjectSource
	startTime time.Time
}

// New creates a server publishing projects from source. A nil source
// serves an empty catalog.
func New(cfg config.ServerConfig, source ProjectSource) *Server {
	s := &Server{
		cfg:       cfg,
		router:    mux.NewRouter(),
		source:    source,
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the routed handler with middleware applied. Exposed for
// tests.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(DefaultRateLimiter()),
	)(s.router)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/projects", s.handleProjects).Methods("GET")

	s.router.HandleFunc("/report", s.handleReport).Methods("GET")
	s.router.HandleFunc("/report/print", s.handleReportPrint).Methods("GET")
}

// ============================================================================
// HANDLERS
// ============================================================================

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       Version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

// projectEntry is one catalog row in the projects payload.
type projectEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StructureID  string `json:"structure_id,omitempty"`
	LastModified string `json:"last_modified"`
	Status       string `json:"status"`
	Active       bool   `json:"active"`
}

// ProjectsResponse is the catalog payload.
type ProjectsResponse struct {
	ActiveID string         `json:"active_id,omitempty"`
	Projects []projectEntry `json:"projects"`
}

// handleProjects handles GET /api/projects.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	resp := ProjectsResponse{Projects: []projectEntry{}}

	if s.source != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		projects, err := s.source.ListProjects(ctx)
		if err != nil {
			log.Printf("PROJECTS_ERROR | error=%v", err)
			s.writeError(w, http.StatusInternalServerError, "Catalog unavailable")
			return
		}
		activeID, err := s.source.LoadActiveID(ctx)
		if err != nil {
			activeID = ""
		}

		resp.ActiveID = activeID
		for _, p := range projects {
			resp.Projects = append(resp.Projects, projectEntry{
				ID:           p.ID,
				Name:         p.Name,
				StructureID:  p.StructureID,
				LastModified: p.LastModified.Format(time.RFC3339),
				Status:       string(p.Status),
				Active:       p.ID == activeID,
			})
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleReport handles GET /report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "dark")
}

// handleReportPrint handles GET /report/print. The light theme prints
// better, the print stylesheet does the rest.
func (s *Server) handleReportPrint(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "light")
}

// serveReport renders the evaluation report for the active project.
func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, theme string) {
	var projectName, structureID string

	if s.source != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if activeID, err := s.source.LoadActiveID(ctx); err == nil && activeID != "" {
			if projects, err := s.source.ListProjects(ctx); err == nil {
				for _, p := range projects {
					if p.ID == activeID {
						projectName = p.Name
						structureID = p.StructureID
						break
					}
				}
			}
		}
	}

	rep := report.New(projectName, structureID, "")
	exporter := report.NewHTMLExporter(&report.Options{Theme: theme})

	content, err := exporter.Export(rep)
	if err != nil {
		log.Printf("REPORT_ERROR | error=%v", err)
		s.writeError(w, http.StatusInternalServerError, "Report generation failed")
		return
	}

	w.Header().Set("Content-Type", exporter.MimeType()+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Addr returns the listen address.
func (s *Server) Addr() string {
	host := s.cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", host, s.cfg.Port)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    64 * 1024,
	}

	log.Printf("SERVER_START | addr=%s version=%s", s.Addr(), Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response. Detail stays in the log, the
// client gets a generic message.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}
