package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newsreel/internal/capture"
	"newsreel/internal/config"
	"newsreel/internal/database"
	"newsreel/internal/models"
	"newsreel/internal/source"
)

type Server struct {
	cfg     config.Config
	db      *database.DB
	src     *source.Client
	orch    *capture.Orchestrator
	httpSrv *http.Server
}

func New(cfg config.Config, db *database.DB, src *source.Client, orch *capture.Orchestrator) *Server {
	return &Server{
		cfg:  cfg,
		db:   db,
		src:  src,
		orch: orch,
	}
}

// Start sets up routes and runs the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	s.routes(mux)

	handler := recoveryMiddleware(loggingMiddleware(mux))

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	slog.Info("Starting server", "addr", addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes(mux *http.ServeMux) {
	// Read-only state — public
	mux.HandleFunc("GET /api/articles", s.handleArticles)
	mux.HandleFunc("GET /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/generations", s.handleGenerations)
	mux.HandleFunc("GET /videos/{name}", s.handleVideoDownload)

	// Mutating endpoints — guarded by the optional API token
	mux.Handle("POST /api/articles/refresh", s.requireToken(http.HandlerFunc(s.handleRefresh)))
	mux.Handle("POST /api/generate", s.requireToken(http.HandlerFunc(s.handleGenerate)))
}

// RefreshArticles re-fetches the feed and swaps the cached batch. When the
// JSON feed is unavailable and a fallback page is configured, headlines are
// scraped from it instead.
func (s *Server) RefreshArticles(ctx context.Context) ([]models.Article, error) {
	articles, err := s.src.Fetch(ctx)
	if errors.Is(err, source.ErrSourceUnavailable) && s.cfg.Source.FallbackPageURL != "" {
		slog.Warn("Feed unavailable, scraping fallback page", "error", err)
		timeout := time.Duration(s.cfg.Source.TimeoutSeconds) * time.Second
		articles, err = source.ScrapePage(ctx, s.cfg.Source.FallbackPageURL, timeout)
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.ReplaceArticles(articles); err != nil {
		return nil, fmt.Errorf("cache articles: %w", err)
	}
	slog.Info("Articles refreshed", "count", len(articles))
	return articles, nil
}
