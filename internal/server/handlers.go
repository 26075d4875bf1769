package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"newsreel/internal/capture"
	"newsreel/internal/planner"
	"newsreel/internal/source"
)

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.db.ListArticles()
	if err != nil {
		slog.Error("Failed to list articles", "error", err)
		jsonError(w, "Failed to list articles", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"articles": articles, "count": len(articles)})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	articles, err := s.RefreshArticles(r.Context())
	if err != nil {
		if errors.Is(err, source.ErrSourceUnavailable) {
			jsonError(w, "News source unavailable", http.StatusBadGateway)
			return
		}
		slog.Error("Refresh failed", "error", err)
		jsonError(w, "Unexpected error refreshing articles", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"articles": articles, "count": len(articles)})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	articles, err := s.db.ListArticles()
	if err != nil {
		slog.Error("Failed to list articles", "error", err)
		jsonError(w, "Failed to plan slides", http.StatusInternalServerError)
		return
	}

	plans := planner.Plan(articles)
	type slideResp struct {
		ArticleID  string `json:"article_id"`
		Title      string `json:"title"`
		DurationMS int64  `json:"duration_ms"`
		AccentFrom string `json:"accent_from"`
		AccentTo   string `json:"accent_to"`
	}
	slides := make([]slideResp, 0, len(plans))
	for _, p := range plans {
		slides = append(slides, slideResp{
			ArticleID:  p.Article.ID,
			Title:      p.Article.Title,
			DurationMS: p.Duration.Milliseconds(),
			AccentFrom: p.Accent.From,
			AccentTo:   p.Accent.To,
		})
	}
	jsonResponse(w, map[string]any{
		"slides":            slides,
		"total_duration_ms": planner.Total(plans).Milliseconds(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.orch.IsRecording() {
		jsonError(w, "A generation is already in progress", http.StatusConflict)
		return
	}

	// The run outlives the triggering request on purpose.
	session := capture.NewSession(s.orch)
	if err := session.Start(context.Background()); err != nil {
		if errors.Is(err, capture.ErrBusy) {
			jsonError(w, "A generation is already in progress", http.StatusConflict)
			return
		}
		slog.Error("Failed to start generation", "error", err)
		jsonError(w, "Failed to start generation", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	jsonResponse(w, map[string]string{"status": "started"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	videoURL := ""
	if name := s.orch.ArtifactPath(); name != "" {
		videoURL = "/videos/" + name
	}
	jsonResponse(w, map[string]any{
		"recording": s.orch.IsRecording(),
		"progress":  s.orch.Progress(),
		"status":    s.orch.Status(),
		"video_url": videoURL,
	})
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	gens, err := s.db.ListGenerations(50)
	if err != nil {
		slog.Error("Failed to list generations", "error", err)
		jsonError(w, "Failed to list generations", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"generations": gens})
}

func (s *Server) handleVideoDownload(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("name"))
	if name == "." || name == ".." || name == "/" {
		jsonError(w, "Invalid video name", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	http.ServeFile(w, r, filepath.Join(s.cfg.Output.Dir, name))
}
