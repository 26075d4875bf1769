package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"newsreel/internal/auth"
	"newsreel/internal/capture"
	"newsreel/internal/config"
	"newsreel/internal/database"
	"newsreel/internal/models"
	"newsreel/internal/planner"
	"newsreel/internal/render"
	"newsreel/internal/server"
	"newsreel/internal/sink"
	"newsreel/internal/source"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	genToken := flag.Bool("gen-token", false, "Generate an API token and its bcrypt hash, then exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Newsreel %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	if *genToken {
		runGenToken()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	var logLevel slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newsreel", "version", version)

	// Initialize database
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Database initialized", "path", cfg.Database.Path)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		slog.Error("Failed to create output directory", "dir", cfg.Output.Dir, "error", err)
		os.Exit(1)
	}

	// Initialize the drawing surface and the recording pipeline
	surface, err := render.NewSurface(cfg.Render.Timezone)
	if err != nil {
		slog.Error("Failed to initialize render surface", "error", err)
		os.Exit(1)
	}

	src := source.NewClient(cfg.Source.FeedURL, time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
	snk := sink.NewStack(sink.NewMJPEG(), sink.NewGIF())

	planFn := func() []models.SlidePlan {
		articles, err := db.ListArticles()
		if err != nil {
			slog.Error("Failed to list articles for plan", "error", err)
			return nil
		}
		return planner.Plan(articles)
	}
	orch := capture.New(surface, planFn, snk, cfg.Output.Dir, db)

	// Build HTTP server
	srv := server.New(cfg, db, src, orch)

	// Warm the article cache; a dead feed at boot is not fatal.
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
	if articles, err := srv.RefreshArticles(ctx); err != nil {
		slog.Warn("Initial article refresh failed", "error", err)
	} else {
		slog.Info("Article cache primed", "count", len(articles))
	}
	cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		srv.Shutdown(context.Background())
	}()

	// Start serving
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func runGenToken() {
	token, err := auth.GenerateToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Token generation failed: %s\n", err)
		os.Exit(1)
	}
	hash, err := auth.HashToken(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Token hashing failed: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Token (give to clients):\n  %s\n\n", token)
	fmt.Printf("Hash (put in config.yaml under auth.token_hash):\n  %s\n", hash)
}
