package database

import (
	"path/filepath"
	"testing"
	"time"

	"newsreel/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReplaceAndListArticles(t *testing.T) {
	db := testDB(t)

	first := []models.Article{
		{ID: "a", Title: "A", Content: "x", URL: "https://example.com/a", Author: "Wire"},
		{ID: "b", Title: "B", Content: "y", URL: "https://example.com/b", Author: "Wire"},
	}
	if err := db.ReplaceArticles(first); err != nil {
		t.Fatalf("ReplaceArticles: %v", err)
	}

	got, err := db.ListArticles()
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("got %+v, want feed order a,b", got)
	}

	// A fresh batch fully replaces the old one.
	second := []models.Article{
		{ID: "c", Title: "C", Content: "z", URL: "https://example.com/c", Author: "Wire"},
	}
	if err := db.ReplaceArticles(second); err != nil {
		t.Fatalf("ReplaceArticles: %v", err)
	}
	if n, _ := db.ArticleCount(); n != 1 {
		t.Errorf("count = %d after replace, want 1", n)
	}
}

func TestGenerationHistory(t *testing.T) {
	db := testDB(t)

	if _, err := db.LatestGeneration(); err == nil {
		t.Error("LatestGeneration on empty history should error")
	}

	started := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	id, err := db.RecordGeneration(models.Generation{
		Status:     "completed",
		Progress:   100,
		Filename:   "newsreel-20260826-100400.avi",
		MimeType:   "video/x-msvideo;codecs=mjpeg",
		SlideCount: 12,
		StartedAt:  started,
		FinishedAt: started.Add(4 * time.Minute),
	})
	if err != nil {
		t.Fatalf("RecordGeneration: %v", err)
	}
	if id == 0 {
		t.Error("id not assigned")
	}

	db.RecordGeneration(models.Generation{
		Status: "failed", Error: "no news available",
		StartedAt: started.Add(time.Hour), FinishedAt: started.Add(time.Hour),
	})

	gens, err := db.ListGenerations(10)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	if len(gens) != 2 {
		t.Fatalf("got %d rows, want 2", len(gens))
	}
	if gens[0].Status != "failed" {
		t.Errorf("newest first ordering broken: %+v", gens[0])
	}

	latest, err := db.LatestGeneration()
	if err != nil {
		t.Fatalf("LatestGeneration: %v", err)
	}
	if latest.Error != "no news available" {
		t.Errorf("latest = %+v", latest)
	}

	first := gens[1]
	if !first.StartedAt.Equal(started) {
		t.Errorf("started_at round-trip: %v != %v", first.StartedAt, started)
	}
	if first.SlideCount != 12 || first.Progress != 100 {
		t.Errorf("row = %+v", first)
	}
}
