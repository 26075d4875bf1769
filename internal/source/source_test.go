package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeFiltersIncompleteRecords(t *testing.T) {
	raw := []RawArticle{
		{Title: "Kept", Content: "Body", URL: "https://example.com/1"},
		{Title: "", Content: "Body", URL: "https://example.com/2"},
		{Title: "No body", Content: "", URL: "https://example.com/3"},
		{Title: "No link", Content: "Body"},
		{Title: "   ", Content: "Body", URL: "https://example.com/4"},
		{Title: "Link field", Content: "Body", Link: "https://example.com/5"},
	}

	got := Normalize(raw)
	if len(got) != 2 {
		t.Fatalf("kept %d records, want 2", len(got))
	}
	if got[0].Title != "Kept" || got[1].URL != "https://example.com/5" {
		t.Errorf("unexpected survivors: %+v", got)
	}
}

func TestNormalizeTrimsAndDefaults(t *testing.T) {
	raw := []RawArticle{{
		Title:   "  Spaced headline  ",
		Content: "\tbody text\n",
		URL:     "https://example.com/a",
	}}

	got := Normalize(raw)
	if len(got) != 1 {
		t.Fatalf("kept %d records, want 1", len(got))
	}
	a := got[0]
	if a.Title != "Spaced headline" {
		t.Errorf("title %q not trimmed", a.Title)
	}
	if a.Content != "body text" {
		t.Errorf("content %q not trimmed", a.Content)
	}
	if a.Author != FallbackAuthor {
		t.Errorf("author %q, want fallback %q", a.Author, FallbackAuthor)
	}
	if a.ID == "" {
		t.Error("missing id was not generated")
	}
}

func TestNormalizeKeepsExplicitFields(t *testing.T) {
	raw := []RawArticle{{
		ID:      "feed-42",
		Title:   "Headline",
		Content: "Body",
		URL:     "https://example.com/a",
		Author:  "Jane Reporter",
		Date:    "2026-08-26T09:00:00Z",
	}}

	a := Normalize(raw)[0]
	if a.ID != "feed-42" || a.Author != "Jane Reporter" || a.Date != "2026-08-26T09:00:00Z" {
		t.Errorf("explicit fields not carried over: %+v", a)
	}
}

func TestNormalizeGeneratesUniqueIDs(t *testing.T) {
	raw := []RawArticle{
		{Title: "A", Content: "x", URL: "https://example.com/a"},
		{Title: "B", Content: "x", URL: "https://example.com/b"},
	}
	got := Normalize(raw)
	if got[0].ID == got[1].ID {
		t.Error("generated ids collide")
	}
}

func TestFetchHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"articles":[
			{"id":"1","title":"First","content":"Body one","url":"https://example.com/1"},
			{"title":"","content":"dropped","url":"https://example.com/2"},
			{"id":"3","title":"Third","content":"Body three","link":"https://example.com/3","author":"Wire"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d articles, want 2", len(got))
	}
	if got[1].URL != "https://example.com/3" {
		t.Errorf("link field not honored: %+v", got[1])
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second)
	_, err := c.Fetch(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles": "not a list"`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchEmptyFeedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d articles, want 0", len(got))
	}
}

func TestScrapePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<article>
				<h2>Scraped headline</h2>
				<p>Scraped summary paragraph.</p>
				<a href="/story/1">read</a>
			</article>
			<article><h2>No summary</h2><a href="/story/2">read</a></article>
		</body></html>`))
	}))
	defer srv.Close()

	got, err := ScrapePage(context.Background(), srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("ScrapePage: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	if got[0].Title != "Scraped headline" {
		t.Errorf("title = %q", got[0].Title)
	}
	if got[0].URL != srv.URL+"/story/1" {
		t.Errorf("url = %q", got[0].URL)
	}
	if got[0].Author != FallbackAuthor {
		t.Errorf("author = %q, want fallback", got[0].Author)
	}
}
