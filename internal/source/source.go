// Package source fetches raw feed records and normalizes them into
// canonical articles.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsreel/internal/models"
)

// FallbackAuthor labels articles whose feed record carries no author.
const FallbackAuthor = "Newsreel Wire"

// ErrSourceUnavailable distinguishes "the fetch failed" from "no news
// today"; an empty batch is not an error.
var ErrSourceUnavailable = errors.New("news source unavailable")

// RawArticle is the loosely-typed pre-adapter shape of one feed record.
// Either URL or Link may carry the canonical link.
type RawArticle struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	URL      string `json:"url"`
	Link     string `json:"link"`
	Author   string `json:"author"`
	Date     string `json:"date"`
}

type feedPayload struct {
	Articles []RawArticle `json:"articles"`
}

// Client fetches the JSON news feed.
type Client struct {
	feedURL string
	http    *http.Client
}

func NewClient(feedURL string, timeout time.Duration) *Client {
	return &Client{
		feedURL: feedURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch GETs the feed and returns the normalized batch. Transport failures
// and non-2xx statuses surface as ErrSourceUnavailable so callers can tell
// a dead source apart from an empty one.
func (c *Client) Fetch(ctx context.Context) ([]models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var payload feedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return Normalize(payload.Articles), nil
}

// Normalize filters and canonicalizes a raw batch. Records missing a
// non-blank title, content, or link are silently dropped; survivors get
// trimmed text, a stable or generated id, and an author fallback.
func Normalize(raw []RawArticle) []models.Article {
	var articles []models.Article
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		content := strings.TrimSpace(r.Content)
		link := r.URL
		if link == "" {
			link = r.Link
		}
		if title == "" || content == "" || strings.TrimSpace(link) == "" {
			continue
		}

		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		author := strings.TrimSpace(r.Author)
		if author == "" {
			author = FallbackAuthor
		}

		articles = append(articles, models.Article{
			ID:       id,
			Title:    title,
			Content:  content,
			ImageURL: r.ImageURL,
			URL:      link,
			Author:   author,
			Date:     r.Date,
		})
	}
	return articles
}
