package models

import "time"

// Article is a canonical news item. Articles are immutable once built by the
// source adapter; everything downstream reads them by reference.
type Article struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	URL      string `json:"url"`
	Author   string `json:"author"`
	Date     string `json:"date,omitempty"`
}

// Accent is a pair of hex colors used for a slide's background gradient.
type Accent struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SlidePlan schedules one article on screen for a duration. Multiple plans
// may reference the same article when the feed is shorter than the video.
type SlidePlan struct {
	Article  *Article      `json:"article"`
	Duration time.Duration `json:"duration_ms"`
	Accent   Accent        `json:"accent"`
}

// Generation is one video-generation run, recorded for history.
type Generation struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Progress   int       `json:"progress"`
	Filename   string    `json:"filename,omitempty"`
	MimeType   string    `json:"mime_type,omitempty"`
	SlideCount int       `json:"slide_count"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
