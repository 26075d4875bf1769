// Package render paints slide plans onto a shared drawing surface.
//
// One Surface is reused across every slide of a generation run; the capture
// sink samples it concurrently, so all pixel access goes through the
// surface's mutex.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"newsreel/internal/models"
)

// Canvas dimensions for every generated video.
const (
	Width  = 1280
	Height = 720
)

// Surface owns the drawing context and the font faces for slide painting.
type Surface struct {
	mu  sync.Mutex
	dc  *gg.Context
	loc *time.Location

	regular *text.FontSource
	bold    *text.FontSource

	masthead text.Face
	title    text.Face
	body     text.Face
	footer   text.Face
	link     text.Face
}

// NewSurface builds a 1280x720 software-rendered surface. timezone names the
// IANA zone for footer timestamps; empty means UTC.
func NewSurface(timezone string) (*Surface, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
	}

	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}

	return &Surface{
		dc:       gg.NewContext(Width, Height),
		loc:      loc,
		regular:  regular,
		bold:     bold,
		masthead: bold.Face(22),
		title:    bold.Face(54),
		body:     regular.Face(28),
		footer:   regular.Face(20),
		link:     regular.Face(16),
	}, nil
}

// Ready reports whether a drawing context is obtainable from the surface.
func (s *Surface) Ready() bool {
	return s != nil && s.dc != nil
}

// Bounds reports the canvas dimensions.
func (s *Surface) Bounds() (int, int) { return Width, Height }

// Snapshot copies the current pixels. Safe to call while a slide is being
// drawn; the returned image is owned by the caller.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Draw paints one slide: accent gradient, content panel, masthead, wrapped
// title and body, footer and link line. Deterministic for a given plan, now
// and canvas size.
func (s *Surface) Draw(plan models.SlidePlan, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dc := s.dc
	art := plan.Article

	// Background gradient, corner to corner.
	grad := gg.NewLinearGradientBrush(0, 0, Width, Height).
		AddColorStop(0, gg.Hex(plan.Accent.From)).
		AddColorStop(1, gg.Hex(plan.Accent.To))
	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, Width, Height)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("paint gradient: %w", err)
	}

	// Translucent panel hosting the foreground content.
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRoundedRectangle(60, 60, Width-120, Height-120, 18)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("paint panel: %w", err)
	}

	const (
		contentX = 100.0
		maxWidth = float64(Width) - 2*contentX
	)

	// Masthead.
	dc.SetFont(s.masthead)
	dc.SetRGBA(1, 0.82, 0.3, 1)
	dc.DrawString("NEWSREEL BRIEFING", contentX, 120)

	// Title, word-wrapped.
	dc.SetFont(s.title)
	dc.SetRGB(1, 1, 1)
	y := 210.0
	for _, line := range WrapLines(s.measure, art.Title, maxWidth) {
		dc.DrawString(line, contentX, y)
		y += 66
	}

	// Body below the title, its own line height, clipped at the footer.
	dc.SetFont(s.body)
	dc.SetRGBA(0.92, 0.92, 0.92, 1)
	y += 24
	for _, line := range WrapLines(s.measure, art.Content, maxWidth) {
		if y > Height-110 {
			break
		}
		dc.DrawString(line, contentX, y)
		y += 40
	}

	// Footer: author left, wall-clock timestamp right, fixed zone.
	dc.SetFont(s.footer)
	dc.SetRGBA(0.8, 0.8, 0.8, 1)
	dc.DrawString("Source: "+art.Author, contentX, Height-85)
	stamp := now.In(s.loc).Format("Jan 2, 2006 3:04 PM")
	dc.DrawStringAnchored(stamp, Width-contentX, Height-85, 1, 0)

	// Article link, low contrast, bottom edge.
	dc.SetFont(s.link)
	dc.SetRGBA(0.7, 0.7, 0.7, 0.7)
	dc.DrawString(art.URL, contentX, Height-30)

	return nil
}

// measure reports the rendered width of s under the current font face.
// Callers hold s.mu and have already selected the face via SetFont.
func (s *Surface) measure(str string) float64 {
	w, _ := s.dc.MeasureString(str)
	return w
}
