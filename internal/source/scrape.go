package source

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"newsreel/internal/models"
)

const userAgent = "Newsreel/1.0 (Automated Video Briefing; +https://github.com/newsreel)"

// ScrapePage is the fallback adapter for sources that expose an HTML page
// instead of the JSON feed: it collects headline/summary pairs from
// <article> blocks and runs them through the same normalization.
func ScrapePage(ctx context.Context, pageURL string, timeout time.Duration) ([]models.Article, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(timeout)

	var mu sync.Mutex
	var raw []RawArticle
	var fetchErr error

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if err := ctx.Err(); err != nil {
			return
		}
		title := strings.TrimSpace(e.ChildText("h1, h2, h3"))
		body := strings.TrimSpace(e.ChildText("p"))
		link := e.Request.AbsoluteURL(e.ChildAttr("a[href]", "href"))

		mu.Lock()
		raw = append(raw, RawArticle{Title: title, Content: body, URL: link})
		mu.Unlock()
	})

	c.OnError(func(_ *colly.Response, err error) {
		mu.Lock()
		fetchErr = err
		mu.Unlock()
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if fetchErr != nil && len(raw) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, fetchErr)
	}
	return Normalize(raw), nil
}
