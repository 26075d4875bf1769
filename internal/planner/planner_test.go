package planner

import (
	"fmt"
	"testing"
	"time"

	"newsreel/internal/models"
)

func makeArticles(n int) []models.Article {
	articles := make([]models.Article, n)
	for i := range articles {
		articles[i] = models.Article{
			ID:      fmt.Sprintf("a%d", i),
			Title:   fmt.Sprintf("Headline %d", i),
			Content: "Body text.",
			URL:     fmt.Sprintf("https://example.com/%d", i),
			Author:  "Wire",
		}
	}
	return articles
}

func TestPlanEmpty(t *testing.T) {
	if got := Plan(nil); len(got) != 0 {
		t.Fatalf("Plan(nil) = %d slides, want 0", len(got))
	}
	if got := Plan([]models.Article{}); len(got) != 0 {
		t.Fatalf("Plan([]) = %d slides, want 0", len(got))
	}
}

func TestPlanDurationsSumToTarget(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 11, 12, 15, 40} {
		plans := Plan(makeArticles(n))
		if Total(plans) != TargetDuration {
			t.Errorf("n=%d: total = %v, want %v", n, Total(plans), TargetDuration)
		}
		for i, p := range plans {
			if p.Duration <= 0 || p.Duration > SlideDuration {
				t.Errorf("n=%d slide %d: duration %v out of range", n, i, p.Duration)
			}
		}
	}
}

func TestPlanThreeArticlesCycle(t *testing.T) {
	articles := makeArticles(3)
	plans := Plan(articles)

	if len(plans) != 12 {
		t.Fatalf("got %d slides, want 12", len(plans))
	}
	for i, p := range plans {
		if p.Duration != 20*time.Second {
			t.Errorf("slide %d: duration %v, want 20s", i, p.Duration)
		}
		want := articles[i%3].ID
		if p.Article.ID != want {
			t.Errorf("slide %d: article %s, want %s", i, p.Article.ID, want)
		}
	}
}

func TestPlanFifteenArticlesSinglePass(t *testing.T) {
	articles := makeArticles(15)
	plans := Plan(articles)

	if len(plans) != 12 {
		t.Fatalf("got %d slides, want 12", len(plans))
	}
	for i, p := range plans {
		if p.Article.ID != articles[i].ID {
			t.Errorf("slide %d: article %s, want %s", i, p.Article.ID, articles[i].ID)
		}
	}
}

func TestPlanAccentCyclesIndependently(t *testing.T) {
	plans := Plan(makeArticles(7))
	for i, p := range plans {
		want := Palette[i%len(Palette)]
		if p.Accent != want {
			t.Errorf("slide %d: accent %v, want %v", i, p.Accent, want)
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	articles := makeArticles(5)
	a := Plan(articles)
	b := Plan(articles)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Article.ID != b[i].Article.ID || a[i].Duration != b[i].Duration || a[i].Accent != b[i].Accent {
			t.Errorf("slide %d differs between runs", i)
		}
	}
}
