// Package planner expands a list of articles into a timed slide schedule.
package planner

import (
	"time"

	"newsreel/internal/models"
)

const (
	// TargetDuration is the total runtime every generated video must reach.
	TargetDuration = 240 * time.Second

	// SlideDuration is the nominal time one article stays on screen. The
	// final slide is clamped so the schedule never overshoots the target.
	SlideDuration = 20 * time.Second
)

// Palette holds the background gradient pairs slides cycle through,
// independently of article cycling.
var Palette = []models.Accent{
	{From: "#1a2a6c", To: "#b21f1f"},
	{From: "#0f2027", To: "#2c5364"},
	{From: "#42275a", To: "#734b6d"},
	{From: "#141e30", To: "#243b55"},
	{From: "#2b5876", To: "#4e4376"},
	{From: "#232526", To: "#414345"},
}

// Plan expands articles into an ordered slide schedule whose durations sum
// to exactly TargetDuration, cycling round-robin over the articles and the
// palette. An empty input yields an empty plan.
func Plan(articles []models.Article) []models.SlidePlan {
	if len(articles) == 0 {
		return nil
	}

	var plans []models.SlidePlan
	elapsed := time.Duration(0)
	for index := 0; elapsed < TargetDuration; index++ {
		d := SlideDuration
		if remaining := TargetDuration - elapsed; d > remaining {
			d = remaining
		}
		plans = append(plans, models.SlidePlan{
			Article:  &articles[index%len(articles)],
			Duration: d,
			Accent:   Palette[index%len(Palette)],
		})
		elapsed += d
	}
	return plans
}

// Total returns the summed duration of a schedule.
func Total(plans []models.SlidePlan) time.Duration {
	var sum time.Duration
	for _, p := range plans {
		sum += p.Duration
	}
	return sum
}
