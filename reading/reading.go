// Package reading derives reading progress from scroll geometry and decides
// which progress milestones are worth recording.
package reading

import "math"

// Step is the milestone granularity in percent.
const Step = 25

// CollapseOffset is the scroll offset, in pixels, past which the header pill
// collapses.
const CollapseOffset = 100

// Geometry is the scroll state reported by the article page, in CSS pixels.
type Geometry struct {
	ArticleTop     float64 `json:"articleTop"`
	ArticleHeight  float64 `json:"articleHeight"`
	ViewportHeight float64 `json:"viewportHeight"`
	ScrollTop      float64 `json:"scrollTop"`
}

// Valid reports whether g describes a laid-out article in a real viewport.
func (g Geometry) Valid() bool {
	return g.ArticleHeight > 0 && g.ViewportHeight > 0 &&
		!math.IsNaN(g.ScrollTop) && !math.IsInf(g.ScrollTop, 0)
}

// Progress returns how far through the article the reader is, in [0, 100].
// Reading starts when the article top is 10% down the viewport and ends when
// its bottom reaches 90% of the viewport.
func Progress(g Geometry) float64 {
	start := g.ArticleTop - g.ViewportHeight*0.1
	end := g.ArticleTop + g.ArticleHeight - g.ViewportHeight*0.9
	span := end - start
	if span <= 0 {
		// Article shorter than the reading window.
		if g.ScrollTop >= start {
			return 100
		}
		return 0
	}
	return Clamp((g.ScrollTop - start) / span * 100)
}

// Clamp limits p to [0, 100]; NaN becomes 0.
func Clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

// Milestone rounds progress down to the nearest Step.
func Milestone(progress float64) int {
	return int(math.Floor(Clamp(progress)/Step)) * Step
}

// Tracker remembers the last milestone reported for one article view.
// The zero value starts at 0%.
type Tracker struct {
	last int
}

// NewTracker resumes tracking from a previously reported milestone.
func NewTracker(last int) *Tracker {
	return &Tracker{last: last}
}

// Observe returns the milestone for progress and whether it should be
// recorded, which is only when it is at least one Step past the last one.
func (t *Tracker) Observe(progress float64) (int, bool) {
	if Clamp(progress) < float64(t.last+Step) {
		return t.last, false
	}
	t.last = Milestone(progress)
	return t.last, true
}

// Last returns the most recently reported milestone.
func (t *Tracker) Last() int {
	return t.last
}

// PillCollapsed reports whether the header pill is collapsed at scrollY.
func PillCollapsed(scrollY float64) bool {
	return scrollY > CollapseOffset
}

// TintOpacity is the alpha of the progress-coloured tint on the action pill.
func TintOpacity(progress float64) float64 {
	return math.Min(Clamp(progress)/100, 0.3)
}
