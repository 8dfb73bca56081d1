package reading

import (
	"math"
	"testing"
)

func TestProgress(t *testing.T) {
	// Article from 500 to 2500, viewport 1000:
	// start = 500 - 100 = 400, end = 500 + 2000 - 900 = 1600.
	base := Geometry{ArticleTop: 500, ArticleHeight: 2000, ViewportHeight: 1000}
	tests := []struct {
		scroll float64
		want   float64
	}{
		{0, 0},
		{400, 0},
		{700, 25},
		{1000, 50},
		{1600, 100},
		{5000, 100},
	}
	for _, tt := range tests {
		g := base
		g.ScrollTop = tt.scroll
		if got := Progress(g); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Progress(scroll=%v) = %v, want %v", tt.scroll, got, tt.want)
		}
	}
}

func TestProgressShortArticle(t *testing.T) {
	g := Geometry{ArticleTop: 100, ArticleHeight: 200, ViewportHeight: 1000}
	if got := Progress(g); got != 100 {
		t.Errorf("scrolled past start: got %v, want 100", got)
	}
	g.ArticleTop = 5000
	if got := Progress(g); got != 0 {
		t.Errorf("before start: got %v, want 0", got)
	}
}

func TestGeometryValid(t *testing.T) {
	if (Geometry{}).Valid() {
		t.Error("zero geometry should be invalid")
	}
	if !(Geometry{ArticleHeight: 10, ViewportHeight: 10}).Valid() {
		t.Error("expected valid geometry")
	}
	if (Geometry{ArticleHeight: 10, ViewportHeight: 10, ScrollTop: math.Inf(1)}).Valid() {
		t.Error("infinite scroll offset should be invalid")
	}
}

func TestMilestone(t *testing.T) {
	tests := []struct {
		progress float64
		want     int
	}{
		{-5, 0},
		{0, 0},
		{24.9, 0},
		{25, 25},
		{74, 50},
		{99.9, 75},
		{100, 100},
		{140, 100},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Milestone(tt.progress); got != tt.want {
			t.Errorf("Milestone(%v) = %d, want %d", tt.progress, got, tt.want)
		}
	}
}

func TestTrackerReportsEachMilestoneOnce(t *testing.T) {
	var tr Tracker
	steps := []struct {
		progress float64
		want     int
		ok       bool
	}{
		{10, 0, false},
		{26, 25, true},
		{30, 25, false},
		{49, 25, false},
		{80, 75, true},
		{60, 75, false},
		{100, 100, true},
		{100, 100, false},
	}
	for i, s := range steps {
		got, ok := tr.Observe(s.progress)
		if got != s.want || ok != s.ok {
			t.Errorf("step %d Observe(%v) = (%d, %v), want (%d, %v)", i, s.progress, got, ok, s.want, s.ok)
		}
	}
}

func TestNewTrackerResumes(t *testing.T) {
	tr := NewTracker(50)
	if _, ok := tr.Observe(60); ok {
		t.Fatal("60% should not be reported after resuming at 50%")
	}
	if m, ok := tr.Observe(75); !ok || m != 75 {
		t.Fatalf("Observe(75) = (%d, %v), want (75, true)", m, ok)
	}
	if tr.Last() != 75 {
		t.Errorf("Last() = %d, want 75", tr.Last())
	}
}

func TestPillCollapsed(t *testing.T) {
	if PillCollapsed(100) {
		t.Error("pill should stay expanded at exactly 100px")
	}
	if !PillCollapsed(101) {
		t.Error("pill should collapse past 100px")
	}
}

func TestTintOpacity(t *testing.T) {
	if got := TintOpacity(10); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("TintOpacity(10) = %v, want 0.1", got)
	}
	if got := TintOpacity(90); got != 0.3 {
		t.Errorf("TintOpacity(90) = %v, want 0.3", got)
	}
}
