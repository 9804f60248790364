package tune

import (
	"context"
	"testing"

	"github.com/san-kum/pidlab/internal/config"
)

func TestRange(t *testing.T) {
	vals := Range(0, 1, 5)
	if len(vals) != 5 {
		t.Fatalf("expected 5 values, got %d", len(vals))
	}
	if vals[0] != 0 || vals[4] != 1 {
		t.Errorf("expected endpoints 0 and 1, got %f and %f", vals[0], vals[4])
	}

	vals = Range(3, 9, 1)
	if len(vals) != 1 || vals[0] != 3 {
		t.Errorf("degenerate range should collapse to the low end, got %v", vals)
	}
}

func TestSearchEmptyRange(t *testing.T) {
	g := NewGridSearch(nil, []float64{0}, []float64{0})
	if _, err := g.Search(context.Background(), config.DefaultConfig()); err == nil {
		t.Error("expected error for empty gain range")
	}
}

func TestSearchPrefersTracking(t *testing.T) {
	base := config.GetPreset("pressure")
	base.Duration = 5.0

	// A zero-gain loop never moves; any proportional action beats it.
	g := NewGridSearch([]float64{0, 1.0}, []float64{0, 0.1}, []float64{0})
	best, err := g.Search(context.Background(), base)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best.Kp == 0 && best.Ki == 0 {
		t.Errorf("expected non-zero gains to win, got kp=%f ki=%f", best.Kp, best.Ki)
	}
}

func TestSearchDeterministic(t *testing.T) {
	base := config.GetPreset("pressure")
	base.Duration = 2.0

	g := NewGridSearch(Range(0.1, 1.0, 4), Range(0, 0.1, 3), []float64{0, 0.05})

	a, err := g.Search(context.Background(), base)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	b, err := g.Search(context.Background(), base)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if a != b {
		t.Errorf("same search produced different winners: %+v vs %+v", a, b)
	}
}
