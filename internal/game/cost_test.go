package game

import (
	"testing"

	"PursuitOverhaul/internal/tier"
)

func TestCostTrackerPrimesPreviousCost(t *testing.T) {
	value := 40.0
	c := NewCostTracker(func() float64 { return value }, 10, tier.NewTiered(100.0))
	if got := c.Previous(); got != 400 {
		t.Fatalf("expected primed cost 400, got %f", got)
	}
	if got := c.UpdateCost(); got != 0 {
		t.Fatalf("expected no escalation without growth, got %f", got)
	}
	value = 45
	if got := c.UpdateCost(); got != 0.5 {
		t.Fatalf("expected 0.5, got %f", got)
	}
}

func TestCostTrackerIgnoresDecrease(t *testing.T) {
	value := 10.0
	c := NewCostTracker(func() float64 { return value }, 1, tier.NewTiered(1.0))
	value = 4
	if got := c.UpdateCost(); got != 0 {
		t.Fatalf("expected 0 for decrease, got %f", got)
	}
	value = 6
	if got := c.UpdateCost(); got != 2 {
		t.Fatalf("expected growth from the lowered baseline, got %f", got)
	}
}

func TestCostTrackerZeroRatioDisables(t *testing.T) {
	value := 0.0
	ratio := tier.NewTiered(0.0)
	ratio.Set(tier.Roam, 2, 5)
	c := NewCostTracker(func() float64 { return value }, 1, ratio)
	value = 10
	if got := c.UpdateCost(); got != 0 {
		t.Fatalf("expected disabled tracker, got %f", got)
	}
	if c.Previous() != 10 {
		t.Fatal("disabled tracker must still advance its baseline")
	}

	ratio.SelectTier(tier.Roam, 2)
	value = 20
	if got := c.UpdateCost(); got != 2 {
		t.Fatalf("expected 2 at level 2, got %f", got)
	}
}

func TestRemainderCounterFloorsAtZero(t *testing.T) {
	total := 100.0
	parts := []Counter{
		func() float64 { return 30 },
		func() float64 { return 50 },
	}
	rest := remainderCounter(func() float64 { return total }, parts...)
	if got := rest(); got != 20 {
		t.Fatalf("expected 20, got %f", got)
	}
	total = 60
	if got := rest(); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}
