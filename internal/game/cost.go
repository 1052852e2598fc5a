package game

import "PursuitOverhaul/internal/tier"

// CostKind names one source of cost-based escalation.
type CostKind int

const (
	CostHits CostKind = iota
	CostWrecks
	CostClaims
	CostDamage
	CostOther
	numCostKinds
)

func (k CostKind) String() string {
	switch k {
	case CostHits:
		return "hits"
	case CostWrecks:
		return "wrecks"
	case CostClaims:
		return "claims"
	case CostDamage:
		return "damage"
	case CostOther:
		return "other"
	default:
		return "unknown"
	}
}

// Counter reads a monotonically increasing game value.
type Counter func() float64

// CostTracker converts growth of a counter into escalation. Decreases are
// ignored.
type CostTracker struct {
	counter  Counter
	scale    float64
	ratio    *tier.Tiered[float64]
	previous float64
}

// NewCostTracker primes the previous cost from the counter's current value.
// ratio is the cost needed for one unit of escalation; 0 disables.
func NewCostTracker(counter Counter, scale float64, ratio *tier.Tiered[float64]) *CostTracker {
	c := &CostTracker{counter: counter, scale: scale, ratio: ratio}
	c.previous = c.cost()
	return c
}

func (c *CostTracker) cost() float64 {
	if c.counter == nil {
		return 0
	}
	return c.scale * c.counter()
}

// UpdateCost returns the escalation earned since the previous call.
func (c *CostTracker) UpdateCost() float64 {
	next := c.cost()
	delta := next - c.previous
	c.previous = next
	if delta <= 0 || c.ratio == nil {
		return 0
	}
	ratio := c.ratio.Current()
	if ratio == 0 {
		return 0
	}
	return delta / ratio
}

// Previous returns the cost seen by the last update.
func (c *CostTracker) Previous() float64 { return c.previous }

// remainderCounter reads total minus the sum of parts, floored at zero.
func remainderCounter(total Counter, parts ...Counter) Counter {
	return func() float64 {
		rest := total()
		for _, p := range parts {
			rest -= p()
		}
		if rest < 0 {
			return 0
		}
		return rest
	}
}
