package game

import (
	"log/slog"
	"math"

	"PursuitOverhaul/internal/tier"
)

// HeatSettings tunes cost-based and passive escalation.
//
// Each cost kind converts a game counter into cost:
//
//	cost  = Scales[kind] * counter
//	heat += (cost - previous cost) / Ratios[kind]
//
// Other is the total cost minus the scaled costs of the four named kinds.
type HeatSettings struct {
	Ratios  [numCostKinds]*tier.Tiered[float64] // cost per unit of escalation; 0 disables the kind
	Scales  [numCostKinds]float64               // cost of one counter unit, not tiered
	Passive *tier.Optional[float64]             // escalation per second while not searching
}

func NewHeatSettings() *HeatSettings {
	s := &HeatSettings{Passive: &tier.Optional[float64]{}}
	for k := range s.Ratios {
		s.Ratios[k] = tier.NewTiered(0.0)
		s.Scales[k] = 1
	}
	return s
}

var heatSections = [numCostKinds]string{
	CostHits:   "Heat:Hits",
	CostWrecks: "Heat:Wrecks",
	CostClaims: "Heat:Claims",
	CostDamage: "Heat:Damage",
	CostOther:  "Heat:Other",
}

// SanitizeHeatScale clamps a scale to a finite, non-negative value.
func SanitizeHeatScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Clamp(v, 0, maxCostRatio)
}

// Initialise loads every heat section that is present. The feature only
// fails when none are configured or a present section is incomplete.
func (s *HeatSettings) Initialise(src tier.Source, log *slog.Logger) bool {
	l := newLoader(src, log, "heat")
	f := tier.DefaultFormat
	configured := false
	for k, section := range heatSections {
		if len(src.Entries(section)) > 0 {
			configured = true
		}
		ratio := s.Ratios[k]
		l.option(section, func() bool {
			return tier.Load(ratio, src, section, f, tier.Float(0), tier.Clamp(0.0, maxCostRatio))
		})
	}
	for _, e := range src.Entries("Heat:Scales") {
		configured = true
		k, ok := parseCostKind(e.Key)
		v, okValue := tier.Float(0)(e.Row)
		if !ok || !okValue {
			l.log.Warn("skipping heat scale", "kind", e.Key, "row", e.Row)
			continue
		}
		s.Scales[k] = SanitizeHeatScale(v)
	}
	if len(src.Entries("Heat:Passive")) > 0 {
		configured = true
	}
	l.option("Heat:Passive", func() bool {
		return tier.LoadOptional(s.Passive, src, "Heat:Passive", f, tier.Float, tier.Clamp(0.0, maxPassiveGain))
	})
	if !configured {
		l.fail("Heat:*")
	}
	return l.done()
}

func parseCostKind(s string) (CostKind, bool) {
	for k := CostKind(0); k < numCostKinds; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func (s *HeatSettings) SelectTier(mode tier.Mode, level tier.Level) {
	for _, r := range s.Ratios {
		r.SelectTier(mode, level)
	}
	s.Passive.SelectTier(mode, level)
}

// HeatManager turns cost growth and elapsed time into pending escalation.
type HeatManager struct {
	BaseReaction
	cfg      *HeatSettings
	trackers [numCostKinds]*CostTracker
}

func newHeatManager(s *Session, cfg *HeatSettings) *HeatManager {
	h := &HeatManager{BaseReaction: s.base(), cfg: cfg}
	game, id := s.reg.game, s.ID
	stat := func(st Stat) Counter {
		return func() float64 { return game.Stat(id, st) }
	}
	scaled := func(k CostKind, c Counter) Counter {
		return func() float64 { return cfg.Scales[k] * c() }
	}
	named := [...]struct {
		kind CostKind
		stat Stat
	}{
		{CostHits, StatCopsHit},
		{CostWrecks, StatCopsWrecked},
		{CostClaims, StatClaims},
		{CostDamage, StatPropertyDamage},
	}
	parts := make([]Counter, 0, len(named))
	for _, n := range named {
		h.trackers[n.kind] = NewCostTracker(stat(n.stat), cfg.Scales[n.kind], cfg.Ratios[n.kind])
		parts = append(parts, scaled(n.kind, stat(n.stat)))
	}
	other := remainderCounter(stat(StatTotalCost), parts...)
	h.trackers[CostOther] = NewCostTracker(other, cfg.Scales[CostOther], cfg.Ratios[CostOther])
	return h
}

// Tracker exposes the tracker of one cost kind.
func (h *HeatManager) Tracker(k CostKind) *CostTracker { return h.trackers[k] }

func (h *HeatManager) OnTick(dt float64) {
	s, ok := h.session()
	if !ok {
		return
	}
	gain := 0.0
	for _, t := range h.trackers {
		gain += t.UpdateCost()
	}
	if rate, on := h.cfg.Passive.Current(); on && dt > 0 {
		gain += rate * dt
	}
	if gain > 0 {
		s.AddPendingEscalation(gain)
	}
}
