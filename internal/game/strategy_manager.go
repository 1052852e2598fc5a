package game

import "sort"

// StrategyManager starts heavy support strategies drawn from the strategy
// table and ends them when their vehicles are gone or time runs out.
type StrategyManager struct {
	BaseReaction
	cfg      *StrategySettings
	cooldown *IntervalTimer
	duration *IntervalTimer

	watched  string
	watching bool
	joined   map[VehicleID]struct{}
	arrived  bool
}

func newStrategyManager(s *Session, cfg *StrategySettings) *StrategyManager {
	m := &StrategyManager{BaseReaction: s.base(), cfg: cfg, joined: map[VehicleID]struct{}{}}
	m.cooldown = m.timer("strategy-cooldown")
	m.duration = m.timer("strategy-duration")
	return m
}

// Watched returns the running strategy.
func (m *StrategyManager) Watched() (string, bool) { return m.watched, m.watching }

func (m *StrategyManager) OnSessionSetup() {
	m.cooldown.Bind(m.cfg.Cooldown)
	m.cooldown.Start()
}

func (m *StrategyManager) OnLevelSetup() {
	m.cooldown.Bind(m.cfg.Cooldown)
	lo, hi := m.cfg.Duration.Current()
	m.duration.UpdateParameters(true, lo, hi)
}

func (m *StrategyManager) OnTick(float64) {
	if m.watching {
		if m.duration.HasExpired() {
			m.end(true)
		}
		return
	}
	if !m.cooldown.HasExpired() {
		return
	}
	s, ok := m.session()
	if !ok || !s.strategies.HasCapacity() {
		return
	}
	name, ok := s.strategies.DrawRandomAvailable(m.rng())
	if !ok || !m.game().StartSupportStrategy(m.SessionID(), name) {
		return
	}
	s.strategies.Add(name)
	m.watched, m.watching, m.arrived = name, true, false
	m.cooldown.Stop()
	m.duration.Restart()
	m.log().Debug("strategy started", "session", m.SessionID(), "strategy", name)
}

func (m *StrategyManager) OnVehicleAdded(v VehicleID, label Label, _ string) {
	if label != LabelHeavySupport || !m.watching {
		return
	}
	m.joined[v] = struct{}{}
	m.arrived = true
}

func (m *StrategyManager) OnVehicleRemoved(v VehicleID, label Label, _ string) {
	if label != LabelHeavySupport {
		return
	}
	delete(m.joined, v)
	if m.watching && m.arrived && len(m.joined) == 0 {
		m.end(false)
	}
}

// end closes the watched strategy. Timed out strategies send their
// remaining vehicles away.
func (m *StrategyManager) end(timedOut bool) {
	if timedOut {
		ids := make([]VehicleID, 0, len(m.joined))
		for v := range m.joined {
			ids = append(ids, v)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, v := range ids {
			m.game().ForceFlee(m.SessionID(), v)
		}
	}
	m.log().Debug("strategy ended", "session", m.SessionID(), "strategy", m.watched, "timed_out", timedOut)
	m.watched, m.watching, m.arrived = "", false, false
	m.joined = map[VehicleID]struct{}{}
	m.duration.Stop()
	m.cooldown.Restart()
}
