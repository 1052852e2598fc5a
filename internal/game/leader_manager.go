package game

import "sort"

// LeaderManager requests the leader strategy on a timer. When the leader
// leaves, its henchmen may be sent away with it.
type LeaderManager struct {
	BaseReaction
	cfg      *LeaderSettings
	cooldown *IntervalTimer

	requested string // kind asked for by the last accepted request
	leader    VehicleID
	hasLeader bool
	henchmen  map[VehicleID]bool // true once told to flee
}

func newLeaderManager(s *Session, cfg *LeaderSettings) *LeaderManager {
	m := &LeaderManager{BaseReaction: s.base(), cfg: cfg, henchmen: map[VehicleID]bool{}}
	m.cooldown = m.timer("leader-cooldown")
	return m
}

// Leader returns the tracked leader vehicle.
func (m *LeaderManager) Leader() (VehicleID, bool) { return m.leader, m.hasLeader }

func (m *LeaderManager) Henchmen() int { return len(m.henchmen) }

func (m *LeaderManager) present() bool { return m.hasLeader || len(m.henchmen) > 0 }

func (m *LeaderManager) OnSessionSetup() {
	m.cooldown.Bind(m.cfg.Cooldown)
	m.cooldown.Start()
}

func (m *LeaderManager) OnLevelSetup() {
	m.cooldown.Bind(m.cfg.Cooldown)
}

func (m *LeaderManager) OnTick(float64) {
	if m.present() || !m.cooldown.HasExpired() {
		return
	}
	kind := m.cfg.Kind.Current()
	if m.game().StartLeaderStrategy(m.SessionID(), kind) {
		m.log().Debug("leader requested", "session", m.SessionID(), "kind", kind)
		m.requested = kind
		m.cooldown.Restart()
	}
}

func (m *LeaderManager) OnVehicleAdded(v VehicleID, label Label, kind string) {
	if label != LabelLeaderSupport {
		return
	}
	want := m.requested
	if want == "" {
		want = m.cfg.Kind.Current()
	}
	if !m.hasLeader && kind == want {
		m.leader, m.hasLeader = v, true
		return
	}
	m.henchmen[v] = false
}

func (m *LeaderManager) OnVehicleRemoved(v VehicleID, label Label, _ string) {
	if label != LabelLeaderSupport {
		return
	}
	if m.hasLeader && v == m.leader {
		m.hasLeader = false
		if m.cfg.HenchmenFlee.Current() {
			m.dismissHenchmen()
		}
	} else {
		delete(m.henchmen, v)
	}
	if !m.present() {
		m.cooldown.Restart()
	}
}

func (m *LeaderManager) dismissHenchmen() {
	ids := make([]VehicleID, 0, len(m.henchmen))
	for v, told := range m.henchmen {
		if !told {
			ids = append(ids, v)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, v := range ids {
		if m.game().ForceFlee(m.SessionID(), v) {
			m.henchmen[v] = true
		}
	}
}
