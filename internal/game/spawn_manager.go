package game

// SpawnManager gates and picks pursuer and roadblock spawns for one
// session.
//
// Roadblock vehicles keep their slot in the roadblock contingent until the
// whole roadblock has disbanded; vehicles leaving early do not free it.
type SpawnManager struct {
	BaseReaction
	cfg   *SpawnSettings
	delay *IntervalTimer

	pursuers   map[VehicleID]string
	joiners    map[VehicleID]struct{}
	roadblocks map[VehicleID]string
}

func newSpawnManager(s *Session, cfg *SpawnSettings) *SpawnManager {
	m := &SpawnManager{
		BaseReaction: s.base(),
		cfg:          cfg,
		pursuers:     map[VehicleID]string{},
		joiners:      map[VehicleID]struct{}{},
		roadblocks:   map[VehicleID]string{},
	}
	m.delay = m.timer("spawn-delay")
	return m
}

func (m *SpawnManager) OnLevelSetup() {
	m.delay.Bind(m.cfg.Delay)
}

func (m *SpawnManager) OnVehicleAdded(v VehicleID, label Label, kind string) {
	s, ok := m.session()
	if !ok {
		return
	}
	switch label {
	case LabelPursuer:
		m.pursuers[v] = kind
		s.pursuers.Add(kind)
		m.delay.Restart()
	case LabelRoadblockJoiner:
		m.joiners[v] = struct{}{}
	case LabelRoadblock:
		m.roadblocks[v] = kind
		s.roadblocks.Add(kind)
	}
}

func (m *SpawnManager) OnVehicleRemoved(v VehicleID, label Label, kind string) {
	s, ok := m.session()
	if !ok {
		return
	}
	switch label {
	case LabelPursuer:
		if _, tracked := m.pursuers[v]; tracked {
			delete(m.pursuers, v)
			s.pursuers.Remove(kind)
		}
	case LabelRoadblockJoiner:
		delete(m.joiners, v)
	case LabelRoadblock:
		delete(m.roadblocks, v)
		if len(m.roadblocks) == 0 {
			s.roadblocks.Clear()
		}
	}
}

// ActiveCount is the number of vehicles counted against the chaser limit.
func (m *SpawnManager) ActiveCount() int {
	n := len(m.pursuers)
	if m.cfg.CountJoiners.Current() {
		n += len(m.joiners)
	}
	return n
}

// CanSpawn reports whether another pursuer may join. An empty table leaves
// the decision to the game.
func (m *SpawnManager) CanSpawn() bool {
	s, ok := m.session()
	if !ok {
		return false
	}
	if s.pursuers.Source().IsEmpty() {
		return true
	}
	if m.ActiveCount() >= m.cfg.MaxActive.Current() {
		return false
	}
	if !s.pursuers.HasCapacity() {
		return false
	}
	if m.delay.IsRunning() && m.delay.IsEnabled() && !m.delay.HasExpired() {
		return false
	}
	return true
}

func (m *SpawnManager) NextPursuerKind() (string, bool) {
	s, ok := m.session()
	if !ok || s.pursuers.Source().IsEmpty() {
		return "", false
	}
	return s.pursuers.DrawRandomAvailable(m.rng())
}

func (m *SpawnManager) NextRoadblockKind() (string, bool) {
	s, ok := m.session()
	if !ok || s.roadblocks.Source().IsEmpty() {
		return "", false
	}
	return s.roadblocks.DrawRandomAvailable(m.rng())
}
