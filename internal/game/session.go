package game

import (
	"PursuitOverhaul/internal/tier"
)

type vehicleRecord struct {
	label Label
	kind  string
}

// Session is the state of one pursuit.
type Session struct {
	ID  SessionID
	reg *Registry

	vehicles  map[VehicleID]vehicleRecord
	reactions []Reaction

	pursuers   *Contingent
	roadblocks *Contingent
	strategies *Contingent

	spawner *SpawnManager
	heat    *HeatManager

	pending   float64
	searching bool

	firstTickSeen       bool
	sessionSetupPending bool
	levelSetupPending   bool

	created    float64
	escalation float64
	maxLevel   tier.Level
	seen       [numLabels]int
}

func newSession(id SessionID, reg *Registry) *Session {
	s := &Session{
		ID:                  id,
		reg:                 reg,
		vehicles:            map[VehicleID]vehicleRecord{},
		sessionSetupPending: true,
		levelSetupPending:   true,
		created:             reg.now,
		maxLevel:            reg.level,
	}
	cfg := reg.settings
	log := reg.log.With("session", id)
	if cfg.Spawns != nil {
		s.pursuers = NewContingent("pursuers", cfg.Spawns.Pursuers.Current(), log)
		s.roadblocks = NewContingent("roadblocks", cfg.Spawns.Roadblocks.Current(), log)
		s.spawner = newSpawnManager(s, cfg.Spawns)
		s.reactions = append(s.reactions, s.spawner)
	}
	if cfg.Flee != nil {
		s.reactions = append(s.reactions, newFleeManager(s, cfg.Flee))
	}
	if cfg.Helicopter != nil {
		s.reactions = append(s.reactions, newHelicopterManager(s, cfg.Helicopter))
	}
	if cfg.Strategies != nil {
		s.strategies = NewContingent("strategies", cfg.Strategies.Tables.Current(), log)
		s.reactions = append(s.reactions, newStrategyManager(s, cfg.Strategies))
	}
	if cfg.Leader != nil {
		s.reactions = append(s.reactions, newLeaderManager(s, cfg.Leader))
	}
	if cfg.Heat != nil {
		s.heat = newHeatManager(s, cfg.Heat)
		s.reactions = append(s.reactions, s.heat)
	}
	return s
}

func (s *Session) base() BaseReaction { return BaseReaction{id: s.ID, reg: s.reg} }

// AddPendingEscalation accumulates escalation for the game to drain. It is
// ignored while the pursuit is searching.
func (s *Session) AddPendingEscalation(v float64) {
	if s.searching || v <= 0 {
		return
	}
	s.pending += v
}

func (s *Session) PendingEscalation() float64 { return s.pending }

// DrainPendingEscalation returns and resets the pending escalation.
func (s *Session) DrainPendingEscalation() float64 {
	v := s.pending
	s.pending = 0
	s.escalation += v
	return v
}

func (s *Session) Searching() bool { return s.searching }

// Vehicle returns the label and kind of a tracked vehicle.
func (s *Session) Vehicle(v VehicleID) (Label, string, bool) {
	rec, ok := s.vehicles[v]
	return rec.label, rec.kind, ok
}

// VehicleCount is the number of tracked vehicles with label.
func (s *Session) VehicleCount(label Label) int {
	n := 0
	for _, rec := range s.vehicles {
		if rec.label == label {
			n++
		}
	}
	return n
}

// Pursuers, Roadblocks and Strategies are nil when their feature is
// disabled.
func (s *Session) Pursuers() *Contingent   { return s.pursuers }
func (s *Session) Roadblocks() *Contingent { return s.roadblocks }
func (s *Session) Strategies() *Contingent { return s.strategies }

// AddReaction appends r after the built-in reactions. Reactions added after
// the first tick miss the setup hooks.
func (s *Session) AddReaction(r Reaction) {
	if s.firstTickSeen {
		s.reg.log.Warn("reaction added after first tick", "session", s.ID)
	}
	s.reactions = append(s.reactions, r)
}

func (s *Session) Reactions() []Reaction { return append([]Reaction(nil), s.reactions...) }

func (s *Session) tick(dt float64) {
	s.firstTickSeen = true
	if s.sessionSetupPending {
		s.sessionSetupPending = false
		for _, r := range s.reactions {
			r.OnSessionSetup()
		}
	}
	if s.levelSetupPending {
		s.levelSetupPending = false
		for _, r := range s.reactions {
			r.OnLevelSetup()
		}
	}
	for _, r := range s.reactions {
		r.OnTick(dt)
	}
}

func (s *Session) levelChanged(level tier.Level) {
	cfg := s.reg.settings
	if s.pursuers != nil {
		s.pursuers.UpdateSpawnTable(cfg.Spawns.Pursuers.Current())
		s.roadblocks.UpdateSpawnTable(cfg.Spawns.Roadblocks.Current())
	}
	if s.strategies != nil {
		s.strategies.UpdateSpawnTable(cfg.Strategies.Tables.Current())
	}
	s.maxLevel = max(s.maxLevel, level)
	s.levelSetupPending = true
}

func (s *Session) addVehicle(v VehicleID, label Label, kind string) {
	s.vehicles[v] = vehicleRecord{label: label, kind: kind}
	s.seen[label]++
	for _, r := range s.reactions {
		r.OnVehicleAdded(v, label, kind)
	}
}

func (s *Session) removeVehicle(v VehicleID) (vehicleRecord, bool) {
	rec, ok := s.vehicles[v]
	if !ok {
		return rec, false
	}
	delete(s.vehicles, v)
	for _, r := range s.reactions {
		r.OnVehicleRemoved(v, rec.label, rec.kind)
	}
	return rec, true
}

func (s *Session) summary(now float64) SessionSummary {
	seen := map[string]int{}
	for l, n := range s.seen {
		if n > 0 {
			seen[Label(l).String()] = n
		}
	}
	return SessionSummary{
		Session:    s.ID,
		Started:    s.created,
		Ended:      now,
		Escalation: s.escalation + s.pending,
		MaxLevel:   s.maxLevel,
		Vehicles:   seen,
	}
}
