package game

import (
	"log/slog"
	"math/rand"

	"PursuitOverhaul/internal/tier"
)

// SessionSummary describes a finished pursuit.
type SessionSummary struct {
	Session    SessionID
	Started    float64
	Ended      float64
	Escalation float64        // escalation produced, drained or not
	MaxLevel   tier.Level     // highest level reached
	Vehicles   map[string]int // vehicles seen, by label name
}

// Observer is told about finished pursuits.
type Observer interface {
	SessionEnded(SessionSummary)
}

// Options configures a Registry. Every field is optional.
type Options struct {
	Settings   *Settings
	Game       Game
	Classifier Classifier
	Rand       *rand.Rand
	Logger     *slog.Logger
	Observer   Observer
}

// Registry owns every live session and dispatches external events to them.
// It is not safe for concurrent use; callers serialise events.
type Registry struct {
	sessions map[SessionID]*Session
	order    []SessionID

	now   float64
	mode  tier.Mode
	level tier.Level

	settings   *Settings
	game       Game
	classifier Classifier
	rng        *rand.Rand
	log        *slog.Logger
	observer   Observer

	patrols     *Contingent
	patrolKinds map[VehicleID]string
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{
		sessions:    map[SessionID]*Session{},
		mode:        tier.Roam,
		level:       1,
		settings:    opts.Settings,
		game:        opts.Game,
		classifier:  opts.Classifier,
		rng:         opts.Rand,
		log:         loggerOrDiscard(opts.Logger),
		observer:    opts.Observer,
		patrolKinds: map[VehicleID]string{},
	}
	if r.settings == nil {
		r.settings = &Settings{}
	}
	if r.game == nil {
		r.game = nopGame{}
	}
	if r.classifier == nil {
		r.classifier = DefaultClassifier()
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(1))
	}
	r.settings.SelectTier(r.mode, r.level)
	if r.settings.Spawns != nil {
		r.patrols = NewContingent("patrols", r.settings.Spawns.Patrols.Current(), r.log)
	}
	return r
}

// Now implements Clock with the time of the last simulation tick.
func (r *Registry) Now() float64 { return r.now }

// Level returns the current mode and escalation level.
func (r *Registry) Level() (tier.Mode, tier.Level) { return r.mode, r.level }

func (r *Registry) Settings() *Settings { return r.settings }

// Session looks up a live session. Misses are logged.
func (r *Registry) Session(id SessionID) (*Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		r.log.Warn("unknown session", "session", id)
	}
	return s, ok
}

// ActiveSessions returns live session handles in creation order.
func (r *Registry) ActiveSessions() []SessionID {
	return append([]SessionID(nil), r.order...)
}

func (r *Registry) OnSessionCreated(id SessionID) {
	if _, ok := r.sessions[id]; ok {
		r.log.Warn("session created twice", "session", id)
		return
	}
	r.sessions[id] = newSession(id, r)
	r.order = append(r.order, id)
	r.log.Info("session created", "session", id, "mode", r.mode, "level", r.level)
}

func (r *Registry) OnSessionDestroyed(id SessionID) {
	s, ok := r.Session(id)
	if !ok {
		return
	}
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	sum := s.summary(r.now)
	r.log.Info("session destroyed", "session", id, "escalation", sum.Escalation, "max_level", sum.MaxLevel)
	if r.observer != nil {
		r.observer.SessionEnded(sum)
	}
}

// OnSimulationTick advances the clock and ticks every session in creation
// order.
func (r *Registry) OnSimulationTick(now float64) {
	dt := now - r.now
	if dt < 0 {
		r.log.Warn("clock went backwards", "now", now, "previous", r.now)
		dt = 0
	}
	r.now = now
	for _, id := range r.ActiveSessions() {
		if s, ok := r.sessions[id]; ok {
			s.tick(dt)
		}
	}
}

// OnEscalationLevelChanged selects the new tier everywhere and flags level
// setup on every session.
func (r *Registry) OnEscalationLevelChanged(mode tier.Mode, level tier.Level) {
	if !mode.Valid() {
		r.log.Warn("invalid mode", "mode", int(mode))
		mode = tier.Roam
	}
	if !level.Valid() {
		r.log.Warn("invalid level clamped", "level", int(level))
		level = tier.ClampLevel(level)
	}
	r.mode, r.level = mode, level
	r.settings.SelectTier(mode, level)
	if r.patrols != nil {
		r.patrols.UpdateSpawnTable(r.settings.Spawns.Patrols.Current())
	}
	for _, id := range r.order {
		r.sessions[id].levelChanged(level)
	}
	r.log.Info("escalation level changed", "mode", mode, "level", level)
}

// OnVehicleAdded classifies and records a vehicle joining a session. A
// second add for a tracked vehicle with a different label relabels it.
func (r *Registry) OnVehicleAdded(id SessionID, v VehicleID, kind string, site CallSite) {
	s, ok := r.Session(id)
	if !ok {
		return
	}
	label, known := r.classifier.Classify(site)
	if !known {
		r.log.Warn("unknown call site", "session", id, "vehicle", v, "site", site)
	}
	if rec, tracked := s.vehicles[v]; tracked {
		if rec.label == label {
			r.log.Warn("vehicle added twice", "session", id, "vehicle", v, "label", label)
			return
		}
		r.log.Debug("vehicle relabelled", "session", id, "vehicle", v, "from", rec.label, "to", label)
		s.removeVehicle(v)
	}
	s.addVehicle(v, label, kind)
}

func (r *Registry) OnVehicleRemoved(id SessionID, v VehicleID) {
	s, ok := r.Session(id)
	if !ok {
		return
	}
	if _, tracked := s.removeVehicle(v); !tracked {
		r.log.Warn("remove of untracked vehicle", "session", id, "vehicle", v)
	}
}

func (r *Registry) OnSearchModeChanged(id SessionID, searching bool) {
	if s, ok := r.Session(id); ok {
		s.searching = searching
	}
}

// OnPatrolAdded records a free-roaming patrol vehicle.
func (r *Registry) OnPatrolAdded(v VehicleID, kind string) {
	if _, ok := r.patrolKinds[v]; ok {
		r.log.Warn("patrol added twice", "vehicle", v)
		return
	}
	r.patrolKinds[v] = kind
	if r.patrols != nil {
		r.patrols.Add(kind)
	}
}

func (r *Registry) OnPatrolRemoved(v VehicleID) {
	kind, ok := r.patrolKinds[v]
	if !ok {
		r.log.Warn("remove of untracked patrol", "vehicle", v)
		return
	}
	delete(r.patrolKinds, v)
	if r.patrols != nil {
		r.patrols.Remove(kind)
	}
}

// CanSpawnPursuer reports whether the game may add a pursuer. With spawns
// disabled the game's own logic decides, so it reports true.
func (r *Registry) CanSpawnPursuer(id SessionID) bool {
	s, ok := r.Session(id)
	if !ok {
		return false
	}
	if s.spawner == nil {
		return true
	}
	return s.spawner.CanSpawn()
}

// NextPursuerKind draws the kind of the next pursuer. It returns false when
// the game should use its own choice.
func (r *Registry) NextPursuerKind(id SessionID) (string, bool) {
	s, ok := r.Session(id)
	if !ok || s.spawner == nil {
		return "", false
	}
	return s.spawner.NextPursuerKind()
}

func (r *Registry) NextRoadblockKind(id SessionID) (string, bool) {
	s, ok := r.Session(id)
	if !ok || s.spawner == nil {
		return "", false
	}
	return s.spawner.NextRoadblockKind()
}

// PatrolCount is the number of tracked patrols.
func (r *Registry) PatrolCount() int { return len(r.patrolKinds) }

// CanSpawnPatrol reports whether another patrol may be added.
func (r *Registry) CanSpawnPatrol() bool {
	if r.patrols == nil || r.patrols.Source().IsEmpty() {
		return true
	}
	if len(r.patrolKinds) >= r.settings.Spawns.MaxPatrols.Current() {
		return false
	}
	return r.patrols.HasCapacity()
}

func (r *Registry) NextPatrolKind() (string, bool) {
	if r.patrols == nil || r.patrols.Source().IsEmpty() {
		return "", false
	}
	return r.patrols.DrawRandomAvailable(r.rng)
}

func (r *Registry) PendingEscalation(id SessionID) float64 {
	if s, ok := r.Session(id); ok {
		return s.PendingEscalation()
	}
	return 0
}

func (r *Registry) DrainPendingEscalation(id SessionID) float64 {
	if s, ok := r.Session(id); ok {
		return s.DrainPendingEscalation()
	}
	return 0
}

type nopGame struct{}

func (nopGame) Stat(SessionID, Stat) float64                { return 0 }
func (nopGame) StartSupportStrategy(SessionID, string) bool { return false }
func (nopGame) StartLeaderStrategy(SessionID, string) bool  { return false }
func (nopGame) ForceFlee(SessionID, VehicleID) bool         { return false }
func (nopGame) SpawnHelicopter(SessionID, string) bool      { return false }
