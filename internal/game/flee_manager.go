package game

// FleeManager makes pursuers that no longer fit the current spawn table
// leave after a delay. Without a pursuer contingent it does nothing.
type FleeManager struct {
	BaseReaction
	cfg *FleeSettings

	order   []VehicleID
	kinds   map[VehicleID]string
	flagged map[VehicleID]*IntervalTimer
	fled    map[VehicleID]bool
}

func newFleeManager(s *Session, cfg *FleeSettings) *FleeManager {
	return &FleeManager{
		BaseReaction: s.base(),
		cfg:          cfg,
		kinds:        map[VehicleID]string{},
		flagged:      map[VehicleID]*IntervalTimer{},
		fled:         map[VehicleID]bool{},
	}
}

// Flagged reports whether v is waiting to flee.
func (f *FleeManager) Flagged(v VehicleID) bool {
	_, ok := f.flagged[v]
	return ok
}

func (f *FleeManager) OnLevelSetup() {
	for _, t := range f.flagged {
		t.Bind(f.cfg.Delay)
	}
	f.flagExcess()
}

func (f *FleeManager) OnVehicleAdded(v VehicleID, label Label, kind string) {
	if label != LabelPursuer {
		return
	}
	f.order = append(f.order, v)
	f.kinds[v] = kind
	f.flagExcess()
}

func (f *FleeManager) OnVehicleRemoved(v VehicleID, label Label, _ string) {
	if label != LabelPursuer {
		return
	}
	delete(f.kinds, v)
	delete(f.flagged, v)
	delete(f.fled, v)
	for i, id := range f.order {
		if id == v {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

func (f *FleeManager) OnTick(float64) {
	for _, v := range f.order {
		t, ok := f.flagged[v]
		if !ok || f.fled[v] || !t.HasExpired() {
			continue
		}
		if f.game().ForceFlee(f.SessionID(), v) {
			f.fled[v] = true
			f.log().Debug("pursuer fleeing", "session", f.SessionID(), "vehicle", v, "kind", f.kinds[v])
		}
	}
}

// flagExcess flags the oldest unflagged pursuers of every kind that
// exceeds its table capacity. An empty table leaves pursuers to the game.
func (f *FleeManager) flagExcess() {
	s, ok := f.session()
	if !ok || s.pursuers == nil || s.pursuers.Source().IsEmpty() {
		return
	}
	pending := map[string]int{}
	for _, v := range f.order {
		kind := f.kinds[v]
		if _, seen := pending[kind]; !seen {
			pending[kind] = s.pursuers.Excess(kind) - f.flaggedOf(kind)
		}
		if pending[kind] <= 0 || f.Flagged(v) {
			continue
		}
		t := f.timer("flee")
		t.Bind(f.cfg.Delay)
		t.Start()
		f.flagged[v] = t
		pending[kind]--
	}
}

func (f *FleeManager) flaggedOf(kind string) int {
	n := 0
	for v := range f.flagged {
		if f.kinds[v] == kind {
			n++
		}
	}
	return n
}
