package game

// HelicopterManager requests aerial support on a timer and sends it away
// when its lifetime runs out.
type HelicopterManager struct {
	BaseReaction
	cfg      *HelicopterSettings
	spawn    *IntervalTimer
	lifetime *IntervalTimer

	active    VehicleID
	hasActive bool
	leaving   bool
}

func newHelicopterManager(s *Session, cfg *HelicopterSettings) *HelicopterManager {
	h := &HelicopterManager{BaseReaction: s.base(), cfg: cfg}
	h.spawn = h.timer("helicopter-spawn")
	h.lifetime = h.timer("helicopter-lifetime")
	return h
}

// Active returns the tracked helicopter.
func (h *HelicopterManager) Active() (VehicleID, bool) { return h.active, h.hasActive }

func (h *HelicopterManager) OnSessionSetup() {
	h.spawn.Bind(h.cfg.Spawn)
	h.spawn.Start()
}

func (h *HelicopterManager) OnLevelSetup() {
	h.spawn.Bind(h.cfg.Spawn)
	h.lifetime.Bind(h.cfg.Lifetime)
}

func (h *HelicopterManager) OnTick(float64) {
	if !h.hasActive {
		if h.spawn.HasExpired() {
			kind := h.cfg.Kind.Current()
			if h.game().SpawnHelicopter(h.SessionID(), kind) {
				h.log().Debug("helicopter requested", "session", h.SessionID(), "kind", kind)
				// Ask again after another interval if it never shows up.
				h.spawn.Restart()
			}
		}
		return
	}
	if !h.leaving && h.lifetime.HasExpired() {
		if h.game().ForceFlee(h.SessionID(), h.active) {
			h.leaving = true
			h.lifetime.Stop()
		}
	}
}

func (h *HelicopterManager) OnVehicleAdded(v VehicleID, label Label, _ string) {
	if label != LabelAerialSupport {
		return
	}
	if h.hasActive && h.active != v {
		h.log().Warn("second helicopter replaces tracked one", "session", h.SessionID(), "old", h.active, "new", v)
	}
	h.active, h.hasActive, h.leaving = v, true, false
	h.spawn.Stop()
	h.lifetime.Bind(h.cfg.Lifetime)
	h.lifetime.Restart()
}

func (h *HelicopterManager) OnVehicleRemoved(v VehicleID, label Label, _ string) {
	if label != LabelAerialSupport || !h.hasActive || v != h.active {
		return
	}
	h.hasActive, h.leaving = false, false
	h.lifetime.Stop()
	h.spawn.Restart()
}
