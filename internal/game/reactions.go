package game

import (
	"log/slog"
	"math/rand"
)

// Reaction is a per-session behaviour driven by registry events. Reactions
// run in registration order for every event.
type Reaction interface {
	OnSessionSetup()
	OnLevelSetup()
	OnTick(dt float64)
	OnVehicleAdded(v VehicleID, label Label, kind string)
	OnVehicleRemoved(v VehicleID, label Label, kind string)
}

// BaseReaction provides no-op handlers and resolves the owning session by
// handle, so reactions never hold a session pointer.
type BaseReaction struct {
	id  SessionID
	reg *Registry
}

func (BaseReaction) OnSessionSetup()                           {}
func (BaseReaction) OnLevelSetup()                             {}
func (BaseReaction) OnTick(float64)                            {}
func (BaseReaction) OnVehicleAdded(VehicleID, Label, string)   {}
func (BaseReaction) OnVehicleRemoved(VehicleID, Label, string) {}

// SessionID returns the owning session handle.
func (b BaseReaction) SessionID() SessionID { return b.id }

func (b BaseReaction) session() (*Session, bool) {
	s, ok := b.reg.sessions[b.id]
	if !ok {
		b.reg.log.Warn("reaction outlived its session", "session", b.id)
	}
	return s, ok
}

func (b BaseReaction) game() Game        { return b.reg.game }
func (b BaseReaction) rng() *rand.Rand   { return b.reg.rng }
func (b BaseReaction) log() *slog.Logger { return b.reg.log }
func (b BaseReaction) timer(name string) *IntervalTimer {
	return NewIntervalTimer(name, b.reg, b.reg.rng, b.reg.log.With("session", b.id))
}
