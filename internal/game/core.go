package game

import (
	"log/slog"
)

// SessionID is the event source's opaque pursuit handle.
type SessionID uint32

// VehicleID is the event source's opaque vehicle handle.
type VehicleID uint32

// Clock is the monotonic simulation clock, in seconds.
type Clock interface {
	Now() float64
}

// Stat names a per-session counter maintained by the game.
type Stat int

const (
	StatCopsHit Stat = iota
	StatCopsWrecked
	StatClaims
	StatPropertyDamage
	StatTotalCost
	numStats
)

func (s Stat) String() string {
	switch s {
	case StatCopsHit:
		return "cops_hit"
	case StatCopsWrecked:
		return "cops_wrecked"
	case StatClaims:
		return "claims"
	case StatPropertyDamage:
		return "property_damage"
	case StatTotalCost:
		return "total_cost"
	default:
		return "unknown"
	}
}

func (s Stat) Valid() bool { return s >= 0 && s < numStats }

// Stats exposes the game's read-only pursuit counters.
type Stats interface {
	Stat(session SessionID, stat Stat) float64
}

// Commands are the actions the game accepts from this layer. Each returns
// whether the game accepted the command.
type Commands interface {
	StartSupportStrategy(session SessionID, strategy string) bool
	StartLeaderStrategy(session SessionID, leader string) bool
	ForceFlee(session SessionID, vehicle VehicleID) bool
	SpawnHelicopter(session SessionID, kind string) bool
}

// Game is the full external collaborator.
type Game interface {
	Stats
	Commands
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func loggerOrDiscard(log *slog.Logger) *slog.Logger {
	if log != nil {
		return log
	}
	return slog.New(slog.DiscardHandler)
}
