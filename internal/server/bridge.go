package server

import "PursuitOverhaul/internal/game"

type statKey struct {
	session game.SessionID
	stat    game.Stat
}

// bridge is the remote game as seen by one connection's registry. Stats
// are the last values pushed by the game; commands are queued until the
// connection flushes them.
type bridge struct {
	stats    map[statKey]float64
	commands []Frame
}

func newBridge() *bridge {
	return &bridge{stats: map[statKey]float64{}}
}

func (b *bridge) Stat(session game.SessionID, stat game.Stat) float64 {
	return b.stats[statKey{session, stat}]
}

func (b *bridge) setStat(session game.SessionID, stat game.Stat, v float64) {
	b.stats[statKey{session, stat}] = v
}

// forget drops the cached stats of a destroyed session.
func (b *bridge) forget(session game.SessionID) {
	for k := range b.stats {
		if k.session == session {
			delete(b.stats, k)
		}
	}
}

// Commands are accepted as soon as they are queued; the game has no way to
// refuse them synchronously.
func (b *bridge) queue(f Frame) bool {
	f.Type = FrameCommand
	b.commands = append(b.commands, f)
	return true
}

func (b *bridge) StartSupportStrategy(session game.SessionID, strategy string) bool {
	return b.queue(Frame{Command: CommandSupportStrategy, Session: uint32(session), Kind: strategy})
}

func (b *bridge) StartLeaderStrategy(session game.SessionID, leader string) bool {
	return b.queue(Frame{Command: CommandLeaderStrategy, Session: uint32(session), Kind: leader})
}

func (b *bridge) ForceFlee(session game.SessionID, vehicle game.VehicleID) bool {
	return b.queue(Frame{Command: CommandForceFlee, Session: uint32(session), Vehicle: uint32(vehicle)})
}

func (b *bridge) SpawnHelicopter(session game.SessionID, kind string) bool {
	return b.queue(Frame{Command: CommandSpawnHelicopter, Session: uint32(session), Kind: kind})
}

// drain returns and clears the queued commands in issue order.
func (b *bridge) drain() []Frame {
	out := b.commands
	b.commands = nil
	return out
}
