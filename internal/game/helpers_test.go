package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"PursuitOverhaul/internal/tuning"
)

const baseTuning = `
"Chasers:Limits":
  default: 8
"Chasers:Heat01":
  copmidsize: [3, 1]
"Chasers:Heat02":
  copsuv: [2, 1]
"Roadblocks:Heat01":
  copsuvl: [2, 1]
"Flee:Delay":
  default: [true, 5, 5]
"Helicopter:Spawn":
  default: [true, 10, 10]
"Helicopter:Lifetime":
  default: [true, 30, 30]
"Strategies:Cooldown":
  default: [true, 20, 20]
"Strategies:Duration":
  default: [15, 15]
"Strategies:Heat01":
  heavy_ramming: [1, 1]
"Leader:Cooldown":
  default: [true, 40, 40]
"Heat:Scales":
  hits: 100
"Heat:Hits":
  default: 1000
"Heat:Passive":
  default: [true, 0.5]
`

type fakeClock struct{ now float64 }

func (c *fakeClock) Now() float64 { return c.now }

type command struct {
	name    string
	session SessionID
	arg     string
	vehicle VehicleID
}

type fakeGame struct {
	stats  map[Stat]float64
	refuse bool
	log    []command
}

func newFakeGame() *fakeGame { return &fakeGame{stats: map[Stat]float64{}} }

func (g *fakeGame) Stat(_ SessionID, s Stat) float64 { return g.stats[s] }

func (g *fakeGame) record(c command) bool {
	g.log = append(g.log, c)
	return !g.refuse
}

func (g *fakeGame) StartSupportStrategy(s SessionID, name string) bool {
	return g.record(command{name: "strategy", session: s, arg: name})
}

func (g *fakeGame) StartLeaderStrategy(s SessionID, leader string) bool {
	return g.record(command{name: "leader", session: s, arg: leader})
}

func (g *fakeGame) ForceFlee(s SessionID, v VehicleID) bool {
	return g.record(command{name: "flee", session: s, vehicle: v})
}

func (g *fakeGame) SpawnHelicopter(s SessionID, kind string) bool {
	return g.record(command{name: "helicopter", session: s, arg: kind})
}

func (g *fakeGame) commands(name string) []command {
	var out []command
	for _, c := range g.log {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func loadTestSettings(t *testing.T, doc string, valid func(string) bool) *Settings {
	t.Helper()
	f, err := tuning.Parse([]byte(doc))
	require.NoError(t, err)
	return LoadSettings(f, valid, nil)
}

func newTestRegistry(t *testing.T, doc string, g Game) *Registry {
	t.Helper()
	return NewRegistry(Options{
		Settings: loadTestSettings(t, doc, nil),
		Game:     g,
		Rand:     rand.New(rand.NewSource(7)),
	})
}

type summaries []SessionSummary

func (s *summaries) SessionEnded(sum SessionSummary) { *s = append(*s, sum) }
