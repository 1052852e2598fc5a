package game

import (
	"log/slog"

	"PursuitOverhaul/internal/tier"
)

var timerFix = tier.Clamp(0.0, maxTimerSeconds)

// tableFormat names the per-level sections of a spawn table set.
var tableFormat = tier.Format{Roam: "Heat%02d", Race: "Race%02d"}

// loader collects the outcome of one feature's Initialise.
type loader struct {
	src     tier.Source
	log     *slog.Logger
	feature string
	failed  []string
}

// require loads a section that must be present and complete.
func (l *loader) require(section string, load func() bool) {
	if !load() {
		l.failed = append(l.failed, section)
	}
}

// option loads a section only when it has rows; absent sections keep the
// built-in defaults.
func (l *loader) option(section string, load func() bool) {
	if len(l.src.Entries(section)) == 0 {
		l.log.Debug("section absent, keeping defaults", "feature", l.feature, "section", section)
		return
	}
	l.require(section, load)
}

func (l *loader) fail(section string) { l.failed = append(l.failed, section) }

func (l *loader) done() bool {
	if len(l.failed) > 0 {
		l.log.Warn("feature disabled", "feature", l.feature, "sections", l.failed)
		return false
	}
	l.log.Info("feature loaded", "feature", l.feature)
	return true
}

func newLoader(src tier.Source, log *slog.Logger, feature string) *loader {
	return &loader{src: src, log: loggerOrDiscard(log), feature: feature}
}

// loadSpawnTables reads prefix:Heat01..10 and prefix:Race01..10. Entries
// are kind: [count, chance]; bad entries are skipped with a warning and
// oversized ones are clamped.
func loadSpawnTables(src tier.Source, prefix string, valid func(string) bool, log *slog.Logger) *tier.Tiered[*SpawnTable] {
	tables := &tier.Tiered[*SpawnTable]{}
	for m := tier.Roam; m <= tier.Race; m++ {
		for l := tier.Level(1); l <= tier.NumLevels; l++ {
			section := prefix + ":" + tableFormat.Key(m, l)
			table := NewSpawnTable(log)
			for _, e := range src.Entries(section) {
				count, okCount := tier.Int(0)(e.Row)
				chance, okChance := tier.Int(1)(e.Row)
				if !okCount || !okChance || !table.AddKind(e.Key, min(count, maxChasers), min(chance, maxSpawnChance)) {
					log.Warn("skipping spawn entry", "section", section, "kind", e.Key, "row", e.Row)
				}
			}
			table.Validate(valid)
			tables.Set(m, l, table)
		}
	}
	return tables
}

// resolvePursuerFallbacks makes every empty Race pursuer table inherit the
// Roam pursuer table of the same level.
func resolvePursuerFallbacks(pursuers *tier.Tiered[*SpawnTable]) {
	for l := tier.Level(1); l <= tier.NumLevels; l++ {
		if pursuers.At(tier.Race, l).IsEmpty() {
			pursuers.Set(tier.Race, l, pursuers.At(tier.Roam, l))
		}
	}
}

// resolveTableFallbacks makes every empty table of set inherit the pursuer
// table of the same mode and level.
func resolveTableFallbacks(set, pursuers *tier.Tiered[*SpawnTable]) {
	for m := tier.Roam; m <= tier.Race; m++ {
		for l := tier.Level(1); l <= tier.NumLevels; l++ {
			if set.At(m, l).IsEmpty() {
				set.Set(m, l, pursuers.At(m, l))
			}
		}
	}
}

func anyTable(set *tier.Tiered[*SpawnTable], keep func(*SpawnTable) bool) bool {
	for m := tier.Roam; m <= tier.Race; m++ {
		for l := tier.Level(1); l <= tier.NumLevels; l++ {
			if keep(set.At(m, l)) {
				return true
			}
		}
	}
	return false
}

func emptyTables(log *slog.Logger) *tier.Tiered[*SpawnTable] {
	return tier.NewTiered(NewSpawnTable(log))
}

// SpawnSettings tunes pursuer, roadblock and patrol spawning.
type SpawnSettings struct {
	Pursuers     *tier.Tiered[*SpawnTable]
	Roadblocks   *tier.Tiered[*SpawnTable]
	Patrols      *tier.Tiered[*SpawnTable]
	MaxActive    *tier.Tiered[int]
	MaxPatrols   *tier.Tiered[int]
	Delay        *tier.OptionalInterval[float64]
	CountJoiners *tier.Tiered[bool]
}

func NewSpawnSettings() *SpawnSettings {
	return &SpawnSettings{
		Pursuers:     emptyTables(nil),
		Roadblocks:   emptyTables(nil),
		Patrols:      emptyTables(nil),
		MaxActive:    tier.NewTiered(8),
		MaxPatrols:   tier.NewTiered(4),
		Delay:        &tier.OptionalInterval[float64]{},
		CountJoiners: tier.NewTiered(false),
	}
}

// Initialise loads the spawn feature. valid filters unknown vehicle kinds;
// nil accepts every kind.
func (s *SpawnSettings) Initialise(src tier.Source, valid func(string) bool, log *slog.Logger) bool {
	l := newLoader(src, log, "spawns")
	f := tier.DefaultFormat
	l.require("Chasers:Limits", func() bool {
		return tier.Load(s.MaxActive, src, "Chasers:Limits", f, tier.Int(0), tier.Clamp(0, maxChasers))
	})
	l.option("Chasers:Delay", func() bool {
		return tier.LoadOptionalInterval(s.Delay, src, "Chasers:Delay", f, tier.Float, timerFix)
	})
	l.option("Chasers:Joiners", func() bool {
		return tier.Load(s.CountJoiners, src, "Chasers:Joiners", f, tier.Bool(0), nil)
	})
	l.option("Patrols:Limits", func() bool {
		return tier.Load(s.MaxPatrols, src, "Patrols:Limits", f, tier.Int(0), tier.Clamp(0, maxPatrols))
	})

	s.Pursuers = loadSpawnTables(src, "Chasers", valid, l.log)
	resolvePursuerFallbacks(s.Pursuers)
	if !anyTable(s.Pursuers, func(t *SpawnTable) bool { return !t.IsEmpty() }) {
		l.fail("Chasers:Heat01..")
	}
	s.Roadblocks = loadSpawnTables(src, "Roadblocks", valid, l.log)
	resolveTableFallbacks(s.Roadblocks, s.Pursuers)
	s.Patrols = loadSpawnTables(src, "Patrols", valid, l.log)
	resolveTableFallbacks(s.Patrols, s.Pursuers)
	return l.done()
}

func (s *SpawnSettings) SelectTier(mode tier.Mode, level tier.Level) {
	tier.Group{s.Pursuers, s.Roadblocks, s.Patrols, s.MaxActive, s.MaxPatrols, s.Delay, s.CountJoiners}.SelectTier(mode, level)
}

// FleeSettings tunes how long over-budget pursuers linger before fleeing.
type FleeSettings struct {
	Delay *tier.OptionalInterval[float64]
}

func NewFleeSettings() *FleeSettings {
	return &FleeSettings{Delay: &tier.OptionalInterval[float64]{}}
}

func (s *FleeSettings) Initialise(src tier.Source, log *slog.Logger) bool {
	l := newLoader(src, log, "flee")
	l.require("Flee:Delay", func() bool {
		return tier.LoadOptionalInterval(s.Delay, src, "Flee:Delay", tier.DefaultFormat, tier.Float, timerFix)
	})
	return l.done()
}

func (s *FleeSettings) SelectTier(mode tier.Mode, level tier.Level) {
	s.Delay.SelectTier(mode, level)
}

// HelicopterSettings tunes aerial support.
type HelicopterSettings struct {
	Spawn    *tier.OptionalInterval[float64]
	Lifetime *tier.OptionalInterval[float64]
	Kind     *tier.Tiered[string]
}

func NewHelicopterSettings() *HelicopterSettings {
	return &HelicopterSettings{
		Spawn:    &tier.OptionalInterval[float64]{},
		Lifetime: &tier.OptionalInterval[float64]{},
		Kind:     tier.NewTiered("copheli"),
	}
}

func (s *HelicopterSettings) Initialise(src tier.Source, log *slog.Logger) bool {
	l := newLoader(src, log, "helicopter")
	f := tier.DefaultFormat
	l.require("Helicopter:Spawn", func() bool {
		return tier.LoadOptionalInterval(s.Spawn, src, "Helicopter:Spawn", f, tier.Float, timerFix)
	})
	l.option("Helicopter:Lifetime", func() bool {
		return tier.LoadOptionalInterval(s.Lifetime, src, "Helicopter:Lifetime", f, tier.Float, timerFix)
	})
	l.option("Helicopter:Vehicle", func() bool {
		return tier.Load(s.Kind, src, "Helicopter:Vehicle", f, tier.String(0), nil)
	})
	return l.done()
}

func (s *HelicopterSettings) SelectTier(mode tier.Mode, level tier.Level) {
	tier.Group{s.Spawn, s.Lifetime, s.Kind}.SelectTier(mode, level)
}

// StrategySettings tunes heavy support strategies. Strategy tables use the
// same layout as spawn tables; the count is the number of times a strategy
// may be requested during one pursuit. Duration is never shorter than
// minStrategySeconds, so a strategy whose vehicles never arrive still ends.
type StrategySettings struct {
	Cooldown *tier.OptionalInterval[float64]
	Duration *tier.Interval[float64]
	Tables   *tier.Tiered[*SpawnTable]
}

func NewStrategySettings() *StrategySettings {
	return &StrategySettings{
		Cooldown: &tier.OptionalInterval[float64]{},
		Duration: tier.NewInterval(30.0, 30.0),
		Tables:   emptyTables(nil),
	}
}

func (s *StrategySettings) Initialise(src tier.Source, log *slog.Logger) bool {
	l := newLoader(src, log, "strategies")
	f := tier.DefaultFormat
	l.require("Strategies:Cooldown", func() bool {
		return tier.LoadOptionalInterval(s.Cooldown, src, "Strategies:Cooldown", f, tier.Float, timerFix)
	})
	l.option("Strategies:Duration", func() bool {
		return tier.LoadInterval(s.Duration, src, "Strategies:Duration", f, tier.Float, tier.Clamp(minStrategySeconds, maxTimerSeconds))
	})
	s.Tables = loadSpawnTables(src, "Strategies", nil, l.log)
	resolvePursuerFallbacks(s.Tables)
	if !anyTable(s.Tables, func(t *SpawnTable) bool { return !t.IsEmpty() }) {
		l.fail("Strategies:Heat01..")
	}
	return l.done()
}

func (s *StrategySettings) SelectTier(mode tier.Mode, level tier.Level) {
	tier.Group{s.Cooldown, s.Duration, s.Tables}.SelectTier(mode, level)
}

// LeaderSettings tunes the leader strategy.
type LeaderSettings struct {
	Cooldown     *tier.OptionalInterval[float64]
	Kind         *tier.Tiered[string]
	HenchmenFlee *tier.Tiered[bool]
}

func NewLeaderSettings() *LeaderSettings {
	return &LeaderSettings{
		Cooldown:     &tier.OptionalInterval[float64]{},
		Kind:         tier.NewTiered("copcross"),
		HenchmenFlee: tier.NewTiered(true),
	}
}

func (s *LeaderSettings) Initialise(src tier.Source, log *slog.Logger) bool {
	l := newLoader(src, log, "leader")
	f := tier.DefaultFormat
	l.require("Leader:Cooldown", func() bool {
		return tier.LoadOptionalInterval(s.Cooldown, src, "Leader:Cooldown", f, tier.Float, timerFix)
	})
	l.option("Leader:Vehicle", func() bool {
		return tier.Load(s.Kind, src, "Leader:Vehicle", f, tier.String(0), nil)
	})
	l.option("Leader:HenchmenFlee", func() bool {
		return tier.Load(s.HenchmenFlee, src, "Leader:HenchmenFlee", f, tier.Bool(0), nil)
	})
	return l.done()
}

func (s *LeaderSettings) SelectTier(mode tier.Mode, level tier.Level) {
	tier.Group{s.Cooldown, s.Kind, s.HenchmenFlee}.SelectTier(mode, level)
}

// Settings holds every feature area. A nil field is a feature that failed
// to load and stays disabled.
type Settings struct {
	Spawns     *SpawnSettings
	Flee       *FleeSettings
	Helicopter *HelicopterSettings
	Strategies *StrategySettings
	Leader     *LeaderSettings
	Heat       *HeatSettings
}

// LoadSettings initialises every feature area from src.
func LoadSettings(src tier.Source, valid func(string) bool, log *slog.Logger) *Settings {
	log = loggerOrDiscard(log)
	s := &Settings{}
	if spawns := NewSpawnSettings(); spawns.Initialise(src, valid, log) {
		s.Spawns = spawns
	}
	if flee := NewFleeSettings(); flee.Initialise(src, log) {
		s.Flee = flee
	}
	if heli := NewHelicopterSettings(); heli.Initialise(src, log) {
		s.Helicopter = heli
	}
	if strategies := NewStrategySettings(); strategies.Initialise(src, log) {
		s.Strategies = strategies
	}
	if leader := NewLeaderSettings(); leader.Initialise(src, log) {
		s.Leader = leader
	}
	if heat := NewHeatSettings(); heat.Initialise(src, log) {
		s.Heat = heat
	}
	return s
}

func (s *Settings) SelectTier(mode tier.Mode, level tier.Level) {
	var g tier.Group
	if s.Spawns != nil {
		g = append(g, s.Spawns)
	}
	if s.Flee != nil {
		g = append(g, s.Flee)
	}
	if s.Helicopter != nil {
		g = append(g, s.Helicopter)
	}
	if s.Strategies != nil {
		g = append(g, s.Strategies)
	}
	if s.Leader != nil {
		g = append(g, s.Leader)
	}
	if s.Heat != nil {
		g = append(g, s.Heat)
	}
	g.SelectTier(mode, level)
}
