package game

import (
	"log/slog"
	"math/rand"
	"sort"
)

// Contingent is a session-scoped working copy of a spawn table that tracks
// how much of each kind the owner has in play. For every kind the working
// capacity equals max(0, source capacity - active).
type Contingent struct {
	source *SpawnTable
	table  *SpawnTable
	active map[string]int
	name   string
	log    *slog.Logger
}

// NewContingent returns a contingent over source. A nil source is treated
// as an empty table.
func NewContingent(name string, source *SpawnTable, log *slog.Logger) *Contingent {
	c := &Contingent{
		active: map[string]int{},
		name:   name,
		log:    loggerOrDiscard(log),
	}
	c.UpdateSpawnTable(source)
	return c
}

// Source returns the table the contingent is based on.
func (c *Contingent) Source() *SpawnTable { return c.source }

// Table returns the working copy. Callers must not mutate it.
func (c *Contingent) Table() *SpawnTable { return c.table }

// UpdateSpawnTable re-bases the contingent on source, keeping active counts.
func (c *Contingent) UpdateSpawnTable(source *SpawnTable) {
	if source == nil {
		source = NewSpawnTable(c.log)
	}
	c.source = source
	c.Rebase()
}

// Rebase copies the source again and re-applies every active count.
func (c *Contingent) Rebase() {
	c.table = c.source.Clone()
	for _, kind := range c.activeKinds() {
		n := c.active[kind]
		c.table.AdjustCapacity(kind, -n)
		c.log.Debug("contingent rebased kind", "contingent", c.name, "kind", kind, "active", n)
	}
}

// Add records one more active vehicle of kind.
func (c *Contingent) Add(kind string) {
	c.active[kind]++
	c.sync(kind)
}

// Remove records one active vehicle of kind leaving. It reports false when
// kind was not active.
func (c *Contingent) Remove(kind string) bool {
	n, ok := c.active[kind]
	if !ok {
		c.log.Warn("contingent remove of inactive kind", "contingent", c.name, "kind", kind)
		return false
	}
	if n <= 1 {
		delete(c.active, kind)
	} else {
		c.active[kind] = n - 1
	}
	c.sync(kind)
	return true
}

// Clear restores full capacity and forgets every active count.
func (c *Contingent) Clear() {
	kinds := c.activeKinds()
	c.active = map[string]int{}
	for _, kind := range kinds {
		c.sync(kind)
	}
}

// ActiveCount is the total active count across kinds.
func (c *Contingent) ActiveCount() int {
	total := 0
	for _, n := range c.active {
		total += n
	}
	return total
}

// ActiveCountOf is the active count of one kind.
func (c *Contingent) ActiveCountOf(kind string) int { return c.active[kind] }

// Excess reports how far the active count of kind exceeds what the source
// table allows.
func (c *Contingent) Excess(kind string) int {
	limit, _ := c.source.Capacity(kind)
	if over := c.active[kind] - limit; over > 0 {
		return over
	}
	return 0
}

// HasCapacity reports whether the working copy can still be drawn from.
func (c *Contingent) HasCapacity() bool { return c.table.HasCapacity() }

// DrawRandomAvailable draws from the working copy without consuming it.
func (c *Contingent) DrawRandomAvailable(rng *rand.Rand) (string, bool) {
	return c.table.DrawRandomAvailable(rng)
}

// sync forces the working capacity of kind to max(0, source - active).
func (c *Contingent) sync(kind string) {
	limit, ok := c.source.Capacity(kind)
	if !ok {
		return
	}
	want := limit - c.active[kind]
	if want < 0 {
		want = 0
	}
	have, _ := c.table.Capacity(kind)
	if want != have {
		c.table.AdjustCapacity(kind, want-have)
	}
}

func (c *Contingent) activeKinds() []string {
	kinds := make([]string, 0, len(c.active))
	for k := range c.active {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
