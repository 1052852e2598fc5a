package game

import (
	"log/slog"
	"math/rand"
)

// SpawnEntry is one resource kind of a spawn table.
type SpawnEntry struct {
	Kind     string
	Count    int // capacity ceiling
	Chance   int // selection weight
	Capacity int // live capacity in [0, Count]
}

// SpawnTable is a weighted catalog of spawnable kinds with live capacity.
// Entries keep insertion order so draws are reproducible for a given rng.
type SpawnTable struct {
	entries         []SpawnEntry
	index           map[string]int
	availableWeight int
	totalCount      int
	log             *slog.Logger
}

// NewSpawnTable returns an empty table. A nil logger discards warnings.
func NewSpawnTable(log *slog.Logger) *SpawnTable {
	return &SpawnTable{index: map[string]int{}, log: loggerOrDiscard(log)}
}

// AddKind registers kind at full capacity. It rejects count < 1,
// chance < 1 and kinds that are already present.
func (t *SpawnTable) AddKind(kind string, count, chance int) bool {
	if kind == "" || count < 1 || chance < 1 {
		return false
	}
	if _, exists := t.index[kind]; exists {
		return false
	}
	t.index[kind] = len(t.entries)
	t.entries = append(t.entries, SpawnEntry{Kind: kind, Count: count, Chance: chance, Capacity: count})
	t.totalCount += count
	t.availableWeight += chance
	return true
}

// IsEmpty reports whether the table holds no capacity at all.
func (t *SpawnTable) IsEmpty() bool { return t.totalCount == 0 }

// HasCapacity reports whether any kind can still be drawn.
func (t *SpawnTable) HasCapacity() bool { return t.availableWeight > 0 }

// AvailableWeight is the sum of chance over kinds with capacity left.
func (t *SpawnTable) AvailableWeight() int { return t.availableWeight }

// TotalCount is the sum of configured counts.
func (t *SpawnTable) TotalCount() int { return t.totalCount }

// Len is the number of kinds.
func (t *SpawnTable) Len() int { return len(t.entries) }

// Contains reports whether kind is registered.
func (t *SpawnTable) Contains(kind string) bool {
	_, ok := t.index[kind]
	return ok
}

// Capacity returns the live capacity of kind.
func (t *SpawnTable) Capacity(kind string) (int, bool) {
	idx, ok := t.index[kind]
	if !ok {
		return 0, false
	}
	return t.entries[idx].Capacity, true
}

// Count returns the configured count of kind.
func (t *SpawnTable) Count(kind string) (int, bool) {
	idx, ok := t.index[kind]
	if !ok {
		return 0, false
	}
	return t.entries[idx].Count, true
}

// Kinds returns the registered kinds in insertion order.
func (t *SpawnTable) Kinds() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Kind
	}
	return out
}

// Entries returns a copy of the entries in insertion order.
func (t *SpawnTable) Entries() []SpawnEntry {
	return append([]SpawnEntry(nil), t.entries...)
}

// Clone returns an independent copy sharing only the logger.
func (t *SpawnTable) Clone() *SpawnTable {
	c := &SpawnTable{
		entries:         append([]SpawnEntry(nil), t.entries...),
		index:           make(map[string]int, len(t.index)),
		availableWeight: t.availableWeight,
		totalCount:      t.totalCount,
		log:             t.log,
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}

// DrawRandomAvailable picks a kind with capacity left, weighted by chance.
func (t *SpawnTable) DrawRandomAvailable(rng *rand.Rand) (string, bool) {
	if t.availableWeight <= 0 {
		return "", false
	}
	threshold := randIntn(rng, t.availableWeight) + 1
	cumulative := 0
	for _, e := range t.entries {
		if e.Capacity <= 0 {
			continue
		}
		cumulative += e.Chance
		if cumulative >= threshold {
			return e.Kind, true
		}
	}
	// availableWeight out of sync with the entries.
	t.log.Warn("spawn table draw fell through", "weight", t.availableWeight, "threshold", threshold)
	return "", false
}

// AdjustCapacity shifts the live capacity of kind by delta, clamped to
// [0, Count]. It reports false for unknown kinds.
func (t *SpawnTable) AdjustCapacity(kind string, delta int) bool {
	idx, ok := t.index[kind]
	if !ok {
		return false
	}
	e := &t.entries[idx]
	wasAvailable := e.Capacity > 0
	next := e.Capacity + delta
	if next > e.Count {
		t.log.Warn("spawn capacity overflow clamped", "kind", kind, "capacity", e.Capacity, "delta", delta, "count", e.Count)
		next = e.Count
	}
	if next < 0 {
		next = 0
	}
	e.Capacity = next
	if isAvailable := e.Capacity > 0; isAvailable != wasAvailable {
		if isAvailable {
			t.availableWeight += e.Chance
		} else {
			t.availableWeight -= e.Chance
		}
	}
	return true
}

// Validate drops every kind rejected by valid and reports whether any
// were dropped.
func (t *SpawnTable) Validate(valid func(kind string) bool) bool {
	if valid == nil {
		return false
	}
	kept := t.entries[:0]
	removed := false
	for _, e := range t.entries {
		if valid(e.Kind) {
			kept = append(kept, e)
			continue
		}
		removed = true
		t.totalCount -= e.Count
		if e.Capacity > 0 {
			t.availableWeight -= e.Chance
		}
		t.log.Warn("dropping unknown spawn kind", "kind", e.Kind)
	}
	t.entries = kept
	if removed {
		t.index = make(map[string]int, len(t.entries))
		for i, e := range t.entries {
			t.index[e.Kind] = i
		}
	}
	return removed
}

// randIntn draws from rng, or from the shared source when rng is nil.
func randIntn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
