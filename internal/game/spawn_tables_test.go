package game

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddKindRejectsBadEntries(t *testing.T) {
	table := NewSpawnTable(nil)
	require.True(t, table.AddKind("copmidsize", 2, 10))

	assert.False(t, table.AddKind("", 1, 1), "empty kind")
	assert.False(t, table.AddKind("copsuv", 0, 1), "zero count")
	assert.False(t, table.AddKind("copsuv", 1, 0), "zero chance")
	assert.False(t, table.AddKind("copmidsize", 1, 1), "duplicate")

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 2, table.TotalCount())
	assert.Equal(t, 10, table.AvailableWeight())
}

func TestDrawSkipsExhaustedKinds(t *testing.T) {
	table := NewSpawnTable(nil)
	table.AddKind("a", 1, 50)
	table.AddKind("b", 1, 50)
	table.AdjustCapacity("a", -1)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		kind, ok := table.DrawRandomAvailable(rng)
		if !ok || kind != "b" {
			t.Fatalf("draw %d: expected b, got %q (%v)", i, kind, ok)
		}
	}

	table.AdjustCapacity("b", -1)
	if _, ok := table.DrawRandomAvailable(rng); ok {
		t.Fatal("expected no draw from an exhausted table")
	}
	if table.HasCapacity() {
		t.Fatal("exhausted table reports capacity")
	}
	if table.IsEmpty() {
		t.Fatal("exhausted table is not empty")
	}
}

func TestDrawFollowsChance(t *testing.T) {
	table := NewSpawnTable(nil)
	table.AddKind("a", 1, 50)
	table.AddKind("b", 1, 50)

	rng := rand.New(rand.NewSource(11))
	const draws = 10000
	hits := 0
	for i := 0; i < draws; i++ {
		if kind, _ := table.DrawRandomAvailable(rng); kind == "a" {
			hits++
		}
	}
	assert.InDelta(t, 0.5, float64(hits)/draws, 0.03)
}

func TestAdjustCapacityClamps(t *testing.T) {
	table := NewSpawnTable(nil)
	table.AddKind("a", 3, 7)

	require.True(t, table.AdjustCapacity("a", -10))
	c, _ := table.Capacity("a")
	assert.Equal(t, 0, c)
	assert.Equal(t, 0, table.AvailableWeight())

	require.True(t, table.AdjustCapacity("a", 10))
	c, _ = table.Capacity("a")
	assert.Equal(t, 3, c)
	assert.Equal(t, 7, table.AvailableWeight())

	assert.False(t, table.AdjustCapacity("missing", 1))
}

func TestValidateDropsUnknownKinds(t *testing.T) {
	table := NewSpawnTable(nil)
	table.AddKind("a", 2, 5)
	table.AddKind("ghost", 3, 9)
	table.AddKind("b", 1, 4)

	removed := table.Validate(func(kind string) bool { return kind != "ghost" })
	require.True(t, removed)
	assert.Equal(t, []string{"a", "b"}, table.Kinds())
	assert.Equal(t, 3, table.TotalCount())
	assert.Equal(t, 9, table.AvailableWeight())
	c, ok := table.Capacity("b")
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	assert.False(t, table.Validate(nil))
}

func TestCloneIsIndependent(t *testing.T) {
	table := NewSpawnTable(nil)
	table.AddKind("a", 2, 5)
	clone := table.Clone()
	clone.AdjustCapacity("a", -2)

	c, _ := table.Capacity("a")
	assert.Equal(t, 2, c)
	assert.True(t, table.HasCapacity())
	assert.False(t, clone.HasCapacity())
}

func TestThreeDrawsExhaustSingleKind(t *testing.T) {
	table := NewSpawnTable(nil)
	table.AddKind("copmidsize", 3, 1)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 3; i++ {
		kind, ok := table.DrawRandomAvailable(rng)
		require.True(t, ok)
		require.True(t, table.AdjustCapacity(kind, -1))
	}
	assert.False(t, table.HasCapacity())
}

func TestTwoKindsExhaustAfterThreeDraws(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		table := NewSpawnTable(nil)
		require.True(t, table.AddKind("A", 2, 50))
		require.True(t, table.AddKind("B", 1, 50))
		rng := rand.New(rand.NewSource(seed))

		drawn := map[string]int{}
		for i := 0; i < 3; i++ {
			require.True(t, table.HasCapacity(), "seed %d draw %d", seed, i)
			kind, ok := table.DrawRandomAvailable(rng)
			require.True(t, ok, "seed %d draw %d", seed, i)
			require.True(t, table.AdjustCapacity(kind, -1))
			drawn[kind]++
		}
		assert.Equal(t, map[string]int{"A": 2, "B": 1}, drawn, "seed %d", seed)
		assert.False(t, table.HasCapacity(), "seed %d", seed)
		_, ok := table.DrawRandomAvailable(rng)
		assert.False(t, ok)
	}
}

func TestNilRandStillVaries(t *testing.T) {
	table := NewSpawnTable(nil)
	table.AddKind("a", 1, 1)
	table.AddKind("b", 1, 1)
	seen := map[string]bool{}
	for i := 0; i < 200 && len(seen) < 2; i++ {
		kind, ok := table.DrawRandomAvailable(nil)
		require.True(t, ok)
		seen[kind] = true
	}
	assert.Len(t, seen, 2)
}

func TestAvailableWeightProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("available weight is the chance sum of kinds with capacity", prop.ForAll(
		func(counts []int, deltas []int) bool {
			table := NewSpawnTable(nil)
			kinds := []string{"a", "b", "c", "d"}
			for i, n := range counts {
				if i >= len(kinds) {
					break
				}
				table.AddKind(kinds[i], n, i+1)
			}
			for i, d := range deltas {
				table.AdjustCapacity(kinds[i%len(kinds)], d)
			}
			want := 0
			for _, e := range table.Entries() {
				if e.Capacity < 0 || e.Capacity > e.Count {
					return false
				}
				if e.Capacity > 0 {
					want += e.Chance
				}
			}
			return table.AvailableWeight() == want && table.HasCapacity() == (want > 0)
		},
		gen.SliceOfN(4, gen.IntRange(1, 5)),
		gen.SliceOf(gen.IntRange(-4, 4)),
	))

	properties.TestingRun(t)
}
