package game

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func newTable(entries ...SpawnEntry) *SpawnTable {
	t := NewSpawnTable(nil)
	for _, e := range entries {
		t.AddKind(e.Kind, e.Count, e.Chance)
	}
	return t
}

func TestContingentAddRemoveRestoresCapacity(t *testing.T) {
	src := newTable(SpawnEntry{Kind: "a", Count: 2, Chance: 1})
	c := NewContingent("test", src, nil)

	c.Add("a")
	c.Add("a")
	if c.HasCapacity() {
		t.Fatal("expected no capacity with two active")
	}
	if !c.Remove("a") {
		t.Fatal("expected remove to succeed")
	}
	if got, _ := c.Table().Capacity("a"); got != 1 {
		t.Fatalf("expected capacity 1, got %d", got)
	}
	if c.Remove("b") {
		t.Fatal("remove of inactive kind should report false")
	}
	if got, _ := src.Capacity("a"); got != 2 {
		t.Fatalf("source table mutated: capacity %d", got)
	}
}

func TestContingentRebaseOnShrink(t *testing.T) {
	c := NewContingent("test", newTable(SpawnEntry{Kind: "a", Count: 3, Chance: 1}), nil)
	c.Add("a")
	c.Add("a")
	c.Add("a")

	c.UpdateSpawnTable(newTable(SpawnEntry{Kind: "a", Count: 1, Chance: 1}, SpawnEntry{Kind: "b", Count: 1, Chance: 1}))
	assert.Equal(t, 3, c.ActiveCountOf("a"))
	assert.Equal(t, 2, c.Excess("a"))
	got, _ := c.Table().Capacity("a")
	assert.Equal(t, 0, got)

	c.Remove("a")
	c.Remove("a")
	got, _ = c.Table().Capacity("a")
	assert.Equal(t, 0, got, "still at the new limit")
	c.Remove("a")
	got, _ = c.Table().Capacity("a")
	assert.Equal(t, 1, got)
}

func TestContingentExcessForDroppedKind(t *testing.T) {
	c := NewContingent("test", newTable(SpawnEntry{Kind: "a", Count: 2, Chance: 1}), nil)
	c.Add("a")
	c.UpdateSpawnTable(newTable(SpawnEntry{Kind: "b", Count: 2, Chance: 1}))
	assert.Equal(t, 1, c.Excess("a"))
	assert.True(t, c.HasCapacity())
}

func TestContingentClear(t *testing.T) {
	c := NewContingent("test", newTable(SpawnEntry{Kind: "a", Count: 1, Chance: 1}), nil)
	c.Add("a")
	c.Clear()
	assert.Equal(t, 0, c.ActiveCount())
	assert.True(t, c.HasCapacity())
}

func TestContingentNilSource(t *testing.T) {
	c := NewContingent("test", nil, nil)
	assert.True(t, c.Source().IsEmpty())
	_, ok := c.DrawRandomAvailable(nil)
	assert.False(t, ok)
}

func TestContingentCapacityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("capacity is max(0, count - active) for every kind", prop.ForAll(
		func(count int, ops []bool, shrinkTo int) bool {
			c := NewContingent("prop", newTable(SpawnEntry{Kind: "a", Count: count, Chance: 1}), nil)
			for _, add := range ops {
				if add {
					c.Add("a")
				} else if c.ActiveCountOf("a") > 0 {
					c.Remove("a")
				}
			}
			check := func(limit int) bool {
				got, _ := c.Table().Capacity("a")
				return got == max(0, limit-c.ActiveCountOf("a"))
			}
			if !check(count) {
				return false
			}
			c.UpdateSpawnTable(newTable(SpawnEntry{Kind: "a", Count: shrinkTo, Chance: 1}))
			return check(shrinkTo)
		},
		gen.IntRange(1, 6),
		gen.SliceOf(gen.Bool()),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
