package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PursuitOverhaul/internal/tier"
)

const sample = `
"Chasers:Limits":
  default: 4
  heat03: 6
"Chasers:Heat01":
  copsuv: [2, 40]
  copmidsize: [4, 60]
"Helicopter:Spawn":
  default: [true, 30.5, 60]
  race01: [false]
`

func TestParsePreservesOrder(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"Chasers:Limits", "Chasers:Heat01", "Helicopter:Spawn"}, f.Sections())

	entries := f.Entries("Chasers:Heat01")
	require.Len(t, entries, 2)
	assert.Equal(t, "copsuv", entries[0].Key)
	assert.Equal(t, tier.Row{2, 40}, entries[0].Row)
	assert.Equal(t, "copmidsize", entries[1].Key)
}

func TestParseScalarsAndSequences(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	row, ok := f.Lookup("Chasers:Limits", "default")
	require.True(t, ok)
	assert.Equal(t, tier.Row{4}, row)

	row, ok = f.Lookup("Helicopter:Spawn", "default")
	require.True(t, ok)
	assert.Equal(t, tier.Row{true, 30.5, 60}, row)

	_, ok = f.Lookup("Helicopter:Spawn", "heat01")
	assert.False(t, ok)
	_, ok = f.Lookup("Missing", "default")
	assert.False(t, ok)
}

func TestParseFeedsTierLoaders(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	limits := tier.NewTiered(0)
	require.True(t, tier.Load(limits, f, "Chasers:Limits", tier.DefaultFormat, tier.Int(0), nil))
	assert.Equal(t, 6, limits.At(tier.Roam, 3))
	assert.Equal(t, 4, limits.At(tier.Race, 9))

	spawn := &tier.OptionalInterval[float64]{}
	require.True(t, tier.LoadOptionalInterval(spawn, f, "Helicopter:Spawn", tier.DefaultFormat, tier.Float, nil))
	lo, hi, on := spawn.Current()
	assert.True(t, on)
	assert.Equal(t, 30.5, lo)
	assert.Equal(t, 60.0, hi)
}

func TestParseRejectsBadShapes(t *testing.T) {
	for name, doc := range map[string]string{
		"top level list": "- a\n- b\n",
		"section scalar": "\"Chasers:Limits\": 4\n",
		"nested row":     "\"S\":\n  k: [[1, 2]]\n",
		"mapping row":    "\"S\":\n  k: {a: 1}\n",
		"malformed yaml": "\"S\": [\n",
	} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadDirectoryOverridesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("10-base.yaml", "\"Chasers:Limits\":\n  default: 4\n  heat02: 5\n")
	write("20-event.yml", "\"Chasers:Limits\":\n  default: 9\n")
	write("notes.txt", "not yaml: [")

	f, err := Load(dir)
	require.NoError(t, err)

	row, _ := f.Lookup("Chasers:Limits", "default")
	assert.Equal(t, tier.Row{9}, row)
	row, _ = f.Lookup("Chasers:Limits", "heat02")
	assert.Equal(t, tier.Row{5}, row)

	entries := f.Entries("Chasers:Limits")
	assert.Equal(t, "default", entries[0].Key, "override keeps the original position")
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEntriesReturnsCopy(t *testing.T) {
	f := New()
	f.Set("S", "a", tier.Row{1})
	entries := f.Entries("S")
	entries[0].Key = "changed"
	assert.Equal(t, "a", f.Entries("S")[0].Key)
}
