package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PursuitOverhaul/internal/game"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppConfigMergesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.json", `{
  "addr": ":9000",
  "journalPath": " pursuits.db ",
  "logLevel": "debug",
  "vehicleKinds": ["copmidsize", " ", "copsuv"],
  "callSites": {"0x10": "pursuer", "17": "Roadblock"}
}`)
	cfg, err := LoadAppConfig(path, DefaultAppConfig())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "configs/tuning.yaml", cfg.TuningPath)
	assert.Equal(t, "pursuits.db", cfg.JournalPath)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, []string{"copmidsize", "copsuv"}, cfg.VehicleKinds)
	assert.Equal(t, map[uint32]string{0x10: "pursuer", 17: "Roadblock"}, cfg.CallSites)

	cls := cfg.Classifier()
	label, ok := cls.Classify(0x10)
	assert.True(t, ok)
	assert.Equal(t, game.LabelPursuer, label)
	label, _ = cls.Classify(17)
	assert.Equal(t, game.LabelRoadblock, label)
	label, _ = cls.Classify(game.CallSiteHeavy)
	assert.Equal(t, game.LabelHeavySupport, label, "defaults stay in place")

	valid := cfg.KindFilter()
	require.NotNil(t, valid)
	assert.True(t, valid("copsuv"))
	assert.False(t, valid("copghost"))
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.json"), DefaultAppConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig().Addr, cfg.Addr)
	assert.Nil(t, cfg.KindFilter())
}

func TestLoadAppConfigRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"syntax.json": `{"addr": `,
		"site.json":   `{"callSites": {"twelve": "pursuer"}}`,
		"label.json":  `{"callSites": {"0x02": "tank"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadAppConfig(writeFile(t, dir, name, body), DefaultAppConfig())
			assert.Error(t, err)
			assert.Equal(t, DefaultAppConfig().Addr, cfg.Addr)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	addr, level, empty := ":7000", "warn", ""
	cfg := ApplyOverrides(DefaultAppConfig(), AppOverrides{Addr: &addr, LogLevel: &level, TuningPath: &empty})
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, "configs/tuning.yaml", cfg.TuningPath, "empty override falls back to the default")
}

func TestSanitizeAppConfigResetsBadLogLevel(t *testing.T) {
	cfg := SanitizeAppConfig(AppConfig{LogLevel: "loud"})
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr)
}
