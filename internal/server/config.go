package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"PursuitOverhaul/internal/game"
)

type appConfigFile struct {
	Addr         *string           `json:"addr"`
	TuningPath   *string           `json:"tuningPath"`
	JournalPath  *string           `json:"journalPath"`
	LogLevel     *string           `json:"logLevel"`
	VehicleKinds []string          `json:"vehicleKinds"`
	CallSites    map[string]string `json:"callSites"` // "0x02": "pursuer"
}

// AppConfig is the resolved application configuration.
type AppConfig struct {
	Addr         string
	TuningPath   string // tuning file or directory of *.yaml
	JournalPath  string // sqlite file; empty disables the journal
	LogLevel     string
	VehicleKinds []string          // known vehicle kinds; empty accepts any
	CallSites    map[uint32]string // call site to label name, merged over the defaults
}

// AppOverrides represents optional command-line overrides.
type AppOverrides struct {
	Addr        *string
	TuningPath  *string
	JournalPath *string
	LogLevel    *string
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Addr:        ":8080",
		TuningPath:  "configs/tuning.yaml",
		JournalPath: "",
		LogLevel:    "info",
	}
}

func (o AppOverrides) apply(base AppConfig) AppConfig {
	if o.Addr != nil {
		base.Addr = *o.Addr
	}
	if o.TuningPath != nil {
		base.TuningPath = *o.TuningPath
	}
	if o.JournalPath != nil {
		base.JournalPath = *o.JournalPath
	}
	if o.LogLevel != nil {
		base.LogLevel = *o.LogLevel
	}
	return SanitizeAppConfig(base)
}

func mergeAppConfig(base AppConfig, cfg appConfigFile) (AppConfig, error) {
	if cfg.Addr != nil {
		base.Addr = *cfg.Addr
	}
	if cfg.TuningPath != nil {
		base.TuningPath = *cfg.TuningPath
	}
	if cfg.JournalPath != nil {
		base.JournalPath = *cfg.JournalPath
	}
	if cfg.LogLevel != nil {
		base.LogLevel = *cfg.LogLevel
	}
	if len(cfg.VehicleKinds) > 0 {
		base.VehicleKinds = append([]string(nil), cfg.VehicleKinds...)
	}
	if len(cfg.CallSites) > 0 {
		sites := make(map[uint32]string, len(cfg.CallSites))
		for raw, label := range cfg.CallSites {
			site, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 32)
			if err != nil {
				return base, fmt.Errorf("call site %q: %w", raw, err)
			}
			if _, ok := game.ParseLabel(label); !ok {
				return base, fmt.Errorf("call site %q: unknown label %q", raw, label)
			}
			sites[uint32(site)] = label
		}
		base.CallSites = sites
	}
	return SanitizeAppConfig(base), nil
}

// LoadAppConfig merges the JSON file at path over base. A missing file
// leaves base unchanged.
func LoadAppConfig(path string, base AppConfig) (AppConfig, error) {
	if path == "" {
		return SanitizeAppConfig(base), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return SanitizeAppConfig(base), nil
		}
		return SanitizeAppConfig(base), fmt.Errorf("read app config %q: %w", cleanPath, err)
	}
	var cfg appConfigFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SanitizeAppConfig(base), fmt.Errorf("parse app config %q: %w", cleanPath, err)
	}
	merged, err := mergeAppConfig(base, cfg)
	if err != nil {
		return SanitizeAppConfig(base), fmt.Errorf("app config %q: %w", cleanPath, err)
	}
	return merged, nil
}

// ApplyOverrides layers command-line values over cfg.
func ApplyOverrides(cfg AppConfig, overrides AppOverrides) AppConfig {
	return overrides.apply(cfg)
}

// SanitizeAppConfig fills empty fields with defaults.
func SanitizeAppConfig(cfg AppConfig) AppConfig {
	def := DefaultAppConfig()
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	cfg.TuningPath = strings.TrimSpace(cfg.TuningPath)
	if cfg.TuningPath == "" {
		cfg.TuningPath = def.TuningPath
	}
	cfg.JournalPath = strings.TrimSpace(cfg.JournalPath)
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		cfg.LogLevel = def.LogLevel
	}
	kinds := cfg.VehicleKinds[:0:0]
	for _, k := range cfg.VehicleKinds {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	cfg.VehicleKinds = kinds
	return cfg
}

// Level returns the configured log level.
func (c AppConfig) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Classifier returns the default classifier with the configured call sites
// layered on top.
func (c AppConfig) Classifier() game.Classifier {
	cls := game.DefaultClassifier()
	for site, name := range c.CallSites {
		if label, ok := game.ParseLabel(name); ok {
			cls[game.CallSite(site)] = label
		}
	}
	return cls
}

// KindFilter reports whether a vehicle kind is known. It is nil when no
// kinds are configured.
func (c AppConfig) KindFilter() func(string) bool {
	if len(c.VehicleKinds) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(c.VehicleKinds))
	for _, k := range c.VehicleKinds {
		known[k] = struct{}{}
	}
	return func(kind string) bool {
		_, ok := known[kind]
		return ok
	}
}
