package server

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"

	"PursuitOverhaul/internal/game"
	"PursuitOverhaul/internal/journal"
	"PursuitOverhaul/internal/tuning"
)

// App serves game connections. Every connection gets its own registry
// built from a fresh load of the tuning files.
type App struct {
	cfg        AppConfig
	log        *slog.Logger
	journal    *journal.Journal
	classifier game.Classifier
	valid      func(string) bool
	conns      atomic.Int64
	seed       func() int64
}

// NewApp opens the journal, if configured, and checks that the tuning
// files load.
func NewApp(cfg AppConfig, log *slog.Logger) (*App, error) {
	cfg = SanitizeAppConfig(cfg)
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &App{
		cfg:        cfg,
		log:        log,
		classifier: cfg.Classifier(),
		valid:      cfg.KindFilter(),
		seed:       func() int64 { return time.Now().UnixNano() },
	}
	if _, err := a.loadSettings(); err != nil {
		return nil, err
	}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath, log.With("component", "journal"))
		if err != nil {
			return nil, err
		}
		a.journal = j
	}
	return a, nil
}

func (a *App) loadSettings() (*game.Settings, error) {
	file, err := tuning.Load(a.cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}
	return game.LoadSettings(file, a.valid, a.log.With("component", "settings")), nil
}

func (a *App) newRegistry(settings *game.Settings, g game.Game, log *slog.Logger) *game.Registry {
	opts := game.Options{
		Settings:   settings,
		Game:       g,
		Classifier: a.classifier,
		Rand:       rand.New(rand.NewSource(a.seed())),
		Logger:     log,
	}
	if a.journal != nil {
		opts.Observer = a.journal
	}
	return game.NewRegistry(opts)
}

// Connections is the number of open game connections.
func (a *App) Connections() int64 { return a.conns.Load() }

func (a *App) Close() error {
	if a.journal != nil {
		return a.journal.Close()
	}
	return nil
}

func StartApp(cfg AppConfig, log *slog.Logger) error {
	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	log.Info("starting pursuit server", "addr", app.cfg.Addr, "tuning", app.cfg.TuningPath, "journal", app.cfg.JournalPath)
	srv := &http.Server{
		Addr:              app.cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
