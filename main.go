package main

import (
	"flag"
	"log/slog"
	"os"

	"PursuitOverhaul/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/app.json", "path to app config JSON")
	addr := flag.String("addr", "", "override address to listen on (e.g., 127.0.0.1:8080)")
	tuningPath := flag.String("tuning", "", "override tuning YAML file or directory")
	journalPath := flag.String("journal", "", "override pursuit journal sqlite path")
	logLevel := flag.String("log-level", "", "override log level (debug, info, warn, error)")
	flag.Parse()

	var overrides server.AppOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			overrides.Addr = addr
		case "tuning":
			overrides.TuningPath = tuningPath
		case "journal":
			overrides.JournalPath = journalPath
		case "log-level":
			overrides.LogLevel = logLevel
		}
	})

	boot := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := server.LoadAppConfig(*configPath, server.DefaultAppConfig())
	if err != nil {
		boot.Warn("app config unusable, using defaults", "err", err)
	}
	cfg = server.ApplyOverrides(cfg, overrides)

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	if err := server.StartApp(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
