// Command hexgen generates a hex world map and exports, stores or serves it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/api"
	"github.com/talgya/hexworld/internal/config"
	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/export"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

func main() {
	configPath := flag.String("config", config.EnvOrDefault("HEXGEN_CONFIG", ""), "YAML generation parameters")
	seed := flag.Int64("seed", 0, "random seed (0 = use config, else draw one)")
	out := flag.String("out", "", "export path; a .zst suffix compresses")
	dbPath := flag.String("db", "", "SQLite database to store the world in")
	serve := flag.String("serve", "", "address to serve the HTTP API on, e.g. :8080")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, *seed, *out, *dbPath, *serve); err != nil {
		slog.Error("hexgen failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, out, dbPath, serve string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		rng := entropy.NewClient(os.Getenv("HEXGEN_RANDOM_ORG_KEY"))
		cfg.Seed = rng.Seed()
		slog.Info("drew random seed", "seed", cfg.Seed, "random_org", rng.Enabled())
	}

	slog.Info("generating world",
		"size", cfg.Size,
		"hexes", humanize.Comma(int64(cfg.Size*cfg.Size)),
		"map_type", cfg.MapType,
		"seed", cfg.Seed,
	)
	m, err := world.Generate(cfg)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	var doc *export.Document
	if out != "" || dbPath != "" {
		doc, err = export.Build(m)
		if err != nil {
			return err
		}
	}

	if out != "" {
		if err := export.WriteFile(out, doc); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}

	var db *persistence.DB
	if dbPath != "" {
		db, err = persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Info("database opened", "path", dbPath)
		if err := db.SaveWorld(doc); err != nil {
			return fmt.Errorf("save world: %w", err)
		}
	}

	if serve == "" {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(m, db)
	if err := srv.ListenAndServe(ctx, serve); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("shutdown complete")
	return nil
}
