package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/zenithlabs/zenith/internal/config"
	"github.com/zenithlabs/zenith/internal/habits"
	"github.com/zenithlabs/zenith/internal/memory"
	"github.com/zenithlabs/zenith/internal/mentor"
	"github.com/zenithlabs/zenith/internal/models"
	"github.com/zenithlabs/zenith/internal/profile"
	"github.com/zenithlabs/zenith/internal/tasks"
)

// loadConfig reads the config file named by the --config flag, falling
// back to defaults when no file exists yet.
func loadConfig(cmd *cli.Command) *config.Config {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Debug("config not found, using defaults", "path", configPath, "error", err)
		return config.Default()
	}
	return cfg
}

// dataStores bundles the stores backed by the shared database file.
type dataStores struct {
	db       *sql.DB
	Tasks    *tasks.SQLiteStore
	Habits   *habits.SQLiteStore
	Memories *memory.SQLiteStore
}

func (d *dataStores) Close() error { return d.db.Close() }

// openStores opens the shared SQLite database and ensures all schemas.
func openStores(cfg *config.Config) (*dataStores, error) {
	if err := os.MkdirAll(config.ZenithPath(), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY

	taskStore, err := tasks.NewSQLiteStoreFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	habitStore, err := habits.NewSQLiteStoreFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	memStore, err := memory.NewSQLiteStoreFromDB(db, cfg.Memory.MaxEntries)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &dataStores{
		db:       db,
		Tasks:    taskStore,
		Habits:   habitStore,
		Memories: memStore,
	}, nil
}

// buildMentor assembles the mentor from the default model, the user
// profile, and the memory bank. A persona configured in the config file
// overrides the profile's custom persona.
func buildMentor(ctx context.Context, cfg *config.Config, memories memory.Store) (*mentor.Mentor, *profile.Profile, error) {
	p, err := profile.Load(config.ProfilePath())
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	if cfg.Mentor.Persona != "" {
		p.CustomPersona = cfg.Mentor.Persona
	}

	registry := models.NewRegistry(cfg.Models)
	chatModel, err := registry.Default(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init default model: %w", err)
	}

	return mentor.New(chatModel, p, memories, slog.Default()), p, nil
}
