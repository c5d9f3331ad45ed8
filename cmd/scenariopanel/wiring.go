package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jask/scenariopanel/internal/catalog"
	"github.com/jask/scenariopanel/internal/config"
	"github.com/jask/scenariopanel/internal/database"
	"github.com/jask/scenariopanel/internal/panel"
	"github.com/jask/scenariopanel/internal/scenario"
	"github.com/jask/scenariopanel/internal/store"
)

// newLogger builds the process logger. When toFile is set, output goes to cfg.Log.Path
// because the terminal belongs to the TUI.
func newLogger(cfg config.Config, toFile bool) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Log.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if !toFile {
		w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		return zerolog.Nop(), nil, errors.Wrap(err, "mkdir log dir")
	}
	f, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrapf(err, "open log %s", cfg.Log.Path)
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f, nil
}

// openStore returns the configured backend and a cleanup func.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemory(), func() {}, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "mkdir db dir")
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrap(err, "migrate")
		}
		return store.NewSQLite(db), func() { _ = db.Close() }, nil
	case config.BackendRedis:
		r, err := store.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	default:
		return store.NewFile(cfg.Store.FilePath), func() {}, nil
	}
}

// openPanel wires store, repository and catalog, then runs the one-time slot scan.
func openPanel(ctx context.Context, cfg config.Config, log zerolog.Logger) (*panel.Panel, func(), error) {
	s, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	p := panel.New(catalog.ForVariant(cfg.Catalog.Variant), scenario.NewKVRepository(s), log)
	if err := p.Init(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	log.Debug().Str("backend", cfg.Store.Backend).Str("catalog", cfg.Catalog.Variant).Msg("panel ready")
	return p, cleanup, nil
}
