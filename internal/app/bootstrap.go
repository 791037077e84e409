// Package app wires configuration, catalog, rules, engine and the layout
// store for the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine"
	"github.com/DrSkyle/stowage/pkg/engine/policy"
	"github.com/DrSkyle/stowage/pkg/layout"
	"github.com/DrSkyle/stowage/pkg/storage"
)

// WorkingLayout holds the station between command invocations.
const WorkingLayout = "current"

// App is a ready engine plus the store its station is persisted in.
type App struct {
	Config  config.Config
	Engine  *engine.Engine
	Layouts *layout.Store
}

// Open builds the engine from cfg and restores the working station.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.Default()

	cat, err := loadCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithConfig(engine.ConfigFrom(cfg)),
		engine.WithCatalog(cat),
	}
	if cfg.RulesFile != "" {
		rules, err := policy.LoadFile(cfg.RulesFile, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		opts = append(opts, engine.WithRules(rules))
	}

	eng, err := engine.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	blobs, err := storage.Open(ctx, cfg.LayoutStore)
	if err != nil {
		_ = eng.Close(ctx)
		return nil, fmt.Errorf("failed to open layout store: %w", err)
	}

	a := &App{Config: cfg, Engine: eng, Layouts: layout.NewStore(blobs)}
	if err := a.restore(ctx); err != nil {
		_ = eng.Close(ctx)
		return nil, err
	}
	return a, nil
}

func loadCatalog(cfg config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(logger)
	}
	cat, err := catalog.LoadFile(cfg.CatalogPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.CatalogPath, err)
	}
	return cat, nil
}

func (a *App) restore(ctx context.Context) error {
	l, err := a.Layouts.Get(ctx, WorkingLayout)
	if errors.Is(err, layout.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read working station: %w", err)
	}
	// Sunlight stays with the config so flags keep working.
	return layout.Load(a.Engine.Station, l)
}

// Use replaces the station with l and adopts its sunlight.
func (a *App) Use(l layout.Layout) error {
	if err := layout.Load(a.Engine.Station, l); err != nil {
		return err
	}
	if l.Sunlight > 0 {
		s := a.Engine.Settings()
		s.Station.Sunlight = l.Sunlight
		a.Engine.SetSettings(s)
	}
	return nil
}

// Snapshot is the current station as a layout named name.
func (a *App) Snapshot(name string) layout.Layout {
	return layout.FromSnapshot(name, a.Engine.Station.Snapshot(), a.Engine.Settings().Station.Sunlight)
}

// Persist writes the station back as the working layout.
func (a *App) Persist(ctx context.Context) error {
	if err := a.Layouts.Save(ctx, a.Snapshot(WorkingLayout)); err != nil {
		return fmt.Errorf("failed to save working station: %w", err)
	}
	return nil
}

// Close flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	return a.Engine.Close(ctx)
}
