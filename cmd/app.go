package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Tiliavir/timeprojec/internal/config"
	"github.com/Tiliavir/timeprojec/internal/feature"
	"github.com/Tiliavir/timeprojec/internal/storage"
	"github.com/Tiliavir/timeprojec/internal/tracker"
)

// app bundles the state every command works on.
type app struct {
	cfg   config.Config
	kv    storage.Backend
	tiers feature.Stored
	store *tracker.Store
	svc   *tracker.Service
	prefs *tracker.Preferences
}

// newApp opens the configured backend and rehydrates the store. A corrupt
// backing file is reported and replaced by an empty one.
func newApp(cfg config.Config) (*app, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		base, err := storage.BaseDir()
		if err != nil {
			return nil, err
		}
		dir = base
	}

	var kv storage.Backend
	var err error
	if cfg.Storage.Backend == storage.BackendPostgres {
		kv, err = storage.OpenPostgres(context.Background(), cfg.Storage.DSN)
	} else {
		kv, err = storage.Open(cfg.Storage.Backend, dir)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrCorrupt) {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	tiers := feature.Stored{KV: kv}
	store := tracker.New(kv, tiers, tracker.Options{})
	prefs := tracker.NewPreferences(kv)
	return &app{
		cfg:   cfg,
		kv:    kv,
		tiers: tiers,
		store: store,
		svc:   tracker.NewService(store, tiers, prefs),
		prefs: prefs,
	}, nil
}

// openApp loads the configuration and storage, exiting with code 2 when
// either is unusable.
func openApp() *app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return a
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing storage: %v\n", err)
	}
}

// userError prints err and exits with code 1.
func userError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
