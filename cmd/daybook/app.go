package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warp/daybook/api"
	"github.com/warp/daybook/config"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/ledger/store"
	"github.com/warp/daybook/session"
	"github.com/warp/daybook/store/sqlite"
	"go.uber.org/zap"
)

// openStore builds the configured backend. The returned close func is
// never nil.
func openStore(sc config.StoreConfig, log *zap.Logger) (ledger.Store, func() error, error) {
	switch sc.Backend {
	case "sqlite":
		if dir := filepath.Dir(sc.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		st, err := sqlite.New(sc.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using sqlite store", zap.String("path", sc.Path))
		return st, st.Close, nil
	default:
		log.Info("using in-memory store")
		return store.NewMemory(), func() error { return nil }, nil
	}
}

// startupScenario resolves what the calendar starts from: a built-in
// scenario by name, the explicit seed fields, or an empty calendar. The
// configured rates and month always win over the scenario's.
func startupScenario(cfg *config.Config, h *api.Handler) (*factory.Scenario, error) {
	rates, err := cfg.LedgerRates()
	if err != nil {
		return nil, err
	}

	sc := &factory.Scenario{
		ID:      "empty",
		Name:    "Empty calendar",
		Mode:    session.ModeWork,
		DayType: ledger.KindRest,
	}
	switch {
	case !cfg.Seed.Enabled:
	case cfg.Seed.Scenario != "":
		preset, err := h.Preset(cfg.Seed.Scenario)
		if err != nil {
			return nil, err
		}
		copied := *preset
		sc = &copied
	default:
		plan, err := cfg.SeedPlan()
		if err != nil {
			return nil, err
		}
		sc.ID, sc.Name = "config", "Configured seed"
		sc.Seed = &plan
	}

	sc.Rates = rates
	if cur, ok := cfg.Cursor(); ok {
		sc.Cursor = cur
	}
	return sc, nil
}

// bootstrap opens the store and loads the startup scenario into a new
// handler. A store that already holds days, or that recorded a seed or a
// clear, is resumed rather than reset.
func bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger) (*api.Handler, func() error, error) {
	st, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		return nil, nil, err
	}

	h, err := api.NewHandler(api.Options{Store: st, Logger: log})
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	sc, err := startupScenario(cfg, h)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	existing, err := st.Load(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	_, tracked, err := st.SeedState(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	if len(existing) > 0 || tracked {
		err = h.Restore(ctx, sc)
	} else {
		err = h.Apply(ctx, sc)
	}
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return h, closeStore, nil
}
