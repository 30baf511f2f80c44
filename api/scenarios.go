/*
scenarios.go - Scenario loading

PURPOSE:
  A scenario is a starting point for the calendar: mode, day type,
  displayed month, rates and an optional seed. Built-in scenarios are the
  factory presets; the server also applies one at startup from config.

AVAILABLE SCENARIOS:
  empty:     no marked days, default rates
  reference: days since 2025-03-17 with the recorded days off and payments,
             through today
  sundays:   March 2025 with every Sunday off

HOW SCENARIOS WORK:
 1. Clear the store
 2. Build a new session from the scenario's options
 3. Seed the ledger, if the scenario has a seed

  Restore skips step 1 and only fills seed days that are still unset, so
  a durable store survives restarts.

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "reference"}

NOTE:
  Loading a scenario discards every marked day.

SEE ALSO:
  - factory/scenario.go: JSON scenario definitions
  - handlers.go: Handler
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/warp/daybook/factory"
	"go.uber.org/zap"
)

var errUnknownScenario = errors.New("unknown scenario")

// Preset returns a built-in scenario by ID.
func (h *Handler) Preset(id string) (*factory.Scenario, error) {
	for _, p := range h.presets {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", errUnknownScenario, id)
}

// Apply resets the calendar to sc.
func (h *Handler) Apply(ctx context.Context, sc *factory.Scenario) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.apply(ctx, sc)
}

func (h *Handler) apply(ctx context.Context, sc *factory.Scenario) error {
	h.current = ""
	h.sess = h.newSession(sc.Options())
	if err := h.sess.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}

	if sc.Seed != nil {
		if _, err := h.sess.Seed(ctx, *sc.Seed); err != nil {
			return fmt.Errorf("failed to seed scenario %s: %w", sc.ID, err)
		}
	}

	h.current = sc.ID
	h.log.Info("scenario loaded", zap.String("scenario", sc.ID))
	return nil
}

// Restore resumes sc over a store that already holds days: the session
// takes the scenario's options and only unset seed days are filled in.
func (h *Handler) Restore(ctx context.Context, sc *factory.Scenario) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sess = h.newSession(sc.Options())
	if sc.Seed != nil {
		if _, err := h.sess.Resume(ctx, *sc.Seed); err != nil {
			return fmt.Errorf("failed to resume scenario %s: %w", sc.ID, err)
		}
	}
	h.current = sc.ID
	h.log.Info("scenario resumed", zap.String("scenario", sc.ID))
	return nil
}

// Current returns the ID of the loaded scenario, or "".
func (h *Handler) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dtos := make([]ScenarioDTO, len(h.presets))
	for i, p := range h.presets {
		dtos[i] = ScenarioDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Current:     p.ID == h.current,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario loads a built-in scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sc, err := h.Preset(req.ScenarioID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.apply(r.Context(), sc); err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": sc.ID})
}
