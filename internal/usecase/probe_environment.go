package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/state"
)

// ProbeEnvironment keeps the liveness flag of the selected environment current
type ProbeEnvironment struct {
	store  *state.Store
	prober EnvironmentProber
	log    *slog.Logger
}

// NewProbeEnvironment creates a new ProbeEnvironment use case
func NewProbeEnvironment(store *state.Store, prober EnvironmentProber, log *slog.Logger) *ProbeEnvironment {
	return &ProbeEnvironment{
		store:  store,
		prober: prober,
		log:    log.With("component", "ProbeEnvironment"),
	}
}

// Run probes the selected environment once and records the result.
// A failed probe counts as not alive.
func (uc *ProbeEnvironment) Run(ctx context.Context) (bool, error) {
	env := uc.store.Environment.Get()
	if env == nil {
		return false, domain.ErrNoEnvironment
	}

	alive, err := uc.prober.Probe(ctx, env)
	if err != nil {
		uc.log.Debug("environment probe failed", "env", env.ID, "error", err)
		alive = false
	}

	err = uc.store.Update(func(tx *state.Tx) error {
		current := uc.store.Environment.Read(tx)
		// environment switched while probing, or nothing changed
		if current == nil || current.ID != env.ID || current.Alive == alive {
			return nil
		}
		uc.store.Environment.Write(tx, current.WithAlive(alive))
		return nil
	})
	if err != nil {
		return false, err
	}
	return alive, nil
}

// Watch probes every interval until ctx is done
func (uc *ProbeEnvironment) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := uc.Run(ctx); err != nil {
			uc.log.Debug("liveness watch", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
