package usecase

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// probeConcurrency bounds the number of nodes probed at once
const probeConcurrency = 8

// EnvironmentStatus is a configured environment with its probe outcome
type EnvironmentStatus struct {
	Environment *models.Environment
	Error       error
}

// ListEnvironmentsResult contains the result of listing environments
type ListEnvironmentsResult struct {
	Environments []EnvironmentStatus
	Current      string
}

// ListEnvironments is a use case for listing configured environments with their liveness
type ListEnvironments struct {
	catalog EnvironmentCatalog
	prober  EnvironmentProber
	current string
	log     *slog.Logger
}

// NewListEnvironments creates a new ListEnvironments use case
func NewListEnvironments(catalog EnvironmentCatalog, prober EnvironmentProber, cfg *config.RuntimeConfig, log *slog.Logger) *ListEnvironments {
	return &ListEnvironments{
		catalog: catalog,
		prober:  prober,
		current: cfg.Environment,
		log:     log.With("component", "ListEnvironments"),
	}
}

// Run lists every environment, probing the nodes concurrently
func (uc *ListEnvironments) Run(ctx context.Context) (*ListEnvironmentsResult, error) {
	envs, err := uc.catalog.ListEnvironments(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]EnvironmentStatus, len(envs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for i, env := range envs {
		g.Go(func() error {
			alive, err := uc.prober.Probe(gctx, env)
			if err != nil {
				uc.log.Debug("environment probe failed", "env", env.ID, "error", err)
			}
			statuses[i] = EnvironmentStatus{Environment: env.WithAlive(alive && err == nil), Error: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListEnvironmentsResult{
		Environments: statuses,
		Current:      uc.current,
	}, nil
}
