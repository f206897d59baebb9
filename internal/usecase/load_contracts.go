package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
)

// LoadContracts refreshes the compiled contract set from the build artifacts
type LoadContracts struct {
	store  *state.Store
	loader ArtifactLoader
	log    *slog.Logger
}

// NewLoadContracts creates a new LoadContracts use case
func NewLoadContracts(store *state.Store, loader ArtifactLoader, log *slog.Logger) *LoadContracts {
	return &LoadContracts{
		store:  store,
		loader: loader,
		log:    log.With("component", "LoadContracts"),
	}
}

// Run replaces the compiled contracts. The selection survives when a contract with
// the same name is still present; it then points at the new artifact.
func (uc *LoadContracts) Run(ctx context.Context) ([]*models.CompiledContract, error) {
	contracts, err := uc.loader.LoadContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}
	if contracts == nil {
		contracts = []*models.CompiledContract{}
	}

	err = uc.store.Update(func(tx *state.Tx) error {
		uc.store.Contracts.Write(tx, contracts)

		current := uc.store.SelectedContract.Read(tx)
		var next *models.CompiledContract
		if current != nil {
			next, _ = lo.Find(contracts, func(c *models.CompiledContract) bool { return c.Name == current.Name })
		}
		if next != current {
			uc.store.SelectedContract.Write(tx, next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug("contracts loaded", "count", len(contracts))
	return contracts, nil
}
