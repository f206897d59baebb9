package usecase

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
)

// SelectEnvironment switches the session to another environment
type SelectEnvironment struct {
	store   *state.Store
	catalog EnvironmentCatalog
	log     *slog.Logger
}

// NewSelectEnvironment creates a new SelectEnvironment use case
func NewSelectEnvironment(store *state.Store, catalog EnvironmentCatalog, log *slog.Logger) *SelectEnvironment {
	return &SelectEnvironment{
		store:   store,
		catalog: catalog,
		log:     log.With("component", "SelectEnvironment"),
	}
}

// Run selects the environment with the given id. The available accounts are replaced
// by the environment's accounts and the selected account is cleared in the same batch.
func (uc *SelectEnvironment) Run(ctx context.Context, id string) (*models.Environment, error) {
	env, err := uc.catalog.GetEnvironment(ctx, id)
	if err != nil {
		return nil, err
	}

	err = uc.store.Update(func(tx *state.Tx) error {
		uc.store.Environment.Write(tx, env)
		uc.store.Accounts.Write(tx, append([]*models.Account{}, env.Accounts...))
		uc.store.SelectedAccount.Write(tx, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug("environment selected", "env", env.ID, "accounts", len(env.Accounts))
	return env, nil
}
