package environment

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Catalog serves the environments configured in catapult.toml
type Catalog struct {
	environments []*models.Environment
}

// NewCatalog builds the environment catalog, deriving one account per configured private key
func NewCatalog(cfg *config.RuntimeConfig) (*Catalog, error) {
	envs := make([]*models.Environment, 0, len(cfg.Environments))
	for _, ec := range cfg.Environments {
		accounts := make([]*models.Account, 0, len(ec.PrivateKeys))
		for i, key := range ec.PrivateKeys {
			account, err := models.NewAccount(key, fmt.Sprintf("Account #%d", i))
			if err != nil {
				return nil, fmt.Errorf("environment %s: private key %d: %w", ec.ID, i, err)
			}
			accounts = append(accounts, account)
		}

		envs = append(envs, &models.Environment{
			ID:       ec.ID,
			Name:     ec.Name,
			RPCURL:   ec.RPCURL,
			ChainID:  ec.ChainID,
			Accounts: accounts,
		})
	}
	return &Catalog{environments: envs}, nil
}

// ListEnvironments returns every configured environment in id order
func (c *Catalog) ListEnvironments(ctx context.Context) ([]*models.Environment, error) {
	return lo.Map(c.environments, func(env *models.Environment, _ int) *models.Environment {
		return clone(env)
	}), nil
}

// GetEnvironment returns the environment with the given id
func (c *Catalog) GetEnvironment(ctx context.Context, id string) (*models.Environment, error) {
	env, ok := lo.Find(c.environments, func(env *models.Environment) bool { return env.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEnvironmentNotFound, id)
	}
	return clone(env), nil
}

// clone copies the environment so callers never share the catalog's account slice
func clone(env *models.Environment) *models.Environment {
	cp := *env
	cp.Accounts = append([]*models.Account(nil), env.Accounts...)
	return &cp
}

// Ensure Catalog implements EnvironmentCatalog
var _ usecase.EnvironmentCatalog = (*Catalog)(nil)
