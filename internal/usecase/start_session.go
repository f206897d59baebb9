package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// StartSession seeds the store from the runtime configuration
type StartSession struct {
	selectEnvironment *SelectEnvironment
	selectAccount     *SelectAccount
	loadContracts     *LoadContracts
	cfg               *config.RuntimeConfig
	log               *slog.Logger
}

// StartSessionResult is the initial selection of a session
type StartSessionResult struct {
	Environment *models.Environment
	Account     *models.Account
	Contracts   []*models.CompiledContract
}

// NewStartSession creates a new StartSession use case
func NewStartSession(
	selectEnvironment *SelectEnvironment,
	selectAccount *SelectAccount,
	loadContracts *LoadContracts,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *StartSession {
	return &StartSession{
		selectEnvironment: selectEnvironment,
		selectAccount:     selectAccount,
		loadContracts:     loadContracts,
		cfg:               cfg,
		log:               log.With("component", "StartSession"),
	}
}

// Run selects the configured environment and account and loads the compiled contracts.
// Without a configured account the environment's first account is selected.
func (uc *StartSession) Run(ctx context.Context) (*StartSessionResult, error) {
	env, err := uc.selectEnvironment.Run(ctx, uc.cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to select environment: %w", err)
	}

	ref := uc.cfg.Account
	if ref == "" && len(env.Accounts) > 0 {
		ref = "0"
	}
	account, err := uc.selectAccount.Run(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}

	contracts, err := uc.loadContracts.Run(ctx)
	if err != nil {
		return nil, err
	}

	uc.log.Debug("session started", "env", env.ID, "contracts", len(contracts))
	return &StartSessionResult{
		Environment: env,
		Account:     account,
		Contracts:   contracts,
	}, nil
}
