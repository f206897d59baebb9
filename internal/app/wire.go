//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/logging"
	"github.com/trebuchet-org/catapult/internal/state"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// InitApp creates a fully wired App instance.
// The returned cleanup releases the RPC clients held by the deployer.
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Session state
		state.NewStore,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewStartSession,
		usecase.NewLoadContracts,
		usecase.NewSelectEnvironment,
		usecase.NewSelectAccount,
		usecase.NewSelectContract,
		usecase.NewSelectDeployed,
		usecase.NewEditConstructorInputs,
		usecase.NewDeployContract,
		usecase.NewProbeEnvironment,
		usecase.NewListEnvironments,

		// App
		NewApp,
	)
	return nil, nil, nil
}
