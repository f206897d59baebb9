package app

import (
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/state"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Store    *state.Store
	Selector usecase.Selector
	Sink     usecase.StatusSink

	// Use cases
	StartSession          *usecase.StartSession
	LoadContracts         *usecase.LoadContracts
	SelectEnvironment     *usecase.SelectEnvironment
	SelectAccount         *usecase.SelectAccount
	SelectContract        *usecase.SelectContract
	SelectDeployed        *usecase.SelectDeployed
	EditConstructorInputs *usecase.EditConstructorInputs
	DeployContract        *usecase.DeployContract
	ProbeEnvironment      *usecase.ProbeEnvironment
	ListEnvironments      *usecase.ListEnvironments
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	store *state.Store,
	selector usecase.Selector,
	sink usecase.StatusSink,
	startSession *usecase.StartSession,
	loadContracts *usecase.LoadContracts,
	selectEnvironment *usecase.SelectEnvironment,
	selectAccount *usecase.SelectAccount,
	selectContract *usecase.SelectContract,
	selectDeployed *usecase.SelectDeployed,
	editConstructorInputs *usecase.EditConstructorInputs,
	deployContract *usecase.DeployContract,
	probeEnvironment *usecase.ProbeEnvironment,
	listEnvironments *usecase.ListEnvironments,
) *App {
	return &App{
		Config:                cfg,
		Log:                   log,
		Store:                 store,
		Selector:              selector,
		Sink:                  sink,
		StartSession:          startSession,
		LoadContracts:         loadContracts,
		SelectEnvironment:     selectEnvironment,
		SelectAccount:         selectAccount,
		SelectContract:        selectContract,
		SelectDeployed:        selectDeployed,
		EditConstructorInputs: editConstructorInputs,
		DeployContract:        deployContract,
		ProbeEnvironment:      probeEnvironment,
		ListEnvironments:      listEnvironments,
	}
}
