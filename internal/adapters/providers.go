package adapters

import (
	"log/slog"
	"os"

	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/adapters/artifacts"
	"github.com/trebuchet-org/catapult/internal/adapters/blockchain"
	"github.com/trebuchet-org/catapult/internal/adapters/environment"
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/adapters/progress"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ProvideDeployer provides the go-ethereum deployer and closes its cached clients on cleanup
func ProvideDeployer(cfg *config.RuntimeConfig, log *slog.Logger) (*blockchain.Deployer, func()) {
	deployer := blockchain.NewDeployer(cfg, log)
	return deployer, deployer.Close
}

// ProvideStatusSink provides the terminal status sink.
// Structured output keeps stdout clean, so status goes to stderr without animation.
func ProvideStatusSink(cfg *config.RuntimeConfig) *progress.TerminalSink {
	if cfg.Format != "" && cfg.Format != "text" {
		return progress.NewTerminalSink(os.Stderr, false)
	}
	return progress.NewTerminalSink(os.Stdout, !cfg.NonInteractive)
}

// ArtifactsSet provides compiled contract loading
var ArtifactsSet = wire.NewSet(
	artifacts.NewLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Loader)),
)

// EnvironmentSet provides the configured environments
var EnvironmentSet = wire.NewSet(
	environment.NewCatalog,
	wire.Bind(new(usecase.EnvironmentCatalog), new(*environment.Catalog)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	ProvideDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),

	blockchain.NewChecker,
	wire.Bind(new(usecase.EnvironmentProber), new(*blockchain.Checker)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Selector), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides the status sink
var ProgressSet = wire.NewSet(
	ProvideStatusSink,
	wire.Bind(new(usecase.StatusSink), new(*progress.TerminalSink)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ArtifactsSet,
	EnvironmentSet,
	BlockchainSet,
	InteractiveSet,
	ProgressSet,
)
