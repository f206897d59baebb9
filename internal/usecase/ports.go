package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// ArtifactLoader provides access to compiled contracts
type ArtifactLoader interface {
	LoadContracts(ctx context.Context) ([]*models.CompiledContract, error)
}

// EnvironmentCatalog resolves the configured environments and their accounts
type EnvironmentCatalog interface {
	ListEnvironments(ctx context.Context) ([]*models.Environment, error)
	GetEnvironment(ctx context.Context, id string) (*models.Environment, error)
}

// EnvironmentProber checks whether an environment's node answers
type EnvironmentProber interface {
	Probe(ctx context.Context, env *models.Environment) (bool, error)
}

// DeployRequest is everything needed to send a contract creation transaction
type DeployRequest struct {
	Environment *models.Environment
	Account     *models.Account
	Contract    *models.CompiledContract
	Args        []string // positional constructor arguments
}

// PendingDeployment is a creation transaction that has been sent but not mined
type PendingDeployment struct {
	Environment *models.Environment
	Address     common.Address
	Transaction *types.Transaction
	Payload     models.TxPayload
}

// DeployReceipt is the confirmed outcome of a deployment
type DeployReceipt struct {
	Address         common.Address
	TransactionHash common.Hash
	Payload         models.TxPayload
}

// ContractDeployer performs the external deploy call.
// Failures carry a *domain.DeployError with the classification code.
type ContractDeployer interface {
	Deploy(ctx context.Context, req DeployRequest) (*PendingDeployment, error)
	WaitDeployed(ctx context.Context, pending *PendingDeployment) (*DeployReceipt, error)
}

// StatusSink receives user facing status events. Calls are fire-and-forget.
type StatusSink interface {
	Log(entry domain.LogEntry)
	StatusChanged(status domain.Status)
	Notify(message string)
}

// Selector is used for interactive choices in the session
type Selector interface {
	SelectEnvironment(envs []*models.Environment, current string) (*models.Environment, error)
	SelectAccount(accounts []*models.Account) (*models.Account, error)
	SelectContract(contracts []*models.CompiledContract) (*models.CompiledContract, error)
	SelectDeployed(deployed []*models.DeployedContract) (*models.DeployedContract, error)
	PromptConstructorInputs(contract *models.CompiledContract, current []string) ([]string, error)
}
