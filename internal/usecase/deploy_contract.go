package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
)

// DeployAttempt tracks the state machine of a single deploy
type DeployAttempt struct {
	Contract string
	State    domain.DeployState
	History  []domain.DeployState
}

func newDeployAttempt(contract *models.CompiledContract) DeployAttempt {
	attempt := DeployAttempt{State: domain.DeployIdle, History: []domain.DeployState{domain.DeployIdle}}
	if contract != nil {
		attempt.Contract = contract.Name
	}
	return attempt
}

func (a *DeployAttempt) transition(next domain.DeployState) {
	if a.State.Terminal() {
		return
	}
	a.State = next
	a.History = append(a.History, next)
}

// DeployContractResult contains the outcome of a deploy attempt
type DeployContractResult struct {
	Attempt     DeployAttempt
	Deployed    *models.DeployedContract
	Transaction *models.Transaction
	Payload     *models.TxPayload // redacted, as logged
}

// DeployContract deploys the selected contract with the selected account and
// publishes the result to the store
type DeployContract struct {
	store    *state.Store
	deployer ContractDeployer
	sink     StatusSink
	cfg      *config.RuntimeConfig
	log      *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
	now      func() time.Time
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	store *state.Store,
	deployer ContractDeployer,
	sink StatusSink,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		store:    store,
		deployer: deployer,
		sink:     sink,
		cfg:      cfg,
		log:      log.With("component", "DeployContract"),
		inFlight: make(map[string]struct{}),
		now:      time.Now,
	}
}

// Run executes one deploy attempt against the current store state.
// The returned result is non-nil even when err is set.
func (uc *DeployContract) Run(ctx context.Context) (*DeployContractResult, error) {
	snap := uc.store.Snapshot()
	contract, account := snap.SelectedContract, snap.SelectedAccount

	result := &DeployContractResult{Attempt: newDeployAttempt(contract)}
	result.Attempt.transition(domain.DeployValidating)

	if err := CanDeploy(contract, account); err != nil {
		uc.sink.Notify(preconditionMessage(err))
		result.Attempt.transition(domain.DeployFailed)
		return result, err
	}

	if !uc.acquire(contract.Name) {
		err := fmt.Errorf("%w: %s", domain.ErrDeployInProgress, contract.Name)
		uc.sink.Log(domain.LogEntry{Value: fmt.Sprintf("Error: %v", err), Type: domain.LogTypeError})
		uc.sink.Notify(fmt.Sprintf("Contract %s is already being deployed", contract.Name))
		result.Attempt.transition(domain.DeployFailed)
		return result, err
	}
	defer uc.release(contract.Name)

	result.Attempt.transition(domain.DeployDeploying)
	uc.sink.Log(domain.LogEntry{
		Value: fmt.Sprintf("Deploying contract %s with account %s", contract.Name, account.Address.Hex()),
		Type:  domain.LogTypeInfo,
	})

	req := DeployRequest{
		Environment: snap.Environment,
		Account:     account,
		Contract:    contract,
		Args:        snap.ConstructorInputs,
	}
	if expected := contract.ConstructorParamCount(); len(req.Args) != expected {
		err := domain.NewDeployError(domain.CodeInvalidArgumentCount,
			fmt.Errorf("%w: %d inputs for %d constructor parameters", domain.ErrConstructorArity, len(req.Args), expected))
		return uc.fail(result, contract, err)
	}

	uc.sink.StatusChanged(domain.Status{
		Key:   domain.StatusLoading,
		Type:  domain.StatusTypeInfo,
		Title: fmt.Sprintf("Contract %s is deploying!", contract.Name),
	})

	// The call can't be aborted once issued; timeouts belong to the deployer.
	ctx = context.WithoutCancel(ctx)

	uc.log.Debug("sending deployment", "contract", contract.Name, "account", account.Address.Hex(), "args", len(req.Args))
	pending, err := uc.deployer.Deploy(ctx, req)
	if err != nil {
		return uc.fail(result, contract, err)
	}

	result.Attempt.transition(domain.DeployConfirming)
	receipt, err := uc.deployer.WaitDeployed(ctx, pending)
	if err != nil {
		return uc.fail(result, contract, err)
	}

	uc.sink.StatusChanged(domain.Status{
		Key:   domain.StatusSucceed,
		Type:  domain.StatusTypeSuccess,
		Title: fmt.Sprintf("Contract %s deployed!", contract.Name),
	})

	redacted := receipt.Payload.Redact()
	result.Payload = &redacted
	uc.sink.Log(domain.LogEntry{Value: formatPayload(redacted), Type: domain.LogTypeInfo})

	now := uc.now()
	deployed := &models.DeployedContract{
		CompiledContract: *contract,
		Address:          receipt.Address.Hex(),
		TransactionHash:  receipt.TransactionHash.Hex(),
		EnvironmentID:    environmentID(snap.Environment),
		DeployedAt:       now,
	}
	transaction := &models.Transaction{
		Kind:          models.TransactionKindDeploy,
		TransactionID: receipt.TransactionHash.Hex(),
		Environment:   uc.transactionEnvironment(snap.Environment),
		CreatedAt:     now,
	}

	err = uc.store.Update(func(tx *state.Tx) error {
		uc.store.PublishDeployment(tx, deployed, transaction)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish deployment of %s: %w", contract.Name, err)
	}

	uc.log.Info("contract deployed", "contract", contract.Name, "address", deployed.Address, "tx", deployed.TransactionHash)

	result.Deployed = deployed
	result.Transaction = transaction
	result.Attempt.transition(domain.DeploySucceeded)
	return result, nil
}

// fail reports a failure of the deploy call and leaves the store untouched
func (uc *DeployContract) fail(result *DeployContractResult, contract *models.CompiledContract, err error) (*DeployContractResult, error) {
	code := domain.ErrorCode(err)

	uc.log.Debug("deployment failed", "contract", contract.Name, "code", code, "error", err)
	uc.sink.Log(domain.LogEntry{Value: "Error: " + code, Type: domain.LogTypeError})
	uc.sink.StatusChanged(domain.Status{
		Key:   domain.StatusFailed,
		Type:  domain.StatusTypeError,
		Title: fmt.Sprintf("Contract %s failed to deploy!", contract.Name),
	})
	uc.sink.Notify("Error: " + code)

	result.Attempt.transition(domain.DeployFailed)
	return result, err
}

func (uc *DeployContract) acquire(name string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, busy := uc.inFlight[name]; busy {
		return false
	}
	uc.inFlight[name] = struct{}{}
	return true
}

func (uc *DeployContract) release(name string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inFlight, name)
}

// InFlight reports whether a deploy of the named contract is running
func (uc *DeployContract) InFlight(name string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, busy := uc.inFlight[name]
	return busy
}

func (uc *DeployContract) transactionEnvironment(env *models.Environment) string {
	if uc.cfg != nil && uc.cfg.TagLiveEnvironment && env != nil {
		return env.ID
	}
	return models.TransactionEnvironmentLocal
}

func environmentID(env *models.Environment) string {
	if env == nil {
		return ""
	}
	return env.ID
}

func formatPayload(p models.TxPayload) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Sprintf("%+v", p)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
