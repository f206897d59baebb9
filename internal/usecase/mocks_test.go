package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const (
	anvilKey0 = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	anvilKey1 = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

	anvilAddress0 = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	anvilAddress1 = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

// MockContractDeployer is a mock implementation of ContractDeployer
type MockContractDeployer struct {
	mock.Mock
}

func (m *MockContractDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.PendingDeployment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PendingDeployment), args.Error(1)
}

func (m *MockContractDeployer) WaitDeployed(ctx context.Context, pending *usecase.PendingDeployment) (*usecase.DeployReceipt, error) {
	args := m.Called(ctx, pending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeployReceipt), args.Error(1)
}

// MockEnvironmentCatalog is a mock implementation of EnvironmentCatalog
type MockEnvironmentCatalog struct {
	mock.Mock
}

func (m *MockEnvironmentCatalog) ListEnvironments(ctx context.Context) ([]*models.Environment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Environment), args.Error(1)
}

func (m *MockEnvironmentCatalog) GetEnvironment(ctx context.Context, id string) (*models.Environment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Environment), args.Error(1)
}

// MockEnvironmentProber is a mock implementation of EnvironmentProber
type MockEnvironmentProber struct {
	mock.Mock
}

func (m *MockEnvironmentProber) Probe(ctx context.Context, env *models.Environment) (bool, error) {
	args := m.Called(ctx, env)
	return args.Bool(0), args.Error(1)
}

// MockArtifactLoader is a mock implementation of ArtifactLoader
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) LoadContracts(ctx context.Context) ([]*models.CompiledContract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CompiledContract), args.Error(1)
}

// RecordingSink records every status event in order
type RecordingSink struct {
	mu            sync.Mutex
	logs          []domain.LogEntry
	statuses      []domain.Status
	notifications []string
}

func (s *RecordingSink) Log(entry domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

func (s *RecordingSink) StatusChanged(status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *RecordingSink) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, message)
}

func (s *RecordingSink) Logs() []domain.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LogEntry{}, s.logs...)
}

func (s *RecordingSink) Statuses() []domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Status{}, s.statuses...)
}

func (s *RecordingSink) Notifications() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.notifications...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAccount(t *testing.T, key, label string) *models.Account {
	t.Helper()
	account, err := models.NewAccount(key, label)
	require.NoError(t, err)
	return account
}

func testEnvironment(t *testing.T, id string) *models.Environment {
	t.Helper()
	return &models.Environment{
		ID:      id,
		Name:    "Local Anvil",
		RPCURL:  "http://127.0.0.1:8545",
		ChainID: 31337,
		Alive:   true,
		Accounts: []*models.Account{
			testAccount(t, anvilKey0, "anvil #0"),
			testAccount(t, anvilKey1, "anvil #1"),
		},
	}
}

func testContract(name string, params ...string) *models.CompiledContract {
	inputs := make([]models.ABIParam, len(params))
	for i, typ := range params {
		inputs[i] = models.ABIParam{Name: "arg", Type: typ}
	}
	return &models.CompiledContract{
		Name: name,
		ABI: []models.ABIElement{
			{Type: models.ABIConstructor, Inputs: inputs, StateMutability: "nonpayable"},
			{Type: models.ABIFunction, Name: "value", Outputs: []models.ABIParam{{Type: "uint256"}}, StateMutability: "view"},
		},
		Bytecode: "0x600a600c600039600a6000f3602a60005260206000f3",
	}
}

// writeCounter counts every cell notification of a store
type writeCounter struct {
	mu    sync.Mutex
	count int
}

func (w *writeCounter) inc() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.count++
}

func (w *writeCounter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func countWrites(store *state.Store) *writeCounter {
	w := &writeCounter{}
	store.Environment.Subscribe(func(*models.Environment) { w.inc() })
	store.Accounts.Subscribe(func([]*models.Account) { w.inc() })
	store.SelectedAccount.Subscribe(func(*models.Account) { w.inc() })
	store.Contracts.Subscribe(func([]*models.CompiledContract) { w.inc() })
	store.SelectedContract.Subscribe(func(*models.CompiledContract) { w.inc() })
	store.ConstructorInputs().Subscribe(func([]string) { w.inc() })
	store.DeployedContracts().Subscribe(func([]*models.DeployedContract) { w.inc() })
	store.SelectedDeployed.Subscribe(func(*models.DeployedContract) { w.inc() })
	store.Transactions().Subscribe(func([]*models.Transaction) { w.inc() })
	store.ActiveTab.Subscribe(func(models.Tab) { w.inc() })
	return w
}
