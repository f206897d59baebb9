package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

var (
	deployedAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	deployTxHash    = common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")
)

type deployFixture struct {
	store    *state.Store
	env      *models.Environment
	account  *models.Account
	contract *models.CompiledContract
	deployer *MockContractDeployer
	sink     *RecordingSink
	cfg      *config.RuntimeConfig
}

func newDeployFixture(t *testing.T, withContract, withAccount bool) *deployFixture {
	t.Helper()

	env := testEnvironment(t, "local")
	f := &deployFixture{
		store:    state.NewStore(),
		env:      env,
		account:  env.Accounts[0],
		contract: testContract("Token", "uint256"),
		deployer: new(MockContractDeployer),
		sink:     &RecordingSink{},
		cfg:      &config.RuntimeConfig{Environment: env.ID},
	}

	require.NoError(t, f.store.Update(func(tx *state.Tx) error {
		f.store.Environment.Write(tx, env)
		f.store.Accounts.Write(tx, env.Accounts)
		f.store.Contracts.Write(tx, []*models.CompiledContract{f.contract})
		if withAccount {
			f.store.SelectedAccount.Write(tx, f.account)
		}
		if withContract {
			f.store.SelectedContract.Write(tx, f.contract)
		}
		return nil
	}))
	if withContract {
		require.NoError(t, f.store.SetConstructorInputs([]string{"42"}))
	}
	return f
}

func (f *deployFixture) useCase() *usecase.DeployContract {
	return usecase.NewDeployContract(f.store, f.deployer, f.sink, f.cfg, testLogger())
}

func (f *deployFixture) pending() *usecase.PendingDeployment {
	return &usecase.PendingDeployment{Environment: f.env, Address: deployedAddress}
}

func (f *deployFixture) receipt() *usecase.DeployReceipt {
	return &usecase.DeployReceipt{
		Address:         deployedAddress,
		TransactionHash: deployTxHash,
		Payload: models.TxPayload{
			Type:     2,
			Hash:     deployTxHash.Hex(),
			From:     anvilAddress0,
			Nonce:    0,
			GasLimit: 120000,
			Value:    "0",
			ChainID:  31337,
			Data:     "abcdefghi",
			CustomData: &models.CustomData{
				GasPerPubdata: "50000",
				FactoryDeps:   json.RawMessage(`["0x0102030405"]`),
			},
		},
	}
}

func matchRequest(f *deployFixture, args []string) interface{} {
	return mock.MatchedBy(func(req usecase.DeployRequest) bool {
		return req.Contract == f.contract &&
			req.Account == f.account &&
			req.Environment == f.env &&
			assert.ObjectsAreEqual(args, req.Args)
	})
}

func TestCanDeploy(t *testing.T) {
	account := testAccount(t, anvilKey0, "anvil #0")
	contract := testContract("Token")

	assert.NoError(t, usecase.CanDeploy(contract, account))
	assert.ErrorIs(t, usecase.CanDeploy(nil, account), domain.ErrMissingContract)
	assert.ErrorIs(t, usecase.CanDeploy(contract, nil), domain.ErrMissingAccount)
	assert.ErrorIs(t, usecase.CanDeploy(nil, nil), domain.ErrMissingContract)
}

func TestDeployContract(t *testing.T) {
	ctx := context.Background()

	t.Run("missing preconditions", func(t *testing.T) {
		tests := []struct {
			name         string
			withContract bool
			withAccount  bool
			wantErr      error
			wantNotice   string
		}{
			{name: "no contract", withContract: false, withAccount: true, wantErr: domain.ErrMissingContract, wantNotice: "No contract selected"},
			{name: "no account", withContract: true, withAccount: false, wantErr: domain.ErrMissingAccount, wantNotice: "No account selected"},
			{name: "neither", withContract: false, withAccount: false, wantErr: domain.ErrMissingContract, wantNotice: "No contract selected"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newDeployFixture(t, tt.withContract, tt.withAccount)
				writes := countWrites(f.store)

				result, err := f.useCase().Run(ctx)

				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, []string{tt.wantNotice}, f.sink.Notifications())
				assert.Empty(t, f.sink.Logs())
				assert.Empty(t, f.sink.Statuses())
				assert.Zero(t, writes.Count())
				assert.Equal(t, domain.DeployFailed, result.Attempt.State)
				assert.Equal(t, []domain.DeployState{domain.DeployIdle, domain.DeployValidating, domain.DeployFailed}, result.Attempt.History)
				f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("successful deployment", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		pending := f.pending()
		f.deployer.On("Deploy", mock.Anything, matchRequest(f, []string{"42"})).Return(pending, nil)
		f.deployer.On("WaitDeployed", mock.Anything, pending).Return(f.receipt(), nil)

		// every effect must be visible from the first notification on
		var observed struct {
			selected *models.DeployedContract
			tab      models.Tab
			txs      int
		}
		f.store.DeployedContracts().Subscribe(func([]*models.DeployedContract) {
			observed.selected = f.store.SelectedDeployed.Get()
			observed.tab = f.store.ActiveTab.Get()
			observed.txs = len(f.store.Transactions().Get())
		})

		result, err := f.useCase().Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, domain.DeploySucceeded, result.Attempt.State)
		assert.Equal(t, []domain.DeployState{
			domain.DeployIdle,
			domain.DeployValidating,
			domain.DeployDeploying,
			domain.DeployConfirming,
			domain.DeploySucceeded,
		}, result.Attempt.History)

		deployed := f.store.DeployedContracts().Get()
		require.Len(t, deployed, 1)
		assert.Equal(t, "Token", deployed[0].Name)
		assert.Equal(t, deployedAddress.Hex(), deployed[0].Address)
		assert.Equal(t, deployTxHash.Hex(), deployed[0].TransactionHash)
		assert.Equal(t, "local", deployed[0].EnvironmentID)
		assert.Equal(t, f.contract.ABI, deployed[0].ABI)
		assert.Same(t, deployed[0], f.store.SelectedDeployed.Get())
		assert.Equal(t, models.TabInteraction, f.store.ActiveTab.Get())

		txs := f.store.Transactions().Get()
		require.Len(t, txs, 1)
		assert.Equal(t, models.TransactionKindDeploy, txs[0].Kind)
		assert.Equal(t, deployTxHash.Hex(), txs[0].TransactionID)
		assert.Equal(t, "local", txs[0].Environment)

		assert.Same(t, deployed[0], observed.selected)
		assert.Equal(t, models.TabInteraction, observed.tab)
		assert.Equal(t, 1, observed.txs)

		assert.Equal(t, []domain.Status{
			{Key: domain.StatusLoading, Type: domain.StatusTypeInfo, Title: "Contract Token is deploying!"},
			{Key: domain.StatusSucceed, Type: domain.StatusTypeSuccess, Title: "Contract Token deployed!"},
		}, f.sink.Statuses())
		assert.Empty(t, f.sink.Notifications())

		logs := f.sink.Logs()
		require.Len(t, logs, 2)
		assert.Equal(t, domain.LogEntry{
			Value: "Deploying contract Token with account " + anvilAddress0,
			Type:  domain.LogTypeInfo,
		}, logs[0])
		assert.Equal(t, domain.LogTypeInfo, logs[1].Type)
		assert.Contains(t, logs[1].Value, `"data": "abc..."`)
		assert.Contains(t, logs[1].Value, `"factoryDeps": "[ <...> ]"`)
		assert.Contains(t, logs[1].Value, `"gasPerPubdata": "50000"`)

		require.NotNil(t, result.Payload)
		assert.Equal(t, "abc...", result.Payload.Data)
		f.deployer.AssertExpectations(t)
	})

	t.Run("newest deployment comes first", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		second := common.HexToHash("0x01")
		pending := f.pending()
		f.deployer.On("Deploy", mock.Anything, mock.Anything).Return(pending, nil)
		f.deployer.On("WaitDeployed", mock.Anything, pending).Return(f.receipt(), nil).Once()
		f.deployer.On("WaitDeployed", mock.Anything, pending).Return(&usecase.DeployReceipt{
			Address:         common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
			TransactionHash: second,
			Payload:         models.TxPayload{Data: "0x6080"},
		}, nil).Once()

		uc := f.useCase()
		_, err := uc.Run(ctx)
		require.NoError(t, err)
		_, err = uc.Run(ctx)
		require.NoError(t, err)

		deployed := f.store.DeployedContracts().Get()
		require.Len(t, deployed, 2)
		assert.Equal(t, "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512", deployed[0].Address)
		assert.Same(t, deployed[0], f.store.SelectedDeployed.Get())

		txs := f.store.Transactions().Get()
		require.Len(t, txs, 2)
		assert.Equal(t, second.Hex(), txs[0].TransactionID)
		assert.Equal(t, deployTxHash.Hex(), txs[1].TransactionID)
	})

	t.Run("deploy call failure", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		f.deployer.On("Deploy", mock.Anything, mock.Anything).
			Return(nil, domain.NewDeployError(domain.CodeInsufficientFunds, errors.New("insufficient funds for gas * price + value")))
		writes := countWrites(f.store)

		result, err := f.useCase().Run(ctx)

		require.Error(t, err)
		assert.Equal(t, domain.CodeInsufficientFunds, domain.ErrorCode(err))
		assert.Equal(t, domain.DeployFailed, result.Attempt.State)
		assert.Equal(t, []domain.DeployState{
			domain.DeployIdle,
			domain.DeployValidating,
			domain.DeployDeploying,
			domain.DeployFailed,
		}, result.Attempt.History)

		assert.Zero(t, writes.Count())
		assert.Empty(t, f.store.DeployedContracts().Get())
		assert.Empty(t, f.store.Transactions().Get())
		assert.Nil(t, f.store.SelectedDeployed.Get())
		assert.Equal(t, models.TabDeployment, f.store.ActiveTab.Get())

		logs := f.sink.Logs()
		require.Len(t, logs, 2)
		assert.Equal(t, domain.LogEntry{Value: "Error: INSUFFICIENT_FUNDS", Type: domain.LogTypeError}, logs[1])
		assert.Equal(t, []domain.Status{
			{Key: domain.StatusLoading, Type: domain.StatusTypeInfo, Title: "Contract Token is deploying!"},
			{Key: domain.StatusFailed, Type: domain.StatusTypeError, Title: "Contract Token failed to deploy!"},
		}, f.sink.Statuses())
		assert.Equal(t, []string{"Error: INSUFFICIENT_FUNDS"}, f.sink.Notifications())
		f.deployer.AssertNotCalled(t, "WaitDeployed", mock.Anything, mock.Anything)
	})

	t.Run("confirmation failure", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		pending := f.pending()
		f.deployer.On("Deploy", mock.Anything, mock.Anything).Return(pending, nil)
		f.deployer.On("WaitDeployed", mock.Anything, pending).
			Return(nil, domain.NewDeployError(domain.CodeTimeout, context.DeadlineExceeded))

		result, err := f.useCase().Run(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, []domain.DeployState{
			domain.DeployIdle,
			domain.DeployValidating,
			domain.DeployDeploying,
			domain.DeployConfirming,
			domain.DeployFailed,
		}, result.Attempt.History)
		assert.Equal(t, []string{"Error: TIMEOUT"}, f.sink.Notifications())
		assert.Empty(t, f.store.DeployedContracts().Get())
		assert.Equal(t, models.TabDeployment, f.store.ActiveTab.Get())
	})

	t.Run("unclassified errors are reported as unknown", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		f.deployer.On("Deploy", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		_, err := f.useCase().Run(ctx)

		require.Error(t, err)
		assert.Equal(t, []string{"Error: UNKNOWN_ERROR"}, f.sink.Notifications())
	})

	t.Run("argument count mismatch never reaches the deployer", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		// the artifact changed under the selection
		f.contract.ABI[0].Inputs = append(f.contract.ABI[0].Inputs, models.ABIParam{Name: "owner", Type: "address"})

		result, err := f.useCase().Run(ctx)

		assert.ErrorIs(t, err, domain.ErrConstructorArity)
		assert.Equal(t, domain.CodeInvalidArgumentCount, domain.ErrorCode(err))
		assert.Equal(t, domain.DeployFailed, result.Attempt.State)
		assert.Equal(t, []string{"Error: INVALID_ARGUMENT_COUNT"}, f.sink.Notifications())
		assert.Equal(t, []domain.Status{
			{Key: domain.StatusFailed, Type: domain.StatusTypeError, Title: "Contract Token failed to deploy!"},
		}, f.sink.Statuses())
		f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
	})

	t.Run("caller cancellation does not reach the deployer", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		pending := f.pending()
		live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
		f.deployer.On("Deploy", live, mock.Anything).Return(pending, nil)
		f.deployer.On("WaitDeployed", live, pending).Return(f.receipt(), nil)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.useCase().Run(cancelled)
		require.NoError(t, err)
		assert.Len(t, f.store.DeployedContracts().Get(), 1)
	})

	t.Run("live environment tagging", func(t *testing.T) {
		f := newDeployFixture(t, true, true)
		f.cfg.TagLiveEnvironment = true
		pending := f.pending()
		f.deployer.On("Deploy", mock.Anything, mock.Anything).Return(pending, nil)
		f.deployer.On("WaitDeployed", mock.Anything, pending).Return(f.receipt(), nil)

		result, err := f.useCase().Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, f.env.ID, result.Transaction.Environment)
	})
}

// blockingDeployer holds every Deploy call until released
type blockingDeployer struct {
	started chan string
	release chan struct{}
}

func (d *blockingDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.PendingDeployment, error) {
	d.started <- req.Contract.Name
	<-d.release
	return &usecase.PendingDeployment{Environment: req.Environment, Address: common.BytesToAddress([]byte(req.Contract.Name))}, nil
}

func (d *blockingDeployer) WaitDeployed(ctx context.Context, pending *usecase.PendingDeployment) (*usecase.DeployReceipt, error) {
	return &usecase.DeployReceipt{
		Address:         pending.Address,
		TransactionHash: common.BytesToHash(pending.Address.Bytes()),
		Payload:         models.TxPayload{Data: "0x6080604052"},
	}, nil
}

func TestDeployContractSingleFlight(t *testing.T) {
	ctx := context.Background()
	f := newDeployFixture(t, true, true)
	vault := testContract("Vault")
	f.store.Contracts.Set([]*models.CompiledContract{f.contract, vault})

	deployer := &blockingDeployer{started: make(chan string), release: make(chan struct{})}
	uc := usecase.NewDeployContract(f.store, deployer, f.sink, f.cfg, testLogger())

	first := make(chan error, 1)
	go func() {
		_, err := uc.Run(ctx)
		first <- err
	}()
	require.Equal(t, "Token", <-deployer.started)
	assert.True(t, uc.InFlight("Token"))

	// same contract is rejected
	result, err := uc.Run(ctx)
	assert.ErrorIs(t, err, domain.ErrDeployInProgress)
	assert.Equal(t, domain.DeployFailed, result.Attempt.State)
	assert.Equal(t, []string{"Contract Token is already being deployed"}, f.sink.Notifications())

	errorLogs := 0
	for _, entry := range f.sink.Logs() {
		if entry.Type == domain.LogTypeError {
			errorLogs++
		}
	}
	assert.Equal(t, 1, errorLogs)

	// a different contract may deploy alongside
	f.store.SelectedContract.Set(vault)
	second := make(chan error, 1)
	go func() {
		_, err := uc.Run(ctx)
		second <- err
	}()
	require.Equal(t, "Vault", <-deployer.started)

	close(deployer.release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	assert.False(t, uc.InFlight("Token"))
	assert.Len(t, f.store.DeployedContracts().Get(), 2)
	assert.Len(t, f.store.Transactions().Get(), 2)
}
